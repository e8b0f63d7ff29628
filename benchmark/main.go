// Package main provides a performance benchmarking tool for the s1snow CLI.
// It generates synthetic scenes of growing size, runs the onset command on each
// several times per tracking backend, treating the first successful run as cold
// and averaging the rest as warm, and writes the timings to CSV.
//
// Prerequisites:
// - s1snow binary installed and available in PATH
//
// Usage: go run benchmark/main.go [scene-dir]
//
//	scene-dir: Directory for the generated scenes (default: a temp dir)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/snowline/s1snow/internal/synth"
)

// BenchmarkResult holds the timings of one scene size and backend.
type BenchmarkResult struct {
	Size     int
	Cells    int
	Backend  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	SceneBase string
	Timeout   time.Duration
	Workers   int
	Runs      int
	Weeks     int
	Sizes     []int
	Backends  []string
}

func main() {
	sceneBase := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "s1snow-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create scene dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		sceneBase = dir
	case 2:
		sceneBase = os.Args[1]
	default:
		fmt.Printf("Usage: %s [scene-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		SceneBase: sceneBase,
		Timeout:   5 * time.Minute,
		Workers:   8,
		Runs:      4,
		Weeks:     30,
		Sizes:     []int{32, 128, 256, 512},
		Backends:  []string{"none", "sqlite"},
	}

	if _, err := exec.LookPath("s1snow"); err != nil {
		fmt.Printf("Prerequisites check failed: s1snow binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks generates each scene and times the onset command on it.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %d weeks, %v timeout, %d workers, %d runs\n",
		len(config.Sizes), config.Weeks, config.Timeout, config.Workers, config.Runs)

	for _, size := range config.Sizes {
		dir := filepath.Join(config.SceneBase, fmt.Sprintf("scene_%d", size))
		fmt.Printf("Generating %dx%d scene in %s\n", size, size, dir)
		scene, err := synth.Write(dir, synth.Options{Size: size, Weeks: config.Weeks, Seed: uint64(size)})
		if err != nil {
			return nil, err
		}

		for _, backend := range config.Backends {
			results = append(results, runBenchmarkSuite(config, scene, size, backend))
		}
	}
	return results, nil
}

// runBenchmarkSuite runs the onset command repeatedly on one scene and backend.
func runBenchmarkSuite(config BenchmarkConfig, scene synth.Scene, size int, backend string) BenchmarkResult {
	fmt.Printf("  onset with %s backend (%d runs)\n", backend, config.Runs)

	args := append([]string{"onset", "--run-backend", backend, "--workers", strconv.Itoa(config.Workers), "--limit", "5"}, scene.Args()...)
	if backend == "sqlite" {
		args = append(args, "--run-db-connect", filepath.Join(scene.Dir, "runs.db"))
	}

	cold, warm := runBenchmark(config, args)

	coldTime := "TIMEOUT"
	if cold > 0 {
		coldTime = fmt.Sprintf("%.3fs", cold)
	}
	warmTime := "TIMEOUT"
	if len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		warmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}

	fmt.Printf("    Cold time: %s, Warm average: %s\n", coldTime, warmTime)
	return BenchmarkResult{
		Size:     size,
		Cells:    scene.Cells,
		Backend:  backend,
		ColdTime: coldTime,
		WarmTime: warmTime,
	}
}

// runBenchmark executes s1snow Runs times and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("s1snow", args...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Onset run completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("s1snow_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"size", "cells", "backend", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		record := []string{strconv.Itoa(r.Size), strconv.Itoa(r.Cells), r.Backend, r.ColdTime, r.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %4dx%-4d %-7s: Cold: %s, Warm: %s\n", r.Size, r.Size, r.Backend, r.ColdTime, r.WarmTime)
	}
}
