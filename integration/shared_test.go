//go:build basic || database

// Package integration runs the s1snow binary end to end.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends need Docker: go test -tags database ./integration
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/snowline/s1snow/internal/parquet"
	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared s1snow binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the s1snow binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "s1snow-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "s1snow")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from project root
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build s1snow: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// runCommand runs the binary with args and returns its stdout.
// HOME points at home so no user config or default database is touched.
func runCommand(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "HOME="+home)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		return stdout.String(), fmt.Errorf("%w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// sceneInputs are the paths of a generated input set.
type sceneInputs struct {
	Backscatter string
	DEM         string
	Aspect      string
	Slope       string
}

// onsetArgs returns the input flags of an onset run.
func (s sceneInputs) onsetArgs() []string {
	return []string{"--backscatter", s.Backscatter, "--dem", s.DEM, "--aspect", s.Aspect, "--slope", s.Slope}
}

func ptr(v float64) *float64 { return &v }

var (
	sceneYs = []float64{46.001, 46.000}
	sceneXs = []float64{11.000, 11.001}
)

// writeScene writes a 2x2 scene with six weekly ascending acquisitions from
// 2021-03-01. The backscatter minimum of cell k falls on week k+1, so runoff
// onset days of year are 67, 74, 81 and 88 in row-major order.
func writeScene(t *testing.T, dir string) sceneInputs {
	t.Helper()
	series := [][]float64{
		{-8, -15, -10, -9, -9, -9},
		{-8, -9, -15, -10, -9, -9},
		{-8, -9, -9, -15, -10, -9},
		{-8, -9, -9, -9, -15, -10},
	}
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)

	var samples []parquet.BackscatterSample
	for week := range 6 {
		for k, values := range series {
			samples = append(samples, parquet.BackscatterSample{
				Time:  start.AddDate(0, 0, 7*week),
				Orbit: "ASCENDING",
				Band:  "gamma0_vv",
				Y:     sceneYs[k/2],
				X:     sceneXs[k%2],
				Value: ptr(values[week]),
			})
		}
	}

	grid := func(values ...float64) []parquet.GridCell {
		cells := make([]parquet.GridCell, len(values))
		for k, v := range values {
			cells[k] = parquet.GridCell{Y: sceneYs[k/2], X: sceneXs[k%2], Value: ptr(v)}
		}
		return cells
	}

	in := sceneInputs{
		Backscatter: filepath.Join(dir, "s1.parquet"),
		DEM:         filepath.Join(dir, "dem.parquet"),
		Aspect:      filepath.Join(dir, "aspect.parquet"),
		Slope:       filepath.Join(dir, "slope.parquet"),
	}
	require.NoError(t, parquet.WriteFile(samples, in.Backscatter))
	require.NoError(t, parquet.WriteFile(grid(1000, 1200, 1400, 1600), in.DEM))
	require.NoError(t, parquet.WriteFile(grid(180, 90, 270, 0), in.Aspect))
	require.NoError(t, parquet.WriteFile(grid(10, 20, 30, 5), in.Slope))
	return in
}
