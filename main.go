// Package main is the entry point of the s1snow CLI.
package main

import (
	"github.com/snowline/s1snow/cmd"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/internal/runstore"
)

func main() {
	defer runstore.CloseStore()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Cannot run s1snow", err)
	}
}
