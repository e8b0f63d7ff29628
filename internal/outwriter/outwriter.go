// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteOnset prints an onset table and its fits using the configured output format.
func (ow *OutWriter) WriteOnset(table *schema.OnsetTable, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteOnsetResults(w, table, cfg, duration)
	}, "Wrote "+string(cfg.Output)+" onset table")
}

// WriteSummary prints the supplementary analyses using the configured output format.
func (ow *OutWriter) WriteSummary(report schema.SummaryReport, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSummaryResults(w, report, cfg, duration)
	}, "Wrote "+string(cfg.Output)+" summary")
}
