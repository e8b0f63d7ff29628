package core

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/snowline/s1snow/internal/contract"
)

// formatRange renders the configured time window. Zero bounds are open.
func formatRange(cfg *contract.Config) string {
	start, end := "open", "open"
	if !cfg.StartTime.IsZero() {
		start = cfg.StartTime.Format(contract.DateFormat)
	}
	if !cfg.EndTime.IsZero() {
		end = cfg.EndTime.Format(contract.DateFormat)
	}
	return start + " → " + end
}

// formatBBox renders a bounding box as minx,miny,maxx,maxy.
func formatBBox(b *geom.Bounds) string {
	if b == nil {
		return "full scene"
	}
	return fmt.Sprintf("%g,%g,%g,%g", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

// LogOnsetHeader prints a concise, 2-line header for an onset run.
func LogOnsetHeader(w io.Writer, cfg *contract.Config) {
	// Line 1: input, band and orbit selection
	_, _ = fmt.Fprintf(w, "🛰  Input: %s (Band: %s, Orbit: %s, Ripening: %s)\n",
		filepath.Base(cfg.BackscatterPath), cfg.Band, cfg.Orbit, cfg.RipeningOrbit)

	// Line 2: the time window and area
	_, _ = fmt.Fprintf(w, "📅 Range: %s, BBox: %s\n", formatRange(cfg), formatBBox(cfg.BBox))
}

// LogSummaryHeader prints a header for the summary and plot commands.
func LogSummaryHeader(w io.Writer, cfg *contract.Config) {
	_, _ = fmt.Fprintf(w, "🛰  Input: %s (Band: %s, Orbit: %s)\n",
		filepath.Base(cfg.BackscatterPath), cfg.Band, cfg.Orbit)
	_, _ = fmt.Fprintf(w, "📅 Range: %s, BBox: %s, Bin size: %g m\n", formatRange(cfg), formatBBox(cfg.BBox), cfg.BinSize)
}
