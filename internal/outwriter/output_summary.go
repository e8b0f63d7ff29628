package outwriter

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/internal/parquet"
	"github.com/snowline/s1snow/schema"
)

// WriteSummaryResults outputs the supplementary analyses, dispatching based on the output format configured.
func WriteSummaryResults(w io.Writer, report schema.SummaryReport, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONSummary(w, report); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVSummary(w, report, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if report.ElevationBins == nil {
			return errors.New("parquet summary output needs the elevation bin series, which requires a DEM")
		}
		if err := parquet.WriteElevationBins(w, report.ElevationBins); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable tables
		if err := writeSummaryTables(w, report, cfg, fmtFloat, intFmt, duration); err != nil {
			return fmt.Errorf("error writing summary table output: %w", err)
		}
	}
	return nil
}

// writeSummaryTables prints one table per analysis present in the report.
func writeSummaryTables(w io.Writer, report schema.SummaryReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if len(report.Hypsometry) > 0 {
		if _, err := fmt.Fprintln(w, "Hypsometry"); err != nil {
			return err
		}
		if err := writeHypsometryTable(w, report.Hypsometry, intFmt); err != nil {
			return err
		}
	}
	if report.ElevationBins != nil {
		title := "Mean backscatter by elevation"
		if report.ElevationBins.Normalized {
			title += " (min-max scaled)"
		}
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
		if err := writeElevationBinTable(w, report.ElevationBins, fmtFloat, intFmt); err != nil {
			return err
		}
	}
	if len(report.Vegetation) > 0 {
		if _, err := fmt.Fprintln(w, "Vegetation classes"); err != nil {
			return err
		}
		if err := writeVegetationTable(w, report.Vegetation, fmtFloat, intFmt); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Summary completed in %v. Bin size: %g m\n", duration, cfg.BinSize); err != nil {
		return err
	}
	return nil
}

func newSummaryTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

func writeHypsometryTable(w io.Writer, bins []schema.HypsometryBin, intFmt string) error {
	total := 0
	for _, b := range bins {
		total += b.Count
	}

	table := newSummaryTable(w, []string{"Lower (m)", "Upper (m)", "Cells", "Share"})
	var data [][]string
	for _, b := range bins {
		share := 0.0
		if total > 0 {
			share = 100 * float64(b.Count) / float64(total)
		}
		data = append(data, []string{
			fmt.Sprintf("%g", b.Lower),
			fmt.Sprintf("%g", b.Upper),
			fmt.Sprintf(intFmt, b.Count),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeElevationBinTable(w io.Writer, series *schema.ElevationBinSeries, fmtFloat func(float64) string, intFmt string) error {
	table := newSummaryTable(w, []string{"Center (m)", "Cells", "Mean", "Min", "Min Date", "Max"})
	var data [][]string
	for b, center := range series.Centers {
		s := summarizeSeries(series.Values[b], series.Times)
		data = append(data, []string{
			fmt.Sprintf("%g", center),
			fmt.Sprintf(intFmt, series.Counts[b]),
			fmtFloat(s.Mean),
			fmtFloat(s.Min),
			formatDate(s.MinTime),
			fmtFloat(s.Max),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeVegetationTable(w io.Writer, summaries []schema.VegetationSummary, fmtFloat func(float64) string, intFmt string) error {
	table := newSummaryTable(w, []string{"Class", "Cells", "Runoff Cells", "Median Runoff DOY", "Mean", "Min Date"})
	var data [][]string
	for _, v := range summaries {
		s := summarizeSeries(v.MeanBackscatter, v.Times)
		data = append(data, []string{
			string(v.Class),
			fmt.Sprintf(intFmt, v.Cells),
			fmt.Sprintf(intFmt, v.RunoffCells),
			fmtFloat(v.MedianRunoffDOY),
			fmtFloat(s.Mean),
			formatDate(s.MinTime),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// seriesSummary condenses a series for one table row. Fields are NaN when
// the series has no valid sample.
type seriesSummary struct {
	Mean    float64
	Min     float64
	Max     float64
	MinTime time.Time
}

func summarizeSeries(values []float64, times []time.Time) seriesSummary {
	s := seriesSummary{Mean: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	sum, n := 0.0, 0
	for i, v := range values {
		if !schema.IsValid(v) {
			continue
		}
		if n == 0 || v < s.Min {
			s.Min = v
			if i < len(times) {
				s.MinTime = times[i]
			}
		}
		if n == 0 || v > s.Max {
			s.Max = v
		}
		sum += v
		n++
	}
	if n > 0 {
		s.Mean = sum / float64(n)
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(contract.DateFormat)
}
