package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/internal/parquet"
	"github.com/snowline/s1snow/schema"
)

// WriteOnsetResults outputs an onset table, dispatching based on the output format configured.
// Machine formats carry every retained row; the text table shows at most cfg.ResultLimit rows.
func WriteOnsetResults(w io.Writer, table *schema.OnsetTable, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONOnset(w, table); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVOnset(w, table.Rows(), fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteOnsetTable(w, table.Rows()); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable tables
		if err := writeOnsetTables(w, table, cfg, fmtFloat, intFmt, duration); err != nil {
			return fmt.Errorf("error writing onset table output: %w", err)
		}
	}
	return nil
}

// writeOnsetTables prints the fit table, the row table and a summary footer.
func writeOnsetTables(w io.Writer, table *schema.OnsetTable, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if err := writeFitTable(w, []schema.TrendFit{table.Runoff, table.Ripening}, cfg, fmtFloat, intFmt); err != nil {
		return err
	}
	if err := writeRowTable(w, table.Rows(), cfg, fmtFloat, intFmt); err != nil {
		return err
	}

	shown := min(table.Len(), cfg.ResultLimit)
	if _, err := fmt.Fprintf(w, "Showing %d of %d retained cells (%d considered)\n", shown, table.Len(), table.TotalCells); err != nil {
		return err
	}
	if rejected := formatRejected(table.Rejected); rejected != "" {
		if _, err := fmt.Fprintf(w, "Rejected %d cells: %s\n", table.Rejected.Total(), rejected); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Onset run completed in %v with %d workers. Run backend: %s\n", duration, cfg.Workers, cfg.RunBackend); err != nil {
		return err
	}
	return nil
}

// writeFitTable prints one line per trend model.
func writeFitTable(w io.Writer, fits []schema.TrendFit, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	table.Header([]string{"Target", "Intercept", "Elevation (d/m)", "Heating (d)", "R²", "RMSE (d)", "N", "Rank", "Label"})

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for _, f := range fits {
		data = append(data, []string{
			string(f.Target),
			fmtFloat(f.Intercept),
			strconv.FormatFloat(f.BetaElevation, 'g', 4, 64), // per-meter slopes are tiny
			fmtFloat(f.BetaHeatingIndex),
			fmt.Sprintf("%.3f", f.RSquared),
			fmtFloat(f.RMSE),
			fmt.Sprintf(intFmt, f.N),
			fmt.Sprintf(intFmt, f.Rank),
			fitLabel(f.RSquared, cfg.UseColors),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeRowTable prints the leading rows of the table, fitting optional columns to the width.
func writeRowTable(w io.Writer, rows []schema.OnsetRow, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	layout := getOnsetTableLayout(cfg)
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"#", "Y", "X", "Elevation"}
	if layout.Aspect {
		headers = append(headers, "Aspect", "|Aspect-180|")
	}
	headers = append(headers, "Heating", "Runoff DOY", "Ripening DOY")
	if layout.Predictions {
		headers = append(headers, "Runoff Pred", "Ripening Pred")
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, r := range rows {
		if i >= cfg.ResultLimit {
			break
		}
		row := []string{
			strconv.Itoa(i + 1),
			formatCoord(r.Y),
			formatCoord(r.X),
			fmtFloat(r.Elevation),
		}
		if layout.Aspect {
			row = append(row, fmtFloat(r.Aspect), fmtFloat(r.AspectRescale))
		}
		row = append(
			row,
			fmtFloat(r.HeatingIndex),
			fmt.Sprintf(intFmt, r.RunoffDayOfYear),
			fmt.Sprintf(intFmt, r.RipeningDayOfYear),
		)
		if layout.Predictions {
			row = append(row, fmtFloat(r.RunoffPrediction), fmtFloat(r.RipeningPrediction))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// fitLabel returns the fit label, colored for consoles when enabled.
func fitLabel(rSquared float64, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(rSquared)
	}
	return schema.GetFitLabel(rSquared)
}

// formatRejected lists the non-zero reject counts in check order.
func formatRejected(rejected schema.RejectSummary) string {
	var parts []string
	for _, reason := range schema.AllRejectReasons {
		if n := rejected[reason]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
		}
	}
	return strings.Join(parts, ", ")
}
