package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/snowline/s1snow/schema"
)

// onsetCSVHeader names the columns of an onset table.
var onsetCSVHeader = []string{
	"x",
	"y",
	"elevation",
	"aspect",
	"aspect_rescale",
	"heating_index",
	"runoff_day_of_year",
	"ripening_day_of_year",
	"runoff_prediction",
	"ripening_prediction",
}

// writeJSONOnset writes the full onset report, fits included.
func writeJSONOnset(w io.Writer, table *schema.OnsetTable) error {
	return writeJSON(w, schema.NewOnsetReport(table, 0))
}

// writeCSVOnset writes one CSV record per retained row.
func writeCSVOnset(w io.Writer, rows []schema.OnsetRow, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, onsetCSVHeader, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				formatCoord(r.X),
				formatCoord(r.Y),
				fmtFloat(r.Elevation),
				fmtFloat(r.Aspect),
				fmtFloat(r.AspectRescale),
				fmtFloat(r.HeatingIndex),
				fmt.Sprintf(intFmt, r.RunoffDayOfYear),
				fmt.Sprintf(intFmt, r.RipeningDayOfYear),
				fmtFloat(r.RunoffPrediction),
				fmtFloat(r.RipeningPrediction),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
