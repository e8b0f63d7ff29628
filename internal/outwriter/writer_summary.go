package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/schema"
)

// Series names used in the long-format summary CSV.
const (
	elevationBinSeries = "elevation_bin"
	hypsometrySeries   = "hypsometry"
	vegetationSeries   = "vegetation"
)

// summaryCSVHeader names the columns of the long-format summary CSV.
var summaryCSVHeader = []string{"series", "label", "time", "value", "count"}

// JSON forms of the summary types. No-data becomes null.
type (
	elevationBinsJSON struct {
		Centers    []float64    `json:"centers"`
		Times      []time.Time  `json:"times"`
		Values     [][]*float64 `json:"values"`
		Counts     []int        `json:"counts"`
		Normalized bool         `json:"normalized"`
	}

	vegetationJSON struct {
		Class           schema.VegetationClass `json:"class"`
		Cells           int                    `json:"cells"`
		RunoffCells     int                    `json:"runoff_cells"`
		MedianRunoffDOY *float64               `json:"median_runoff_doy"`
		Times           []time.Time            `json:"times"`
		MeanBackscatter []*float64             `json:"mean_backscatter"`
	}

	summaryJSON struct {
		ElevationBins *elevationBinsJSON     `json:"elevation_bins,omitempty"`
		Hypsometry    []schema.HypsometryBin `json:"hypsometry,omitempty"`
		Vegetation    []vegetationJSON       `json:"vegetation,omitempty"`
	}
)

// writeJSONSummary writes the report with NaN values as null.
func writeJSONSummary(w io.Writer, report schema.SummaryReport) error {
	output := summaryJSON{Hypsometry: report.Hypsometry}
	if bins := report.ElevationBins; bins != nil {
		values := make([][]*float64, len(bins.Values))
		for b, series := range bins.Values {
			values[b] = nullables(series)
		}
		output.ElevationBins = &elevationBinsJSON{
			Centers:    bins.Centers,
			Times:      bins.Times,
			Values:     values,
			Counts:     bins.Counts,
			Normalized: bins.Normalized,
		}
	}
	for _, v := range report.Vegetation {
		output.Vegetation = append(output.Vegetation, vegetationJSON{
			Class:           v.Class,
			Cells:           v.Cells,
			RunoffCells:     v.RunoffCells,
			MedianRunoffDOY: nullable(v.MedianRunoffDOY),
			Times:           v.Times,
			MeanBackscatter: nullables(v.MeanBackscatter),
		})
	}
	return writeJSON(w, output)
}

// writeCSVSummary writes every analysis of the report as long-format records.
func writeCSVSummary(w io.Writer, report schema.SummaryReport, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, summaryCSVHeader, func(cw *csv.Writer) error {
		for _, b := range report.Hypsometry {
			label := fmt.Sprintf("%g-%g", b.Lower, b.Upper)
			if err := cw.Write([]string{hypsometrySeries, label, "", "", fmt.Sprintf(intFmt, b.Count)}); err != nil {
				return err
			}
		}
		if bins := report.ElevationBins; bins != nil {
			for b, center := range bins.Centers {
				label := fmt.Sprintf("%g", center)
				count := fmt.Sprintf(intFmt, bins.Counts[b])
				for t, when := range bins.Times {
					rec := []string{elevationBinSeries, label, when.Format(contract.DateTimeFormat), fmtFloat(bins.Values[b][t]), count}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
			}
		}
		for _, v := range report.Vegetation {
			count := fmt.Sprintf(intFmt, v.Cells)
			for t, when := range v.Times {
				rec := []string{vegetationSeries, string(v.Class), when.Format(contract.DateTimeFormat), fmtFloat(v.MeanBackscatter[t]), count}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
