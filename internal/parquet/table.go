package parquet

import (
	"io"
	"time"

	"github.com/snowline/s1snow/schema"
)

// OnsetRecord is one row of an onset table written as Parquet.
type OnsetRecord struct {
	X                  float64 `parquet:"x,snappy"`
	Y                  float64 `parquet:"y,snappy"`
	Elevation          float64 `parquet:"elevation,snappy"`
	Aspect             float64 `parquet:"aspect,snappy"`
	AspectRescale      float64 `parquet:"aspect_rescale,snappy"`
	HeatingIndex       float64 `parquet:"heating_index,snappy"`
	RunoffDayOfYear    int32   `parquet:"runoff_day_of_year,snappy"`
	RipeningDayOfYear  int32   `parquet:"ripening_day_of_year,snappy"`
	RunoffPrediction   float64 `parquet:"runoff_prediction,snappy"`
	RipeningPrediction float64 `parquet:"ripening_prediction,snappy"`
}

// ElevationBinRecord is one (bin, time) mean of an elevation bin series.
// Empty bins have no mean.
type ElevationBinRecord struct {
	Center     float64   `parquet:"center,snappy"`
	Time       time.Time `parquet:"time,snappy"`
	Mean       *float64  `parquet:"mean,optional,snappy"`
	Cells      int32     `parquet:"cells,snappy"`
	Normalized bool      `parquet:"normalized,snappy"`
}

// ConvertOnsetRows converts table rows for Parquet output.
func ConvertOnsetRows(rows []schema.OnsetRow) []OnsetRecord {
	result := make([]OnsetRecord, len(rows))
	for i, r := range rows {
		result[i] = OnsetRecord{
			X:                  r.X,
			Y:                  r.Y,
			Elevation:          r.Elevation,
			Aspect:             r.Aspect,
			AspectRescale:      r.AspectRescale,
			HeatingIndex:       r.HeatingIndex,
			RunoffDayOfYear:    int32(r.RunoffDayOfYear),
			RipeningDayOfYear:  int32(r.RipeningDayOfYear),
			RunoffPrediction:   r.RunoffPrediction,
			RipeningPrediction: r.RipeningPrediction,
		}
	}
	return result
}

// ConvertElevationBins flattens a bin series into one record per bin and time step.
func ConvertElevationBins(series *schema.ElevationBinSeries) []ElevationBinRecord {
	result := make([]ElevationBinRecord, 0, len(series.Centers)*len(series.Times))
	for b, center := range series.Centers {
		for t, when := range series.Times {
			record := ElevationBinRecord{
				Center:     center,
				Time:       when,
				Cells:      int32(series.Counts[b]),
				Normalized: series.Normalized,
			}
			if v := series.Values[b][t]; schema.IsValid(v) {
				record.Mean = &v
			}
			result = append(result, record)
		}
	}
	return result
}

// WriteOnsetTable writes the rows of an onset table to w.
func WriteOnsetTable(w io.Writer, rows []schema.OnsetRow) error {
	return Write(w, ConvertOnsetRows(rows))
}

// WriteElevationBins writes an elevation bin series to w in long format.
func WriteElevationBins(w io.Writer, series *schema.ElevationBinSeries) error {
	return Write(w, ConvertElevationBins(series))
}
