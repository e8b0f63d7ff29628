// Package parquet reads long-format imagery and terrain tables and writes onset
// tables and run exports using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/snowline/s1snow/schema"
)

// Run represents a single tracked onset run.
// This struct maps to the s1snow_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalCells is the number of grid cells considered (nullable)
	TotalCells *int32 `parquet:"total_cells,optional,snappy"`

	// RetainedCells is the number of cells kept for regression (nullable)
	RetainedCells *int32 `parquet:"retained_cells,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Fit represents one trend model of a run.
// This struct maps to the s1snow_fits database table.
type Fit struct {
	RunID            int64   `parquet:"run_id,snappy"`
	Target           string  `parquet:"target,dict,snappy"`
	Intercept        float64 `parquet:"intercept,snappy"`
	BetaElevation    float64 `parquet:"beta_elevation,snappy"`
	BetaHeatingIndex float64 `parquet:"beta_heating_index,snappy"`
	Rank             int32   `parquet:"rank,snappy"`
	N                int32   `parquet:"n,snappy"`
	RSquared         float64 `parquet:"r_squared,snappy"`
	RMSE             float64 `parquet:"rmse,snappy"`
}

// Cell represents one retained cell of a run.
// This struct maps to the s1snow_cells database table.
type Cell struct {
	RunID              int64   `parquet:"run_id,snappy"`
	Y                  float64 `parquet:"y,snappy"`
	X                  float64 `parquet:"x,snappy"`
	Elevation          float64 `parquet:"elevation,snappy"`
	Aspect             float64 `parquet:"aspect,snappy"`
	HeatingIndex       float64 `parquet:"heating_index,snappy"`
	RunoffDOY          int32   `parquet:"runoff_day_of_year,snappy"`
	RipeningDOY        int32   `parquet:"ripening_day_of_year,snappy"`
	RunoffPrediction   float64 `parquet:"runoff_prediction,snappy"`
	RipeningPrediction float64 `parquet:"ripening_prediction,snappy"`
}

// Write writes records of any tagged struct type to w.
func Write[T any](w io.Writer, data []T) error {
	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes records of any tagged struct type to a new file.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteFitsParquet writes a slice of Fit structs to a Parquet file.
func WriteFitsParquet(data []Fit, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteCellsParquet writes a slice of Cell structs to a Parquet file.
func WriteCellsParquet(data []Cell, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalCells:    record.TotalCells,
			RetainedCells: record.RetainedCells,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertFitRecords converts schema.FitRecord to Fit for Parquet export.
func ConvertFitRecords(records []schema.FitRecord) []Fit {
	result := make([]Fit, len(records))
	for i, r := range records {
		result[i] = Fit{
			RunID:            r.RunID,
			Target:           r.Target,
			Intercept:        r.Intercept,
			BetaElevation:    r.BetaElevation,
			BetaHeatingIndex: r.BetaHeatingIndex,
			Rank:             r.Rank,
			N:                r.N,
			RSquared:         r.RSquared,
			RMSE:             r.RMSE,
		}
	}
	return result
}

// ConvertCellRecords converts schema.CellRecord to Cell for Parquet export.
func ConvertCellRecords(records []schema.CellRecord) []Cell {
	result := make([]Cell, len(records))
	for i, r := range records {
		result[i] = Cell{
			RunID:              r.RunID,
			Y:                  r.Y,
			X:                  r.X,
			Elevation:          r.Elevation,
			Aspect:             r.Aspect,
			HeatingIndex:       r.HeatingIndex,
			RunoffDOY:          r.RunoffDOY,
			RipeningDOY:        r.RipeningDOY,
			RunoffPrediction:   r.RunoffPrediction,
			RipeningPrediction: r.RipeningPrediction,
		}
	}
	return result
}
