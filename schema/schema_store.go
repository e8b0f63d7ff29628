package schema

import "time"

// RunRecord represents a row from the s1snow_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalCells    *int32
	RetainedCells *int32
	ConfigParams  *string
}

// FitRecord represents a row from the s1snow_fits table.
type FitRecord struct {
	RunID            int64
	Target           string
	Intercept        float64
	BetaElevation    float64
	BetaHeatingIndex float64
	Rank             int32
	N                int32
	RSquared         float64
	RMSE             float64
}

// CellRecord represents a row from the s1snow_cells table.
type CellRecord struct {
	RunID              int64
	Y                  float64
	X                  float64
	Elevation          float64
	Aspect             float64
	HeatingIndex       float64
	RunoffDOY          int32
	RipeningDOY        int32
	RunoffPrediction   float64
	RipeningPrediction float64
}

// RunStatus represents the status of the run store.
type RunStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      int64            `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	TotalCellsKept int              `json:"total_cells_kept"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}

// NewFitRecord converts a fit into its store row.
func NewFitRecord(runID int64, fit TrendFit) FitRecord {
	return FitRecord{
		RunID:            runID,
		Target:           string(fit.Target),
		Intercept:        fit.Intercept,
		BetaElevation:    fit.BetaElevation,
		BetaHeatingIndex: fit.BetaHeatingIndex,
		Rank:             int32(fit.Rank),
		N:                int32(fit.N),
		RSquared:         fit.RSquared,
		RMSE:             fit.RMSE,
	}
}

// NewCellRecord converts a table row into its store row.
func NewCellRecord(runID int64, row OnsetRow) CellRecord {
	return CellRecord{
		RunID:              runID,
		Y:                  row.Y,
		X:                  row.X,
		Elevation:          row.Elevation,
		Aspect:             row.Aspect,
		HeatingIndex:       row.HeatingIndex,
		RunoffDOY:          int32(row.RunoffDayOfYear),
		RipeningDOY:        int32(row.RipeningDayOfYear),
		RunoffPrediction:   row.RunoffPrediction,
		RipeningPrediction: row.RipeningPrediction,
	}
}
