// Package schema has configs, models and global variables for all parts of s1snow.
package schema

import (
	"fmt"
	"time"
)

// Onset is the onset estimate of a single pixel.
// Valid is false when no onset could be computed for the cell.
type Onset struct {
	Time  time.Time // Timestamp of the selected sample
	Index int       // Index into the time axis the onset was computed on
	Valid bool
}

// DayOfYear returns the ordinal day (1-366) of a valid onset.
func (o Onset) DayOfYear() (int, bool) {
	if !o.Valid {
		return 0, false
	}
	return o.Time.YearDay(), true
}

// CellKey addresses a row of an OnsetTable by grid coordinates.
type CellKey struct {
	Y float64
	X float64
}

// OnsetRow is one retained spatial cell of an OnsetTable.
type OnsetRow struct {
	X                  float64 `json:"x"`
	Y                  float64 `json:"y"`
	Elevation          float64 `json:"elevation"`      // meters
	Aspect             float64 `json:"aspect"`         // degrees clockwise from north
	AspectRescale      float64 `json:"aspect_rescale"` // |aspect - 180|
	HeatingIndex       float64 `json:"heating_index"`  // dimensionless, [-1, 1]
	RunoffDayOfYear    int     `json:"runoff_day_of_year"`
	RipeningDayOfYear  int     `json:"ripening_day_of_year"`
	RunoffPrediction   float64 `json:"runoff_prediction"`
	RipeningPrediction float64 `json:"ripening_prediction"`
}

// Key returns the (y, x) key of the row.
func (r OnsetRow) Key() CellKey {
	return CellKey{Y: r.Y, X: r.X}
}

// TrendFit holds an ordinary least squares model of onset day-of-year
// as intercept + BetaElevation*elevation + BetaHeatingIndex*heating_index.
type TrendFit struct {
	Target           TrendTarget `json:"target"`
	Intercept        float64     `json:"intercept"`
	BetaElevation    float64     `json:"beta_elevation"`
	BetaHeatingIndex float64     `json:"beta_heating_index"`
	Rank             int         `json:"rank"` // effective rank of the design matrix (3 when full)
	N                int         `json:"n"`
	RSquared         float64     `json:"r_squared"`
	RMSE             float64     `json:"rmse"` // days
}

// Predict evaluates the fitted model.
func (f TrendFit) Predict(elevation, heatingIndex float64) float64 {
	return f.Intercept + f.BetaElevation*elevation + f.BetaHeatingIndex*heatingIndex
}

// RejectSummary counts the cells dropped by the joiner, by reason.
type RejectSummary map[RejectReason]int

// Total returns the number of rejected cells.
func (s RejectSummary) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// OnsetTable is the joined, validated and fitted per-cell table.
// It is immutable once built; Rows returns a copy.
type OnsetTable struct {
	rows     []OnsetRow
	index    map[CellKey]int
	Runoff   TrendFit
	Ripening TrendFit
	Rejected RejectSummary
	// TotalCells is the number of grid cells considered before validation.
	TotalCells int
}

// NewOnsetTable builds an OnsetTable and its (y, x) index.
// Duplicate keys are an error.
func NewOnsetTable(rows []OnsetRow, runoff, ripening TrendFit, rejected RejectSummary, totalCells int) (*OnsetTable, error) {
	index := make(map[CellKey]int, len(rows))
	owned := make([]OnsetRow, len(rows))
	for i, r := range rows {
		key := r.Key()
		if _, dup := index[key]; dup {
			return nil, fmt.Errorf("duplicate cell (y=%v, x=%v) in onset table", r.Y, r.X)
		}
		index[key] = i
		owned[i] = r
	}
	if rejected == nil {
		rejected = RejectSummary{}
	}
	return &OnsetTable{
		rows:       owned,
		index:      index,
		Runoff:     runoff,
		Ripening:   ripening,
		Rejected:   rejected,
		TotalCells: totalCells,
	}, nil
}

// Len returns the number of retained rows.
func (t *OnsetTable) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the retained rows in grid order.
func (t *OnsetTable) Rows() []OnsetRow {
	out := make([]OnsetRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// Lookup returns the row at grid coordinates (y, x).
func (t *OnsetTable) Lookup(y, x float64) (OnsetRow, bool) {
	i, ok := t.index[CellKey{Y: y, X: x}]
	if !ok {
		return OnsetRow{}, false
	}
	return t.rows[i], true
}
