// Package join combines per-pixel onsets with terrain covariates into the rows
// of an OnsetTable. Rows missing a required field are dropped by a named
// validation step and counted per reason, never imputed.
package join

import (
	"context"
	"fmt"

	"github.com/snowline/s1snow/core/algo"
	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
)

// Input holds the rasters joined cell by cell. Every grid must share the runoff grid.
// HeatingIndex may be nil, in which case it is derived from Aspect and Slope.
type Input struct {
	Runoff       *raster.OnsetGrid
	Ripening     *raster.OnsetGrid
	Elevation    *raster.Grid
	Aspect       *raster.Grid
	Slope        *raster.Grid
	HeatingIndex *raster.Grid
}

// Candidate is a joined cell before validation. Day-of-year fields are only
// meaningful when the matching onset is defined.
type Candidate struct {
	Row             schema.OnsetRow
	RunoffDefined   bool
	RipeningDefined bool
}

// Joined is the outcome of the validation step.
type Joined struct {
	Rows       []schema.OnsetRow
	Rejected   schema.RejectSummary
	TotalCells int
}

// ValidateRow returns the first reason a candidate cannot enter the table, or ok.
// Reasons are checked in the order of schema.AllRejectReasons.
func ValidateRow(c Candidate) (schema.RejectReason, bool) {
	switch {
	case !schema.IsValid(c.Row.Elevation):
		return schema.RejectMissingElevation, false
	case !schema.IsValid(c.Row.Aspect):
		return schema.RejectMissingAspect, false
	case !schema.IsValid(c.Row.HeatingIndex):
		return schema.RejectMissingHeatingIndex, false
	case !c.RunoffDefined:
		return schema.RejectUndefinedRunoff, false
	case !c.RipeningDefined:
		return schema.RejectUndefinedRipening, false
	default:
		return "", true
	}
}

// Candidates lays out one candidate per cell in row-major grid order.
func Candidates(in Input) ([]Candidate, error) {
	if err := checkGrids(&in); err != nil {
		return nil, err
	}
	ny, nx := in.Runoff.Shape()
	out := make([]Candidate, 0, ny*nx)
	for i, y := range in.Runoff.Y {
		for j, x := range in.Runoff.X {
			runoff := in.Runoff.At(i, j)
			ripening := in.Ripening.At(i, j)
			aspect := in.Aspect.At(i, j)
			c := Candidate{
				Row: schema.OnsetRow{
					X:             x,
					Y:             y,
					Elevation:     in.Elevation.At(i, j),
					Aspect:        aspect,
					AspectRescale: schema.AspectRescale(aspect),
					HeatingIndex:  in.HeatingIndex.At(i, j),
				},
				RunoffDefined:   runoff.Valid,
				RipeningDefined: ripening.Valid,
			}
			if doy, ok := runoff.DayOfYear(); ok {
				c.Row.RunoffDayOfYear = doy
			}
			if doy, ok := ripening.DayOfYear(); ok {
				c.Row.RipeningDayOfYear = doy
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// BuildRows joins and validates every cell.
func BuildRows(in Input) (*Joined, error) {
	candidates, err := Candidates(in)
	if err != nil {
		return nil, err
	}
	joined := &Joined{
		Rows:       make([]schema.OnsetRow, 0, len(candidates)),
		Rejected:   schema.RejectSummary{},
		TotalCells: len(candidates),
	}
	seen := make(map[schema.CellKey]struct{}, len(candidates))
	for _, c := range candidates {
		key := c.Row.Key()
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate cell (y=%v, x=%v)", key.Y, key.X)
		}
		seen[key] = struct{}{}

		if reason, ok := ValidateRow(c); !ok {
			joined.Rejected[reason]++
			continue
		}
		joined.Rows = append(joined.Rows, c.Row)
	}
	return joined, nil
}

// BuildOnsetTable joins, validates and fits the trend models into an OnsetTable.
func BuildOnsetTable(ctx context.Context, in Input) (*schema.OnsetTable, error) {
	joined, err := BuildRows(in)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, runoff, ripening, err := algo.FitTrends(joined.Rows)
	if err != nil {
		return nil, fmt.Errorf("fit trends over %d of %d cells: %w", len(joined.Rows), joined.TotalCells, err)
	}
	return schema.NewOnsetTable(rows, runoff, ripening, joined.Rejected, joined.TotalCells)
}

// checkGrids verifies every layer sits on the runoff grid and derives the heating index when absent.
func checkGrids(in *Input) error {
	if in.Runoff == nil || in.Ripening == nil {
		return fmt.Errorf("runoff and ripening onsets are required")
	}
	if in.Elevation == nil || in.Aspect == nil {
		return fmt.Errorf("elevation and aspect grids are required")
	}
	y, x, crs := in.Runoff.Y, in.Runoff.X, in.Runoff.CRS

	ripening := &raster.Grid{Y: in.Ripening.Y, X: in.Ripening.X, CRS: in.Ripening.CRS}
	if !ripening.SameGrid(y, x, crs) {
		return fmt.Errorf("ripening onsets are not on the runoff grid")
	}

	if in.HeatingIndex == nil {
		if in.Slope == nil {
			return fmt.Errorf("a heating index grid or a slope grid is required")
		}
		hi, err := algo.HeatingIndex(in.Aspect, in.Slope)
		if err != nil {
			return err
		}
		in.HeatingIndex = hi
	}

	for _, g := range []*raster.Grid{in.Elevation, in.Aspect, in.HeatingIndex} {
		if !g.SameGrid(y, x, crs) {
			return fmt.Errorf("%s grid is not on the onset grid, reproject it first", g.Name)
		}
	}
	return nil
}
