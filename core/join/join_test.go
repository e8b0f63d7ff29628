package join

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/snowline/s1snow/core/algo"
	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

var (
	gridY = []float64{4_500_060, 4_500_030, 4_500_000}
	gridX = []float64{600_000, 600_030}
)

const crs = "EPSG:32611"

func grid(t *testing.T, name string, values ...float64) *raster.Grid {
	t.Helper()
	g, err := raster.NewGrid(name, "", gridY, gridX, crs, values)
	require.NoError(t, err)
	return g
}

// onsets returns an onset grid where a non-negative day offset from Jan 1 is a valid onset.
func onsets(days ...int) *raster.OnsetGrid {
	og := raster.NewOnsetGrid(gridY, gridX, crs)
	for k, d := range days {
		if d < 0 {
			continue
		}
		og.Onsets[k] = schema.Onset{Time: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d), Valid: true}
	}
	return og
}

func TestValidateRow(t *testing.T) {
	good := Candidate{
		Row:             schema.OnsetRow{Elevation: 1, Aspect: 2, HeatingIndex: 0.1},
		RunoffDefined:   true,
		RipeningDefined: true,
	}
	tests := []struct {
		name   string
		mutate func(c *Candidate)
		want   schema.RejectReason
	}{
		{"elevation", func(c *Candidate) { c.Row.Elevation = nan }, schema.RejectMissingElevation},
		{"aspect", func(c *Candidate) { c.Row.Aspect = nan }, schema.RejectMissingAspect},
		{"heating index", func(c *Candidate) { c.Row.HeatingIndex = nan }, schema.RejectMissingHeatingIndex},
		{"runoff", func(c *Candidate) { c.RunoffDefined = false }, schema.RejectUndefinedRunoff},
		{"ripening", func(c *Candidate) { c.RipeningDefined = false }, schema.RejectUndefinedRipening},
		{"first reason wins", func(c *Candidate) { c.Row.Aspect = nan; c.RunoffDefined = false }, schema.RejectMissingAspect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := good
			tt.mutate(&c)
			reason, ok := ValidateRow(c)
			assert.False(t, ok)
			assert.Equal(t, tt.want, reason)
		})
	}

	_, ok := ValidateRow(good)
	assert.True(t, ok)
}

func TestBuildRows(t *testing.T) {
	in := Input{
		Runoff:       onsets(59, 60, -1, 62, 63, 64),
		Ripening:     onsets(30, 31, 32, -1, 34, 35),
		Elevation:    grid(t, "dem", 1000, 1100, 1200, 1300, nan, 1500),
		Aspect:       grid(t, "aspect", 0, 90, 180, 270, 45, nan),
		HeatingIndex: grid(t, "heating_index", 0.1, 0.2, 0.3, 0.4, 0.5, 0.6),
	}

	joined, err := BuildRows(in)
	require.NoError(t, err)

	assert.Equal(t, 6, joined.TotalCells)
	require.Len(t, joined.Rows, 2)
	assert.Equal(t, schema.RejectSummary{
		schema.RejectUndefinedRunoff:   1,
		schema.RejectUndefinedRipening: 1,
		schema.RejectMissingElevation:  1,
		schema.RejectMissingAspect:     1,
	}, joined.Rejected)

	first := joined.Rows[0]
	assert.Equal(t, gridX[0], first.X)
	assert.Equal(t, gridY[0], first.Y)
	assert.Equal(t, 60, first.RunoffDayOfYear)
	assert.Equal(t, 31, first.RipeningDayOfYear)
	assert.Equal(t, 180.0, first.AspectRescale)

	second := joined.Rows[1]
	assert.Equal(t, 90.0, second.AspectRescale)
	assert.Equal(t, 61, second.RunoffDayOfYear)

	for _, r := range joined.Rows {
		assert.True(t, schema.IsValid(r.Elevation))
		assert.True(t, schema.IsValid(r.Aspect))
		assert.True(t, schema.IsValid(r.HeatingIndex))
	}
}

func TestBuildRowsAllFirstSampleMissing(t *testing.T) {
	// A cube whose first sample is missing everywhere yields no onsets at all.
	times := []time.Time{
		time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 3, 13, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 3, 25, 0, 0, 0, 0, time.UTC),
	}
	values := make([]float64, 3*6)
	for k := range values {
		if k < 6 {
			values[k] = nan
			continue
		}
		values[k] = float64(k)
	}
	ts, err := raster.NewTimeSeries(times, nil, gridY, gridX, crs, "gamma0_vv", values)
	require.NoError(t, err)

	runoff, err := algo.RunoffOnset(context.Background(), ts, algo.OnsetOptions{})
	require.NoError(t, err)
	ripening, err := algo.RipeningOnset(context.Background(), ts, schema.AllOrbits, algo.OnsetOptions{})
	require.NoError(t, err)

	joined, err := BuildRows(Input{
		Runoff:       runoff,
		Ripening:     ripening,
		Elevation:    grid(t, "dem", 1, 2, 3, 4, 5, 6),
		Aspect:       grid(t, "aspect", 1, 2, 3, 4, 5, 6),
		HeatingIndex: grid(t, "heating_index", 0, 0, 0, 0, 0, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, joined.Rows)
	assert.Equal(t, 6, joined.Rejected[schema.RejectUndefinedRunoff])
}

func TestBuildOnsetTable(t *testing.T) {
	in := Input{
		Runoff:    onsets(99, 109, 119, 129, 139, -1),
		Ripening:  onsets(49, 54, 59, 64, 69, 74),
		Elevation: grid(t, "dem", 1000, 1100, 1200, 1300, 1400, 1500),
		Aspect:    grid(t, "aspect", 180, 0, 90, 270, 202.5, 22.5),
		Slope:     grid(t, "slope", 10, 20, 30, 0, 15, 5),
	}

	table, err := BuildOnsetTable(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 5, table.Len())
	assert.Equal(t, 6, table.TotalCells)
	assert.Equal(t, 1, table.Rejected[schema.RejectUndefinedRunoff])

	row, ok := table.Lookup(gridY[1], gridX[0])
	require.True(t, ok)
	assert.Equal(t, 1200.0, row.Elevation)
	assert.InDelta(t, algo.DiurnalAnisotropicHeating(90, 30), row.HeatingIndex, 1e-12)

	for _, r := range table.Rows() {
		want := table.Runoff.Intercept + table.Runoff.BetaElevation*r.Elevation + table.Runoff.BetaHeatingIndex*r.HeatingIndex
		assert.InDelta(t, want, r.RunoffPrediction, 1e-9)
		assert.InDelta(t, float64(r.RunoffDayOfYear), r.RunoffPrediction, 1e-6)
	}
}

func TestBuildOnsetTableDegenerate(t *testing.T) {
	in := Input{
		Runoff:       onsets(10, 20, -1, -1, -1, -1),
		Ripening:     onsets(10, 20, 30, 40, 50, 60),
		Elevation:    grid(t, "dem", 1, 2, 3, 4, 5, 6),
		Aspect:       grid(t, "aspect", 1, 2, 3, 4, 5, 6),
		HeatingIndex: grid(t, "heating_index", 0.1, 0.3, 0, 0, 0, 0),
	}
	_, err := BuildOnsetTable(context.Background(), in)
	assert.ErrorIs(t, err, schema.ErrDegenerateInput)
}

func TestBuildRowsGridErrors(t *testing.T) {
	base := Input{
		Runoff:       onsets(1, 2, 3, 4, 5, 6),
		Ripening:     onsets(1, 2, 3, 4, 5, 6),
		Elevation:    grid(t, "dem", 1, 2, 3, 4, 5, 6),
		Aspect:       grid(t, "aspect", 1, 2, 3, 4, 5, 6),
		HeatingIndex: grid(t, "heating_index", 0, 0, 0, 0, 0, 0),
	}

	shifted, err := raster.NewGrid("dem", "meters", gridY, []float64{0, 30}, crs, make([]float64, 6))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(in *Input)
	}{
		{"missing runoff", func(in *Input) { in.Runoff = nil }},
		{"missing elevation", func(in *Input) { in.Elevation = nil }},
		{"no heating inputs", func(in *Input) { in.HeatingIndex = nil }},
		{"elevation off grid", func(in *Input) { in.Elevation = shifted }},
		{"duplicate cells", func(in *Input) {
			dup := raster.NewOnsetGrid([]float64{1, 1, 0}, gridX, crs)
			in.Runoff = dup
			in.Ripening = dup
			in.Elevation = &raster.Grid{Name: "dem", Y: dup.Y, X: gridX, CRS: crs, Values: make([]float64, 6)}
			in.Aspect = &raster.Grid{Name: "aspect", Y: dup.Y, X: gridX, CRS: crs, Values: make([]float64, 6)}
			in.HeatingIndex = &raster.Grid{Name: "heating_index", Y: dup.Y, X: gridX, CRS: crs, Values: make([]float64, 6)}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := BuildRows(in)
			assert.Error(t, err)
		})
	}
}
