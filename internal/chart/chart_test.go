package chart

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/snowline/s1snow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plotTimes = []time.Time{
	time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 4, 25, 0, 0, 0, 0, time.UTC),
}

func assertRendered(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestElevationBins(t *testing.T) {
	series := &schema.ElevationBinSeries{
		Centers: []float64{1250, 1150, 1050},
		Times:   plotTimes,
		Values: [][]float64{
			{-9, -15, -11},
			{-10, -12, -16},
			{math.NaN(), math.NaN(), math.NaN()},
		},
		Counts: []int{3, 5, 0},
	}
	p, err := ElevationBins(series)
	require.NoError(t, err)
	assert.Equal(t, "Mean backscatter by elevation", p.Title.Text)

	path := filepath.Join(t.TempDir(), "bins.png")
	require.NoError(t, Save(p, 12, 8, path))
	assertRendered(t, path)
}

func TestElevationBinsGrid(t *testing.T) {
	g := binGrid{series: &schema.ElevationBinSeries{
		Centers: []float64{1250, 1150},
		Times:   plotTimes[:2],
		Values:  [][]float64{{1, 2}, {3, 4}},
	}}
	c, r := g.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 1150.0, g.Y(0), "rows run from the lowest bin up")
	assert.Equal(t, 3.0, g.Z(0, 0))
	assert.Equal(t, 2.0, g.Z(1, 1))
	assert.Equal(t, float64(plotTimes[1].Unix()), g.X(1))
}

func TestElevationBinsNoData(t *testing.T) {
	_, err := ElevationBins(nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ElevationBins(&schema.ElevationBinSeries{
		Centers: []float64{1050},
		Times:   plotTimes[:1],
		Values:  [][]float64{{math.NaN()}},
	})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestElevationBinsFlat(t *testing.T) {
	p, err := ElevationBins(&schema.ElevationBinSeries{
		Centers:    []float64{1050},
		Times:      plotTimes[:2],
		Values:     [][]float64{{0.5, 0.5}},
		Normalized: true,
	})
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "min-max scaled")

	path := filepath.Join(t.TempDir(), "flat.svg")
	require.NoError(t, Save(p, 10, 6, path))
	assertRendered(t, path)
}

func TestHypsometry(t *testing.T) {
	_, err := Hypsometry(nil)
	assert.ErrorIs(t, err, ErrNoData)

	p, err := Hypsometry([]schema.HypsometryBin{
		{Lower: 1000, Upper: 1100, Count: 1},
		{Lower: 1100, Upper: 1200, Count: 5},
		{Lower: 1200, Upper: 1300, Count: 4},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hypsometry.png")
	require.NoError(t, Save(p, 12, 8, path))
	assertRendered(t, path)
}

func TestVegetation(t *testing.T) {
	summaries := []schema.VegetationSummary{
		{Class: schema.BareClass, Cells: 4, Times: plotTimes, MeanBackscatter: []float64{-10, math.NaN(), -12}},
		{Class: schema.DenseClass, Times: plotTimes, MeanBackscatter: []float64{math.NaN(), math.NaN(), math.NaN()}},
	}
	p, err := Vegetation(summaries)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vegetation.pdf")
	require.NoError(t, Save(p, 12, 8, path))
	assertRendered(t, path)

	_, err = Vegetation(summaries[1:])
	assert.ErrorIs(t, err, ErrNoData)
}

func TestValidXYs(t *testing.T) {
	pts := validXYs(plotTimes, []float64{-10, math.NaN(), -12, -13})
	require.Len(t, pts, 2)
	assert.Equal(t, -12.0, pts[1].Y)
	assert.Equal(t, float64(plotTimes[2].Unix()), pts[1].X)
}

func TestTrend(t *testing.T) {
	_, err := Trend(nil)
	assert.ErrorIs(t, err, ErrNoData)

	rows := []schema.OnsetRow{
		{X: 1, Y: 2, Elevation: 2100, HeatingIndex: 0.0, RunoffDayOfYear: 163, RipeningDayOfYear: 141},
		{X: 0, Y: 2, Elevation: 1500, HeatingIndex: 0.2, RunoffDayOfYear: 121, RipeningDayOfYear: 99},
		{X: 0, Y: 1, Elevation: 1800, HeatingIndex: 0.1, RunoffDayOfYear: 140, RipeningDayOfYear: 118},
	}
	runoff := schema.TrendFit{Target: schema.RunoffTarget, Intercept: 20, BetaElevation: 0.068, RSquared: 0.99}
	ripening := schema.TrendFit{Target: schema.RipeningTarget, Intercept: 0, BetaElevation: 0.068, RSquared: 0.97}
	table, err := schema.NewOnsetTable(rows, runoff, ripening, nil, 3)
	require.NoError(t, err)

	p, err := Trend(table)
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "heating index 0.10")

	path := filepath.Join(t.TempDir(), "trend.png")
	require.NoError(t, Save(p, 15, 10, path))
	assertRendered(t, path)
}

func TestSaveErrors(t *testing.T) {
	p, err := Hypsometry([]schema.HypsometryBin{{Lower: 0, Upper: 100, Count: 1}})
	require.NoError(t, err)

	assert.Error(t, Save(p, 0, 8, filepath.Join(t.TempDir(), "zero.png")))
	assert.Error(t, Save(p, 10, 8, filepath.Join(t.TempDir(), "plot.unknown")))
}
