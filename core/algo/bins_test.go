package algo

import (
	"math"
	"testing"

	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binFixture is a two-step cube on a 2x3 grid with a DEM spanning 1000..1299 m.
func binFixture(t *testing.T) (*raster.TimeSeries, *raster.Grid) {
	t.Helper()
	ts := newCube(t, weeksAfter(0, 1), nil, 2, 3, [][]float64{
		{1, 2},
		{3, 4},
		{5, 6},
		{7, nan},
		{9, 10},
		{11, 12},
	})
	dem, err := raster.NewGrid("dem", "meters", ts.Y, ts.X, ts.CRS, []float64{1000, 1050, 1120, 1199, 1200, 1299})
	require.NoError(t, err)
	return ts, dem
}

func TestElevationBinCenters(t *testing.T) {
	assert.Equal(t, []float64{1250, 1150, 1050}, ElevationBinCenters(1000, 1299, 100))
	assert.Equal(t, []float64{1250, 1150, 1050}, ElevationBinCenters(1030, 1200, 100))
	assert.Equal(t, []float64{125, 75}, ElevationBinCenters(60, 149, 50))
}

func TestElevationBins(t *testing.T) {
	ts, dem := binFixture(t)

	bins, err := ElevationBins(ts, dem, 100, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1250, 1150, 1050}, bins.Centers)
	assert.Equal(t, []int{2, 2, 2}, bins.Counts)
	assert.InDeltaSlice(t, []float64{10, 11}, bins.Values[0], 1e-12)
	assert.InDeltaSlice(t, []float64{6, 6}, bins.Values[1], 1e-12, "missing samples are ignored")
	assert.InDeltaSlice(t, []float64{2, 3}, bins.Values[2], 1e-12)

	norm, err := ElevationBins(ts, dem, 100, true)
	require.NoError(t, err)
	assert.True(t, norm.Normalized)
	assert.InDeltaSlice(t, []float64{0, 1}, norm.Values[0], 1e-12)
	assert.True(t, math.IsNaN(norm.Values[1][0]), "flat bins cannot be scaled")

	_, err = ElevationBins(ts, dem, 0, false)
	assert.Error(t, err)
}

func TestElevationBinsGridMismatch(t *testing.T) {
	ts, _ := binFixture(t)
	dem, err := raster.NewGrid("dem", "meters", []float64{1, 0}, []float64{0, 1, 2}, ts.CRS, make([]float64, 6))
	require.NoError(t, err)
	_, err = ElevationBins(ts, dem, 100, false)
	assert.Error(t, err)
}

func TestHypsometry(t *testing.T) {
	_, dem := binFixture(t)

	bins, err := Hypsometry(dem, 100)
	require.NoError(t, err)
	assert.Equal(t, []schema.HypsometryBin{
		{Lower: 1000, Upper: 1100, Count: 2},
		{Lower: 1100, Upper: 1200, Count: 2},
		{Lower: 1200, Upper: 1300, Count: 2},
	}, bins)

	empty, err := raster.NewGrid("dem", "meters", []float64{0}, []float64{0}, "EPSG:4326", []float64{nan})
	require.NoError(t, err)
	_, err = Hypsometry(empty, 100)
	assert.ErrorIs(t, err, schema.ErrEmptyInput)
}

func TestVegetationSummaries(t *testing.T) {
	ts, _ := binFixture(t)
	ndvi, err := raster.NewGrid("ndvi", "dimensionless", ts.Y, ts.X, ts.CRS, []float64{0.1, 0.3, 0.7, nan, 0.2, 0.65})
	require.NoError(t, err)

	runoff := raster.NewOnsetGrid(ts.Y, ts.X, ts.CRS)
	runoff.Onsets[1] = schema.Onset{Time: t0, Valid: true}                   // day 60
	runoff.Onsets[4] = schema.Onset{Time: t0.AddDate(0, 0, 10), Valid: true} // day 70
	runoff.Onsets[2] = schema.Onset{Time: t0.AddDate(0, 0, 1), Valid: true}  // day 61

	summaries, err := VegetationSummaries(ts, runoff, ndvi)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	bare, sparse, dense := summaries[0], summaries[1], summaries[2]
	assert.Equal(t, schema.BareClass, bare.Class)
	assert.Equal(t, 1, bare.Cells)
	assert.Equal(t, 0, bare.RunoffCells)
	assert.True(t, math.IsNaN(bare.MedianRunoffDOY))
	assert.InDeltaSlice(t, []float64{1, 2}, bare.MeanBackscatter, 1e-12)

	assert.Equal(t, schema.SparseClass, sparse.Class)
	assert.Equal(t, 2, sparse.Cells)
	assert.Equal(t, 2, sparse.RunoffCells)
	assert.InDelta(t, 65, sparse.MedianRunoffDOY, 1e-12)
	assert.InDeltaSlice(t, []float64{6, 7}, sparse.MeanBackscatter, 1e-12)

	assert.Equal(t, schema.DenseClass, dense.Class)
	assert.Equal(t, 2, dense.Cells)
	assert.InDelta(t, 61, dense.MedianRunoffDOY, 1e-12)
	assert.InDeltaSlice(t, []float64{8, 9}, dense.MeanBackscatter, 1e-12)
}
