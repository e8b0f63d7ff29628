package algo

import (
	"errors"
	"fmt"
	"math"

	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
)

// DefaultBinSize is the elevation bin height in meters.
const DefaultBinSize = 100.0

var errBinSize = errors.New("bin size must be positive")

// ElevationBinCenters returns bin centers from the top of the highest bin down to the
// lowest bin still holding elevations >= lo, descending in steps of binSize.
func ElevationBinCenters(lo, hi, binSize float64) []float64 {
	var centers []float64
	for c := math.Floor(hi/binSize)*binSize + binSize/2; c+binSize/2 > lo; c -= binSize {
		centers = append(centers, c)
	}
	return centers
}

// inBin reports whether v falls in the half-open bin [center - size/2, center + size/2).
func inBin(v, center, size float64) bool {
	return v >= center-size/2 && v < center+size/2
}

// ElevationBins averages backscatter per elevation bin and time step over the cells
// of dem (already on the cube grid). With normalize, each bin is min-max scaled across time.
func ElevationBins(ts *raster.TimeSeries, dem *raster.Grid, binSize float64, normalize bool) (*schema.ElevationBinSeries, error) {
	if binSize <= 0 {
		return nil, errBinSize
	}
	if !dem.SameGrid(ts.Y, ts.X, ts.CRS) {
		return nil, fmt.Errorf("dem grid differs from the backscatter grid, reproject it first")
	}
	lo, hi, ok := minMax(dem.Values)
	if !ok {
		return nil, fmt.Errorf("dem has no valid cells: %w", schema.ErrEmptyInput)
	}

	nt, ny, nx := ts.Shape()
	frame := ny * nx
	centers := ElevationBinCenters(lo, hi, binSize)
	out := &schema.ElevationBinSeries{
		Centers:    centers,
		Times:      ts.Times,
		Values:     make([][]float64, len(centers)),
		Counts:     make([]int, len(centers)),
		Normalized: normalize,
	}

	members := make([][]int, len(centers))
	for k, elev := range dem.Values {
		if !schema.IsValid(elev) {
			continue
		}
		for b, c := range centers {
			if inBin(elev, c, binSize) {
				members[b] = append(members[b], k)
				break
			}
		}
	}

	samples := make([]float64, 0, frame)
	for b := range centers {
		out.Counts[b] = len(members[b])
		series := make([]float64, nt)
		for t := range nt {
			samples = samples[:0]
			for _, k := range members[b] {
				samples = append(samples, ts.Values[t*frame+k])
			}
			series[t] = nanMean(samples)
		}
		if normalize {
			minMaxScale(series)
		}
		out.Values[b] = series
	}
	return out, nil
}

// minMaxScale rescales series in place onto [0, 1]. A flat series becomes NaN.
func minMaxScale(series []float64) {
	lo, hi, ok := minMax(series)
	for t, v := range series {
		if !ok || hi == lo || !schema.IsValid(v) {
			series[t] = math.NaN()
			continue
		}
		series[t] = (v - lo) / (hi - lo)
	}
}

// Hypsometry counts dem cells per elevation band of binSize meters, lowest band first.
func Hypsometry(dem *raster.Grid, binSize float64) ([]schema.HypsometryBin, error) {
	if binSize <= 0 {
		return nil, errBinSize
	}
	lo, hi, ok := minMax(dem.Values)
	if !ok {
		return nil, fmt.Errorf("dem has no valid cells: %w", schema.ErrEmptyInput)
	}

	bottom := math.Floor(lo/binSize) * binSize
	top := math.Floor(hi/binSize)*binSize + binSize
	n := int(math.Round((top - bottom) / binSize))
	bins := make([]schema.HypsometryBin, n)
	for k := range bins {
		bins[k] = schema.HypsometryBin{
			Lower: bottom + float64(k)*binSize,
			Upper: bottom + float64(k+1)*binSize,
		}
	}
	for _, v := range dem.Values {
		if !schema.IsValid(v) {
			continue
		}
		k := min(int(math.Floor((v-bottom)/binSize)), n-1)
		bins[k].Count++
	}
	return bins, nil
}

// VegetationSummaries groups cells by NDVI class and reports, per class, the median
// runoff day-of-year and the mean backscatter of every time step.
func VegetationSummaries(ts *raster.TimeSeries, runoff *raster.OnsetGrid, ndvi *raster.Grid) ([]schema.VegetationSummary, error) {
	if !ndvi.SameGrid(ts.Y, ts.X, ts.CRS) {
		return nil, fmt.Errorf("ndvi grid differs from the backscatter grid, reproject it first")
	}
	if len(runoff.Onsets) != len(ndvi.Values) {
		return nil, fmt.Errorf("runoff grid has %d cells, ndvi grid has %d", len(runoff.Onsets), len(ndvi.Values))
	}

	nt, ny, nx := ts.Shape()
	frame := ny * nx
	members := make(map[schema.VegetationClass][]int, len(schema.AllVegetationClasses))
	for k, v := range ndvi.Values {
		if class, ok := schema.ClassifyNDVI(v); ok {
			members[class] = append(members[class], k)
		}
	}

	out := make([]schema.VegetationSummary, 0, len(schema.AllVegetationClasses))
	for _, class := range schema.AllVegetationClasses {
		cells := members[class]
		summary := schema.VegetationSummary{
			Class:           class,
			Cells:           len(cells),
			Times:           ts.Times,
			MeanBackscatter: make([]float64, nt),
		}

		days := make([]float64, 0, len(cells))
		for _, k := range cells {
			if doy, ok := runoff.Onsets[k].DayOfYear(); ok {
				days = append(days, float64(doy))
			}
		}
		summary.RunoffCells = len(days)
		summary.MedianRunoffDOY = median(days)

		samples := make([]float64, 0, len(cells))
		for t := range nt {
			samples = samples[:0]
			for _, k := range cells {
				samples = append(samples, ts.Values[t*frame+k])
			}
			summary.MeanBackscatter[t] = nanMean(samples)
		}
		out = append(out, summary)
	}
	return out, nil
}
