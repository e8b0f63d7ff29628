package parquet

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
)

// BackscatterSample is one long-format backscatter reading.
// A missing value marks no-data for that cell and scene.
type BackscatterSample struct {
	Time  time.Time `parquet:"time,snappy"`
	Orbit string    `parquet:"orbit,dict,snappy"`
	Band  string    `parquet:"band,dict,snappy"`
	Y     float64   `parquet:"y,snappy"`
	X     float64   `parquet:"x,snappy"`
	Value *float64  `parquet:"value,optional,snappy"`
}

// OpticalSample is one long-format optical reading with its scene cloud cover in percent.
type OpticalSample struct {
	Time       time.Time `parquet:"time,snappy"`
	CloudCover float64   `parquet:"cloud_cover,snappy"`
	Y          float64   `parquet:"y,snappy"`
	X          float64   `parquet:"x,snappy"`
	Red        *float64  `parquet:"red,optional,snappy"`
	NIR        *float64  `parquet:"nir,optional,snappy"`
}

// GridCell is one cell of a static long-format grid.
type GridCell struct {
	Y     float64  `parquet:"y,snappy"`
	X     float64  `parquet:"x,snappy"`
	Value *float64 `parquet:"value,optional,snappy"`
}

// ReadBackscatter loads every backscatter sample of a file.
func ReadBackscatter(path string) ([]BackscatterSample, error) {
	rows, err := parquet.ReadFile[BackscatterSample](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backscatter file %s: %w", path, err)
	}
	return rows, nil
}

// ReadOptical loads every optical sample of a file.
func ReadOptical(path string) ([]OpticalSample, error) {
	rows, err := parquet.ReadFile[OpticalSample](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read optical file %s: %w", path, err)
	}
	return rows, nil
}

// ReadGrid loads every cell of a static grid file.
func ReadGrid(path string) ([]GridCell, error) {
	rows, err := parquet.ReadFile[GridCell](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid file %s: %w", path, err)
	}
	return rows, nil
}

// axes collects the unique coordinates of a set of cells into north-up axes
// (Y descending, X ascending) and indexes them.
type axes struct {
	y, x   []float64
	yi, xi map[float64]int
}

func newAxes(ys, xs []float64) axes {
	y := uniqueSorted(ys)
	slices.Reverse(y)
	x := uniqueSorted(xs)
	return axes{y: y, x: x, yi: indexOf(y), xi: indexOf(x)}
}

func (a axes) cells() int {
	return len(a.y) * len(a.x)
}

func (a axes) offset(y, x float64) int {
	return a.yi[y]*len(a.x) + a.xi[x]
}

func uniqueSorted(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

func indexOf(axis []float64) map[float64]int {
	index := make(map[float64]int, len(axis))
	for k, v := range axis {
		index[v] = k
	}
	return index
}

func nanFilled(n int) []float64 {
	values := make([]float64, n)
	for k := range values {
		values[k] = math.NaN()
	}
	return values
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func inWindow(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

// BuildTimeSeries assembles long-format samples of one band into a cube.
// Samples outside [start, end] or of another band are dropped; zero bounds are open.
// Cells absent from a scene are NaN.
func BuildTimeSeries(samples []BackscatterSample, band string, start, end time.Time, crs string) (*raster.TimeSeries, error) {
	var kept []BackscatterSample
	for _, s := range samples {
		if band != "" && !strings.EqualFold(s.Band, band) {
			continue
		}
		if !inWindow(s.Time, start, end) {
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no %s samples in the requested window: %w", band, schema.ErrEmptyInput)
	}

	var times []time.Time
	timeIndex := make(map[int64]int)
	ys := make([]float64, len(kept))
	xs := make([]float64, len(kept))
	for k, s := range kept {
		key := s.Time.UnixNano()
		if _, ok := timeIndex[key]; !ok {
			timeIndex[key] = 0
			times = append(times, s.Time.UTC())
		}
		ys[k], xs[k] = s.Y, s.X
	}
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })
	for t, tt := range times {
		timeIndex[tt.UnixNano()] = t
	}

	grid := newAxes(ys, xs)
	frame := grid.cells()
	values := nanFilled(len(times) * frame)
	orbits := make([]schema.OrbitDirection, len(times))
	seen := make([]bool, len(times))
	for _, s := range kept {
		t := timeIndex[s.Time.UnixNano()]
		direction := schema.ParseOrbitDirection(s.Orbit)
		if seen[t] && orbits[t] != direction {
			return nil, fmt.Errorf("scene %s mixes orbit directions %q and %q", times[t].Format(time.RFC3339), orbits[t], direction)
		}
		orbits[t], seen[t] = direction, true
		values[t*frame+grid.offset(s.Y, s.X)] = valueOrNaN(s.Value)
	}

	name := band
	if name == "" {
		name = kept[0].Band
	}
	return raster.NewTimeSeries(times, orbits, grid.y, grid.x, crs, strings.ToLower(name), values)
}

// BuildOpticalSeries assembles long-format optical samples into a stack.
// A scene whose rows disagree on cloud cover keeps the largest value.
func BuildOpticalSeries(samples []OpticalSample, start, end time.Time, crs string) (*raster.OpticalSeries, error) {
	var kept []OpticalSample
	for _, s := range samples {
		if inWindow(s.Time, start, end) {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no optical samples in the requested window: %w", schema.ErrEmptyInput)
	}

	var times []time.Time
	timeIndex := make(map[int64]int)
	ys := make([]float64, len(kept))
	xs := make([]float64, len(kept))
	for k, s := range kept {
		key := s.Time.UnixNano()
		if _, ok := timeIndex[key]; !ok {
			timeIndex[key] = 0
			times = append(times, s.Time.UTC())
		}
		ys[k], xs[k] = s.Y, s.X
	}
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })
	for t, tt := range times {
		timeIndex[tt.UnixNano()] = t
	}

	grid := newAxes(ys, xs)
	frame := grid.cells()
	red := nanFilled(len(times) * frame)
	nir := nanFilled(len(times) * frame)
	cloud := make([]float64, len(times))
	for _, s := range kept {
		t := timeIndex[s.Time.UnixNano()]
		cloud[t] = math.Max(cloud[t], s.CloudCover)
		at := t*frame + grid.offset(s.Y, s.X)
		red[at] = valueOrNaN(s.Red)
		nir[at] = valueOrNaN(s.NIR)
	}
	return raster.NewOpticalSeries(times, cloud, grid.y, grid.x, crs, red, nir)
}

// BuildGrid assembles long-format cells into a grid. Absent cells are NaN.
func BuildGrid(cells []GridCell, name, units, crs string) (*raster.Grid, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("grid %s has no cells: %w", name, schema.ErrEmptyInput)
	}
	ys := make([]float64, len(cells))
	xs := make([]float64, len(cells))
	for k, c := range cells {
		ys[k], xs[k] = c.Y, c.X
	}
	grid := newAxes(ys, xs)
	values := nanFilled(grid.cells())
	for _, c := range cells {
		values[grid.offset(c.Y, c.X)] = valueOrNaN(c.Value)
	}
	return raster.NewGrid(name, units, grid.y, grid.x, crs, values)
}
