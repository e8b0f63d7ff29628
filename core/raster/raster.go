// Package raster holds the gridded inputs of the onset pipeline: backscatter
// time series, static terrain grids and per-pixel onset grids.
//
// Coordinates follow the north-up convention: X ascends, Y descends, both regularly
// spaced. Values are stored row-major and NaN marks no-data.
package raster

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/snowline/s1snow/schema"
)

// spacingTolerance is the relative slack allowed between consecutive coordinate steps.
const spacingTolerance = 1e-6

// TimeSeries is a stack of co-registered scenes sharing one grid and CRS.
// Values are indexed (t, y, x).
type TimeSeries struct {
	Times  []time.Time
	Orbits []schema.OrbitDirection // empty, or one entry per time step
	Y      []float64
	X      []float64
	CRS    string
	Band   string
	Values []float64
}

// Grid is a single static raster such as a DEM. Values are indexed (y, x).
type Grid struct {
	Name   string
	Units  string
	Y      []float64
	X      []float64
	CRS    string
	Values []float64
}

// OnsetGrid is the onset of every pixel on the grid it was computed from.
type OnsetGrid struct {
	Y      []float64
	X      []float64
	CRS    string
	Onsets []schema.Onset
}

// NewTimeSeries validates the shape of a cube and returns it.
func NewTimeSeries(times []time.Time, orbits []schema.OrbitDirection, y, x []float64, crs, band string, values []float64) (*TimeSeries, error) {
	if len(times) == 0 {
		return nil, schema.ErrEmptyInput
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, fmt.Errorf("times must be strictly ascending: %s follows %s", times[i].Format(time.RFC3339), times[i-1].Format(time.RFC3339))
		}
	}
	if len(orbits) != 0 && len(orbits) != len(times) {
		return nil, fmt.Errorf("got %d orbit directions for %d time steps", len(orbits), len(times))
	}
	if err := validateAxes(y, x); err != nil {
		return nil, err
	}
	if want := len(times) * len(y) * len(x); len(values) != want {
		return nil, fmt.Errorf("got %d values for shape (%d, %d, %d)", len(values), len(times), len(y), len(x))
	}
	return &TimeSeries{
		Times:  times,
		Orbits: orbits,
		Y:      y,
		X:      x,
		CRS:    crs,
		Band:   band,
		Values: values,
	}, nil
}

// NewGrid validates the shape of a grid and returns it.
func NewGrid(name, units string, y, x []float64, crs string, values []float64) (*Grid, error) {
	if err := validateAxes(y, x); err != nil {
		return nil, fmt.Errorf("grid %s: %w", name, err)
	}
	if want := len(y) * len(x); len(values) != want {
		return nil, fmt.Errorf("grid %s: got %d values for shape (%d, %d)", name, len(values), len(y), len(x))
	}
	return &Grid{Name: name, Units: units, Y: y, X: x, CRS: crs, Values: values}, nil
}

// NewOnsetGrid returns an undefined onset for every pixel of the given axes.
func NewOnsetGrid(y, x []float64, crs string) *OnsetGrid {
	return &OnsetGrid{
		Y:      y,
		X:      x,
		CRS:    crs,
		Onsets: make([]schema.Onset, len(y)*len(x)),
	}
}

func validateAxes(y, x []float64) error {
	if len(y) == 0 || len(x) == 0 {
		return errors.New("grid has an empty axis")
	}
	if err := validateAxis("x", x, 1); err != nil {
		return err
	}
	return validateAxis("y", y, -1)
}

// validateAxis checks an axis is strictly monotonic in the given direction and regularly spaced.
func validateAxis(name string, axis []float64, sign float64) error {
	if len(axis) < 2 {
		return nil
	}
	step := axis[1] - axis[0]
	if step*sign <= 0 {
		dir := "ascending"
		if sign < 0 {
			dir = "descending"
		}
		return fmt.Errorf("%s coordinates must be strictly %s", name, dir)
	}
	for i := 2; i < len(axis); i++ {
		d := axis[i] - axis[i-1]
		if math.Abs(d-step) > spacingTolerance*math.Abs(step) {
			return fmt.Errorf("%s coordinates are not regularly spaced at index %d", name, i)
		}
	}
	return nil
}

// Shape returns the (t, y, x) dimensions.
func (ts *TimeSeries) Shape() (int, int, int) {
	return len(ts.Times), len(ts.Y), len(ts.X)
}

// At returns the sample at time t, row i and column j.
func (ts *TimeSeries) At(t, i, j int) float64 {
	return ts.Values[(t*len(ts.Y)+i)*len(ts.X)+j]
}

// Pixel copies the series at row i and column j into dst and returns it.
func (ts *TimeSeries) Pixel(i, j int, dst []float64) []float64 {
	nt, ny, nx := ts.Shape()
	dst = dst[:0]
	for t := range nt {
		dst = append(dst, ts.Values[(t*ny+i)*nx+j])
	}
	return dst
}

// Frame returns the scene at time index t as a Grid sharing no memory with the cube.
func (ts *TimeSeries) Frame(t int) *Grid {
	_, ny, nx := ts.Shape()
	values := make([]float64, ny*nx)
	copy(values, ts.Values[t*ny*nx:(t+1)*ny*nx])
	return &Grid{Name: ts.Band, Y: ts.Y, X: ts.X, CRS: ts.CRS, Values: values}
}

// Orbit returns the orbit direction of time step t, or "" when unknown.
func (ts *TimeSeries) Orbit(t int) schema.OrbitDirection {
	if len(ts.Orbits) == 0 {
		return ""
	}
	return ts.Orbits[t]
}

// Shape returns the (y, x) dimensions.
func (g *Grid) Shape() (int, int) {
	return len(g.Y), len(g.X)
}

// At returns the value at row i and column j.
func (g *Grid) At(i, j int) float64 {
	return g.Values[i*len(g.X)+j]
}

// SameGrid reports whether g shares axes and CRS with the given coordinates.
func (g *Grid) SameGrid(y, x []float64, crs string) bool {
	return g.CRS == crs && sameAxis(g.Y, y) && sameAxis(g.X, x)
}

func sameAxis(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Shape returns the (y, x) dimensions.
func (og *OnsetGrid) Shape() (int, int) {
	return len(og.Y), len(og.X)
}

// At returns the onset at row i and column j.
func (og *OnsetGrid) At(i, j int) schema.Onset {
	return og.Onsets[i*len(og.X)+j]
}

// ValidCount returns the number of pixels with a defined onset.
func (og *OnsetGrid) ValidCount() int {
	n := 0
	for _, o := range og.Onsets {
		if o.Valid {
			n++
		}
	}
	return n
}

// DayOfYear renders the onsets as a day-of-year grid with NaN where undefined.
func (og *OnsetGrid) DayOfYear(name string) *Grid {
	values := make([]float64, len(og.Onsets))
	for k, o := range og.Onsets {
		doy, ok := o.DayOfYear()
		if !ok {
			values[k] = math.NaN()
			continue
		}
		values[k] = float64(doy)
	}
	return &Grid{Name: name, Units: "day of year", Y: og.Y, X: og.X, CRS: og.CRS, Values: values}
}
