package raster

import (
	"fmt"
	"time"

	"github.com/snowline/s1snow/schema"
)

// OpticalSeries is a stack of red and near-infrared reflectance scenes with
// per-scene cloud cover in percent. Red and NIR are indexed (t, y, x).
type OpticalSeries struct {
	Times      []time.Time
	CloudCover []float64
	Y          []float64
	X          []float64
	CRS        string
	Red        []float64
	NIR        []float64
}

// NewOpticalSeries validates the shape of an optical stack and returns it.
func NewOpticalSeries(times []time.Time, cloudCover, y, x []float64, crs string, red, nir []float64) (*OpticalSeries, error) {
	if len(times) == 0 {
		return nil, schema.ErrEmptyInput
	}
	if len(cloudCover) != len(times) {
		return nil, fmt.Errorf("got %d cloud cover values for %d scenes", len(cloudCover), len(times))
	}
	if err := validateAxes(y, x); err != nil {
		return nil, err
	}
	want := len(times) * len(y) * len(x)
	if len(red) != want || len(nir) != want {
		return nil, fmt.Errorf("got %d red and %d nir values for shape (%d, %d, %d)", len(red), len(nir), len(times), len(y), len(x))
	}
	return &OpticalSeries{
		Times:      times,
		CloudCover: cloudCover,
		Y:          y,
		X:          x,
		CRS:        crs,
		Red:        red,
		NIR:        nir,
	}, nil
}

// Shape returns the (t, y, x) dimensions.
func (o *OpticalSeries) Shape() (int, int, int) {
	return len(o.Times), len(o.Y), len(o.X)
}
