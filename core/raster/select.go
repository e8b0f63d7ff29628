package raster

import (
	"fmt"
	"time"

	"github.com/snowline/s1snow/schema"
)

// SliceTime keeps the time steps within [start, end]. Zero bounds are open.
func (ts *TimeSeries) SliceTime(start, end time.Time) (*TimeSeries, error) {
	return ts.selectTimes(func(t int) bool {
		tt := ts.Times[t]
		if !start.IsZero() && tt.Before(start) {
			return false
		}
		if !end.IsZero() && tt.After(end) {
			return false
		}
		return true
	})
}

// FilterOrbit keeps the time steps acquired on the given pass direction.
// AllOrbits keeps everything; scenes with an unknown direction only survive AllOrbits.
func (ts *TimeSeries) FilterOrbit(direction schema.OrbitDirection) (*TimeSeries, error) {
	if direction == schema.AllOrbits || direction == "" {
		return ts, nil
	}
	out, err := ts.selectTimes(func(t int) bool {
		return ts.Orbit(t) == direction
	})
	if err != nil {
		return nil, fmt.Errorf("no %s scenes in %d time steps: %w", direction, len(ts.Times), err)
	}
	return out, nil
}

// selectTimes copies the time steps accepted by keep into a new cube.
func (ts *TimeSeries) selectTimes(keep func(t int) bool) (*TimeSeries, error) {
	nt, ny, nx := ts.Shape()
	frame := ny * nx

	var times []time.Time
	var orbits []schema.OrbitDirection
	var values []float64
	for t := range nt {
		if !keep(t) {
			continue
		}
		times = append(times, ts.Times[t])
		if len(ts.Orbits) > 0 {
			orbits = append(orbits, ts.Orbits[t])
		}
		values = append(values, ts.Values[t*frame:(t+1)*frame]...)
	}
	if len(times) == 0 {
		return nil, schema.ErrEmptyInput
	}
	return &TimeSeries{
		Times:  times,
		Orbits: orbits,
		Y:      ts.Y,
		X:      ts.X,
		CRS:    ts.CRS,
		Band:   ts.Band,
		Values: values,
	}, nil
}

// window returns the inclusive index range of an axis whose values lie in [lo, hi].
// ok is false when the range is empty.
func window(axis []float64, lo, hi float64) (first, last int, ok bool) {
	first, last = -1, -1
	for k, v := range axis {
		if v < lo || v > hi {
			continue
		}
		if first < 0 {
			first = k
		}
		last = k
	}
	return first, last, first >= 0
}

// cropIndex cuts a cube to rows [i0, i1] and columns [j0, j1].
func (ts *TimeSeries) cropIndex(i0, i1, j0, j1 int) *TimeSeries {
	nt, ny, nx := ts.Shape()
	cy, cx := i1-i0+1, j1-j0+1
	values := make([]float64, 0, nt*cy*cx)
	for t := range nt {
		for i := i0; i <= i1; i++ {
			row := (t*ny + i) * nx
			values = append(values, ts.Values[row+j0:row+j1+1]...)
		}
	}
	return &TimeSeries{
		Times:  ts.Times,
		Orbits: ts.Orbits,
		Y:      append([]float64(nil), ts.Y[i0:i1+1]...),
		X:      append([]float64(nil), ts.X[j0:j1+1]...),
		CRS:    ts.CRS,
		Band:   ts.Band,
		Values: values,
	}
}
