package raster

import (
	"fmt"
	"math"
)

// ReprojectMatch resamples src onto the coordinates and CRS of the target axes
// using nearest neighbour. Target cells that fall outside src become NaN.
func ReprojectMatch(src *Grid, y, x []float64, crs string) (*Grid, error) {
	if src.SameGrid(y, x, crs) {
		values := make([]float64, len(src.Values))
		copy(values, src.Values)
		return &Grid{Name: src.Name, Units: src.Units, Y: y, X: x, CRS: crs, Values: values}, nil
	}

	toSrc, err := NewTransform(crs, src.CRS)
	if err != nil {
		return nil, fmt.Errorf("reproject %s: %w", src.Name, err)
	}

	values := make([]float64, len(y)*len(x))
	for i, yy := range y {
		for j, xx := range x {
			k := i*len(x) + j
			sx, sy, err := toSrc(xx, yy)
			if err != nil {
				values[k] = math.NaN()
				continue
			}
			si, ok := nearest(src.Y, sy)
			if !ok {
				values[k] = math.NaN()
				continue
			}
			sj, ok := nearest(src.X, sx)
			if !ok {
				values[k] = math.NaN()
				continue
			}
			values[k] = src.At(si, sj)
		}
	}
	return &Grid{Name: src.Name, Units: src.Units, Y: y, X: x, CRS: crs, Values: values}, nil
}

// nearest returns the index of the regularly spaced axis cell containing v.
// Values beyond the outer cell edges are out of range.
func nearest(axis []float64, v float64) (int, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	if len(axis) == 1 {
		return 0, v == axis[0]
	}
	step := axis[1] - axis[0]
	k := int(math.Round((v - axis[0]) / step))
	if k < 0 || k >= len(axis) {
		return 0, false
	}
	return k, true
}
