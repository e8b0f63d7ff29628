package algo

import (
	"fmt"
	"math"

	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
)

// maxHeatingAspect is the aspect in degrees receiving the most afternoon heating (SSW).
const maxHeatingAspect = 202.5

// DiurnalAnisotropicHeating returns cos(202.5 - aspect) * atan(slope) with angles in
// degrees and the slope converted to radians before the arctangent.
func DiurnalAnisotropicHeating(aspect, slope float64) float64 {
	return math.Cos(deg2rad(maxHeatingAspect-aspect)) * math.Atan(deg2rad(slope))
}

// HeatingIndex derives the heating index grid from co-registered aspect and slope grids.
// Cells missing either input stay missing.
func HeatingIndex(aspect, slope *raster.Grid) (*raster.Grid, error) {
	if !aspect.SameGrid(slope.Y, slope.X, slope.CRS) {
		return nil, fmt.Errorf("aspect and slope grids differ, reproject them onto one grid first")
	}
	values := make([]float64, len(aspect.Values))
	for k := range values {
		a, s := aspect.Values[k], slope.Values[k]
		if !schema.IsValid(a) || !schema.IsValid(s) {
			values[k] = math.NaN()
			continue
		}
		values[k] = DiurnalAnisotropicHeating(a, s)
	}
	return &raster.Grid{
		Name:   string(schema.HeatingIndexLayer),
		Units:  "dimensionless",
		Y:      aspect.Y,
		X:      aspect.X,
		CRS:    aspect.CRS,
		Values: values,
	}, nil
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}
