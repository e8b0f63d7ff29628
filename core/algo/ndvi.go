package algo

import (
	"fmt"
	"math"

	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
)

// DefaultCloudThreshold is the cloud cover percentage a scene must stay below to count.
const DefaultCloudThreshold = 20.0

// NDVI returns (nir - red) / (nir + red), or NaN when either band is missing or the sum is zero.
func NDVI(red, nir float64) float64 {
	if !schema.IsValid(red) || !schema.IsValid(nir) || red+nir == 0 {
		return math.NaN()
	}
	return (nir - red) / (nir + red)
}

// MedianNDVI returns the per-pixel median NDVI over scenes with cloud cover below the threshold.
func MedianNDVI(optical *raster.OpticalSeries, cloudThreshold float64) (*raster.Grid, error) {
	nt, ny, nx := optical.Shape()
	frame := ny * nx

	var scenes []int
	for t := range nt {
		if optical.CloudCover[t] < cloudThreshold {
			scenes = append(scenes, t)
		}
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("no scene below %.0f%% cloud cover: %w", cloudThreshold, schema.ErrEmptyInput)
	}

	values := make([]float64, frame)
	samples := make([]float64, 0, len(scenes))
	for k := range frame {
		samples = samples[:0]
		for _, t := range scenes {
			samples = append(samples, NDVI(optical.Red[t*frame+k], optical.NIR[t*frame+k]))
		}
		values[k] = median(samples)
	}

	return &raster.Grid{
		Name:   "ndvi",
		Units:  "dimensionless",
		Y:      optical.Y,
		X:      optical.X,
		CRS:    optical.CRS,
		Values: values,
	}, nil
}
