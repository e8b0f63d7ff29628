package parquet

import (
	"context"
	"fmt"

	"github.com/ctessum/geom"
	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/schema"
)

// ImageryFiles serves backscatter and optical stacks from long-format Parquet files.
// CRS names the coordinate system of the y and x columns.
type ImageryFiles struct {
	BackscatterPath string
	OpticalPath     string
	CRS             string
}

var _ contract.ImageryProvider = &ImageryFiles{} // Compile-time check

// Backscatter loads the configured file and applies the band, time, orbit and bbox selection.
func (f *ImageryFiles) Backscatter(ctx context.Context, q contract.ImageryQuery) (*raster.TimeSeries, error) {
	if f.BackscatterPath == "" {
		return nil, fmt.Errorf("no backscatter file configured")
	}
	samples, err := ReadBackscatter(f.BackscatterPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ts, err := BuildTimeSeries(samples, q.Band, q.Start, q.End, f.CRS)
	if err != nil {
		return nil, fmt.Errorf("error assembling backscatter from %s: %w", f.BackscatterPath, err)
	}
	if ts, err = ts.FilterOrbit(q.Orbit); err != nil {
		return nil, err
	}
	if q.BBox != nil {
		if ts, err = ts.Crop(q.BBox); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// Optical loads the configured file and applies the time and bbox selection.
func (f *ImageryFiles) Optical(ctx context.Context, q contract.ImageryQuery) (*raster.OpticalSeries, error) {
	if f.OpticalPath == "" {
		return nil, fmt.Errorf("no optical file configured")
	}
	samples, err := ReadOptical(f.OpticalPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	optical, err := BuildOpticalSeries(samples, q.Start, q.End, f.CRS)
	if err != nil {
		return nil, fmt.Errorf("error assembling optical scenes from %s: %w", f.OpticalPath, err)
	}
	return optical, nil
}

// TerrainFiles serves static terrain grids, one long-format Parquet file per layer.
type TerrainFiles struct {
	Paths map[schema.TerrainLayer]string
	CRS   string
}

var _ contract.TerrainProvider = &TerrainFiles{} // Compile-time check

// layerUnits are the units recorded on grids of each layer.
var layerUnits = map[schema.TerrainLayer]string{
	schema.DEMLayer:          "m",
	schema.AspectLayer:       "degrees",
	schema.SlopeLayer:        "degrees",
	schema.HeatingIndexLayer: "1",
}

// Has reports whether a file is configured for the layer.
func (f *TerrainFiles) Has(layer schema.TerrainLayer) bool {
	return f.Paths[layer] != ""
}

// Terrain loads a layer and crops it to bounds when given.
func (f *TerrainFiles) Terrain(ctx context.Context, layer schema.TerrainLayer, bounds *geom.Bounds) (*raster.Grid, error) {
	path := f.Paths[layer]
	if path == "" {
		return nil, fmt.Errorf("no file configured for terrain layer %s", layer)
	}
	cells, err := ReadGrid(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid, err := BuildGrid(cells, string(layer), layerUnits[layer], f.CRS)
	if err != nil {
		return nil, err
	}
	if bounds != nil {
		return grid.Crop(bounds)
	}
	return grid, nil
}
