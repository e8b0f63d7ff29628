package core

import (
	"context"
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/snowline/s1snow/core/algo"
	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/schema"
)

// Terrain is cropped to the cube extent widened by this share of its span,
// and by at least minTerrainPad degrees, so coarse terrain cells still cover edge pixels.
const (
	terrainPadFraction = 0.1
	minTerrainPad      = 0.005
)

// imageryQuery builds the provider query for the configured selection.
func imageryQuery(cfg *contract.Config, orbit schema.OrbitDirection) contract.ImageryQuery {
	return contract.ImageryQuery{
		Band:  cfg.Band,
		Start: cfg.StartTime,
		End:   cfg.EndTime,
		BBox:  cfg.BBox,
		Orbit: orbit,
	}
}

// onsetOptions maps the config onto extraction options.
func onsetOptions(cfg *contract.Config) algo.OnsetOptions {
	return algo.OnsetOptions{Workers: cfg.Workers, Missing: cfg.Missing}
}

// loadBackscatter fetches the cube with every orbit direction kept.
func loadBackscatter(ctx context.Context, cfg *contract.Config, imagery contract.ImageryProvider) (*raster.TimeSeries, error) {
	cube, err := imagery.Backscatter(ctx, imageryQuery(cfg, schema.AllOrbits))
	if err != nil {
		return nil, fmt.Errorf("failed to load backscatter: %w", err)
	}
	return cube, nil
}

// padBounds widens a geographic box, clamped to valid longitudes and latitudes.
func padBounds(b *geom.Bounds) *geom.Bounds {
	dx := math.Max((b.Max.X-b.Min.X)*terrainPadFraction, minTerrainPad)
	dy := math.Max((b.Max.Y-b.Min.Y)*terrainPadFraction, minTerrainPad)
	return &geom.Bounds{
		Min: geom.Point{X: math.Max(b.Min.X-dx, -180), Y: math.Max(b.Min.Y-dy, -90)},
		Max: geom.Point{X: math.Min(b.Max.X+dx, 180), Y: math.Min(b.Max.Y+dy, 90)},
	}
}

// loadTerrain fetches a terrain layer around the cube and resamples it onto the cube grid.
func loadTerrain(ctx context.Context, terrain contract.TerrainProvider, layer schema.TerrainLayer, cube *raster.TimeSeries) (*raster.Grid, error) {
	bounds, err := cube.Bounds4326()
	if err != nil {
		return nil, fmt.Errorf("failed to compute cube bounds: %w", err)
	}
	grid, err := terrain.Terrain(ctx, layer, padBounds(bounds))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s terrain: %w", layer, err)
	}
	matched, err := raster.ReprojectMatch(grid, cube.Y, cube.X, cube.CRS)
	if err != nil {
		return nil, fmt.Errorf("failed to match %s terrain to the cube grid: %w", layer, err)
	}
	return matched, nil
}

// loadNDVI computes the median NDVI of the optical scenes on the cube grid.
func loadNDVI(ctx context.Context, cfg *contract.Config, imagery contract.ImageryProvider, cube *raster.TimeSeries) (*raster.Grid, error) {
	optical, err := imagery.Optical(ctx, imageryQuery(cfg, schema.AllOrbits))
	if err != nil {
		return nil, fmt.Errorf("failed to load optical scenes: %w", err)
	}
	ndvi, err := algo.MedianNDVI(optical, cfg.CloudThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to compute NDVI: %w", err)
	}
	matched, err := raster.ReprojectMatch(ndvi, cube.Y, cube.X, cube.CRS)
	if err != nil {
		return nil, fmt.Errorf("failed to match NDVI to the cube grid: %w", err)
	}
	return matched, nil
}
