package core

import (
	"context"
	"fmt"
	"os"

	"github.com/snowline/s1snow/core/algo"
	"github.com/snowline/s1snow/core/join"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/schema"
)

// showHeader reports whether a header can be printed without corrupting machine output on stdout.
func showHeader(ctx context.Context, cfg *contract.Config) bool {
	if shouldSuppressHeader(ctx) {
		return false
	}
	return cfg.Output == schema.TextOut || cfg.OutputFile != ""
}

// runOnsetCore performs the common Load, Extraction, Join and Fit steps.
func runOnsetCore(ctx context.Context, cfg *contract.Config, imagery contract.ImageryProvider, terrain contract.TerrainProvider) (*schema.OnsetTable, error) {
	if showHeader(ctx, cfg) {
		LogOnsetHeader(os.Stdout, cfg)
	}

	// --- 1. Load the cube ---
	cube, err := loadBackscatter(ctx, cfg, imagery)
	if err != nil {
		return nil, err
	}
	runoffCube, err := cube.FilterOrbit(cfg.Orbit)
	if err != nil {
		return nil, fmt.Errorf("runoff onset: %w", err)
	}

	// --- 2. Onset extraction ---
	opts := onsetOptions(cfg)
	runoff, err := algo.RunoffOnset(ctx, runoffCube, opts)
	if err != nil {
		return nil, err
	}
	ripening, err := algo.RipeningOnset(ctx, cube, cfg.RipeningOrbit, opts)
	if err != nil {
		return nil, err
	}

	// --- 3. Terrain on the cube grid ---
	in := join.Input{Runoff: runoff, Ripening: ripening}
	if in.Elevation, err = loadTerrain(ctx, terrain, schema.DEMLayer, cube); err != nil {
		return nil, err
	}
	if in.Aspect, err = loadTerrain(ctx, terrain, schema.AspectLayer, cube); err != nil {
		return nil, err
	}
	switch {
	case terrain.Has(schema.HeatingIndexLayer):
		in.HeatingIndex, err = loadTerrain(ctx, terrain, schema.HeatingIndexLayer, cube)
	case terrain.Has(schema.SlopeLayer):
		in.Slope, err = loadTerrain(ctx, terrain, schema.SlopeLayer, cube)
	default:
		err = fmt.Errorf("either --%s or --%s is required to get a heating index", contract.HeatingIndexInput, contract.SlopeInput)
	}
	if err != nil {
		return nil, err
	}

	// --- 4. Join and fit ---
	return join.BuildOnsetTable(ctx, in)
}
