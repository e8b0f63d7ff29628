package core

import (
	"context"
	"fmt"
	"os"

	"github.com/snowline/s1snow/core/algo"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/schema"
)

// summaryParts selects the analyses a summary run computes.
type summaryParts struct {
	ElevationBins bool
	Hypsometry    bool
	Vegetation    bool
}

func (p summaryParts) any() bool {
	return p.ElevationBins || p.Hypsometry || p.Vegetation
}

// runSummaryCore loads the cube for the runoff orbit selection and computes the selected analyses.
// Hypsometry counts cells of the DEM resampled onto the cube grid.
func runSummaryCore(ctx context.Context, cfg *contract.Config, imagery contract.ImageryProvider, terrain contract.TerrainProvider, parts summaryParts) (schema.SummaryReport, error) {
	var report schema.SummaryReport
	if showHeader(ctx, cfg) {
		LogSummaryHeader(os.Stdout, cfg)
	}

	cube, err := loadBackscatter(ctx, cfg, imagery)
	if err != nil {
		return report, err
	}
	if cube, err = cube.FilterOrbit(cfg.Orbit); err != nil {
		return report, err
	}

	if parts.ElevationBins || parts.Hypsometry {
		dem, err := loadTerrain(ctx, terrain, schema.DEMLayer, cube)
		if err != nil {
			return report, err
		}
		if parts.ElevationBins {
			if report.ElevationBins, err = algo.ElevationBins(cube, dem, cfg.BinSize, cfg.NormalizeBins); err != nil {
				return report, fmt.Errorf("elevation bins: %w", err)
			}
		}
		if parts.Hypsometry {
			if report.Hypsometry, err = algo.Hypsometry(dem, cfg.BinSize); err != nil {
				return report, fmt.Errorf("hypsometry: %w", err)
			}
		}
	}

	if parts.Vegetation {
		runoff, err := algo.RunoffOnset(ctx, cube, onsetOptions(cfg))
		if err != nil {
			return report, err
		}
		ndvi, err := loadNDVI(ctx, cfg, imagery, cube)
		if err != nil {
			return report, err
		}
		if report.Vegetation, err = algo.VegetationSummaries(cube, runoff, ndvi); err != nil {
			return report, fmt.Errorf("vegetation summaries: %w", err)
		}
	}
	return report, nil
}
