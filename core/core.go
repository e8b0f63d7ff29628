// Package core has the onset, summary and plot pipelines that back the CLI commands.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/snowline/s1snow/internal/chart"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/internal/outwriter"
	"github.com/snowline/s1snow/internal/parquet"
	"github.com/snowline/s1snow/schema"
	"gonum.org/v1/plot"
)

// NewFileProviders returns the Parquet-backed imagery and terrain providers for the configured inputs.
func NewFileProviders(cfg *contract.Config) (*parquet.ImageryFiles, *parquet.TerrainFiles) {
	imagery := &parquet.ImageryFiles{
		BackscatterPath: cfg.BackscatterPath,
		OpticalPath:     cfg.OpticalPath,
		CRS:             cfg.ImageryCRS,
	}
	terrain := &parquet.TerrainFiles{
		Paths: map[schema.TerrainLayer]string{
			schema.DEMLayer:          cfg.DEMPath,
			schema.AspectLayer:       cfg.AspectPath,
			schema.SlopeLayer:        cfg.SlopePath,
			schema.HeatingIndexLayer: cfg.HeatingIndexPath,
		},
		CRS: cfg.TerrainCRS,
	}
	return imagery, terrain
}

// ExecuteOnset extracts the onsets, joins terrain, fits both trends and prints the table.
// It serves as the main entry point for the 'onset' command.
func ExecuteOnset(ctx context.Context, cfg *contract.Config, imagery contract.ImageryProvider, terrain contract.TerrainProvider, mgr contract.StoreManager) error {
	start := time.Now()
	ctx = beginRun(ctx, cfg, mgr, start)

	table, err := runOnsetCore(ctx, cfg, imagery, terrain)
	if err != nil {
		return err
	}
	finishRun(ctx, mgr, table)

	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteOnset(table, cfg, duration)
}

// ExecuteSummary runs the elevation, hypsometry and vegetation analyses that the inputs allow.
// It serves as the main entry point for the 'summary' command.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, imagery contract.ImageryProvider, terrain contract.TerrainProvider) error {
	start := time.Now()
	parts := summaryParts{
		ElevationBins: terrain.Has(schema.DEMLayer),
		Hypsometry:    terrain.Has(schema.DEMLayer),
		Vegetation:    cfg.OpticalPath != "",
	}
	if !parts.any() {
		return fmt.Errorf("summary needs --%s or --%s", contract.DEMInput, contract.OpticalInput)
	}

	report, err := runSummaryCore(ctx, cfg, imagery, terrain, parts)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteSummary(report, cfg, duration)
}

// ExecutePlot renders the configured diagnostic plot to the plot file.
// It serves as the main entry point for the 'plot' command.
func ExecutePlot(ctx context.Context, cfg *contract.Config, imagery contract.ImageryProvider, terrain contract.TerrainProvider) error {
	start := time.Now()

	p, err := buildPlot(ctx, cfg, imagery, terrain)
	if err != nil {
		return err
	}
	if err := chart.Save(p, cfg.PlotWidthCm, cfg.PlotHeightCm, cfg.PlotFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "📈 Wrote %s plot to %s in %v\n", cfg.PlotKind, cfg.PlotFile, time.Since(start))
	return nil
}

// buildPlot computes only the analysis the plot kind draws.
func buildPlot(ctx context.Context, cfg *contract.Config, imagery contract.ImageryProvider, terrain contract.TerrainProvider) (*plot.Plot, error) {
	switch cfg.PlotKind {
	case schema.TrendPlot:
		table, err := runOnsetCore(ctx, cfg, imagery, terrain)
		if err != nil {
			return nil, err
		}
		return chart.Trend(table)
	case schema.HypsometryPlot:
		report, err := runSummaryCore(ctx, cfg, imagery, terrain, summaryParts{Hypsometry: true})
		if err != nil {
			return nil, err
		}
		return chart.Hypsometry(report.Hypsometry)
	case schema.VegetationPlot:
		report, err := runSummaryCore(ctx, cfg, imagery, terrain, summaryParts{Vegetation: true})
		if err != nil {
			return nil, err
		}
		return chart.Vegetation(report.Vegetation)
	default:
		report, err := runSummaryCore(ctx, cfg, imagery, terrain, summaryParts{ElevationBins: true})
		if err != nil {
			return nil, err
		}
		return chart.ElevationBins(report.ElevationBins)
	}
}
