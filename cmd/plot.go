package cmd

import (
	"github.com/snowline/s1snow/core"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/schema"
	"github.com/spf13/cobra"
)

// plotInputs lists the input roles each plot kind reads.
var plotInputs = map[schema.PlotKind][]string{
	schema.ElevationBinsPlot: {contract.BackscatterInput, contract.DEMInput},
	schema.HypsometryPlot:    {contract.BackscatterInput, contract.DEMInput},
	schema.VegetationPlot:    {contract.BackscatterInput, contract.OpticalInput},
	schema.TrendPlot:         {contract.BackscatterInput, contract.DEMInput, contract.AspectInput},
}

// requirePlotInputs checks the inputs of the configured plot kind.
func requirePlotInputs(c *contract.Config) error {
	if err := c.RequireInputs(plotInputs[c.PlotKind]...); err != nil {
		return err
	}
	if c.PlotKind == schema.TrendPlot {
		return c.RequireTerrainHeating()
	}
	return nil
}

// plotCmd renders one diagnostic plot to an image file.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a summary or trend plot to an image file.",
	Long: `Render one diagnostic plot. The image format follows the --plot-file
extension (png, jpg, svg, pdf, eps, tif).

Kinds:
  elevation-bins - heat map of mean backscatter per elevation bin over time
  hypsometry     - cell count per elevation bin
  vegetation     - mean backscatter per vegetation class over time
  trend          - onset day of year against elevation with the fitted models

Examples:
  # Elevation bin heat map as SVG
  s1snow plot --kind elevation-bins -b s1.parquet --dem dem.parquet --plot-file bins.svg

  # Onset trend plot
  s1snow plot --kind trend -b s1.parquet --dem dem.parquet --aspect aspect.parquet --slope slope.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := requirePlotInputs(cfg); err != nil {
			contract.LogFatal("Cannot render plot", err)
		}
		imagery, terrain := core.NewFileProviders(cfg)
		if err := core.ExecutePlot(rootCtx, cfg, imagery, terrain); err != nil {
			contract.LogFatal("Cannot render plot", err)
		}
	},
}
