package cmd

import (
	"github.com/snowline/s1snow/core"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/internal/runstore"
	"github.com/spf13/cobra"
)

// onsetCmd extracts runoff and ripening onset and fits their terrain trend.
var onsetCmd = &cobra.Command{
	Use:   "onset",
	Short: "Extract per-cell melt onset and fit its trend against terrain.",
	Long: `Find the runoff onset (backscatter minimum) and the ripening onset
(steepest backscatter drop) of every cell, join them with elevation, aspect
and heating index, and fit an ordinary least squares trend for each.

Cells with no onset or a no-data terrain value are dropped from the table.
Each run is recorded in the run tracking store unless --run-backend none.

Required inputs: --backscatter, --dem, --aspect, and one of --heating-index
or --slope (the heating index is then derived from slope and aspect).

Examples:
  # Onset on ascending scenes with a derived heating index
  s1snow onset -b s1.parquet --dem dem.parquet --aspect aspect.parquet --slope slope.parquet --orbit ascending

  # Restrict to a season and an area
  s1snow onset -b s1.parquet --dem dem.parquet --aspect aspect.parquet --heating-index hi.parquet \
    --start 2024-02-01 --end 2024-07-31 --bbox 10.9,46.3,11.2,46.6

  # Export the full table for GIS tools
  s1snow onset -b s1.parquet --dem dem.parquet --aspect aspect.parquet --slope slope.parquet \
    --output parquet --output-file onset.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := cfg.RequireInputs(contract.BackscatterInput, contract.DEMInput, contract.AspectInput); err != nil {
			contract.LogFatal("Cannot run onset analysis", err)
		}
		if err := cfg.RequireTerrainHeating(); err != nil {
			contract.LogFatal("Cannot run onset analysis", err)
		}
		imagery, terrain := core.NewFileProviders(cfg)
		if err := core.ExecuteOnset(rootCtx, cfg, imagery, terrain, runstore.Manager); err != nil {
			contract.LogFatal("Cannot run onset analysis", err)
		}
	},
}
