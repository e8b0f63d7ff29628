package cmd

import (
	"github.com/snowline/s1snow/core"
	"github.com/snowline/s1snow/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd prints the elevation and vegetation summaries of a scene stack.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize backscatter by elevation bin and vegetation class.",
	Long: `Summarize a backscatter stack against terrain and vegetation.

With --dem:
- Mean backscatter of each elevation bin over time (--normalize to min-max scale)
- Hypsometry of the scene (cell count per elevation bin)

With --optical:
- Median cloud-screened NDVI classed as bare, sparse or dense
- Mean backscatter over time and median runoff onset per class

Examples:
  # Elevation bins of 200 m
  s1snow summary -b s1.parquet --dem dem.parquet --bin-size 200

  # Vegetation classes from optical scenes under 10% cloud
  s1snow summary -b s1.parquet --optical s2.parquet --cloud-threshold 10 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := cfg.RequireInputs(contract.BackscatterInput); err != nil {
			contract.LogFatal("Cannot run summary", err)
		}
		imagery, terrain := core.NewFileProviders(cfg)
		if err := core.ExecuteSummary(rootCtx, cfg, imagery, terrain); err != nil {
			contract.LogFatal("Cannot run summary", err)
		}
	},
}
