// Package cmd defines the command-line interface for s1snow.
package cmd

import (
	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(onsetCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Input files
	rootCmd.PersistentFlags().StringP("backscatter", "b", "", "Long-format Parquet file of backscatter samples")
	rootCmd.PersistentFlags().String("optical", "", "Long-format Parquet file of red/NIR optical samples")
	rootCmd.PersistentFlags().String("dem", "", "Parquet grid of elevation in meters")
	rootCmd.PersistentFlags().String("aspect", "", "Parquet grid of aspect in degrees clockwise from north")
	rootCmd.PersistentFlags().String("slope", "", "Parquet grid of slope in degrees, used to derive the heating index")
	rootCmd.PersistentFlags().String("heating-index", "", "Parquet grid of a precomputed heating index")
	rootCmd.PersistentFlags().String("crs", contract.DefaultCRS, "CRS of the imagery coordinates (EPSG:4326 or EPSG:326NN/327NN)")
	rootCmd.PersistentFlags().String("terrain-crs", "", "CRS of the terrain grids (defaults to --crs)")

	// Selection
	rootCmd.PersistentFlags().String("band", contract.DefaultBand, "Backscatter band to analyze")
	rootCmd.PersistentFlags().String("start", "", "Start date (YYYY-MM-DD or RFC3339), open when empty")
	rootCmd.PersistentFlags().String("end", "", "End date (YYYY-MM-DD or RFC3339), open when empty")
	rootCmd.PersistentFlags().String("bbox", "", "Bounding box minx,miny,maxx,maxy in EPSG:4326 degrees")
	rootCmd.PersistentFlags().IntP("workers", "w", contract.DefaultWorkers, "Number of concurrent workers")

	// Output
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of rows to display in text output")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.TextOut), "Output format: text, csv, json, parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in table output (yes/no, true/false, 1/0)")

	// Run tracking
	rootCmd.PersistentFlags().String("run-backend", string(schema.SQLiteBackend), "Run tracking backend: sqlite, mysql, postgresql, none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Run tracking connection string (prefer the S1SNOW_RUN_DB_CONNECT env var)")

	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Command flags share keys (orbit, bin-size, ...), so they are bound to
	// viper by sharedSetup for the command that actually runs.
	onsetCmd.Flags().String("orbit", string(schema.AllOrbits), "Orbit direction used for runoff onset: ascending, descending, all")
	onsetCmd.Flags().String("ripening-orbit", string(schema.Ascending), "Orbit direction used for ripening onset: ascending, descending")
	onsetCmd.Flags().String("missing", string(schema.MissingSkip), "Policy for no-data samples: skip, strict")

	summaryCmd.Flags().String("orbit", string(schema.AllOrbits), "Orbit direction of the summarized scenes: ascending, descending, all")
	summaryCmd.Flags().Float64("bin-size", contract.DefaultBinSize, "Elevation bin size in meters")
	summaryCmd.Flags().Bool("normalize", false, "Min-max scale each elevation bin's series")
	summaryCmd.Flags().Float64("cloud-threshold", contract.DefaultCloudThreshold, "Maximum scene cloud cover in percent for NDVI")

	plotCmd.Flags().String("kind", string(schema.ElevationBinsPlot), "Plot kind: elevation-bins, hypsometry, vegetation, trend")
	plotCmd.Flags().String("plot-file", "", "Image path; the extension picks the format (png, svg, pdf, ...)")
	plotCmd.Flags().Float64("plot-width", contract.DefaultPlotWidthCm, "Plot width in centimeters")
	plotCmd.Flags().Float64("plot-height", contract.DefaultPlotHeightCm, "Plot height in centimeters")
	plotCmd.Flags().String("orbit", string(schema.AllOrbits), "Orbit direction of the plotted scenes: ascending, descending, all")
	plotCmd.Flags().String("ripening-orbit", string(schema.Ascending), "Ripening orbit for the trend plot")
	plotCmd.Flags().String("missing", string(schema.MissingSkip), "Policy for no-data samples: skip, strict")
	plotCmd.Flags().Float64("bin-size", contract.DefaultBinSize, "Elevation bin size in meters")
	plotCmd.Flags().Bool("normalize", false, "Min-max scale each elevation bin's series")
	plotCmd.Flags().Float64("cloud-threshold", contract.DefaultCloudThreshold, "Maximum scene cloud cover in percent for NDVI")

	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 for latest)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
