package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/internal/runstore"
	"github.com/snowline/s1snow/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadRunBackend reads and validates the run tracking settings only.
func loadRunBackend() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("run-backend")))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("run-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// runsSetup prepares the run store for the runs subcommands without
// touching any input files.
func runsSetup() error {
	if err := loadRunBackend(); err != nil {
		return err
	}
	if err := runstore.InitStore(cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}
	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for the runs subcommands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetupWrapper loads the backend without opening the store, so
// migrations can run against a fresh database.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadRunBackend()
}

// sqliteFilePath is the database file removed by runs clear.
func sqliteFilePath(connStr string) string {
	if connStr != "" {
		return connStr
	}
	return contract.GetRunDBFilePath()
}

// runsCmd groups the run tracking subcommands.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of tracked onset runs",
	Long: `Manage the run tracking store.

Every onset run records:
- Run metadata (timestamp, inputs, selection, duration, cell counts)
- The runoff and ripening trend fits
- Every retained cell with its onset and terrain values

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show tracking statistics
  export  - Export runs, fits and cells to Parquet
  clear   - Remove all tracking data
  migrate - Run database schema migrations`,
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run tracking statistics and connection details",
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := runstore.Manager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get run status", errors.New("run tracking is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		runstore.PrintRunStatus(os.Stdout, status)
	},
}

// runsExportCmd exports tracked data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tracked runs to Parquet for GIS and analytics tools",
	Long: `Export every tracked run, fit and cell to three Parquet files named
<output-file>.runs.parquet, <output-file>.fits.parquet and
<output-file>.cells.parquet.

Requires: --output-file

Examples:
  s1snow runs export --output-file history
  duckdb -c "SELECT run_id, target, r_squared FROM read_parquet('history.fits.parquet')"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ExecuteRunExport(runstore.Manager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
	},
}

// runsClearCmd clears all tracked data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run tracking data",
	Long: `Delete all tracked runs, fits and cells.

For SQLite the database file is removed. For MySQL and PostgreSQL the
tracking tables and the migration table are dropped.

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ClearRuns(cfg.RunBackend, sqliteFilePath(cfg.RunDBConnect), cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear run data", err)
		}
		fmt.Println("Run data cleared successfully.")
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: fmt.Sprintf(`Manage schema versions of the run tracking store.

By default, migrates to the latest version (%d). Use --target-version for
a specific version, or 0 to roll back every migration.

Examples:
  s1snow runs migrate
  s1snow runs migrate --target-version 0`, runstore.LatestVersion),
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateRuns(cfg.RunBackend, cfg.RunDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
