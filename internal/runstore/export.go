package runstore

import (
	"errors"
	"fmt"

	"github.com/snowline/s1snow/internal/contract"
	"github.com/snowline/s1snow/internal/parquet"
)

// ExecuteRunExport exports every tracked run, fit and cell to Parquet files
// named <outputFile>.runs.parquet, .fits.parquet and .cells.parquet.
func ExecuteRunExport(store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run tracking is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total cell records: %d\n", status.TableSizes[cellsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	fits, err := store.GetAllFits()
	if err != nil {
		return fmt.Errorf("failed to retrieve fits: %w", err)
	}
	cells, err := store.GetAllCells()
	if err != nil {
		return fmt.Errorf("failed to retrieve cells: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	fitsFile := outputFile + ".fits.parquet"
	if err := parquet.WriteFitsParquet(parquet.ConvertFitRecords(fits), fitsFile); err != nil {
		return fmt.Errorf("failed to write fits: %w", err)
	}
	fmt.Printf("Exported %d fits to: %s\n", len(fits), fitsFile)

	cellsFile := outputFile + ".cells.parquet"
	if err := parquet.WriteCellsParquet(parquet.ConvertCellRecords(cells), cellsFile); err != nil {
		return fmt.Errorf("failed to write cells: %w", err)
	}
	fmt.Printf("Exported %d cells to: %s\n", len(cells), cellsFile)

	fmt.Println("\nExport complete! The Parquet files can be read with pandas, GeoPandas, DuckDB or Arrow.")
	return nil
}
