package history

import (
	"errors"
	"fmt"

	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/internal/parquet"
)

// ExecuteHistoryExport writes all recorded runs and charts to Parquet files
// named outputFile.runs.parquet and outputFile.series.parquet.
func ExecuteHistoryExport(store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run history is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return ErrNoHistory
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total chart records: %d\n", status.TableSizes[seriesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	series, err := store.GetAllSeries()
	if err != nil {
		return fmt.Errorf("failed to retrieve series: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	seriesFile := outputFile + ".series.parquet"
	if err := parquet.WriteChartsParquet(parquet.ConvertSeriesRecords(series), seriesFile); err != nil {
		return fmt.Errorf("failed to write series: %w", err)
	}
	fmt.Printf("Exported %d chart records to: %s\n", len(series), seriesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with DuckDB, Pandas or Spark.")
	return nil
}
