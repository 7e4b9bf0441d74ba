package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/uptake/internal/parquet"
)

// ExecuteAnalysisExport exports the analysis history to two Parquet files
// named after outputFile.
func ExecuteAnalysisExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetAnalysisStore()
	if store == nil {
		return errors.New("analysis tracking is not enabled")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total entity records: %d\n", status.TableSizes[entityStatusesTable])

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	statuses, err := store.GetAllEntityStatuses()
	if err != nil {
		return fmt.Errorf("failed to retrieve entity statuses: %w", err)
	}

	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquet.ConvertAnalysisRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(runs), runsFile)

	statusesFile := outputFile + ".entity_statuses.parquet"
	if err := parquet.WriteEntityStatusesParquet(parquet.ConvertEntityStatusRecords(statuses), statusesFile); err != nil {
		return fmt.Errorf("failed to write entity statuses: %w", err)
	}
	fmt.Printf("Exported %d entity status records to: %s\n", len(statuses), statusesFile)

	fmt.Println("\nExport complete! The Parquet files can be read with DuckDB, Pandas (via pyarrow) or Spark.")
	return nil
}
