package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/internal/iocache"
	"github.com/huangsam/uptake/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analysisBackendConfig reads and validates the analysis backend settings.
// An empty backend means tracking is disabled.
func analysisBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.NoneBackend
	if backendStr := viper.GetString("analysis-backend"); backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	connStr := viper.GetString("analysis-db-connect")

	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup loads minimal configuration needed for analysis operations.
// This is used by commands that need analysis access without full shared setup.
func analysisSetup() error {
	backend, connStr, err := analysisBackendConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no dataset cache for analysis commands)
	if err := iocache.InitCaching("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// analysisSetupWrapper wraps analysisSetup to provide PreRunE for analysis commands.
func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func analysisMigrateSetup() error {
	backend, connStr, err := analysisBackendConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr

	return nil
}

// analysisMigrateSetupWrapper wraps analysisMigrateSetup to provide PreRunE for migrate command.
func analysisMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisMigrateSetup()
}

// analysisCmd focused on run history management.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage historical analysis tracking and exports",
	Long: `Manage the history of analysis runs used for longitudinal reporting.

When enabled with --analysis-backend, uptake records every analysis run:
- Run metadata (command, timestamps, configuration, entity count)
- The status classification of every entity in trend runs

This lets you follow how a team's status changes from one run to the next and
export the history to BI tools.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show analysis tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  uptake analysis status --analysis-backend sqlite

  # Export for analysis in pandas/DuckDB
  uptake analysis export --analysis-backend sqlite --output-file history`,
}

// analysisClearCmd clears the analysis data.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical analysis tracking data",
	Long: `Delete all stored analysis runs and entity status history.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the tracking tables

Examples:
  # Export before clearing
  uptake analysis export --output-file backup
  uptake analysis clear`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, sqliteFile(cfg.AnalysisDBConnect, contract.GetAnalysisDBFilePath()), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows analysis status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display analysis tracking statistics and connection details",
	Long: `Show detailed information about historical analysis tracking.

Displays:
- Backend type and connection status
- Total number of analysis runs stored
- Last and oldest analysis run timestamps
- Total entity status records across all runs
- Database table sizes

Examples:
  # Check analysis tracking status
  uptake analysis status`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetAnalysisStore()
		if store == nil {
			contract.LogFatal("Failed to get analysis status", fmt.Errorf("analysis tracking is not enabled"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
	},
}

// analysisExportCmd exports analysis data to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored analysis data to Parquet format for use with analytics tools.

Writes two files next to --output-file:
- <output-file>.analysis_runs.parquet - one row per analysis run
- <output-file>.entity_statuses.parquet - one row per classified entity

Requires: --output-file parameter

Examples:
  # Export all data
  uptake analysis export --output-file history

  # Use with DuckDB for analysis
  duckdb -c "SELECT status, count(*) FROM read_parquet('history.entity_statuses.parquet') GROUP BY 1"`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the analysis store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the analysis tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  uptake analysis migrate --analysis-backend sqlite

  # Migrate to specific version
  uptake analysis migrate --target-version 1

  # Rollback to initial state
  uptake analysis migrate --target-version 0`,
	PreRunE: analysisMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
