// Package cmd defines the command-line interface for uptake.
package cmd

import (
	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(adoptionCmd)
	rootCmd.AddCommand(efficiencyCmd)
	rootCmd.AddCommand(qualityCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("data-dir", "d", contract.DefaultDataDir, "Directory holding the input CSV files")
	rootCmd.PersistentFlags().String("ai-logs", "", "Path to the AI usage log (default <data-dir>/"+contract.DefaultAILogsFile+")")
	rootCmd.PersistentFlags().String("manual-logs", "", "Path to the manual task log (default <data-dir>/"+contract.DefaultManualLogsFile+")")
	rootCmd.PersistentFlags().String("users", "", "Path to the user directory (default <data-dir>/"+contract.DefaultUsersFile+")")
	rootCmd.PersistentFlags().String("summary-file", "", "Path to the user monthly summary (default <data-dir>/"+contract.DefaultSummaryFile+")")
	rootCmd.PersistentFlags().String("source", string(schema.LogsSource), "Trend input: logs or summary")
	rootCmd.PersistentFlags().String("window-start", contract.DefaultWindowStart, "First month of the reporting window (YYYY-MM)")
	rootCmd.PersistentFlags().Int("window-months", contract.DefaultWindowMonths, "Number of months in the reporting window")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in header lines (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of trendsCmd to Viper
	trendsCmd.Flags().String("by", string(schema.UserGroup), "Entity grouping: user or team or team-task or task-type")
	trendsCmd.Flags().String("status", "", "Only show entities with this status (growing, stagnant, full, not-enough-data, indeterminate)")
	trendsCmd.Flags().Bool("stagnant", false, "Only show entities whose observed rates are all zero")
	trendsCmd.Flags().Bool("since-adoption", false, "Only show entities declining since their first adoption")
	trendsCmd.Flags().Bool("indeterminate", false, "Report entities without a comparable month pair as Indeterminate")
	if err := viper.BindPFlags(trendsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding trends flags", err)
	}

	// Bind all flags of efficiencyCmd to Viper
	efficiencyCmd.Flags().String("baseline-start", contract.DefaultBaselineStart, "First month of the manual baseline (YYYY-MM)")
	efficiencyCmd.Flags().Int("baseline-months", contract.DefaultBaselineMonths, "Number of months in the manual baseline")
	if err := viper.BindPFlags(efficiencyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding efficiency flags", err)
	}

	// Bind all flags of qualityCmd to Viper
	qualityCmd.Flags().Float64("accuracy-threshold", contract.DefaultAccuracyThreshold, "Predictions below this accuracy are flagged")
	if err := viper.BindPFlags(qualityCmd.Flags()); err != nil {
		contract.LogFatal("Error binding quality flags", err)
	}

	// Bind all flags of summaryCmd to Viper
	summaryCmd.Flags().String("schedule", "", "Cron expression to rebuild the summary until interrupted (e.g., '0 2 * * *')")
	if err := viper.BindPFlags(summaryCmd.Flags()); err != nil {
		contract.LogFatal("Error binding summary flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
