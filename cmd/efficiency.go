package cmd

import (
	"github.com/huangsam/uptake/core"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/spf13/cobra"
)

// efficiencyCmd compares AI and manual durations.
var efficiencyCmd = &cobra.Command{
	Use:   "efficiency",
	Short: "Compare AI and manual task durations.",
	Long: `Compare how long tasks take with and without the AI tool.

Reports average durations by method per team and task type, the percent of
time saved, monthly duration profiles, and manual-log minutes in the baseline
months against all minutes in the reporting window.

Examples:
  # Default baseline (Oct and Nov 2024) against the default window
  uptake efficiency

  # Custom baseline
  uptake efficiency --baseline-start 2024-07 --baseline-months 3

  # Monthly duration rows as CSV
  uptake efficiency --output csv --output-file durations.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEfficiency(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run efficiency analysis", err)
		}
	},
}
