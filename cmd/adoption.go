package cmd

import (
	"github.com/huangsam/uptake/core"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/spf13/cobra"
)

// adoptionCmd summarizes overall adoption.
var adoptionCmd = &cobra.Command{
	Use:   "adoption",
	Short: "Summarize AI adoption by team and task type.",
	Long: `Summarize AI adoption inside the reporting window.

Shows total tasks, AI tasks and adoption rate by team, by task type and by
team and task type, the monthly rate of every team and task type pair, and
the highest and lowest adopting teams.

Examples:
  # Adoption over the default window
  uptake adoption

  # Adoption for Q2 2025 as JSON
  uptake adoption --window-start 2025-04 --window-months 3 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAdoption(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run adoption analysis", err)
		}
	},
}
