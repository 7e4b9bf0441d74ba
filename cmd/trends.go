package cmd

import (
	"github.com/huangsam/uptake/core"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/spf13/cobra"
)

// trendsCmd classifies monthly adoption trends.
var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Classify monthly AI adoption trends per entity.",
	Long: `Build a monthly adoption matrix over the reporting window and classify each entity.

For every user, team, team and task type, or task type, uptake computes the
share of tasks done with the AI tool in each calendar month, then derives:
- Month-over-month changes across consecutive observed months
- The change between the first and last month of the window
- The decline count since the entity first adopted the tool

Each entity lands on one status: Full Adopter, Growing, Stagnant/Declining,
Not enough data, or Indeterminate (with --indeterminate).

Examples:
  # Per-user trends over the default window
  uptake trends

  # Team trends from Feb to Jul 2025
  uptake trends --by team --window-start 2025-02 --window-months 6

  # Users who adopted and then fell off
  uptake trends --since-adoption

  # Only stagnant users, from a prebuilt summary
  uptake trends --status stagnant --source summary

  # Export the matrix for tracking
  uptake trends --output csv --output-file trends.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrends(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run trends analysis", err)
		}
	},
}
