package cmd

import (
	"github.com/huangsam/uptake/core"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/spf13/cobra"
)

// qualityCmd assesses prediction accuracy.
var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Assess AI prediction accuracy.",
	Long: `Assess the accuracy of AI predictions recorded in the usage log.

Reports mean accuracy and the share below the threshold per team and task
type, monthly mean accuracy, the accuracy distribution per task type, the
per-user mean against their adoption rate, and every low-accuracy prediction.

Examples:
  # Flag predictions below the default threshold (0.70)
  uptake quality

  # Stricter threshold, low-accuracy rows as CSV
  uptake quality --accuracy-threshold 0.8 --output csv --output-file low.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteQuality(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run quality analysis", err)
		}
	},
}
