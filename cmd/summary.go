package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/uptake/core"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd builds the user monthly summary.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Build the per-user, per-month task summary.",
	Long: `Derive one row per user and month from the raw logs.

Each row carries AI and manual task counts, total and average durations, the
adoption rate and the user's directory profile. The summary is written as CSV
to <data-dir>/user_monthly_summary.csv unless another output is requested,
and can be read back with 'uptake trends --source summary'.

With --schedule the summary is built once, then rebuilt on the cron schedule
until the process is interrupted. Every rebuild is logged as JSON on stderr.

Examples:
  # Build the summary next to the logs
  uptake summary

  # Write Parquet instead
  uptake summary --output parquet --output-file summary.parquet

  # Rebuild every night at 02:00
  uptake summary --schedule "0 2 * * *"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build user monthly summary", err)
		}
		if cfg.Schedule == "" {
			return
		}

		scheduler, err := core.NewSummaryScheduler(cfg, cacheManager, nil)
		if err != nil {
			contract.LogFatal("Cannot schedule summary rebuilds", err)
		}
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := scheduler.Run(ctx); err != nil {
			contract.LogFatal("Summary scheduler failed", err)
		}
	},
}
