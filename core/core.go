// Package core has core logic for loading, aggregating and classifying adoption data.
package core

import (
	"context"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/internal/outwriter"
	"github.com/huangsam/uptake/schema"
)

// ExecutorFunc defines the function signature for executing different analysis commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteTrends classifies every entity's monthly adoption and prints the report.
// It serves as the main entry point for the 'trends' command.
func ExecuteTrends(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	report, duration, err := GetTrendResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTrends(report, cfg, duration)
}

// ExecuteAdoption prints overall adoption by team and task type.
func ExecuteAdoption(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	report, duration, err := GetAdoptionResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAdoption(report, cfg, duration)
}

// ExecuteEfficiency prints the AI versus manual duration comparison.
func ExecuteEfficiency(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	report, duration, err := GetEfficiencyResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteEfficiency(report, cfg, duration)
}

// ExecuteQuality prints the prediction accuracy assessment.
func ExecuteQuality(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	report, duration, err := GetQualityResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteQuality(report, cfg, duration)
}

// ExecuteSummary builds the user monthly summary and writes it. Without an
// explicit format it writes CSV to the summary path, ready for --source summary.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	rows, duration, err := GetSummaryResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSummary(rows, summaryConfig(cfg), duration)
}

// summaryConfig resolves where the summary goes.
func summaryConfig(cfg *contract.Config) *contract.Config {
	out := cfg.Clone()
	if out.Output == "" || out.Output == schema.TextOut {
		if out.OutputFile == "" {
			out.Output = schema.CSVOut
			out.OutputFile = out.SummaryPath
		}
	}
	return out
}
