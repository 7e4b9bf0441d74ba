package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/uptake/core/agg"
	"github.com/huangsam/uptake/core/algo"
	"github.com/huangsam/uptake/core/ingest"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
)

// Command names recorded with tracked runs.
const (
	trendsCommand     = "trends"
	adoptionCommand   = "adoption"
	efficiencyCommand = "efficiency"
	qualityCommand    = "quality"
	summaryCommand    = "summary"
)

// GetTrendResults runs the trend pipeline and returns the report and its duration.
// Every classified entity is recorded in the analysis store; the report keeps
// the filtered and limited rows.
func GetTrendResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.TrendReport, time.Duration, error) {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, trendsCommand)
	}

	rates, ds, err := loadRates(ctx, cfg, mgr)
	if err != nil {
		return schema.TrendReport{}, 0, err
	}

	ctx = beginTracking(ctx, cfg, mgr, trendsCommand)

	rows := algo.BuildMatrix(rates, cfg.Window, algo.Universe(rates, cfg.Window, roster(ds, cfg.GroupBy)))
	algo.Annotate(rows, ds, cfg.GroupBy)
	results := algo.ClassifyAll(rows, algo.RulesWith(cfg.Indeterminate))

	recordStatuses(ctx, mgr, cfg.GroupBy, results)
	endTracking(ctx, mgr, len(results))

	filter := algo.Filter{Status: cfg.StatusFilter, Stagnant: cfg.Stagnant, SinceAdoption: cfg.SinceAdoption}
	report := schema.TrendReport{
		GroupBy:       cfg.GroupBy,
		Window:        cfg.Window,
		Results:       algo.RankResults(results, filter, cfg.ResultLimit),
		TotalEntities: len(results),
		StatusCounts:  algo.CountByStatus(results),
		DroppedManual: ds.DroppedManual,
	}
	return report, time.Since(start), nil
}

// loadRates builds the monthly rates of the configured source. The returned
// dataset has no records when the source is a summary file.
func loadRates(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.RateTable, schema.Dataset, error) {
	if cfg.Source == schema.SummarySource {
		rows, err := ingest.ReadSummaryFile(cfg.SummaryPath)
		if err != nil {
			return nil, schema.Dataset{}, fmt.Errorf("failed to read summary: %w", err)
		}
		rates, err := agg.RatesFromSummary(rows, cfg.GroupBy)
		if err != nil {
			return nil, schema.Dataset{}, err
		}
		return rates, datasetFromSummary(rows), nil
	}

	ds, err := loadDataset(ctx, cfg, mgr)
	if err != nil {
		return nil, schema.Dataset{}, err
	}
	return agg.MonthlyRates(ds.Records, cfg.GroupBy), ds, nil
}

// GetAdoptionResults summarizes adoption inside the reporting window.
func GetAdoptionResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.AdoptionReport, time.Duration, error) {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, adoptionCommand)
	}

	ds, err := loadDataset(ctx, cfg, mgr)
	if err != nil {
		return schema.AdoptionReport{}, 0, err
	}
	ctx = beginTracking(ctx, cfg, mgr, adoptionCommand)

	records := agg.InWindow(ds.Records, cfg.Window)
	report := schema.AdoptionReport{Window: cfg.Window}
	report.ByTeam, report.ByTaskType, report.ByTeamTask = agg.AdoptionTotals(records)

	rates := agg.MonthlyRates(records, schema.TeamTaskGroup)
	report.TeamTaskTrend = algo.BuildMatrix(rates, cfg.Window, algo.Universe(rates, cfg.Window, nil))
	report.Highest, report.Lowest = agg.HighestLowest(report.ByTeam)

	endTracking(ctx, mgr, len(report.ByTeamTask))
	return report, time.Since(start), nil
}

// GetEfficiencyResults compares AI and manual durations and the manual baseline.
func GetEfficiencyResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.EfficiencyReport, time.Duration, error) {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, efficiencyCommand)
		logBaselineHeader(cfg)
	}

	ds, err := loadDataset(ctx, cfg, mgr)
	if err != nil {
		return schema.EfficiencyReport{}, 0, err
	}
	ctx = beginTracking(ctx, cfg, mgr, efficiencyCommand)

	report := schema.EfficiencyReport{Window: cfg.Window, BaselineMonths: cfg.BaselineMonths}
	report.ByTeamTask, report.ByTaskType = agg.MethodDurations(ds.Records)
	report.Monthly = agg.MonthlyDurations(ds.Records)
	report.Baseline = agg.CompareBaseline(ds.Records, cfg.BaselineMonths, cfg.Window)

	endTracking(ctx, mgr, len(report.ByTeamTask))
	return report, time.Since(start), nil
}

// GetQualityResults assesses AI prediction accuracy against the threshold.
func GetQualityResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.QualityReport, time.Duration, error) {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, qualityCommand)
	}

	ds, err := loadDataset(ctx, cfg, mgr)
	if err != nil {
		return schema.QualityReport{}, 0, err
	}
	ctx = beginTracking(ctx, cfg, mgr, qualityCommand)

	report := agg.BuildQuality(ds, cfg.AccuracyThreshold)

	endTracking(ctx, mgr, len(report.Users))
	return report, time.Since(start), nil
}

// GetSummaryResults derives the user monthly summary from the raw logs.
func GetSummaryResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.UserMonthlySummary, time.Duration, error) {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, summaryCommand)
	}

	ds, err := loadDataset(ctx, cfg, mgr)
	if err != nil {
		return nil, 0, err
	}
	ctx = beginTracking(ctx, cfg, mgr, summaryCommand)

	rows := agg.BuildUserMonthlySummary(ds)

	endTracking(ctx, mgr, len(rows))
	return rows, time.Since(start), nil
}
