package core

import (
	"context"
	"time"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
)

// beginTracking opens a run in the analysis store when one is configured.
// Failures only produce a warning; the returned context carries the run ID.
func beginTracking(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, command string) context.Context {
	store := analysisStore(mgr)
	if store == nil {
		return ctx
	}
	analysisID, err := store.BeginAnalysis(command, time.Now(), cfg.Params())
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return ctx
	}
	return withAnalysisID(ctx, analysisID)
}

// recordStatuses stores every classification of the tracked run.
func recordStatuses(ctx context.Context, mgr contract.CacheManager, by schema.GroupBy, results []schema.TrendResult) {
	analysisID, ok := getAnalysisID(ctx)
	store := analysisStore(mgr)
	if !ok || store == nil {
		return
	}
	for _, r := range results {
		if err := store.RecordEntityStatus(analysisID, by, r.Classification); err != nil {
			logTrackingError("record status", r.Entity.String(), err)
			return
		}
	}
}

// endTracking finalizes the tracked run.
func endTracking(ctx context.Context, mgr contract.CacheManager, totalEntities int) {
	analysisID, ok := getAnalysisID(ctx)
	store := analysisStore(mgr)
	if !ok || store == nil {
		return
	}
	if err := store.EndAnalysis(analysisID, time.Now(), totalEntities); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}

func analysisStore(mgr contract.CacheManager) contract.AnalysisStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetAnalysisStore()
}

func datasetStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetDatasetStore()
}

// logTrackingError logs a tracking failure for a specific entity.
func logTrackingError(operation, entity string, err error) {
	contract.LogWarn("Analysis tracking failed to "+operation+" for "+entity, err)
}
