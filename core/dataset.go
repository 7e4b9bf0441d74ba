package core

import (
	"context"
	"fmt"

	"github.com/huangsam/uptake/core/ingest"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
)

// inputPaths returns the raw log locations of the config.
func inputPaths(cfg *contract.Config) ingest.Paths {
	return ingest.Paths{
		AILogs:     cfg.AILogsPath,
		ManualLogs: cfg.ManualLogsPath,
		Users:      cfg.UsersPath,
	}
}

// loadDataset reads the raw logs, going through the dataset cache when one is configured.
func loadDataset(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.Dataset, error) {
	ds, err := ingest.CachedLoadDataset(ctx, inputPaths(cfg), datasetStore(mgr))
	if err != nil {
		return schema.Dataset{}, fmt.Errorf("failed to load dataset from %s: %w", cfg.DataDir, err)
	}
	return ds, nil
}

// datasetFromSummary rebuilds the user directory and team attribution
// carried by summary rows. It has no task records.
func datasetFromSummary(rows []schema.UserMonthlySummary) schema.Dataset {
	ds := schema.Dataset{Teams: make(map[string]string)}
	seen := make(map[string]bool)
	for _, r := range rows {
		if r.Team != "" {
			ds.Teams[r.UserID] = r.Team
		}
		if seen[r.UserID] {
			continue
		}
		seen[r.UserID] = true
		ds.Users = append(ds.Users, schema.UserProfile{UserID: r.UserID, FullName: r.FullName, JoinDate: r.JoinDate})
	}
	return ds
}

// roster returns the directory users as entities. Only the user grouping has a roster.
func roster(ds schema.Dataset, by schema.GroupBy) []schema.EntityKey {
	if by != schema.UserGroup {
		return nil
	}
	keys := make([]schema.EntityKey, 0, len(ds.Users))
	for _, u := range ds.Users {
		keys = append(keys, schema.EntityKey{ID: u.UserID})
	}
	return keys
}
