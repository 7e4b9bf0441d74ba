package algo

import (
	"slices"

	"github.com/huangsam/uptake/schema"
)

// Filter selects which trend results are reported.
type Filter struct {
	Status        schema.AdoptionStatus // empty keeps every status
	Stagnant      bool                  // only consecutively stagnant entities
	SinceAdoption bool                  // only entities declining since first adoption
}

func (f Filter) keep(r schema.TrendResult) bool {
	c := r.Classification
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Stagnant && !c.ConsecutivelyStagnant {
		return false
	}
	if f.SinceAdoption && !c.Since.Declining {
		return false
	}
	return true
}

// RankResults orders results by entity id then task type, applies the filter
// and returns at most limit entries. A limit of zero or less keeps everything.
func RankResults(results []schema.TrendResult, f Filter, limit int) []schema.TrendResult {
	out := make([]schema.TrendResult, 0, len(results))
	for _, r := range results {
		if f.keep(r) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b schema.TrendResult) int {
		return schema.CompareEntityKeys(a.Entity, b.Entity)
	})
	if limit > 0 && len(out) > limit {
		return out[:limit]
	}
	return out
}

// CountByStatus tallies results per status.
func CountByStatus(results []schema.TrendResult) map[schema.AdoptionStatus]int {
	counts := make(map[schema.AdoptionStatus]int)
	for _, r := range results {
		counts[r.Classification.Status]++
	}
	return counts
}
