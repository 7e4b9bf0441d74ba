// Package algo turns monthly adoption rates into trend rows and classifies them.
package algo

import (
	"slices"

	"github.com/huangsam/uptake/schema"
)

// Universe returns the entities that get a trend row: every entity observed
// at least once inside the window plus roster entities with no rates at all.
// Entities seen only outside the window are left out.
func Universe(rates schema.RateTable, window []schema.Month, roster []schema.EntityKey) []schema.EntityKey {
	seen := make(map[schema.EntityKey]bool)
	var out []schema.EntityKey
	for _, key := range rates.Entities() {
		if rates.ObservedIn(key, window) {
			seen[key] = true
			out = append(out, key)
		}
	}
	for _, key := range roster {
		if seen[key] {
			continue
		}
		if _, ok := rates[key]; ok {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	slices.SortFunc(out, schema.CompareEntityKeys)
	return out
}

// BuildMatrix lays out one row per entity with exactly one slot per window
// month. A month with no rate stays missing.
func BuildMatrix(rates schema.RateTable, window []schema.Month, entities []schema.EntityKey) []schema.TrendRow {
	rows := make([]schema.TrendRow, 0, len(entities))
	for _, key := range entities {
		row := schema.TrendRow{Entity: key, Slots: make([]schema.Slot, len(window))}
		for i, m := range window {
			row.Slots[i].Month = m
			if r, ok := rates.Get(key, m); ok && !r.AdoptionRate.IsUndefined() {
				row.Slots[i].Rate = r.AdoptionRate.Ptr()
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Annotate fills team and full name on user rows from the dataset.
func Annotate(rows []schema.TrendRow, ds schema.Dataset, by schema.GroupBy) {
	if by != schema.UserGroup {
		return
	}
	dir := ds.Directory()
	for i := range rows {
		id := rows[i].Entity.ID
		rows[i].Team = ds.Teams[id]
		if u, ok := dir[id]; ok {
			rows[i].FullName = u.FullName
		}
	}
}
