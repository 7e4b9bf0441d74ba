// Package agg groups normalized task records into monthly adoption observations.
package agg

import (
	"fmt"

	"github.com/huangsam/uptake/schema"
)

// counts accumulates AI and total tasks for one entity-month.
type counts struct {
	ai    int
	total int
}

// KeyFor returns the entity a record belongs to under the grouping.
func KeyFor(r schema.TaskRecord, by schema.GroupBy) schema.EntityKey {
	switch by {
	case schema.TeamGroup:
		return schema.EntityKey{ID: r.Team}
	case schema.TeamTaskGroup:
		return schema.EntityKey{ID: r.Team, TaskType: r.TaskType}
	case schema.TaskTypeGroup:
		return schema.EntityKey{ID: r.TaskType}
	default: // UserGroup
		return schema.EntityKey{ID: r.UserID}
	}
}

// MonthlyRates groups records by entity and calendar month. Only groups
// with at least one record are emitted, so an unobserved month stays absent.
func MonthlyRates(records []schema.TaskRecord, by schema.GroupBy) schema.RateTable {
	acc := make(map[schema.EntityKey]map[schema.Month]*counts)
	for _, r := range records {
		key := KeyFor(r, by)
		months, ok := acc[key]
		if !ok {
			months = make(map[schema.Month]*counts)
			acc[key] = months
		}
		m := r.Month()
		c, ok := months[m]
		if !ok {
			c = &counts{}
			months[m] = c
		}
		c.total++
		if r.UsedAI {
			c.ai++
		}
	}
	return buildTable(acc)
}

// RatesFromSummary converts a precomputed user monthly summary into rates.
// Only the user and team groupings can be derived from it.
func RatesFromSummary(rows []schema.UserMonthlySummary, by schema.GroupBy) (schema.RateTable, error) {
	if by != schema.UserGroup && by != schema.TeamGroup {
		return nil, fmt.Errorf("grouping %q needs task-level records and cannot be derived from a user monthly summary", by)
	}

	acc := make(map[schema.EntityKey]map[schema.Month]*counts)
	for _, row := range rows {
		if row.TotalTasks <= 0 {
			continue
		}
		key := schema.EntityKey{ID: row.UserID}
		if by == schema.TeamGroup {
			key = schema.EntityKey{ID: row.Team}
		}
		months, ok := acc[key]
		if !ok {
			months = make(map[schema.Month]*counts)
			acc[key] = months
		}
		c, ok := months[row.Month]
		if !ok {
			c = &counts{}
			months[row.Month] = c
		}
		c.ai += row.AITasks
		c.total += row.TotalTasks
	}
	return buildTable(acc), nil
}

func buildTable(acc map[schema.EntityKey]map[schema.Month]*counts) schema.RateTable {
	table := make(schema.RateTable, len(acc))
	for key, months := range acc {
		for m, c := range months {
			table.Put(schema.MonthlyRate{
				Entity:       key,
				Month:        m,
				TotalTasks:   c.total,
				AITasks:      c.ai,
				AdoptionRate: schema.RatioOf(float64(c.ai)*100, float64(c.total)),
			})
		}
	}
	return table
}

// InWindow returns the records whose month falls inside months.
func InWindow(records []schema.TaskRecord, months []schema.Month) []schema.TaskRecord {
	if len(months) == 0 {
		return nil
	}
	first, last := months[0], months[len(months)-1]
	var out []schema.TaskRecord
	for _, r := range records {
		m := r.Month()
		if m.Before(first) || last.Before(m) {
			continue
		}
		out = append(out, r)
	}
	return out
}
