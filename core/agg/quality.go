package agg

import (
	"cmp"
	"slices"
	"strings"

	"github.com/huangsam/uptake/core/stats"
	"github.com/huangsam/uptake/schema"
)

// DefaultAccuracyThreshold marks a prediction as low accuracy below it.
const DefaultAccuracyThreshold = 0.70

// accuracies collects prediction scores of one group.
type accuracies struct {
	vals  []float64
	below int
}

func (a *accuracies) add(v, threshold float64) {
	a.vals = append(a.vals, v)
	if v < threshold {
		a.below++
	}
}

func (a *accuracies) group(team, task string) schema.AccuracyGroup {
	return schema.AccuracyGroup{
		Team:     team,
		TaskType: task,
		Count:    len(a.vals),
		Mean:     stats.Mean(a.vals),
		PctBelow: schema.RatioOf(float64(a.below)*100, float64(len(a.vals))),
	}
}

// Predictions returns the AI-assisted records that carry an accuracy score.
func Predictions(records []schema.TaskRecord) []schema.TaskRecord {
	var out []schema.TaskRecord
	for _, r := range records {
		if r.UsedAI && r.Accuracy != nil {
			out = append(out, r)
		}
	}
	return out
}

// monthlySeries accumulates accuracy per entity and calendar month.
type monthlySeries map[schema.EntityKey]map[schema.Month]*accuracies

func (s monthlySeries) add(k schema.EntityKey, m schema.Month, v, threshold float64) {
	months, ok := s[k]
	if !ok {
		months = make(map[schema.Month]*accuracies)
		s[k] = months
	}
	a, ok := months[m]
	if !ok {
		a = &accuracies{}
		months[m] = a
	}
	a.add(v, threshold)
}

// rows lays each entity's monthly mean accuracy over months. A month without
// predictions stays missing.
func (s monthlySeries) rows(months []schema.Month, team func(schema.EntityKey) string) []schema.TrendRow {
	keys := make([]schema.EntityKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, schema.CompareEntityKeys)

	out := make([]schema.TrendRow, 0, len(keys))
	for _, k := range keys {
		row := schema.TrendRow{Entity: k, Team: team(k)}
		for _, m := range months {
			slot := schema.Slot{Month: m}
			if a, ok := s[k][m]; ok {
				slot.Rate = stats.Mean(a.vals).Ptr()
			}
			row.Slots = append(row.Slots, slot)
		}
		out = append(out, row)
	}
	return out
}

// BuildQuality assesses prediction accuracy across every month in the dataset.
func BuildQuality(ds schema.Dataset, threshold float64) schema.QualityReport {
	preds := Predictions(ds.Records)
	report := schema.QualityReport{Threshold: threshold, TotalCount: len(preds)}

	type key struct{ team, task string }
	pairs := make(map[key]*accuracies)
	teams := make(map[string]*accuracies)
	tasks := make(map[string]*accuracies)
	users := make(map[string]*accuracies)
	durations := make(map[string][]float64)
	byTeamTask, byTeam, byTask := monthlySeries{}, monthlySeries{}, monthlySeries{}

	get := func(m map[string]*accuracies, k string) *accuracies {
		if m[k] == nil {
			m[k] = &accuracies{}
		}
		return m[k]
	}

	dir := ds.Directory()
	var first, last schema.Month
	for _, r := range preds {
		v := *r.Accuracy
		k := key{r.Team, r.TaskType}
		if pairs[k] == nil {
			pairs[k] = &accuracies{}
		}
		pairs[k].add(v, threshold)
		get(teams, r.Team).add(v, threshold)
		get(tasks, r.TaskType).add(v, threshold)
		get(users, r.UserID).add(v, threshold)
		durations[r.UserID] = append(durations[r.UserID], r.DurationMinutes)
		if v < threshold {
			report.BelowCount++
			report.LowAccuracy = append(report.LowAccuracy, schema.LowAccuracyEntry{
				UserID:   r.UserID,
				FullName: dir[r.UserID].FullName,
				Team:     r.Team,
				TaskType: r.TaskType,
				Date:     r.Timestamp,
				Accuracy: v,
			})
		}

		m := r.Month()
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if last.IsZero() || last.Before(m) {
			last = m
		}
		byTeamTask.add(schema.EntityKey{ID: r.Team, TaskType: r.TaskType}, m, v, threshold)
		byTeam.add(schema.EntityKey{ID: r.Team}, m, v, threshold)
		byTask.add(schema.EntityKey{ID: r.TaskType}, m, v, threshold)
	}

	for k, a := range pairs {
		report.ByTeamTask = append(report.ByTeamTask, a.group(k.team, k.task))
	}
	for team, a := range teams {
		report.ByTeam = append(report.ByTeam, a.group(team, ""))
	}
	for task, a := range tasks {
		report.ByTaskType = append(report.ByTaskType, a.group("", task))
		report.Distributions = append(report.Distributions, Describe(task, a.vals))
	}
	byGroup := func(a, b schema.AccuracyGroup) int {
		return cmp.Or(strings.Compare(a.Team, b.Team), strings.Compare(a.TaskType, b.TaskType))
	}
	slices.SortFunc(report.ByTeamTask, byGroup)
	slices.SortFunc(report.ByTeam, byGroup)
	slices.SortFunc(report.ByTaskType, byGroup)
	slices.SortFunc(report.Distributions, func(a, b schema.AccuracyDistribution) int {
		return strings.Compare(a.TaskType, b.TaskType)
	})

	adoption := userAdoption(ds.Records)
	for id, a := range users {
		report.Users = append(report.Users, schema.UserAccuracy{
			UserID:       id,
			FullName:     dir[id].FullName,
			Team:         ds.Teams[id],
			Count:        len(a.vals),
			Mean:         stats.Mean(a.vals),
			AdoptionRate: adoption[id],
			AvgDuration:  stats.Mean(durations[id]),
		})
	}
	slices.SortFunc(report.Users, func(a, b schema.UserAccuracy) int {
		return strings.Compare(a.UserID, b.UserID)
	})
	slices.SortStableFunc(report.LowAccuracy, func(a, b schema.LowAccuracyEntry) int {
		return cmp.Or(strings.Compare(a.UserID, b.UserID), a.Date.Compare(b.Date))
	})

	if len(preds) == 0 {
		return report
	}
	for m := first; !last.Before(m); m = m.Next() {
		report.Months = append(report.Months, m)
	}
	teamOf := func(k schema.EntityKey) string { return k.ID }
	report.MonthlyByTeamTask = byTeamTask.rows(report.Months, teamOf)
	report.MonthlyByTeam = byTeam.rows(report.Months, teamOf)
	report.MonthlyByTaskType = byTask.rows(report.Months, func(schema.EntityKey) string { return "" })
	return report
}

// userAdoption is the share of AI-log tasks each user ran with AI, in percent.
func userAdoption(records []schema.TaskRecord) map[string]schema.Ratio {
	acc := make(map[string]*counts)
	for _, r := range records {
		if r.Source != schema.AILogSource {
			continue
		}
		c, ok := acc[r.UserID]
		if !ok {
			c = &counts{}
			acc[r.UserID] = c
		}
		c.total++
		if r.UsedAI {
			c.ai++
		}
	}
	out := make(map[string]schema.Ratio, len(acc))
	for id, c := range acc {
		out[id] = schema.RatioOf(float64(c.ai)*100, float64(c.total))
	}
	return out
}
