package agg

import (
	"cmp"
	"slices"

	"github.com/huangsam/uptake/schema"
)

// BuildUserMonthlySummary derives one row per user and month over all records.
// A task counts as AI when the tool was used; every other task counts as manual.
func BuildUserMonthlySummary(ds schema.Dataset) []schema.UserMonthlySummary {
	type key struct {
		user  string
		month schema.Month
	}
	acc := make(map[key]*schema.UserMonthlySummary)

	for _, r := range ds.Records {
		k := key{r.UserID, r.Month()}
		s, ok := acc[k]
		if !ok {
			s = &schema.UserMonthlySummary{UserID: r.UserID, Month: k.month}
			acc[k] = s
		}
		if r.UsedAI {
			s.TaskCountAI++
			s.TotalDurationAI += r.DurationMinutes
		} else {
			s.TaskCountManual++
			s.TotalDurationManual += r.DurationMinutes
		}
	}

	dir := ds.Directory()
	out := make([]schema.UserMonthlySummary, 0, len(acc))
	for _, s := range acc {
		s.AITasks = s.TaskCountAI
		s.ManualTasks = s.TaskCountManual
		s.TotalTasks = s.AITasks + s.ManualTasks
		s.AdoptionRate = schema.RatioOf(float64(s.AITasks)*100, float64(s.TotalTasks))
		s.AIAvgDur = schema.RatioOf(s.TotalDurationAI, float64(s.AITasks))
		s.ManualAvgDur = schema.RatioOf(s.TotalDurationManual, float64(s.ManualTasks))
		if u, ok := dir[s.UserID]; ok {
			s.FullName = u.FullName
			s.JoinDate = u.JoinDate
		}
		s.Team = ds.Teams[s.UserID]
		out = append(out, *s)
	}

	slices.SortFunc(out, func(a, b schema.UserMonthlySummary) int {
		if c := cmp.Compare(a.UserID, b.UserID); c != 0 {
			return c
		}
		return a.Month.Compare(b.Month)
	})
	return out
}
