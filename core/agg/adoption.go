package agg

import (
	"slices"
	"strings"

	"github.com/huangsam/uptake/schema"
)

// AdoptionTotals returns overall adoption by team, by task type and by
// team×task type. Callers pass records already restricted to the window.
func AdoptionTotals(records []schema.TaskRecord) (byTeam, byTask, byTeamTask []schema.AdoptionTotal) {
	type key struct{ team, task string }
	teams := make(map[string]*counts)
	tasks := make(map[string]*counts)
	pairs := make(map[key]*counts)

	bump := func(c *counts, ai bool) {
		c.total++
		if ai {
			c.ai++
		}
	}
	for _, r := range records {
		if teams[r.Team] == nil {
			teams[r.Team] = &counts{}
		}
		if tasks[r.TaskType] == nil {
			tasks[r.TaskType] = &counts{}
		}
		k := key{r.Team, r.TaskType}
		if pairs[k] == nil {
			pairs[k] = &counts{}
		}
		bump(teams[r.Team], r.UsedAI)
		bump(tasks[r.TaskType], r.UsedAI)
		bump(pairs[k], r.UsedAI)
	}

	for team, c := range teams {
		byTeam = append(byTeam, total(team, "", c))
	}
	for task, c := range tasks {
		byTask = append(byTask, total("", task, c))
	}
	for k, c := range pairs {
		byTeamTask = append(byTeamTask, total(k.team, k.task, c))
	}
	for _, s := range [][]schema.AdoptionTotal{byTeam, byTask, byTeamTask} {
		slices.SortFunc(s, compareTotals)
	}
	return byTeam, byTask, byTeamTask
}

func total(team, task string, c *counts) schema.AdoptionTotal {
	return schema.AdoptionTotal{
		Team:         team,
		TaskType:     task,
		TotalTasks:   c.total,
		AITasks:      c.ai,
		AdoptionRate: schema.RatioOf(float64(c.ai)*100, float64(c.total)),
	}
}

func compareTotals(a, b schema.AdoptionTotal) int {
	if c := strings.Compare(a.Team, b.Team); c != 0 {
		return c
	}
	return strings.Compare(a.TaskType, b.TaskType)
}

// HighestLowest returns the teams with the highest and lowest adoption rate.
// Ties keep the earlier entry; undefined rates are skipped.
func HighestLowest(byTeam []schema.AdoptionTotal) (highest, lowest *schema.AdoptionTotal) {
	for i := range byTeam {
		t := &byTeam[i]
		if t.AdoptionRate.IsUndefined() {
			continue
		}
		if highest == nil || t.AdoptionRate > highest.AdoptionRate {
			highest = t
		}
		if lowest == nil || t.AdoptionRate < lowest.AdoptionRate {
			lowest = t
		}
	}
	return highest, lowest
}
