package agg

import (
	"cmp"
	"slices"
	"strings"

	"github.com/huangsam/uptake/schema"
)

// MethodOf returns how a task was executed.
func MethodOf(r schema.TaskRecord) schema.Method {
	if r.UsedAI {
		return schema.AIMethod
	}
	return schema.ManualMethod
}

// durations accumulates minutes per method.
type durations struct {
	aiCount, manualCount int
	aiSum, manualSum     float64
}

func (d *durations) add(r schema.TaskRecord) {
	if r.UsedAI {
		d.aiCount++
		d.aiSum += r.DurationMinutes
		return
	}
	d.manualCount++
	d.manualSum += r.DurationMinutes
}

func (d *durations) result(team, task string) schema.MethodDuration {
	ai := schema.RatioOf(d.aiSum, float64(d.aiCount))
	manual := schema.RatioOf(d.manualSum, float64(d.manualCount))
	return schema.MethodDuration{
		Team:         team,
		TaskType:     task,
		AICount:      d.aiCount,
		ManualCount:  d.manualCount,
		AIAvg:        ai,
		ManualAvg:    manual,
		PctTimeSaved: TimeSaved(ai, manual),
	}
}

// TimeSaved is the share of the manual average saved by AI, in percent.
// It is undefined when either side is missing or the manual average is zero.
func TimeSaved(ai, manual schema.Ratio) schema.Ratio {
	if ai.IsUndefined() || manual.IsUndefined() {
		return schema.Undefined()
	}
	return schema.RatioOf((manual.Float()-ai.Float())*100, manual.Float())
}

// MethodDurations compares AI and manual durations per team×task type and
// per task type across all records.
func MethodDurations(records []schema.TaskRecord) (byTeamTask, byTask []schema.MethodDuration) {
	type key struct{ team, task string }
	pairs := make(map[key]*durations)
	tasks := make(map[string]*durations)
	for _, r := range records {
		k := key{r.Team, r.TaskType}
		if pairs[k] == nil {
			pairs[k] = &durations{}
		}
		if tasks[r.TaskType] == nil {
			tasks[r.TaskType] = &durations{}
		}
		pairs[k].add(r)
		tasks[r.TaskType].add(r)
	}

	for k, d := range pairs {
		byTeamTask = append(byTeamTask, d.result(k.team, k.task))
	}
	for task, d := range tasks {
		byTask = append(byTask, d.result("", task))
	}
	byDuration := func(a, b schema.MethodDuration) int {
		if c := strings.Compare(a.Team, b.Team); c != 0 {
			return c
		}
		return strings.Compare(a.TaskType, b.TaskType)
	}
	slices.SortFunc(byTeamTask, byDuration)
	slices.SortFunc(byTask, byDuration)
	return byTeamTask, byTask
}

// MonthlyDurations returns the average and total minutes per team, task
// type, method and month.
func MonthlyDurations(records []schema.TaskRecord) []schema.MonthlyDuration {
	type key struct {
		team, task string
		method     schema.Method
		month      schema.Month
	}
	acc := make(map[key]*schema.MonthlyDuration)
	for _, r := range records {
		k := key{r.Team, r.TaskType, MethodOf(r), r.Month()}
		d, ok := acc[k]
		if !ok {
			d = &schema.MonthlyDuration{Team: k.team, TaskType: k.task, Method: k.method, Month: k.month}
			acc[k] = d
		}
		d.Count++
		d.TotalMinutes += r.DurationMinutes
	}

	out := make([]schema.MonthlyDuration, 0, len(acc))
	for _, d := range acc {
		d.AvgMinutes = d.TotalMinutes / float64(d.Count)
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b schema.MonthlyDuration) int {
		return cmp.Or(
			strings.Compare(a.Team, b.Team),
			strings.Compare(a.TaskType, b.TaskType),
			strings.Compare(string(a.Method), string(b.Method)),
			a.Month.Compare(b.Month),
		)
	})
	return out
}

// CompareBaseline totals manual-log minutes per task type in the baseline
// months against all minutes in the window months. Months without records
// count as zero, and each average divides by the number of months asked for.
func CompareBaseline(records []schema.TaskRecord, baseline, window []schema.Month) []schema.BaselineComparison {
	type key struct {
		task  string
		month schema.Month
	}
	pre := make(map[key]float64)
	post := make(map[key]float64)
	tasks := make(map[string]bool)

	for _, r := range records {
		m := r.Month()
		k := key{r.TaskType, m}
		if r.Source == schema.ManualLogSource && slices.Contains(baseline, m) {
			pre[k] += r.DurationMinutes
			tasks[r.TaskType] = true
		}
		if slices.Contains(window, m) {
			post[k] += r.DurationMinutes
			tasks[r.TaskType] = true
		}
	}

	names := make([]string, 0, len(tasks))
	for task := range tasks {
		names = append(names, task)
	}
	slices.Sort(names)

	totals := func(task string, months []schema.Month, src map[key]float64) ([]schema.MonthTotal, schema.Ratio) {
		out := make([]schema.MonthTotal, 0, len(months))
		var sum float64
		for _, m := range months {
			v := src[key{task, m}]
			sum += v
			out = append(out, schema.MonthTotal{Month: m, Minutes: v})
		}
		return out, schema.RatioOf(sum, float64(len(months)))
	}

	out := make([]schema.BaselineComparison, 0, len(names))
	for _, task := range names {
		c := schema.BaselineComparison{TaskType: task}
		c.Baseline, c.BaselineAvg = totals(task, baseline, pre)
		c.Window, c.WindowAvg = totals(task, window, post)
		c.PctChange = schema.Undefined()
		if !c.BaselineAvg.IsUndefined() && !c.WindowAvg.IsUndefined() {
			c.PctChange = schema.RatioOf((c.WindowAvg.Float()-c.BaselineAvg.Float())*100, c.BaselineAvg.Float())
		}
		out = append(out, c)
	}
	return out
}
