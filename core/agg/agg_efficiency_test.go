package agg

import (
	"testing"

	"github.com/huangsam/uptake/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manual(user, team, task string, m schema.Month, dur float64) schema.TaskRecord {
	r := rec(user, team, task, m, false, dur)
	r.Source = schema.ManualLogSource
	return r
}

func TestMethodDurations(t *testing.T) {
	records := []schema.TaskRecord{
		rec("u1", "A", "triage", jan, true, 20),
		rec("u1", "A", "triage", jan, true, 40),
		rec("u1", "A", "triage", jan, false, 60),
		manual("u1", "A", "triage", feb, 60),
		rec("u2", "B", "triage", jan, true, 10),
		rec("u2", "B", "review", feb, false, 0),
	}
	byTeamTask, byTask := MethodDurations(records)

	require.Len(t, byTeamTask, 3)
	a := byTeamTask[0]
	assert.Equal(t, "A", a.Team)
	assert.Equal(t, 2, a.AICount)
	assert.Equal(t, 2, a.ManualCount)
	assert.InDelta(t, 30.0, a.AIAvg.Float(), 1e-9)
	assert.InDelta(t, 60.0, a.ManualAvg.Float(), 1e-9)
	assert.InDelta(t, 50.0, a.PctTimeSaved.Float(), 1e-9)

	review := byTeamTask[1]
	assert.Equal(t, "review", review.TaskType)
	assert.True(t, review.AIAvg.IsUndefined())
	assert.True(t, review.PctTimeSaved.IsUndefined(), "undefined without an AI side")

	bTriage := byTeamTask[2]
	assert.True(t, bTriage.ManualAvg.IsUndefined())
	assert.True(t, bTriage.PctTimeSaved.IsUndefined())

	require.Len(t, byTask, 2)
	assert.Equal(t, "review", byTask[0].TaskType)
	assert.True(t, byTask[0].PctTimeSaved.IsUndefined(), "zero manual average")
	assert.InDelta(t, (60.0-70.0/3)*100/60, byTask[1].PctTimeSaved.Float(), 1e-9)
}

func TestTimeSaved(t *testing.T) {
	tests := []struct {
		name      string
		ai        schema.Ratio
		manual    schema.Ratio
		undefined bool
		want      float64
	}{
		{"half", 10, 20, false, 50},
		{"slower", 30, 20, false, -50},
		{"missing ai", schema.Undefined(), 20, true, 0},
		{"missing manual", 10, schema.Undefined(), true, 0},
		{"zero manual", 10, 0, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeSaved(tt.ai, tt.manual)
			if tt.undefined {
				assert.True(t, got.IsUndefined())
				return
			}
			assert.InDelta(t, tt.want, got.Float(), 1e-9)
		})
	}
}

func TestMonthlyDurations(t *testing.T) {
	records := []schema.TaskRecord{
		rec("u1", "A", "triage", feb, true, 10),
		rec("u1", "A", "triage", jan, true, 20),
		rec("u1", "A", "triage", jan, true, 40),
		rec("u1", "A", "triage", jan, false, 90),
	}
	got := MonthlyDurations(records)
	require.Len(t, got, 3)

	assert.Equal(t, schema.MonthlyDuration{
		Team: "A", TaskType: "triage", Method: schema.AIMethod, Month: jan,
		Count: 2, AvgMinutes: 30, TotalMinutes: 60,
	}, got[0])
	assert.Equal(t, feb, got[1].Month)
	assert.Equal(t, schema.ManualMethod, got[2].Method)
}

func TestCompareBaseline(t *testing.T) {
	oct := schema.Month{Year: 2024, Month: 10}
	nov := oct.Next()
	baseline := []schema.Month{oct, nov}
	window := schema.MonthRange(jan, 4)

	records := []schema.TaskRecord{
		manual("u1", "A", "triage", oct, 100),
		manual("u1", "A", "triage", oct, 20),
		rec("u1", "A", "triage", oct, false, 999), // AI log rows never feed the baseline
		manual("u1", "A", "triage", nov, 80),
		rec("u1", "A", "triage", jan, true, 30),
		manual("u1", "A", "triage", feb, 50),
		rec("u1", "A", "review", mar, true, 40),
	}
	got := CompareBaseline(records, baseline, window)
	require.Len(t, got, 2)

	review := got[0]
	assert.Equal(t, "review", review.TaskType)
	assert.InDelta(t, 0.0, review.BaselineAvg.Float(), 1e-9)
	assert.True(t, review.PctChange.IsUndefined(), "zero baseline has no relative change")

	triage := got[1]
	require.Len(t, triage.Baseline, 2)
	assert.InDelta(t, 120.0, triage.Baseline[0].Minutes, 1e-9)
	assert.InDelta(t, 80.0, triage.Baseline[1].Minutes, 1e-9)
	assert.InDelta(t, 100.0, triage.BaselineAvg.Float(), 1e-9)

	require.Len(t, triage.Window, 4)
	assert.InDelta(t, 0.0, triage.Window[3].Minutes, 1e-9, "months without records count as zero")
	assert.InDelta(t, 20.0, triage.WindowAvg.Float(), 1e-9)
	assert.InDelta(t, -80.0, triage.PctChange.Float(), 1e-9)
}
