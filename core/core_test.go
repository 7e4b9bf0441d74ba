package core

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/uptake/core/ingest"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/internal/iocache"
	"github.com/huangsam/uptake/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAILogs = `user_id,team,task_type,date,used_ai_tool,task_duration_minutes,ai_prediction_accuracy
u1,Alpha,triage,2025-01-05,True,20,0.9
u1,Alpha,triage,2025-01-06,False,40,
u1,Alpha,triage,2025-02-03,True,25,0.8
u1,Alpha,review,2025-02-04,True,15,0.6
u1,Alpha,triage,2025-04-01,True,20,0.95
u1,Alpha,triage,2025-04-02,True,22,0.85
u2,Beta,review,2025-01-10,True,10,0.7
u2,Beta,review,2025-01-11,True,12,0.75
u2,Beta,review,2025-02-10,True,11,0.65
u2,Beta,review,2025-02-12,True,9,0.9
u3,Beta,triage,2025-01-15,True,30,0.5
u3,Beta,triage,2025-01-16,False,50,
u3,Beta,triage,2025-02-15,False,45,
`

const testManualLogs = `user_id,task_type,date,task_duration_minutes
u1,triage,2024-10-05,60
u1,triage,2024-11-05,50
u5,review,2025-01-10,30
u3,review,2025-02-11,40
`

const testUsers = `user_id,full_name,join_date
u1,Ada Park,2023-04-01
u2,Lin Osei,2024-01-15
u3,Sam Rivera,2024-03-01
u4,Noor Haas,2024-06-30
`

// testConfig writes the sample logs to a temp dir and returns a config over them.
func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		ingest.DefaultAILogsFile:     testAILogs,
		ingest.DefaultManualLogsFile: testManualLogs,
		ingest.DefaultUsersFile:      testUsers,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	start := schema.Month{Year: 2025, Month: time.January}
	paths := ingest.DefaultPaths(dir)
	return &contract.Config{
		DataDir:           dir,
		AILogsPath:        paths.AILogs,
		ManualLogsPath:    paths.ManualLogs,
		UsersPath:         paths.Users,
		SummaryPath:       ingest.SummaryPath(dir),
		Source:            schema.LogsSource,
		Window:            schema.MonthRange(start, 4),
		BaselineMonths:    schema.MonthRange(schema.Month{Year: 2024, Month: time.October}, 2),
		GroupBy:           schema.UserGroup,
		AccuracyThreshold: 0.7,
		ResultLimit:       100,
		Precision:         1,
		Output:            schema.TextOut,
		Width:             120,
	}
}

// quiet redirects headers into a buffer for the duration of the test.
func quiet(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := headerOut
	headerOut = &buf
	t.Cleanup(func() { headerOut = prev })
	return &buf
}

func statuses(report schema.TrendReport) map[string]schema.AdoptionStatus {
	out := make(map[string]schema.AdoptionStatus, len(report.Results))
	for _, r := range report.Results {
		out[r.Entity.String()] = r.Classification.Status
	}
	return out
}

func TestGetTrendResultsByUser(t *testing.T) {
	headers := quiet(t)
	cfg := testConfig(t)

	report, _, err := GetTrendResults(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]schema.AdoptionStatus{
		"u1": schema.StatusGrowing,
		"u2": schema.StatusFullAdopter,
		"u3": schema.StatusStagnant,
		"u4": schema.StatusNotEnoughData,
	}, statuses(report))
	assert.Equal(t, 4, report.TotalEntities)
	assert.Equal(t, 1, report.DroppedManual, "u5 only appears in the manual log")
	assert.Equal(t, 1, report.StatusCounts[schema.StatusGrowing])

	u3 := report.Results[2]
	assert.Equal(t, "Decline 1 mo", u3.Classification.Severity)
	assert.Equal(t, "Beta", u3.Team)
	assert.Equal(t, "Sam Rivera", u3.FullName)
	require.Len(t, u3.Slots, 4)
	assert.InDelta(t, 50.0, *u3.Slots[0].Rate, 1e-9)
	assert.InDelta(t, 0.0, *u3.Slots[1].Rate, 1e-9, "manual-log tasks count toward the month")
	assert.Nil(t, u3.Slots[2].Rate)

	assert.Contains(t, headers.String(), "Window: Jan 2025 → Apr 2025 (4 months)")
}

func TestGetTrendResultsByTeam(t *testing.T) {
	quiet(t)
	cfg := testConfig(t)
	cfg.GroupBy = schema.TeamGroup

	report, _, err := GetTrendResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]schema.AdoptionStatus{
		"Alpha": schema.StatusGrowing,
		"Beta":  schema.StatusStagnant,
	}, statuses(report))
}

func TestGetTrendResultsFilters(t *testing.T) {
	quiet(t)
	tests := []struct {
		name   string
		modify func(*contract.Config)
		want   []string
	}{
		{"status", func(c *contract.Config) { c.StatusFilter = schema.StatusGrowing }, []string{"u1"}},
		{"declining", func(c *contract.Config) { c.StatusFilter = schema.StatusStagnant }, []string{"u3"}},
		{"since adoption", func(c *contract.Config) { c.SinceAdoption = true }, nil},
		{"consecutively stagnant", func(c *contract.Config) { c.Stagnant = true }, nil},
		{"limit", func(c *contract.Config) { c.ResultLimit = 2 }, []string{"u1", "u2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.modify(cfg)
			report, _, err := GetTrendResults(context.Background(), cfg, nil)
			require.NoError(t, err)

			var got []string
			for _, r := range report.Results {
				got = append(got, r.Entity.ID)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 4, report.TotalEntities, "totals cover every entity")
		})
	}
}

func TestGetTrendResultsSuppressHeader(t *testing.T) {
	headers := quiet(t)
	_, _, err := GetTrendResults(WithSuppressHeader(context.Background()), testConfig(t), nil)
	require.NoError(t, err)
	assert.Empty(t, headers.String())
}

func TestGetTrendResultsMissingInput(t *testing.T) {
	quiet(t)
	cfg := testConfig(t)
	require.NoError(t, os.Remove(cfg.UsersPath))

	_, _, err := GetTrendResults(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "failed to load dataset")
}

func TestGetTrendResultsTracksRun(t *testing.T) {
	quiet(t)
	cfg := testConfig(t)

	store := &iocache.MockAnalysisStore{}
	store.On("BeginAnalysis", trendsCommand, mock.Anything, mock.Anything).Return(int64(7), nil)
	store.On("RecordEntityStatus", int64(7), schema.UserGroup, mock.Anything).Return(nil).Times(4)
	store.On("EndAnalysis", int64(7), mock.Anything, 4).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(store)

	_, _, err := GetTrendResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestTrackingFailuresAreWarnings(t *testing.T) {
	quiet(t)
	cfg := testConfig(t)

	store := &iocache.MockAnalysisStore{}
	store.On("BeginAnalysis", adoptionCommand, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(store)

	_, _, err := GetAdoptionResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	store.AssertNotCalled(t, "EndAnalysis", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTrendResultsUsesDatasetCache(t *testing.T) {
	quiet(t)
	cfg := testConfig(t)

	cache := &iocache.MockCacheStore{}
	cache.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("miss")).Once()
	cache.On("Set", mock.Anything, mock.Anything, 1, mock.Anything).Return(nil).Once()

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(cache)
	mgr.On("GetAnalysisStore").Return(nil)

	report, _, err := GetTrendResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.Len(t, report.Results, 4)
	cache.AssertExpectations(t)
}

func TestSummaryRoundTrip(t *testing.T) {
	quiet(t)
	cfg := testConfig(t)

	require.NoError(t, ExecuteSummary(context.Background(), cfg, nil))
	_, err := os.Stat(cfg.SummaryPath)
	require.NoError(t, err, "the summary defaults to CSV under the data dir")

	fromLogs, _, err := GetTrendResults(context.Background(), cfg, nil)
	require.NoError(t, err)

	summaryCfg := cfg.Clone()
	summaryCfg.Source = schema.SummarySource
	fromSummary, _, err := GetTrendResults(context.Background(), summaryCfg, nil)
	require.NoError(t, err)

	want := statuses(fromLogs)
	delete(want, "u4") // directory-only users have no summary rows
	assert.Equal(t, want, statuses(fromSummary))
	for i, r := range fromSummary.Results {
		assert.Equal(t, fromLogs.Results[i].Slots, r.Slots)
		assert.Equal(t, fromLogs.Results[i].Team, r.Team)
	}
}

func TestSummaryConfig(t *testing.T) {
	cfg := &contract.Config{Output: schema.TextOut, SummaryPath: "data/user_monthly_summary.csv"}
	got := summaryConfig(cfg)
	assert.Equal(t, schema.CSVOut, got.Output)
	assert.Equal(t, "data/user_monthly_summary.csv", got.OutputFile)
	assert.Equal(t, schema.TextOut, cfg.Output, "the caller's config is untouched")

	cfg.Output = schema.ParquetOut
	cfg.OutputFile = "summary.parquet"
	assert.Equal(t, "summary.parquet", summaryConfig(cfg).OutputFile)
}

func TestGetAdoptionResults(t *testing.T) {
	quiet(t)
	report, _, err := GetAdoptionResults(context.Background(), testConfig(t), nil)
	require.NoError(t, err)

	require.Len(t, report.ByTeam, 2)
	assert.InDelta(t, 500.0/6, report.ByTeam[0].AdoptionRate.Float(), 1e-9)
	assert.InDelta(t, 62.5, report.ByTeam[1].AdoptionRate.Float(), 1e-9)
	require.NotNil(t, report.Highest)
	assert.Equal(t, "Alpha", report.Highest.Team)
	assert.Equal(t, "Beta", report.Lowest.Team)

	assert.Len(t, report.ByTeamTask, 4)
	require.Len(t, report.TeamTaskTrend, 4)
	assert.Equal(t, schema.EntityKey{ID: "Alpha", TaskType: "review"}, report.TeamTaskTrend[0].Entity)
	assert.Nil(t, report.TeamTaskTrend[0].Slots[0].Rate, "no Alpha review tasks in January")
}

func TestGetEfficiencyResults(t *testing.T) {
	quiet(t)
	report, _, err := GetEfficiencyResults(context.Background(), testConfig(t), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ByTeamTask)
	assert.NotEmpty(t, report.Monthly)
	require.Len(t, report.Baseline, 2)

	triage := report.Baseline[1]
	assert.Equal(t, "triage", triage.TaskType)
	assert.InDelta(t, 55.0, triage.BaselineAvg.Float(), 1e-9)
	assert.InDelta(t, 63.0, triage.WindowAvg.Float(), 1e-9)

	review := report.Baseline[0]
	assert.True(t, review.PctChange.IsUndefined(), "a zero baseline leaves the change undefined")
}

func TestGetQualityResults(t *testing.T) {
	quiet(t)
	cfg := testConfig(t)
	report, _, err := GetQualityResults(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 10, report.TotalCount)
	assert.Equal(t, 3, report.BelowCount)
	assert.Len(t, report.LowAccuracy, 3)
	assert.Len(t, report.Users, 3)
}

func TestExecuteWritesOutput(t *testing.T) {
	quiet(t)
	tests := []struct {
		name string
		run  ExecutorFunc
	}{
		{"trends", ExecuteTrends},
		{"adoption", ExecuteAdoption},
		{"efficiency", ExecuteEfficiency},
		{"quality", ExecuteQuality},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Output = schema.JSONOut
			cfg.OutputFile = filepath.Join(t.TempDir(), tt.name+".json")
			require.NoError(t, tt.run(context.Background(), cfg, nil))

			info, err := os.Stat(cfg.OutputFile)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}
