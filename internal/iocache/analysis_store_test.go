package iocache

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/uptake/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classification(id string, status schema.AdoptionStatus) schema.StatusClassification {
	return schema.StatusClassification{
		Entity:            schema.EntityKey{ID: id},
		Status:            status,
		NMonths:           4,
		DeclineCount:      1,
		AvgMoMAbs:         12.5,
		DeltaAbsEndpoints: 30,
		DeltaRelEndpoints: schema.Undefined(),
		Since:             schema.SinceAdoption{DeclineCount: 1, IncreaseCount: 3},
	}
}

func TestAnalysisStore_NoneBackend(t *testing.T) {
	store, err := NewAnalysisStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.BeginAnalysis("trends", time.Now(), map[string]any{"test": "value"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)

	assert.NoError(t, store.EndAnalysis(1, time.Now(), 10))
	assert.NoError(t, store.RecordEntityStatus(1, schema.UserGroup, schema.StatusClassification{}))

	runs, err := store.GetAllAnalysisRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestAnalysisStore_SQLite(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Now().Add(-2 * time.Second)
	params := map[string]any{"group_by": "user", "window_start": "2025-01", "window_months": 4}
	id, err := store.BeginAnalysis("trends", start, params)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	require.NoError(t, store.RecordEntityStatus(id, schema.UserGroup, classification("u1", schema.StatusGrowing)))
	require.NoError(t, store.RecordEntityStatus(id, schema.UserGroup, classification("u2", schema.StatusStagnant)))
	require.NoError(t, store.EndAnalysis(id, time.Now(), 2))

	runs, err := store.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, id, run.AnalysisID)
	assert.Equal(t, "trends", run.Command)
	assert.Len(t, run.RunUUID, 36)
	assert.Equal(t, int32(2), run.TotalEntities)
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.GreaterOrEqual(t, *run.RunDurationMs, int32(2000))
	require.NotNil(t, run.ConfigParams)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &decoded))
	assert.Equal(t, "2025-01", decoded["window_start"])

	statuses, err := store.GetAllEntityStatuses()
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "u1", statuses[0].EntityID)
	assert.Equal(t, "user", statuses[0].Grouping)
	assert.Equal(t, string(schema.StatusGrowing), statuses[0].Status)
	assert.Equal(t, int32(4), statuses[0].NMonths)
	assert.Equal(t, int32(3), statuses[0].SinceIncreaseCount)
	require.NotNil(t, statuses[0].AvgMoMAbs)
	assert.InDelta(t, 12.5, *statuses[0].AvgMoMAbs, 1e-9)
	assert.Nil(t, statuses[0].DeltaRel, "undefined ratios are stored as NULL")
	assert.False(t, statuses[0].RecordedAt.IsZero())
}

func TestAnalysisStore_DuplicateEntityRejected(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	id, err := store.BeginAnalysis("trends", time.Now(), nil)
	require.NoError(t, err)
	c := classification("u1", schema.StatusGrowing)
	require.NoError(t, store.RecordEntityStatus(id, schema.UserGroup, c))
	assert.Error(t, store.RecordEntityStatus(id, schema.UserGroup, c))
	assert.NoError(t, store.RecordEntityStatus(id, schema.TeamGroup, c), "the grouping is part of the key")
}

func TestAnalysisStore_Status(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)

	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var lastID int64
	for i := range 3 {
		id, err := store.BeginAnalysis("adoption", first.Add(time.Duration(i)*time.Hour), nil)
		require.NoError(t, err)
		require.NoError(t, store.EndAnalysis(id, first.Add(time.Duration(i)*time.Hour+time.Minute), i+1))
		lastID = id
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, lastID, status.LastRunID)
	assert.True(t, status.OldestRunTime.Equal(first))
	assert.True(t, status.LastRunTime.Equal(first.Add(2*time.Hour)))
	assert.Equal(t, 6, status.TotalEntitiesRecorded)
	assert.Equal(t, int64(3), status.TableSizes[analysisRunsTable])
	assert.Equal(t, int64(0), status.TableSizes[entityStatusesTable])

	var buf bytes.Buffer
	PrintAnalysisStatus(&buf, status)
	assert.Contains(t, buf.String(), "Total Entities Recorded: 6")
	assert.Contains(t, buf.String(), "  uptake_analysis_runs: 3 rows\n  uptake_entity_statuses: 0 rows\n")
}

func TestAnalysisStore_EndUnknownRun(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Error(t, store.EndAnalysis(42, time.Now(), 1))
}

func TestParseTime(t *testing.T) {
	ts := time.Date(2025, 2, 3, 4, 5, 6, 7000, time.UTC)
	tests := []struct {
		name    string
		raw     any
		wantErr bool
	}{
		{"native", ts, false},
		{"rfc3339 text", ts.Format(time.RFC3339Nano), false},
		{"rfc3339 bytes", []byte(ts.Format(time.RFC3339Nano)), false},
		{"mysql text", "2025-02-03 04:05:06.000007", false},
		{"garbage", "yesterday", true},
		{"wrong type", 17, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(ts), "got %s", got)
		})
	}
}
