package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/uptake/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		DataDir:      "data",
		WindowStart:  "2025-01",
		WindowMonths: 4,
		Limit:        10,
		Precision:    1,
		Output:       "text",
		CacheBackend: "none",
		Emoji:        "no",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"invalid limit", func(in *ConfigRawInput) { in.Limit = 0 }, true},
		{"limit too high", func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, true},
		{"invalid precision", func(in *ConfigRawInput) { in.Precision = 3 }, true},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "xml" }, true},
		{"yaml output", func(in *ConfigRawInput) { in.Output = "YAML" }, false},
		{"parquet without file", func(in *ConfigRawInput) { in.Output = "parquet" }, true},
		{"parquet with file", func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }, false},
		{"invalid window start", func(in *ConfigRawInput) { in.WindowStart = "January" }, true},
		{"window too long", func(in *ConfigRawInput) { in.WindowMonths = 25 }, true},
		{"invalid grouping", func(in *ConfigRawInput) { in.By = "region" }, true},
		{"team-task grouping", func(in *ConfigRawInput) { in.By = "team-task" }, false},
		{"summary with team-task", func(in *ConfigRawInput) { in.Source = "summary"; in.By = "team-task" }, true},
		{"invalid source", func(in *ConfigRawInput) { in.Source = "api" }, true},
		{"status alias", func(in *ConfigRawInput) { in.Status = "declining" }, false},
		{"invalid status", func(in *ConfigRawInput) { in.Status = "soaring" }, true},
		{"threshold out of range", func(in *ConfigRawInput) { in.AccuracyThreshold = 1.5 }, true},
		{"valid schedule", func(in *ConfigRawInput) { in.Schedule = "0 6 * * 1" }, false},
		{"invalid schedule", func(in *ConfigRawInput) { in.Schedule = "every monday" }, true},
		{"invalid emoji", func(in *ConfigRawInput) { in.Emoji = "maybe" }, true},
		{"invalid cache backend", func(in *ConfigRawInput) { in.CacheBackend = "redis" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.DataDir = ""
	input.WindowStart = ""
	input.WindowMonths = 0
	require.NoError(t, ProcessAndValidate(cfg, input))

	jan := schema.Month{Year: 2025, Month: time.January}
	assert.Equal(t, schema.MonthRange(jan, DefaultWindowMonths), cfg.Window)
	assert.Equal(t, schema.MonthRange(schema.Month{Year: 2024, Month: time.October}, DefaultBaselineMonths), cfg.BaselineMonths)
	assert.Equal(t, schema.UserGroup, cfg.GroupBy)
	assert.Equal(t, schema.LogsSource, cfg.Source)
	assert.Equal(t, filepath.Join(DefaultDataDir, DefaultAILogsFile), cfg.AILogsPath)
	assert.Equal(t, filepath.Join(DefaultDataDir, DefaultSummaryFile), cfg.SummaryPath)
	assert.InDelta(t, DefaultAccuracyThreshold, cfg.AccuracyThreshold, 1e-9)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)
}

func TestProcessAndValidateExplicitPaths(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.AILogs = "/tmp/ai.csv"
	input.Status = "Full"
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "/tmp/ai.csv", cfg.AILogsPath)
	assert.Equal(t, filepath.Join("data", DefaultUsersFile), cfg.UsersPath)
	assert.Equal(t, schema.StatusFullAdopter, cfg.StatusFilter)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/uptake", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql no tcp", schema.MySQLBackend, "user:pass@localhost/uptake", true},
		{"mysql no db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=uptake", false},
		{"postgres no host", schema.PostgreSQLBackend, "dbname=uptake", true},
		{"postgres no dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBackendConfigsSQLiteConflict(t *testing.T) {
	input := validInput()
	input.CacheBackend = "sqlite"
	input.AnalysisBackend = "sqlite"

	assert.NoError(t, ProcessAndValidate(&Config{}, input), "default paths already differ")

	input.CacheDBConnect = "/tmp/same.db"
	input.AnalysisDBConnect = "/tmp/same.db"
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input.AnalysisDBConnect = "/tmp/other.db"
	assert.NoError(t, ProcessAndValidate(&Config{}, input))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Window: schema.MonthRange(schema.Month{Year: 2025, Month: time.January}, 2)}
	clone := cfg.Clone()
	clone.Window[0] = schema.Month{Year: 1999, Month: time.March}
	assert.Equal(t, 2025, cfg.Window[0].Year)

	moved := cfg.CloneWithWindow(schema.Month{Year: 2025, Month: time.June}, 3)
	assert.Len(t, moved.Window, 3)
	assert.Len(t, cfg.Window, 2)
}

func TestConfigParams(t *testing.T) {
	cfg := &Config{
		Source:       schema.LogsSource,
		GroupBy:      schema.TeamGroup,
		Window:       schema.MonthRange(schema.Month{Year: 2025, Month: time.January}, 4),
		StatusFilter: schema.StatusGrowing,
	}
	params := cfg.Params()
	assert.Equal(t, "2025-01", params["window_start"])
	assert.Equal(t, 4, params["window_months"])
	assert.Equal(t, schema.StatusGrowing, params["status"])
	assert.NotContains(t, params, "indeterminate")
}

func TestRevalidateWindow(t *testing.T) {
	cfg := &Config{Window: schema.MonthRange(schema.Month{Year: 2025, Month: time.January}, 4)}

	require.NoError(t, RevalidateWindow(cfg, "", 0))
	assert.Equal(t, "2025-01", cfg.Window[0].String())
	assert.Len(t, cfg.Window, 4)

	require.NoError(t, RevalidateWindow(cfg, "2025-03", 2))
	assert.Equal(t, "2025-03", cfg.Window[0].String())
	assert.Len(t, cfg.Window, 2)

	assert.ErrorContains(t, RevalidateWindow(cfg, "March", 0), "invalid window start")
	assert.ErrorContains(t, RevalidateWindow(cfg, "", MaxWindowMonths+1), "window months must be between")
}

func TestRevalidateTrends(t *testing.T) {
	cfg := &Config{GroupBy: schema.UserGroup, StatusFilter: schema.StatusStagnant, AccuracyThreshold: 0.8}

	require.NoError(t, RevalidateTrends(cfg, "team", ""))
	assert.Equal(t, schema.TeamGroup, cfg.GroupBy)
	assert.Equal(t, schema.StatusStagnant, cfg.StatusFilter, "an empty status keeps the filter")
	assert.InDelta(t, 0.8, cfg.AccuracyThreshold, 1e-9)

	require.NoError(t, RevalidateTrends(cfg, "", "growing"))
	assert.Equal(t, schema.StatusGrowing, cfg.StatusFilter)

	assert.ErrorContains(t, RevalidateTrends(cfg, "org", ""), "invalid grouping")
	assert.Equal(t, schema.TeamGroup, cfg.GroupBy, "a rejected grouping leaves the config untouched")
	assert.ErrorContains(t, RevalidateTrends(cfg, "", "soaring"), "invalid status")
	assert.Equal(t, schema.StatusGrowing, cfg.StatusFilter, "a rejected status leaves the filter untouched")

	require.NoError(t, RevalidateTrends(cfg, "", ""))
	assert.Equal(t, schema.TeamGroup, cfg.GroupBy)

	summary := &Config{Source: schema.SummarySource, GroupBy: schema.UserGroup}
	assert.ErrorContains(t, RevalidateTrends(summary, "task-type", ""), "--source summary")
}

func TestRevalidateLimit(t *testing.T) {
	cfg := &Config{ResultLimit: DefaultResultLimit}

	require.NoError(t, RevalidateLimit(cfg, 0))
	assert.Equal(t, DefaultResultLimit, cfg.ResultLimit, "zero keeps the limit")

	require.NoError(t, RevalidateLimit(cfg, 5))
	assert.Equal(t, 5, cfg.ResultLimit)

	assert.ErrorContains(t, RevalidateLimit(cfg, MaxResultLimit+1), "cannot exceed")
	assert.ErrorContains(t, RevalidateLimit(cfg, -1), "greater than 0")
	assert.Equal(t, 5, cfg.ResultLimit)
}

func TestRevalidateThreshold(t *testing.T) {
	cfg := &Config{AccuracyThreshold: DefaultAccuracyThreshold}
	require.NoError(t, RevalidateThreshold(cfg, 0.5))
	assert.InDelta(t, 0.5, cfg.AccuracyThreshold, 1e-9)
	assert.Error(t, RevalidateThreshold(cfg, 1.5))
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, "  "))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "uptake"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "uptake", profile.Prefix)
}
