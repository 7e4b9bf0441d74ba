package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/uptake/internal/contract"
	mcp_internal "github.com/huangsam/uptake/internal/mcp"
	"github.com/huangsam/uptake/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callTool invokes a registered tool the way the stdio transport would.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

// dataConfig writes a small data directory and returns a validated config over it.
func dataConfig(t *testing.T) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		contract.DefaultAILogsFile: "user_id,team,task_type,date,used_ai_tool,task_duration_minutes,ai_prediction_accuracy\n" +
			"u1,Alpha,triage,2025-01-05,True,20,0.9\n" +
			"u1,Alpha,triage,2025-02-05,True,20,0.4\n" +
			"u2,Beta,review,2025-01-10,False,30,\n" +
			"u2,Beta,review,2025-02-10,True,25,0.8\n",
		contract.DefaultManualLogsFile: "user_id,task_type,date,task_duration_minutes\n" +
			"u2,review,2024-10-03,45\n",
		contract.DefaultUsersFile: "user_id,full_name,join_date\n" +
			"u1,Ada Park,2023-04-01\n" +
			"u2,Lin Osei,2024-01-15\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	cfg := &contract.Config{}
	require.NoError(t, contract.ProcessAndValidate(cfg, &contract.ConfigRawInput{
		DataDir:         dir,
		Limit:           contract.DefaultResultLimit,
		Precision:       contract.DefaultPrecision,
		Output:          "text",
		Emoji:           "no",
		Color:           "no",
		CacheBackend:    string(schema.NoneBackend),
		AnalysisBackend: string(schema.NoneBackend),
	}))
	return cfg
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		GroupBy: schema.UserGroup,
		Window:  schema.MonthRange(schema.Month{Year: 2025, Month: time.January}, 4),
	}

	// Validation fails before any store is touched
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"trends invalid grouping", "get_trends", map[string]any{"by": "org"}, "invalid grouping"},
		{"trends invalid status", "get_trends", map[string]any{"status": "soaring"}, "invalid status"},
		{"trends invalid window start", "get_trends", map[string]any{"window_start": "Jan"}, "invalid window start"},
		{"adoption window too long", "get_adoption", map[string]any{"window_months": 99.0}, "window months must be between"},
		{"efficiency invalid window start", "get_efficiency", map[string]any{"window_start": "2025-13"}, "invalid window start"},
		{"quality invalid threshold", "get_quality", map[string]any{"threshold": 1.5}, "accuracy threshold must be between"},
		{"trends limit too high", "get_trends", map[string]any{"limit": float64(contract.MaxResultLimit + 1)}, "invalid limit parameter"},
		{"trends negative limit", "get_trends", map[string]any{"limit": -3.0}, "invalid limit parameter"},
		{"user summary limit too high", "get_user_summary", map[string]any{"limit": float64(contract.MaxResultLimit + 1)}, "cannot exceed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, s, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.want)
		})
	}
}

func TestMCPServerHandlers_MissingData(t *testing.T) {
	baseCfg := &contract.Config{
		DataDir:        t.TempDir(),
		AILogsPath:     "missing/ai_usage_logs.csv",
		ManualLogsPath: "missing/manual_task_logs.csv",
		UsersPath:      "missing/user_directory.csv",
		GroupBy:        schema.UserGroup,
		Window:         schema.MonthRange(schema.Month{Year: 2025, Month: time.January}, 4),
	}
	s := mcp_internal.NewMCPServer(baseCfg, nil)

	res := callTool(t, s, "get_trends", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "analysis failed")

	res = callTool(t, s, "get_user_summary", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "summary failed")
}

func TestMCPServerHandlers_Results(t *testing.T) {
	s := mcp_internal.NewMCPServer(dataConfig(t), nil)

	t.Run("get_trends", func(t *testing.T) {
		res := callTool(t, s, "get_trends", map[string]any{"by": "team", "window_months": 2.0})
		require.False(t, res.IsError, resultText(res))

		var report schema.TrendReport
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
		assert.Equal(t, schema.TeamGroup, report.GroupBy)
		assert.Len(t, report.Window, 2)
		require.Len(t, report.Results, 2)
		assert.Equal(t, "Alpha", report.Results[0].Entity.ID)
		assert.Equal(t, schema.StatusFullAdopter, report.Results[0].Classification.Status)
		assert.Equal(t, schema.StatusGrowing, report.Results[1].Classification.Status)
	})

	t.Run("get_trends status and limit", func(t *testing.T) {
		res := callTool(t, s, "get_trends", map[string]any{"status": "growing", "limit": 1.0})
		require.False(t, res.IsError, resultText(res))

		var report schema.TrendReport
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
		require.Len(t, report.Results, 1)
		assert.Equal(t, "u2", report.Results[0].Entity.ID)
		assert.Equal(t, 2, report.TotalEntities)
	})

	t.Run("get_adoption", func(t *testing.T) {
		res := callTool(t, s, "get_adoption", nil)
		require.False(t, res.IsError, resultText(res))
		assert.Contains(t, resultText(res), `"by_team_task"`)
		assert.Contains(t, resultText(res), `"highest_team"`)
	})

	t.Run("get_efficiency", func(t *testing.T) {
		res := callTool(t, s, "get_efficiency", nil)
		require.False(t, res.IsError, resultText(res))
		assert.Contains(t, resultText(res), `"baseline"`)
	})

	t.Run("get_quality", func(t *testing.T) {
		res := callTool(t, s, "get_quality", map[string]any{"threshold": 0.5})
		require.False(t, res.IsError, resultText(res))

		var report schema.QualityReport
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
		assert.InDelta(t, 0.5, report.Threshold, 1e-9)
		assert.Equal(t, 3, report.TotalCount)
		assert.Equal(t, 1, report.BelowCount)

		require.Len(t, report.MonthlyByTeam, 2)
		assert.Equal(t, "Alpha", report.MonthlyByTeam[0].Entity.ID)
		require.Len(t, report.MonthlyByTeam[0].Slots, 2)
		require.NotNil(t, report.MonthlyByTeam[0].Slots[1].Rate)
		assert.InDelta(t, 0.4, *report.MonthlyByTeam[0].Slots[1].Rate, 1e-9)
		require.Len(t, report.MonthlyByTaskType, 2)
		assert.Equal(t, "review", report.MonthlyByTaskType[0].Entity.ID)
		assert.Nil(t, report.MonthlyByTaskType[0].Slots[0].Rate, "u2 did not use AI on review in January")
		require.Len(t, report.Users, 2)
		assert.InDelta(t, 20.0, report.Users[0].AvgDuration.Float(), 1e-9)
	})

	t.Run("get_user_summary", func(t *testing.T) {
		res := callTool(t, s, "get_user_summary", map[string]any{"user_id": "u2"})
		require.False(t, res.IsError, resultText(res))

		var rows []schema.UserMonthlySummary
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &rows))
		require.Len(t, rows, 3)
		for _, r := range rows {
			assert.Equal(t, "u2", r.UserID)
		}
	})
}
