// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Uptake MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Uptake Adoption Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_trends ---
	s.AddTool(mcp.NewTool("get_trends",
		mcp.WithDescription("Classify AI adoption trends per user, team, team and task type, or task type over a monthly window."),
		mcp.WithString("by", mcp.Description("Entity grouping. Defaults to 'user'."), mcp.Enum("user", "team", "team-task", "task-type")),
		mcp.WithString("status", mcp.Description("Only return entities with this status (growing, stagnant, full, not-enough-data, indeterminate).")),
		mcp.WithString("window_start", mcp.Description("First month of the window as YYYY-MM.")),
		mcp.WithNumber("window_months", mcp.Description("Number of months in the window.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetTrends)

	// --- 2. Tool: get_adoption ---
	s.AddTool(mcp.NewTool("get_adoption",
		mcp.WithDescription("Summarize AI adoption by team, by task type and by team and task type inside the window."),
		mcp.WithString("window_start", mcp.Description("First month of the window as YYYY-MM.")),
		mcp.WithNumber("window_months", mcp.Description("Number of months in the window.")),
	), h.handleGetAdoption)

	// --- 3. Tool: get_efficiency ---
	s.AddTool(mcp.NewTool("get_efficiency",
		mcp.WithDescription("Compare AI and manual task durations and the manual baseline against the window."),
		mcp.WithString("window_start", mcp.Description("First month of the window as YYYY-MM.")),
		mcp.WithNumber("window_months", mcp.Description("Number of months in the window.")),
	), h.handleGetEfficiency)

	// --- 4. Tool: get_quality ---
	s.AddTool(mcp.NewTool("get_quality",
		mcp.WithDescription("Assess AI prediction accuracy and list predictions below the threshold."),
		mcp.WithNumber("threshold", mcp.Description("Accuracy threshold between 0 and 1 (exclusive). Defaults to 0.7.")),
	), h.handleGetQuality)

	// --- 5. Tool: get_user_summary ---
	s.AddTool(mcp.NewTool("get_user_summary",
		mcp.WithDescription("Return the per-user, per-month task summary derived from the logs."),
		mcp.WithString("user_id", mcp.Description("Only return rows of this user.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rows returned.")),
	), h.handleGetUserSummary)

	return s
}

// StartMCPServer starts the Uptake MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
