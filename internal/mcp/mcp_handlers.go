package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/uptake/core"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// windowConfig clones the base config and applies the window arguments of the request.
func (h *toolHandler) windowConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	start := request.GetString("window_start", "")
	months := request.GetInt("window_months", 0)
	if err := contract.RevalidateWindow(cfg, start, months); err != nil {
		return nil, err
	}
	return cfg, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTrends(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.windowConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window parameters: %v", err)), nil
	}
	if err := contract.RevalidateTrends(cfg, request.GetString("by", ""), request.GetString("status", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid trend parameters: %v", err)), nil
	}
	if err := contract.RevalidateLimit(cfg, request.GetInt("limit", 0)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid limit parameter: %v", err)), nil
	}

	report, _, err := core.GetTrendResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleGetAdoption(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.windowConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window parameters: %v", err)), nil
	}

	report, _, err := core.GetAdoptionResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleGetEfficiency(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.windowConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window parameters: %v", err)), nil
	}

	report, _, err := core.GetEfficiencyResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleGetQuality(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if t := request.GetFloat("threshold", 0); t != 0 {
		if err := contract.RevalidateThreshold(cfg, t); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid quality parameters: %v", err)), nil
		}
	}

	report, _, err := core.GetQualityResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleGetUserSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	limit := request.GetInt("limit", 0)
	if err := contract.RevalidateLimit(cfg, limit); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid limit parameter: %v", err)), nil
	}
	rows, _, err := core.GetSummaryResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}

	if user := request.GetString("user_id", ""); user != "" {
		filtered := make([]schema.UserMonthlySummary, 0)
		for _, r := range rows {
			if r.UserID == user {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return jsonResult(rows)
}
