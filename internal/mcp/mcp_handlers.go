package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/readiness/core"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
// The engine serializes concurrent tool calls.
type toolHandler struct {
	baseCfg *contract.Config
	engine  *core.Engine
}

// dayArgs reads the optional date and energy arguments.
func dayArgs(request mcp.CallToolRequest, now time.Time) (time.Time, *int, error) {
	day, err := contract.ParseDayNotAfter(request.GetString("date", ""), now)
	if err != nil {
		return time.Time{}, nil, err
	}
	var energy *int
	if e := request.GetInt("energy", 0); e != 0 {
		if e < 1 || e > 5 {
			return time.Time{}, nil, fmt.Errorf("energy must be between 1 and 5 (received %d)", e)
		}
		energy = schema.IntPtr(e)
	}
	return day, energy, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetReadinessScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, energy, err := dayArgs(request, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid score parameters: %v", err)), nil
	}

	score, err := h.engine.ScoreDay(ctx, day, energy)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return jsonResult(schema.EnrichScores([]schema.ReadinessScore{*score})[0]), nil
}

func (h *toolHandler) handleGetForecast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, energy, err := dayArgs(request, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid forecast parameters: %v", err)), nil
	}

	p, created, err := h.engine.Forecast(ctx, day, energy)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("forecast failed: %v", err)), nil
	}
	return jsonResult(struct {
		Created bool `json:"created"`
		schema.EnrichedPrediction
	}{created, schema.EnrichPredictions([]schema.Prediction{*p})[0]}), nil
}

func (h *toolHandler) handleGetModelStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.engine.ModelReport()), nil
}

func (h *toolHandler) handleRetrainModel(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := h.engine.Retrain(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrain failed: %v", err)), nil
	}
	return jsonResult(h.engine.ModelReport()), nil
}
