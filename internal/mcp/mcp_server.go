// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/readiness/core"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/telemetry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Readiness MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Readiness Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		engine:  core.NewEngine(baseCfg, mgr, telemetry.Default),
	}

	// --- 1. Tool: get_readiness_score ---
	s.AddTool(mcp.NewTool("get_readiness_score",
		mcp.WithDescription("Compute and store the readiness score (0-100) of a day from recorded metrics and energy check-ins."),
		mcp.WithString("date", mcp.Description("Day to score: YYYY-MM-DD, today, yesterday or 'N days ago'. Defaults to today.")),
		mcp.WithNumber("energy", mcp.Description("Optional 1-5 energy self-report. Defaults to the latest check-in of the day.")),
	), h.handleGetReadinessScore)

	// --- 2. Tool: get_forecast ---
	s.AddTool(mcp.NewTool("get_forecast",
		mcp.WithDescription("Predict the readiness score of the day after the given day. Repeated calls return the first prediction."),
		mcp.WithString("date", mcp.Description("Day to forecast from. Defaults to today.")),
		mcp.WithNumber("energy", mcp.Description("Optional 1-5 energy self-report for the day.")),
	), h.handleGetForecast)

	// --- 3. Tool: get_model_status ---
	s.AddTool(mcp.NewTool("get_model_status",
		mcp.WithDescription("Describe the personalized model: training state, weights and how much it contributes to scores."),
	), h.handleGetModelStatus)

	// --- 4. Tool: retrain_model ---
	s.AddTool(mcp.NewTool("retrain_model",
		mcp.WithDescription("Retrain the personalized model from every day with both energy check-ins."),
	), h.handleRetrainModel)

	return s
}

// StartMCPServer starts the Readiness MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
