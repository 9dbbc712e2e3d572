package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/iocache"
	mcp_internal "github.com/huangsam/readiness/internal/mcp"
	"github.com/huangsam/readiness/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*server.MCPServer, *iocache.HistoryStoreImpl) {
	t.Helper()
	hs, err := iocache.NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = hs.Close() })
	mgr := iocache.NewStoreManager(hs, iocache.NewWeightStore(hs.DB(), schema.NoneBackend))

	baseCfg := &contract.Config{TransitionDays: contract.DefaultTransitionDays}
	return mcp_internal.NewMCPServer(baseCfg, mgr), hs
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("get_readiness_score invalid date", func(t *testing.T) {
		res := callTool(t, s, "get_readiness_score", map[string]any{"date": "someday"})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "invalid date")
	})

	t.Run("get_forecast future date", func(t *testing.T) {
		res := callTool(t, s, "get_forecast", map[string]any{"date": "tomorrow"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "is in the future")
	})

	t.Run("get_forecast invalid energy", func(t *testing.T) {
		res := callTool(t, s, "get_forecast", map[string]any{"energy": 9.0})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "energy must be between 1 and 5")
	})

	t.Run("get_readiness_score without data", func(t *testing.T) {
		res := callTool(t, s, "get_readiness_score", map[string]any{"date": "2026-03-10"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "insufficient data")
	})
}

func TestMCPServerHandlers_ScoreAndForecast(t *testing.T) {
	s, hs := newTestServer(t)
	require.NoError(t, hs.SaveMetrics(context.Background(), schema.MetricsRecord{
		Date:          mustDay(t, "2026-03-10"),
		HRV:           schema.Float64Ptr(65),
		SleepDuration: schema.Float64Ptr(8 * 3600),
	}))

	res := callTool(t, s, "get_readiness_score", map[string]any{"date": "2026-03-10", "energy": 4.0})
	require.False(t, res.IsError, resultText(res))
	var score schema.EnrichedScore
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &score))
	assert.Equal(t, "2026-03-10", schema.DayKey(score.Date))
	assert.Equal(t, schema.PartialConfidence, score.Confidence)
	assert.NotEmpty(t, score.Label)

	res = callTool(t, s, "get_forecast", map[string]any{"date": "2026-03-10"})
	require.False(t, res.IsError, resultText(res))
	var forecast struct {
		Created    bool   `json:"created"`
		ID         string `json:"id"`
		TargetDate string `json:"target_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &forecast))
	assert.True(t, forecast.Created)
	assert.NotEmpty(t, forecast.ID)

	res = callTool(t, s, "get_forecast", map[string]any{"date": "2026-03-10"})
	var again struct {
		Created bool   `json:"created"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &again))
	assert.False(t, again.Created)
	assert.Equal(t, forecast.ID, again.ID)
}

func TestMCPServerHandlers_Model(t *testing.T) {
	s, _ := newTestServer(t)

	res := callTool(t, s, "get_model_status", nil)
	require.False(t, res.IsError)
	var report schema.ModelReport
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
	assert.Equal(t, schema.NotTrainedState, report.Status.State)
	assert.Equal(t, contract.DefaultTransitionDays, report.TransitionDays)

	// Nothing to learn from yet, which is not an error
	res = callTool(t, s, "retrain_model", nil)
	require.False(t, res.IsError, resultText(res))
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
	assert.Equal(t, schema.NotTrainedState, report.Status.State)
	assert.Equal(t, 0, report.DaysOfData)
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := schema.ParseDayKey(s)
	require.NoError(t, err)
	return d
}
