package iocache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/readiness/internal/parquet"
	"github.com/huangsam/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExportHistory(t *testing.T) {
	store := newTestHistoryStore(t)
	ctx := context.Background()

	metrics := schema.MetricsRecord{
		Date:          day("2026-03-01"),
		HRV:           schema.Float64Ptr(55),
		SleepDuration: schema.Float64Ptr(8 * 3600),
		StepCount:     schema.IntPtr(4000),
	}
	require.NoError(t, store.SaveMetrics(ctx, metrics))
	require.NoError(t, store.SaveScore(ctx, schema.ReadinessScore{
		Date: day("2026-03-01"), Score: 70, Confidence: schema.PartialConfidence, Source: schema.RulesSource,
		ComputedAt: time.Now(),
	}))
	_, err := store.SavePrediction(ctx, schema.Prediction{
		ID: "p", TargetDate: day("2026-03-02"), PredictedScore: 66, CreatedAt: time.Now(),
		Confidence: schema.LimitedConfidence, Source: schema.RulesSource,
	})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "backup")
	var buf bytes.Buffer
	require.NoError(t, ExportHistory(ctx, store, out, &buf))

	for _, suffix := range []string{".scores.parquet", ".predictions.parquet", ".metrics.parquet"} {
		_, err := os.Stat(out + suffix)
		assert.NoError(t, err, suffix)
	}
	assert.Contains(t, buf.String(), "Exported 1 scores")
	assert.Contains(t, buf.String(), "Export complete!")

	// The metrics file reads back into the same record
	rows, err := parquet.ReadMetricsParquet(out + ".metrics.parquet")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	rec, err := rows[0].ToMetricsRecord()
	require.NoError(t, err)
	assert.Equal(t, metrics, rec)
}

func TestExportHistory_Errors(t *testing.T) {
	ctx := context.Background()

	err := ExportHistory(ctx, &MockHistoryStore{}, "", &bytes.Buffer{})
	assert.ErrorContains(t, err, "--output-file is required")

	err = ExportHistory(ctx, nil, "out", &bytes.Buffer{})
	assert.Error(t, err)

	empty := &MockHistoryStore{}
	empty.On("GetStatus").Return(schema.StoreStatus{Backend: "sqlite"}, nil)
	err = ExportHistory(ctx, empty, "out", &bytes.Buffer{})
	assert.ErrorContains(t, err, "no history found")
	empty.AssertExpectations(t)

	failing := &MockHistoryStore{}
	failing.On("GetStatus").Return(schema.StoreStatus{OldestDay: day("2026-01-01")}, nil)
	failing.On("GetScores", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)
	err = ExportHistory(ctx, failing, "out", &bytes.Buffer{})
	assert.ErrorIs(t, err, assert.AnError)
}
