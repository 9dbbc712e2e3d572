package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/readiness/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{
			name:    "scores",
			schema:  parquet.SchemaOf(new(ScoreRow)),
			columns: []string{"date", "score", "label", "confidence", "source", "ml_weight", "hrv_component", "resting_hr_component", "sleep_component", "energy_component", "energy_level", "computed_at"},
		},
		{
			name:    "predictions",
			schema:  parquet.SchemaOf(new(PredictionRow)),
			columns: []string{"id", "created_at", "target_date", "predicted_score", "confidence", "source", "input_energy_level", "actual_score", "actual_recorded_at", "absolute_error"},
		},
		{
			name:    "training examples",
			schema:  parquet.SchemaOf(new(TrainingExampleRow)),
			columns: []string{"date", "label", "hrv", "rhr", "sleep", "day_of_week"},
		},
		{
			name:    "metrics",
			schema:  parquet.SchemaOf(new(MetricsRow)),
			columns: []string{"date", "resting_heart_rate", "hrv", "sleep_hours", "step_count", "active_energy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, colName := range tt.columns {
				col, ok := tt.schema.Lookup(colName)
				require.True(t, ok, "Column %s should exist in schema", colName)
				require.NotNil(t, col)
			}
		})
	}
}

func TestConvertPredictions(t *testing.T) {
	recorded := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	preds := []schema.Prediction{
		{
			ID:             "a",
			TargetDate:     time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
			PredictedScore: 70,
			ActualScore:    schema.IntPtr(64),
			ActualScoreRecordedAt: &recorded,
		},
		{ID: "b", TargetDate: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), PredictedScore: 55},
	}

	rows := ConvertPredictions(preds)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-10-19", rows[0].TargetDate)
	require.NotNil(t, rows[0].AbsoluteError)
	assert.Equal(t, int32(6), *rows[0].AbsoluteError)
	assert.Nil(t, rows[1].ActualScore)
	assert.Nil(t, rows[1].AbsoluteError)
}

func TestConvertScores(t *testing.T) {
	rows := ConvertScores([]schema.ReadinessScore{{
		Date:      time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		Score:     82,
		Breakdown: schema.ReadinessBreakdown{HRV: schema.IntPtr(80)},
		Source:    schema.BlendedSource,
	}})
	require.Len(t, rows, 1)
	assert.Equal(t, schema.PeakValue, rows[0].Label)
	require.NotNil(t, rows[0].HRVComponent)
	assert.Equal(t, int32(80), *rows[0].HRVComponent)
	assert.Nil(t, rows[0].SleepComponent)
}

func TestMetricsRoundTrip(t *testing.T) {
	records := []schema.MetricsRecord{
		{
			Date:             time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
			RestingHeartRate: schema.Float64Ptr(52),
			HRV:              schema.Float64Ptr(71.5),
			SleepDuration:    schema.Float64Ptr(7.5 * 3600),
			StepCount:        schema.IntPtr(9000),
		},
		{
			Date: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
			HRV:  schema.Float64Ptr(40),
		},
	}

	path := filepath.Join(t.TempDir(), "metrics.parquet")
	require.NoError(t, WriteMetricsParquet(ConvertMetrics(records), path))

	rows, err := ReadMetricsParquet(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for i, row := range rows {
		got, err := row.ToMetricsRecord()
		require.NoError(t, err)
		assert.Equal(t, records[i], got)
	}
}

func TestWriteScoresParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.parquet")
	computed := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	data := ConvertScores([]schema.ReadinessScore{
		{Date: computed, Score: 61, Confidence: schema.PartialConfidence, Source: schema.RulesSource, ComputedAt: computed},
	})
	require.NoError(t, WriteScoresParquet(data, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[ScoreRow](file)
	defer reader.Close()

	readData := make([]ScoreRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)
	assert.Equal(t, int32(61), readData[0].Score)
	assert.Equal(t, "partial", readData[0].Confidence)
	assert.WithinDuration(t, computed, readData[0].ComputedAt, time.Microsecond)
}

func TestWriteToStream(t *testing.T) {
	var buf bytes.Buffer
	rows := ConvertTrainingExamples([]schema.TrainingExample{
		{Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), Label: 72, Features: schema.FeatureVector{HRV: schema.Float64Ptr(0.5), DayOfWeek: 0.5}},
	})
	require.NoError(t, Write(&buf, rows))
	assert.Positive(t, buf.Len())
}

func TestWriteEmptyAndInvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WritePredictionsParquet([]PredictionRow{}, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size(), "Output file should contain schema even if empty")

	err = WriteTrainingExamplesParquet(nil, "/nonexistent/directory/output.parquet")
	assert.Error(t, err)
}
