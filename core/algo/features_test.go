package algo

import (
	"testing"
	"time"

	"github.com/huangsam/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHRV(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{20, 0},
		{60, 0.5},
		{100, 1},
		{5, 0},
		{180, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeHRV(tt.in), 1e-9, "hrv=%v", tt.in)
	}
}

func TestNormalizeRHR(t *testing.T) {
	assert.InDelta(t, 1.0, NormalizeRHR(40), 1e-9)
	assert.InDelta(t, 0.5, NormalizeRHR(65), 1e-9)
	assert.InDelta(t, 0.0, NormalizeRHR(90), 1e-9)
	assert.InDelta(t, 1.0, NormalizeRHR(30), 1e-9)
	assert.InDelta(t, 0.0, NormalizeRHR(120), 1e-9)
}

func TestNormalizeSleep(t *testing.T) {
	t.Run("linear", func(t *testing.T) {
		assert.InDelta(t, 0.0, NormalizeSleepLinear(4), 1e-9)
		assert.InDelta(t, 0.5, NormalizeSleepLinear(8), 1e-9)
		assert.InDelta(t, 1.0, NormalizeSleepLinear(12), 1e-9)
		assert.InDelta(t, 0.0, NormalizeSleepLinear(2), 1e-9)
	})

	t.Run("opinionated", func(t *testing.T) {
		tests := []struct {
			hours, want float64
		}{
			{2, 0.2},
			{4, 0.2},
			{5.5, 0.5},
			{7, 0.8},
			{8, 1.0},
			{9, 0.8},
			{10.5, 0.65},
			{12, 0.5},
			{14, 0.5},
		}
		for _, tt := range tests {
			assert.InDelta(t, tt.want, NormalizeSleepOpinionated(tt.hours), 1e-9, "hours=%v", tt.hours)
		}
	})
}

func TestDayOfWeek(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	assert.InDelta(t, 0.0, DayOfWeek(sunday), 1e-9)
	assert.InDelta(t, 0.5, DayOfWeek(sunday.AddDate(0, 0, 3)), 1e-9)
	assert.InDelta(t, 1.0, DayOfWeek(sunday.AddDate(0, 0, 6)), 1e-9)
}

func TestExtractFeatures(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	t.Run("nil metrics keeps only day of week", func(t *testing.T) {
		fv := ExtractFeatures(nil, 0, now)
		assert.Nil(t, fv.HRV)
		assert.Nil(t, fv.RHR)
		assert.Nil(t, fv.Sleep)
		assert.Equal(t, 1, fv.AvailableFeatureCount())
		assert.InDelta(t, 0.0, fv.DayOfWeek, 1e-9)
	})

	t.Run("metrics date drives day of week", func(t *testing.T) {
		m := &schema.MetricsRecord{Date: now.AddDate(0, 0, 6), HRV: schema.Float64Ptr(60)}
		fv := ExtractFeatures(m, 0, now)
		require.NotNil(t, fv.HRV)
		assert.InDelta(t, 0.5, *fv.HRV, 1e-9)
		assert.InDelta(t, 1.0, fv.DayOfWeek, 1e-9)
		assert.Equal(t, 2, fv.AvailableFeatureCount())
	})

	t.Run("sleep policy switches at the threshold", func(t *testing.T) {
		m := &schema.MetricsRecord{SleepDuration: schema.Float64Ptr(8 * 3600)}

		early := ExtractFeatures(m, OpinionatedThreshold-1, now)
		require.NotNil(t, early.Sleep)
		assert.InDelta(t, 1.0, *early.Sleep, 1e-9)

		late := ExtractFeatures(m, OpinionatedThreshold, now)
		require.NotNil(t, late.Sleep)
		assert.InDelta(t, 0.5, *late.Sleep, 1e-9)
	})

	t.Run("all features bounded", func(t *testing.T) {
		m := &schema.MetricsRecord{
			HRV:              schema.Float64Ptr(400),
			RestingHeartRate: schema.Float64Ptr(10),
			SleepDuration:    schema.Float64Ptr(20 * 3600),
		}
		fv := ExtractFeatures(m, 100, now)
		for _, v := range fv.Values() {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
		assert.Equal(t, 4, fv.AvailableFeatureCount())
	})
}
