package algo

import (
	"testing"
	"time"

	"github.com/huangsam/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var forecastNow = time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC)

func TestPredictNextDayNoData(t *testing.T) {
	assert.Nil(t, PredictNextDay(ForecastInput{}, forecastNow))
	assert.Nil(t, PredictNextDay(ForecastInput{Metrics: &schema.MetricsRecord{}}, forecastNow))
}

func TestPredictNextDayShortSleep(t *testing.T) {
	in := ForecastInput{Metrics: &schema.MetricsRecord{SleepDuration: schema.Float64Ptr(3 * 3600)}}
	p := PredictNextDay(in, forecastNow)
	require.NotNil(t, p)

	assert.InDelta(t, -20.0, SleepAdjustment(3), 1e-9)
	// 65 - 20*0.7
	assert.Equal(t, 51, p.PredictedScore)
	assert.Equal(t, schema.LimitedConfidence, p.Confidence)
	assert.Equal(t, schema.RulesSource, p.Source)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), p.TargetDate)
	assert.Empty(t, p.ID)
	assert.Nil(t, p.ActualScore)
}

func TestPredictNextDayAllSignals(t *testing.T) {
	in := ForecastInput{
		Metrics: &schema.MetricsRecord{
			HRV:              schema.Float64Ptr(110),
			RestingHeartRate: schema.Float64Ptr(45),
			SleepDuration:    schema.Float64Ptr(8 * 3600),
			StepCount:        schema.IntPtr(5000),
		},
		EnergyLevel: schema.IntPtr(5),
		TodayScore:  schema.IntPtr(80),
		TodaySource: schema.BlendedSource,
	}
	p := PredictNextDay(in, forecastNow)
	require.NotNil(t, p)

	// combined = 5*.35 + 12*.25 + 8*.15 + 3*.10 + 8*.15 = 7.45
	assert.Equal(t, 85, p.PredictedScore)
	assert.Equal(t, schema.FullConfidence, p.Confidence)
	assert.Equal(t, schema.BlendedSource, p.Source)
	assert.Equal(t, in.Metrics, p.InputMetrics)
	assert.Equal(t, 5, *p.InputEnergyLevel)
}

func TestPredictNextDayDeterministic(t *testing.T) {
	in := ForecastInput{
		Metrics:     &schema.MetricsRecord{HRV: schema.Float64Ptr(45), StepCount: schema.IntPtr(15000)},
		EnergyLevel: schema.IntPtr(2),
	}
	a := PredictNextDay(in, forecastNow)
	b := PredictNextDay(in, forecastNow)
	require.NotNil(t, a)
	assert.Equal(t, a, b)
	assert.Equal(t, schema.PartialConfidence, a.Confidence)
}

func TestPredictNextDayClamped(t *testing.T) {
	high := ForecastInput{
		Metrics:    &schema.MetricsRecord{HRV: schema.Float64Ptr(150)},
		TodayScore: schema.IntPtr(100),
	}
	p := PredictNextDay(high, forecastNow)
	require.NotNil(t, p)
	assert.Equal(t, ForecastScoreMax, p.PredictedScore)

	low := ForecastInput{
		Metrics:    &schema.MetricsRecord{HRV: schema.Float64Ptr(5)},
		TodayScore: schema.IntPtr(10),
	}
	p = PredictNextDay(low, forecastNow)
	require.NotNil(t, p)
	assert.Equal(t, ForecastScoreMin, p.PredictedScore)
}

func TestPredictNextDayScoreOnly(t *testing.T) {
	p := PredictNextDay(ForecastInput{TodayScore: schema.IntPtr(72), TodaySource: schema.MLSource}, forecastNow)
	require.NotNil(t, p)
	assert.Equal(t, 72, p.PredictedScore)
	assert.Equal(t, schema.MLSource, p.Source)
	assert.Equal(t, schema.LimitedConfidence, p.Confidence)
}

func TestStepsAdjustment(t *testing.T) {
	tests := []struct {
		steps      int
		wellRested bool
		want       float64
	}{
		{1000, false, 0},
		{5000, false, 3},
		{10000, true, 5},
		{10000, false, -2},
		{15000, true, 2},
		{15000, false, -8},
		{25000, true, -3},
		{25000, false, -12},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, StepsAdjustment(tt.steps, tt.wellRested), 1e-9, "steps=%d rested=%v", tt.steps, tt.wellRested)
	}
}

func TestForecastWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, w := range ForecastWeights() {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}
