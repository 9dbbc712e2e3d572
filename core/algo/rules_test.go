package algo

import (
	"testing"
	"time"

	"github.com/huangsam/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rulesNow = time.Date(2026, 10, 18, 8, 30, 0, 0, time.UTC)

func TestScoreRulesFullInputs(t *testing.T) {
	metrics := &schema.MetricsRecord{
		Date:             time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC),
		HRV:              schema.Float64Ptr(80),
		RestingHeartRate: schema.Float64Ptr(55),
		SleepDuration:    schema.Float64Ptr(8 * 3600),
	}
	score := ScoreRules(metrics, schema.IntPtr(4), nil, rulesNow)
	require.NotNil(t, score)

	assert.Equal(t, 85, score.Score)
	assert.Equal(t, schema.FullConfidence, score.Confidence)
	assert.Equal(t, schema.RulesSource, score.Source)
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), score.Date)
	assert.Equal(t, rulesNow, score.ComputedAt)

	require.NotNil(t, score.Breakdown.HRV)
	assert.Equal(t, 80, *score.Breakdown.HRV)
	assert.Equal(t, 88, *score.Breakdown.RestingHeartRate)
	assert.Equal(t, 95, *score.Breakdown.Sleep)
	assert.Equal(t, 80, *score.Breakdown.Energy)
}

func TestScoreRulesAbsent(t *testing.T) {
	assert.Nil(t, ScoreRules(nil, nil, nil, rulesNow))
	assert.Nil(t, ScoreRules(&schema.MetricsRecord{Date: rulesNow}, nil, nil, rulesNow))
}

func TestScoreRulesEnergyOnly(t *testing.T) {
	score := ScoreRules(nil, schema.IntPtr(3), nil, rulesNow)
	require.NotNil(t, score)
	assert.Equal(t, 60, score.Score)
	assert.Equal(t, schema.LimitedConfidence, score.Confidence)
	assert.Equal(t, schema.DayStart(rulesNow), score.Date)
	assert.Nil(t, score.Breakdown.HRV)
}

func TestScoreRulesRenormalizes(t *testing.T) {
	metrics := &schema.MetricsRecord{HRV: schema.Float64Ptr(80)}
	score := ScoreRules(metrics, schema.IntPtr(4), nil, rulesNow)
	require.NotNil(t, score)
	assert.Equal(t, 80, score.Score)
	assert.Equal(t, schema.PartialConfidence, score.Confidence)
}

func TestScoreRulesCustomWeights(t *testing.T) {
	metrics := &schema.MetricsRecord{HRV: schema.Float64Ptr(80)}
	weights := map[schema.BreakdownKey]float64{
		schema.BreakdownHRV:    1,
		schema.BreakdownEnergy: 0,
	}
	score := ScoreRules(metrics, schema.IntPtr(1), weights, rulesNow)
	require.NotNil(t, score)
	assert.Equal(t, 80, score.Score)

	zero := map[schema.BreakdownKey]float64{}
	score = ScoreRules(metrics, schema.IntPtr(1), zero, rulesNow)
	require.NotNil(t, score)
	assert.Equal(t, 50, score.Score)
}

func TestScoreRulesShortSleep(t *testing.T) {
	metrics := &schema.MetricsRecord{SleepDuration: schema.Float64Ptr(3 * 3600)}
	score := ScoreRules(metrics, nil, nil, rulesNow)
	require.NotNil(t, score)
	require.NotNil(t, score.Breakdown.Sleep)
	assert.Less(t, *score.Breakdown.Sleep, 25)
}

func TestScoreRulesConfidenceGrowsWithInputs(t *testing.T) {
	m := &schema.MetricsRecord{}
	var last schema.Confidence
	rank := map[schema.Confidence]int{
		schema.LimitedConfidence: 0,
		schema.PartialConfidence: 1,
		schema.FullConfidence:    2,
	}

	m.HRV = schema.Float64Ptr(50)
	last = ScoreRules(m, nil, nil, rulesNow).Confidence
	m.RestingHeartRate = schema.Float64Ptr(60)
	next := ScoreRules(m, nil, nil, rulesNow).Confidence
	assert.GreaterOrEqual(t, rank[next], rank[last])
	last = next
	m.SleepDuration = schema.Float64Ptr(7 * 3600)
	next = ScoreRules(m, nil, nil, rulesNow).Confidence
	assert.GreaterOrEqual(t, rank[next], rank[last])
	last = next
	next = ScoreRules(m, schema.IntPtr(3), nil, rulesNow).Confidence
	assert.GreaterOrEqual(t, rank[next], rank[last])
	assert.Equal(t, schema.FullConfidence, next)
}

func TestComponentCurves(t *testing.T) {
	t.Run("hrv", func(t *testing.T) {
		assert.InDelta(t, 10.0, HRVComponent(0), 1e-9)
		assert.InDelta(t, 30.0, HRVComponent(20), 1e-9)
		assert.InDelta(t, 50.0, HRVComponent(40), 1e-9)
		assert.InDelta(t, 70.0, HRVComponent(60), 1e-9)
		assert.InDelta(t, 90.0, HRVComponent(100), 1e-9)
		assert.InDelta(t, 100.0, HRVComponent(300), 1e-9)
	})

	t.Run("resting heart rate", func(t *testing.T) {
		assert.InDelta(t, 85.0, RHRComponent(35), 1e-9)
		assert.InDelta(t, 90.0, RHRComponent(40), 1e-9)
		assert.InDelta(t, 95.0, RHRComponent(50), 1e-9)
		assert.InDelta(t, 80.0, RHRComponent(60), 1e-9)
		assert.InDelta(t, 65.0, RHRComponent(70), 1e-9)
		assert.InDelta(t, 50.0, RHRComponent(80), 1e-9)
		assert.InDelta(t, 20.0, RHRComponent(95), 1e-9)
		assert.InDelta(t, 10.0, RHRComponent(150), 1e-9)
	})

	t.Run("sleep", func(t *testing.T) {
		assert.InDelta(t, 10.0, SleepComponent(0), 1e-9)
		assert.InDelta(t, 60.0, SleepComponent(6), 1e-9)
		assert.InDelta(t, 97.5, SleepComponent(8.5), 1e-9)
		assert.InDelta(t, 90.0, SleepComponent(10), 1e-9)
		assert.InDelta(t, 70.0, SleepComponent(16), 1e-9)
	})

	t.Run("energy", func(t *testing.T) {
		assert.InDelta(t, 20.0, EnergyComponent(1), 1e-9)
		assert.InDelta(t, 100.0, EnergyComponent(5), 1e-9)
		assert.InDelta(t, 100.0, EnergyComponent(9), 1e-9)
		assert.InDelta(t, 20.0, EnergyComponent(-1), 1e-9)
	})
}
