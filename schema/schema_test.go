package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakdownComponents(t *testing.T) {
	b := ReadinessBreakdown{HRV: IntPtr(80), Energy: IntPtr(60)}
	assert.Equal(t, 2, b.ComponentCount())
	assert.Equal(t, map[BreakdownKey]int{BreakdownHRV: 80, BreakdownEnergy: 60}, b.Components())

	assert.Equal(t, 0, ReadinessBreakdown{}.ComponentCount())
}

func TestPredictionAbsoluteError(t *testing.T) {
	p := Prediction{PredictedScore: 70}
	_, ok := p.AbsoluteError()
	assert.False(t, ok)
	assert.False(t, p.IsResolved())

	p.ActualScore = IntPtr(76)
	diff, ok := p.AbsoluteError()
	assert.True(t, ok)
	assert.Equal(t, 6, diff)
	assert.True(t, p.IsResolved())
}

func TestTrainingStatusString(t *testing.T) {
	ts := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "not trained", TrainingStatus{State: NotTrainedState}.String())
	assert.Equal(t, "training", TrainingStatus{State: TrainingRunning}.String())
	assert.Equal(t, "failed (singular system)", TrainingStatus{State: FailedState, Reason: "singular system"}.String())
	assert.Equal(t, "trained (12 examples, 2026-02-01T08:00:00Z)",
		TrainingStatus{State: TrainedState, ExampleCount: 12, LastTrainedAt: ts}.String())
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, key := range AllBreakdownKeys {
		sum += GetDefaultWeights()[key]
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
