package core

import (
	"context"
	"testing"
	"time"

	"github.com/huangsam/readiness/core/algo"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/iocache"
	"github.com/huangsam/readiness/internal/telemetry"
	"github.com/huangsam/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStores struct {
	history *iocache.HistoryStoreImpl
	weights *iocache.WeightStoreImpl
	mgr     *iocache.StoreManagerImpl
}

func newTestStores(t *testing.T) testStores {
	t.Helper()
	hs, err := iocache.NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = hs.Close() })
	ws := iocache.NewWeightStore(hs.DB(), schema.NoneBackend)
	return testStores{history: hs, weights: ws, mgr: iocache.NewStoreManager(hs, ws)}
}

func testEngineConfig() *contract.Config {
	return &contract.Config{TransitionDays: contract.DefaultTransitionDays}
}

func march(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

// staticHealthSource serves fixed metrics by day.
type staticHealthSource map[string]*schema.MetricsRecord

func (s staticHealthSource) Fetch(_ context.Context, day time.Time) (*schema.MetricsRecord, error) {
	return s[schema.DayKey(day)], nil
}

func recordCompletedDay(t *testing.T, ctx context.Context, e *Engine, day time.Time, first, second int, hrv float64) {
	t.Helper()
	require.NoError(t, e.RecordCheckIn(ctx, schema.CheckIn{Date: day, Slot: schema.MorningSlot, EnergyLevel: first, RecordedAt: day.Add(8 * time.Hour)}))
	require.NoError(t, e.RecordCheckIn(ctx, schema.CheckIn{Date: day, Slot: schema.EveningSlot, EnergyLevel: second, RecordedAt: day.Add(20 * time.Hour)}))
	require.NoError(t, e.RecordMetrics(ctx, schema.MetricsRecord{
		Date:          day,
		HRV:           schema.Float64Ptr(hrv),
		SleepDuration: schema.Float64Ptr(7 * 3600),
	}))
}

func TestEngine_RecordCheckIn(t *testing.T) {
	stores := newTestStores(t)
	now := march(10).Add(9 * time.Hour)
	ctx := WithNow(context.Background(), now)
	e := NewEngine(testEngineConfig(), stores.mgr, nil)

	for _, level := range []int{0, 6, -1} {
		assert.Error(t, e.RecordCheckIn(ctx, schema.CheckIn{Date: march(10), Slot: schema.MorningSlot, EnergyLevel: level}))
	}

	require.NoError(t, e.RecordCheckIn(ctx, schema.CheckIn{Date: now, Slot: schema.MorningSlot, EnergyLevel: 3}))
	checkIns, err := stores.history.GetCheckIns(ctx, march(10), march(10))
	require.NoError(t, err)
	require.Len(t, checkIns, 1)
	assert.True(t, now.Equal(checkIns[0].RecordedAt))
	assert.Equal(t, march(10), checkIns[0].Date)
}

func TestEngine_RecordMetrics(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	e := NewEngine(testEngineConfig(), stores.mgr, nil)

	assert.ErrorIs(t, e.RecordMetrics(ctx, schema.MetricsRecord{Date: march(1)}), schema.ErrInsufficientData)
	assert.ErrorIs(t, e.RecordMetrics(ctx, schema.MetricsRecord{Date: march(1), HRV: schema.Float64Ptr(-4)}), schema.ErrInsufficientData)

	saved, err := e.RecordMetricsBatch(ctx, []schema.MetricsRecord{
		*sampleMetrics(march(1)),
		{Date: march(2)},
		{Date: march(3), StepCount: schema.IntPtr(1200)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	all, err := stores.history.GetMetricsRange(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEngine_ScoreDay(t *testing.T) {
	stores := newTestStores(t)
	now := march(10).Add(21 * time.Hour)
	ctx := WithNow(context.Background(), now)
	e := NewEngine(testEngineConfig(), stores.mgr, nil)

	_, err := e.ScoreDay(ctx, march(10), nil)
	assert.ErrorIs(t, err, schema.ErrInsufficientData)

	metrics := sampleMetrics(march(10))
	require.NoError(t, e.RecordMetrics(ctx, *metrics))
	require.NoError(t, e.RecordCheckIn(ctx, schema.CheckIn{Date: march(10), Slot: schema.MorningSlot, EnergyLevel: 2, RecordedAt: march(10).Add(8 * time.Hour)}))
	require.NoError(t, e.RecordCheckIn(ctx, schema.CheckIn{Date: march(10), Slot: schema.EveningSlot, EnergyLevel: 4, RecordedAt: march(10).Add(20 * time.Hour)}))

	// Latest check-in supplies the energy level
	score, err := e.ScoreDay(ctx, march(10), nil)
	require.NoError(t, err)
	want := algo.ScoreRules(metrics, schema.IntPtr(4), nil, now)
	assert.Equal(t, want.Score, score.Score)
	assert.Equal(t, schema.FullConfidence, score.Confidence)
	assert.Equal(t, schema.RulesSource, score.Source)
	assert.Equal(t, 4, *score.SourceEnergyLevel)
	assert.Equal(t, march(10), score.Date)

	stored, err := stores.history.GetScore(ctx, march(10))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, score.Score, stored.Score)

	// An explicit energy level wins
	score, err = e.ScoreDay(ctx, march(10), schema.IntPtr(1))
	require.NoError(t, err)
	assert.Equal(t, 1, *score.SourceEnergyLevel)
	assert.Equal(t, algo.ScoreRules(metrics, schema.IntPtr(1), nil, now).Score, score.Score)
}

func TestEngine_ForecastIsIdempotent(t *testing.T) {
	stores := newTestStores(t)
	now := march(10).Add(21 * time.Hour)
	ctx := WithNow(context.Background(), now)
	recorder := telemetry.NewRecorder()
	e := NewEngine(testEngineConfig(), stores.mgr, recorder)

	_, _, err := e.Forecast(ctx, march(10), nil)
	assert.ErrorIs(t, err, schema.ErrInsufficientData)

	require.NoError(t, e.RecordMetrics(ctx, *sampleMetrics(march(10))))

	first, created, err := e.Forecast(ctx, march(10), schema.IntPtr(4))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, march(11), first.TargetDate)
	assert.True(t, now.Equal(first.CreatedAt))
	assert.GreaterOrEqual(t, first.PredictedScore, algo.ForecastScoreMin)
	assert.LessOrEqual(t, first.PredictedScore, algo.ForecastScoreMax)

	second, created, err := e.Forecast(ctx, march(10), schema.IntPtr(1))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.PredictedScore, second.PredictedScore)

	assert.InDelta(t, 1.0, recorderPredictions(t, recorder), 1e-9)
}

func TestEngine_ForecastPastDayAnchorsToThatDay(t *testing.T) {
	stores := newTestStores(t)
	ctx := WithNow(context.Background(), march(10).Add(9*time.Hour))
	e := NewEngine(testEngineConfig(), stores.mgr, nil)

	p, created, err := e.Forecast(ctx, march(5), schema.IntPtr(3))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, march(6), p.TargetDate)
	assert.Equal(t, march(5), p.CreatedAt)
}

func TestEngine_ScoreResolvesPrediction(t *testing.T) {
	stores := newTestStores(t)
	ctx := WithNow(context.Background(), march(10).Add(21*time.Hour))
	e := NewEngine(testEngineConfig(), stores.mgr, nil)

	require.NoError(t, e.RecordMetrics(ctx, *sampleMetrics(march(10))))
	p, _, err := e.Forecast(ctx, march(10), nil)
	require.NoError(t, err)

	nextCtx := WithNow(context.Background(), march(11).Add(21*time.Hour))
	require.NoError(t, e.RecordMetrics(nextCtx, *sampleMetrics(march(11))))
	score, err := e.ScoreDay(nextCtx, march(11), schema.IntPtr(5))
	require.NoError(t, err)

	resolved, err := stores.history.GetPrediction(ctx, march(11))
	require.NoError(t, err)
	require.True(t, resolved.IsResolved())
	assert.Equal(t, p.ID, resolved.ID)
	assert.Equal(t, score.Score, *resolved.ActualScore)

	// Rescoring keeps the first actual
	_, err = e.ScoreDay(nextCtx, march(11), schema.IntPtr(1))
	require.NoError(t, err)
	again, err := stores.history.GetPrediction(ctx, march(11))
	require.NoError(t, err)
	assert.Equal(t, score.Score, *again.ActualScore)
}

func TestEngine_Retrain(t *testing.T) {
	stores := newTestStores(t)
	ctx := WithNow(context.Background(), march(10).Add(21*time.Hour))
	e := NewEngine(testEngineConfig(), stores.mgr, nil)

	// Too few completed days is not an error
	recordCompletedDay(t, ctx, e, march(1), 2, 3, 35)
	recordCompletedDay(t, ctx, e, march(2), 3, 4, 55)
	status, err := e.Retrain(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.NotTrainedState, status.State)

	recordCompletedDay(t, ctx, e, march(3), 4, 5, 80)
	recordCompletedDay(t, ctx, e, march(4), 1, 2, 25)
	recordCompletedDay(t, ctx, e, march(5), 3, 3, 60)
	// A day with only a morning check-in does not count
	require.NoError(t, e.RecordCheckIn(ctx, schema.CheckIn{Date: march(6), Slot: schema.MorningSlot, EnergyLevel: 5}))

	examples, err := e.TrainingExamples(ctx)
	require.NoError(t, err)
	assert.Len(t, examples, 5)

	status, err = e.Retrain(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.TrainedState, status.State)
	assert.Equal(t, 5, status.ExampleCount)

	report := e.ModelReport()
	assert.Equal(t, 5, report.DaysOfData)
	assert.Len(t, report.Weights, schema.WeightCount)
	assert.InDelta(t, 5.0/30, report.MLWeight, 1e-12)

	saved, err := stores.weights.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, report.Weights, saved.Weights)

	// A new engine restores the model and its day count
	restored := NewEngine(testEngineConfig(), stores.mgr, nil).ModelReport()
	assert.Equal(t, schema.TrainedState, restored.Status.State)
	assert.Equal(t, 5, restored.DaysOfData)
	assert.Equal(t, report.Weights, restored.Weights)

	// Scores now blend
	require.NoError(t, e.RecordMetrics(ctx, *sampleMetrics(march(10))))
	score, err := e.ScoreDay(ctx, march(10), schema.IntPtr(3))
	require.NoError(t, err)
	assert.Equal(t, schema.BlendedSource, score.Source)

	require.NoError(t, e.ClearModel())
	assert.Equal(t, schema.NotTrainedState, e.ModelReport().Status.State)
	saved, err = stores.weights.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestEngine_WithoutHistoryStore(t *testing.T) {
	ctx := WithNow(context.Background(), march(10).Add(9*time.Hour))
	e := NewEngine(testEngineConfig(), nil, nil)

	assert.ErrorIs(t, e.RecordCheckIn(ctx, schema.CheckIn{Date: march(10), Slot: schema.MorningSlot, EnergyLevel: 3}), ErrNoHistoryStore)
	assert.ErrorIs(t, e.RecordMetrics(ctx, *sampleMetrics(march(10))), ErrNoHistoryStore)
	_, err := e.Retrain(ctx)
	assert.ErrorIs(t, err, ErrNoHistoryStore)
	_, err = e.Scores(ctx, time.Time{}, time.Time{}, 10)
	assert.ErrorIs(t, err, ErrNoHistoryStore)
	_, _, err = e.Predictions(ctx, time.Time{}, time.Time{}, 10)
	assert.ErrorIs(t, err, ErrNoHistoryStore)

	e.WithHealthSource(staticHealthSource{"2026-03-10": sampleMetrics(march(10))})
	score, err := e.ScoreDay(ctx, march(10), nil)
	require.NoError(t, err)
	assert.Equal(t, schema.PartialConfidence, score.Confidence)

	p, created, err := e.Forecast(ctx, march(10), nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, march(11), p.TargetDate)
}

func TestEngine_HistoryListings(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	e := NewEngine(testEngineConfig(), stores.mgr, nil)

	for d := 1; d <= 3; d++ {
		require.NoError(t, stores.history.SaveScore(ctx, schema.ReadinessScore{
			Date: march(d), Score: 60 + d, Confidence: schema.LimitedConfidence, Source: schema.RulesSource,
		}))
		_, err := stores.history.SavePrediction(ctx, schema.Prediction{
			ID: "p" + schema.DayKey(march(d)), TargetDate: march(d), PredictedScore: 70,
			Confidence: schema.LimitedConfidence, Source: schema.RulesSource,
		})
		require.NoError(t, err)
	}
	require.NoError(t, stores.history.ResolvePrediction(ctx, march(1), 65, march(1)))
	require.NoError(t, stores.history.ResolvePrediction(ctx, march(2), 73, march(2)))

	scores, err := e.Scores(ctx, time.Time{}, time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, march(3), scores[0].Date)
	assert.Equal(t, march(2), scores[1].Date)

	predictions, summary, err := e.Predictions(ctx, march(1), march(3), 0)
	require.NoError(t, err)
	assert.Len(t, predictions, 3)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Resolved)
	assert.InDelta(t, 4.0, summary.MeanAbsoluteError, 1e-12)
}

func TestSummarizePredictions_Empty(t *testing.T) {
	assert.Equal(t, schema.ForecastSummary{}, SummarizePredictions(nil))
}

func recorderPredictions(t *testing.T, r *telemetry.Recorder) float64 {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "readiness_predictions_created_total" {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}
