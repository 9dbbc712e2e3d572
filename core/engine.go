package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/readiness/core/algo"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/telemetry"
	"github.com/huangsam/readiness/schema"
	"go.uber.org/zap"
)

// ErrNoHistoryStore is returned by operations that need persisted history
// when the storage backend is none.
var ErrNoHistoryStore = errors.New("history store is not configured")

// Engine coordinates scoring, forecasting and retraining over the stores.
// All methods are safe for concurrent use; they run one at a time.
type Engine struct {
	mu       sync.Mutex
	history  contract.HistoryStore
	health   contract.HealthSource
	blend    *BlendController
	recorder *telemetry.Recorder
}

// NewEngine builds an engine from the configured stores and restores model weights.
// Weights that cannot be loaded leave the model not trained.
func NewEngine(cfg *contract.Config, mgr contract.StoreManager, recorder *telemetry.Recorder) *Engine {
	var history contract.HistoryStore
	var weights contract.WeightStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
		weights = mgr.GetWeightStore()
	}

	model := NewRidgeModel(weights)
	if err := model.Load(); err != nil {
		contract.LogWarn("model not restored", err)
	}

	return &Engine{
		history:  history,
		health:   NewStoreHealthSource(history),
		blend:    NewBlendController(model, cfg.TransitionDays, cfg.Weights, recorder),
		recorder: recorder,
	}
}

// WithHealthSource replaces the store-backed health source.
func (e *Engine) WithHealthSource(src contract.HealthSource) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.health = src
	return e
}

func (e *Engine) logger(ctx context.Context) *zap.Logger {
	l := contract.Logger()
	if id, ok := getRunID(ctx); ok {
		l = l.With(zap.String("run_id", id))
	}
	return l
}

// RecordCheckIn stores an energy self-report.
func (e *Engine) RecordCheckIn(ctx context.Context, c schema.CheckIn) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.history == nil {
		return ErrNoHistoryStore
	}
	if c.EnergyLevel < 1 || c.EnergyLevel > 5 {
		return fmt.Errorf("energy must be between 1 and 5 (received %d)", c.EnergyLevel)
	}
	c.Date = schema.DayStart(c.Date)
	if c.RecordedAt.IsZero() {
		c.RecordedAt = nowFrom(ctx)
	}
	return e.history.SaveCheckIn(ctx, c)
}

// RecordMetrics sanitizes and stores a metrics snapshot.
// A snapshot without any usable reading is rejected.
func (e *Engine) RecordMetrics(ctx context.Context, m schema.MetricsRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recordMetrics(ctx, m)
}

// RecordMetricsBatch stores many snapshots and returns how many were kept.
func (e *Engine) RecordMetricsBatch(ctx context.Context, records []schema.MetricsRecord) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	saved := 0
	for _, m := range records {
		err := e.recordMetrics(ctx, m)
		if errors.Is(err, schema.ErrInsufficientData) {
			e.logger(ctx).Debug("skipping empty metrics row", zap.String("day", schema.DayKey(m.Date)))
			continue
		}
		if err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

func (e *Engine) recordMetrics(ctx context.Context, m schema.MetricsRecord) error {
	if e.history == nil {
		return ErrNoHistoryStore
	}
	clean := m.Sanitize()
	if !clean.HasAnyData() {
		return fmt.Errorf("%w: no usable metrics for %s", schema.ErrInsufficientData, schema.DayKey(m.Date))
	}
	return e.history.SaveMetrics(ctx, clean)
}

// ScoreDay computes, stores and returns the readiness score of a day.
// A nil energyLevel falls back to the latest check-in of that day.
// It returns schema.ErrInsufficientData when there is nothing to score.
func (e *Engine) ScoreDay(ctx context.Context, day time.Time, energyLevel *int) (*schema.ReadinessScore, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := nowFrom(ctx)
	score, err := e.computeScore(ctx, day, energyLevel, now)
	if err != nil {
		return nil, err
	}
	if e.history == nil {
		return score, nil
	}

	if err := e.history.SaveScore(ctx, *score); err != nil {
		return nil, fmt.Errorf("cannot save score: %w", err)
	}
	err = e.history.ResolvePrediction(ctx, score.Date, score.Score, now)
	switch {
	case err == nil:
		e.logger(ctx).Info("prediction resolved", zap.String("day", schema.DayKey(score.Date)), zap.Int("actual", score.Score))
	case errors.Is(err, schema.ErrPredictionNotFound), errors.Is(err, schema.ErrPredictionResolved):
	default:
		contract.LogWarn("cannot resolve prediction", err)
	}
	return score, nil
}

func (e *Engine) computeScore(ctx context.Context, day time.Time, energyLevel *int, now time.Time) (*schema.ReadinessScore, error) {
	day = schema.DayStart(day)
	metrics, err := e.fetchMetrics(ctx, day)
	if err != nil {
		return nil, err
	}
	if energyLevel == nil {
		energyLevel, err = e.latestEnergy(ctx, day)
		if err != nil {
			return nil, err
		}
	}

	score := e.blend.Calculate(metrics, energyLevel, now)
	if score == nil {
		return nil, fmt.Errorf("%w: no metrics or check-in for %s", schema.ErrInsufficientData, schema.DayKey(day))
	}
	score.Date = day
	e.logger(ctx).Debug("score computed",
		zap.String("day", schema.DayKey(day)),
		zap.Int("score", score.Score),
		zap.String("source", string(score.Source)),
		zap.Float64("ml_weight", score.MLWeight))
	return score, nil
}

func (e *Engine) fetchMetrics(ctx context.Context, day time.Time) (*schema.MetricsRecord, error) {
	if e.health == nil {
		return nil, nil
	}
	m, err := e.health.Fetch(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch metrics: %w", err)
	}
	if m != nil && m.Date.IsZero() {
		m.Date = day
	}
	return m, nil
}

func (e *Engine) latestEnergy(ctx context.Context, day time.Time) (*int, error) {
	if e.history == nil {
		return nil, nil
	}
	checkIns, err := e.history.GetCheckIns(ctx, day, day)
	if err != nil {
		return nil, fmt.Errorf("cannot read check-ins: %w", err)
	}
	var latest *schema.CheckIn
	for i := range checkIns {
		if latest == nil || checkIns[i].RecordedAt.After(latest.RecordedAt) {
			latest = &checkIns[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	return schema.IntPtr(latest.EnergyLevel), nil
}

// Forecast predicts the score of the day after day. An existing prediction for
// that target is returned unchanged with created=false.
func (e *Engine) Forecast(ctx context.Context, day time.Time, energyLevel *int) (*schema.Prediction, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := nowFrom(ctx)
	day = schema.DayStart(day)
	target := schema.NextDay(day)

	if e.history != nil {
		existing, err := e.history.GetPrediction(ctx, target)
		if err != nil {
			return nil, false, fmt.Errorf("cannot read prediction: %w", err)
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	in, err := e.forecastInput(ctx, day, energyLevel, now)
	if err != nil {
		return nil, false, err
	}

	// The prediction is anchored to the day being forecast from
	anchor := now
	if !schema.DayStart(now).Equal(day) {
		anchor = day
	}
	p := algo.PredictNextDay(in, anchor)
	if p == nil {
		return nil, false, fmt.Errorf("%w: no signals for %s", schema.ErrInsufficientData, schema.DayKey(day))
	}
	p.ID = uuid.NewString()

	if e.history == nil {
		return p, true, nil
	}
	created, err := e.history.SavePrediction(ctx, *p)
	if err != nil {
		return nil, false, fmt.Errorf("cannot save prediction: %w", err)
	}
	if !created {
		existing, err := e.history.GetPrediction(ctx, target)
		if err != nil {
			return nil, false, fmt.Errorf("cannot read prediction: %w", err)
		}
		return existing, false, nil
	}
	e.recorder.ObservePrediction()
	e.logger(ctx).Info("prediction created",
		zap.String("id", p.ID),
		zap.String("target", schema.DayKey(p.TargetDate)),
		zap.Int("score", p.PredictedScore))
	return p, true, nil
}

func (e *Engine) forecastInput(ctx context.Context, day time.Time, energyLevel *int, now time.Time) (algo.ForecastInput, error) {
	metrics, err := e.fetchMetrics(ctx, day)
	if err != nil {
		return algo.ForecastInput{}, err
	}
	if energyLevel == nil {
		if energyLevel, err = e.latestEnergy(ctx, day); err != nil {
			return algo.ForecastInput{}, err
		}
	}
	in := algo.ForecastInput{Metrics: metrics, EnergyLevel: energyLevel}

	var today *schema.ReadinessScore
	if e.history != nil {
		if today, err = e.history.GetScore(ctx, day); err != nil {
			return algo.ForecastInput{}, fmt.Errorf("cannot read score: %w", err)
		}
	}
	if today == nil {
		today = e.blend.Calculate(metrics, energyLevel, now)
	}
	if today != nil {
		in.TodayScore = schema.IntPtr(today.Score)
		in.TodaySource = today.Source
	}
	return in, nil
}

// Retrain rebuilds the model from every completed day in the history store.
// Too few examples is a normal outcome reported through the returned status.
func (e *Engine) Retrain(ctx context.Context) (schema.TrainingStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	src, err := e.observations(ctx)
	if err != nil {
		return e.blend.Model().Status(), err
	}
	status, err := e.blend.Retrain(src, nowFrom(ctx))
	if errors.Is(err, schema.ErrInsufficientExamples) {
		return status, nil
	}
	return status, err
}

// TrainingExamples returns the examples the next retrain would use.
func (e *Engine) TrainingExamples(ctx context.Context) ([]schema.TrainingExample, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	src, err := e.observations(ctx)
	if err != nil {
		return nil, err
	}
	return algo.CollectTrainingExamples(src, e.blend.Model().TrainedExampleCount()), nil
}

func (e *Engine) observations(ctx context.Context) (schema.ObservationSource, error) {
	if e.history == nil {
		return schema.ObservationSource{}, ErrNoHistoryStore
	}
	end := schema.DayStart(nowFrom(ctx))
	var start time.Time

	checkIns, err := e.history.GetCheckIns(ctx, start, end)
	if err != nil {
		return schema.ObservationSource{}, fmt.Errorf("cannot read check-ins: %w", err)
	}
	metrics, err := e.history.GetMetricsRange(ctx, start, end)
	if err != nil {
		return schema.ObservationSource{}, fmt.Errorf("cannot read metrics: %w", err)
	}
	return schema.ObservationSource{
		Kind:     schema.PairedCheckInObservations,
		CheckIns: checkIns,
		Metrics:  metrics,
	}, nil
}

// ModelReport describes the personalization state.
func (e *Engine) ModelReport() schema.ModelReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return schema.ModelReport{
		Status:         e.blend.Model().Status(),
		Weights:        e.blend.Model().Weights(),
		DaysOfData:     e.blend.DaysOfData(),
		TransitionDays: e.blend.TransitionDays(),
		MLWeight:       e.blend.MLWeight(),
	}
}

// ClearModel forgets the personalized model.
func (e *Engine) ClearModel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.blend.Reset()
}

// Scores lists stored scores between start and end, newest first, up to limit.
func (e *Engine) Scores(ctx context.Context, start, end time.Time, limit int) ([]schema.ReadinessScore, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.history == nil {
		return nil, ErrNoHistoryStore
	}
	scores, err := e.history.GetScores(ctx, start, end)
	if err != nil {
		return nil, err
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].Date.After(scores[j].Date) })
	return limitSlice(scores, limit), nil
}

// Predictions lists stored predictions with targets between start and end,
// newest first, up to limit, with an accuracy summary over the listed ones.
func (e *Engine) Predictions(ctx context.Context, start, end time.Time, limit int) ([]schema.Prediction, schema.ForecastSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.history == nil {
		return nil, schema.ForecastSummary{}, ErrNoHistoryStore
	}
	predictions, err := e.history.GetPredictions(ctx, start, end)
	if err != nil {
		return nil, schema.ForecastSummary{}, err
	}
	sort.Slice(predictions, func(i, j int) bool { return predictions[i].TargetDate.After(predictions[j].TargetDate) })
	predictions = limitSlice(predictions, limit)
	return predictions, SummarizePredictions(predictions), nil
}

// SummarizePredictions computes the mean absolute error over resolved predictions.
func SummarizePredictions(predictions []schema.Prediction) schema.ForecastSummary {
	summary := schema.ForecastSummary{Total: len(predictions)}
	total := 0
	for i := range predictions {
		if diff, ok := predictions[i].AbsoluteError(); ok {
			summary.Resolved++
			total += diff
		}
	}
	if summary.Resolved > 0 {
		summary.MeanAbsoluteError = float64(total) / float64(summary.Resolved)
	}
	return summary
}

func limitSlice[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
