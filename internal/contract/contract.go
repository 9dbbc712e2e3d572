// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/readiness/schema"
)

// HealthSource supplies the physiological metrics of a calendar day.
// A day with no data returns (nil, nil).
type HealthSource interface {
	Fetch(ctx context.Context, day time.Time) (*schema.MetricsRecord, error)
}

// StoreManager defines the interface for managing persistent stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() HistoryStore
	GetWeightStore() WeightStore
}

// HistoryStore persists check-ins, metrics, scores and predictions.
// Days are keyed by calendar date; ranges are inclusive.
type HistoryStore interface {
	// SaveCheckIn upserts the check-in for its day and slot
	SaveCheckIn(ctx context.Context, c schema.CheckIn) error

	// GetCheckIns returns check-ins between start and end ordered by day
	GetCheckIns(ctx context.Context, start, end time.Time) ([]schema.CheckIn, error)

	// SaveMetrics upserts the metrics of a day
	SaveMetrics(ctx context.Context, m schema.MetricsRecord) error

	// GetMetrics returns the metrics of a day, or nil when none were recorded
	GetMetrics(ctx context.Context, day time.Time) (*schema.MetricsRecord, error)

	// GetMetricsRange returns metrics between start and end ordered by day
	GetMetricsRange(ctx context.Context, start, end time.Time) ([]schema.MetricsRecord, error)

	// SaveScore upserts the readiness score of a day
	SaveScore(ctx context.Context, s schema.ReadinessScore) error

	// GetScore returns the score of a day, or nil when none was computed
	GetScore(ctx context.Context, day time.Time) (*schema.ReadinessScore, error)

	// GetScores returns scores between start and end ordered by day
	GetScores(ctx context.Context, start, end time.Time) ([]schema.ReadinessScore, error)

	// SavePrediction stores a prediction unless one exists for its target day.
	// It reports whether the prediction was created.
	SavePrediction(ctx context.Context, p schema.Prediction) (bool, error)

	// GetPrediction returns the prediction for a target day, or nil
	GetPrediction(ctx context.Context, target time.Time) (*schema.Prediction, error)

	// GetPredictions returns predictions with targets between start and end ordered by target day
	GetPredictions(ctx context.Context, start, end time.Time) ([]schema.Prediction, error)

	// ResolvePrediction attaches the actual score to the prediction for a target day.
	// It returns schema.ErrPredictionNotFound or schema.ErrPredictionResolved accordingly.
	ResolvePrediction(ctx context.Context, target time.Time, actual int, at time.Time) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// WeightStore persists ridge weights losslessly.
type WeightStore interface {
	Save(weights []float64, trainedExampleCount int, trainedAt time.Time) error

	// Load returns the stored weights, or nil when nothing was saved
	Load() (*schema.ModelWeights, error)

	Clear() error
}
