package core

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/readiness/core/algo"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
)

// RidgeModel is the personalized model: its weights, lifecycle status and
// an optional WeightStore for persistence. It has a single owner; callers
// serialize access.
type RidgeModel struct {
	current *schema.ModelWeights
	status  schema.TrainingStatus
	store   contract.WeightStore
}

// NewRidgeModel returns a model that is not trained. A nil store disables persistence.
func NewRidgeModel(store contract.WeightStore) *RidgeModel {
	return &RidgeModel{
		status: schema.TrainingStatus{State: schema.NotTrainedState},
		store:  store,
	}
}

// Load restores persisted weights. On any failure the model stays not trained
// and the error is returned for the caller to report.
func (m *RidgeModel) Load() error {
	m.reset()
	if m.store == nil {
		return nil
	}
	saved, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("cannot load model weights: %w", err)
	}
	if saved == nil {
		return nil
	}
	if len(saved.Weights) != schema.WeightCount {
		return fmt.Errorf("%w: stored vector has %d weights", schema.ErrModelNotTrained, len(saved.Weights))
	}

	m.current = &schema.ModelWeights{
		Weights:             slices.Clone(saved.Weights),
		TrainedExampleCount: saved.TrainedExampleCount,
		LastTrainedAt:       saved.LastTrainedAt,
	}
	m.status = trainedStatus(m.current)
	return nil
}

// Train fits the model from scratch on examples.
// Too few examples clear the model; a singular system keeps the prior weights.
func (m *RidgeModel) Train(examples []schema.TrainingExample, now time.Time) error {
	m.status = schema.TrainingStatus{State: schema.TrainingRunning, ExampleCount: len(examples)}

	weights, err := algo.FitRidge(examples)
	switch {
	case errors.Is(err, schema.ErrInsufficientExamples):
		m.reset()
		if m.store != nil {
			if clearErr := m.store.Clear(); clearErr != nil {
				contract.LogWarn("cannot clear stored model weights", clearErr)
			}
		}
		return err
	case err != nil:
		m.status = schema.TrainingStatus{
			State:        schema.FailedState,
			ExampleCount: len(examples),
			Reason:       err.Error(),
		}
		return err
	}

	m.current = &schema.ModelWeights{
		Weights:             weights,
		TrainedExampleCount: len(examples),
		LastTrainedAt:       now,
	}
	m.status = trainedStatus(m.current)

	if m.store != nil {
		if err := m.store.Save(weights, len(examples), now); err != nil {
			contract.LogWarn("cannot persist model weights", err)
		}
	}
	return nil
}

// Predict scores a feature vector with the current weights.
func (m *RidgeModel) Predict(fv schema.FeatureVector) (int, error) {
	if m.current == nil {
		return 0, schema.ErrModelNotTrained
	}
	return algo.PredictRidge(m.current.Weights, fv)
}

// Clear forgets the weights in memory and in the store.
func (m *RidgeModel) Clear() error {
	m.reset()
	if m.store == nil {
		return nil
	}
	return m.store.Clear()
}

// Status returns the lifecycle state.
func (m *RidgeModel) Status() schema.TrainingStatus {
	return m.status
}

// Weights returns a copy of the current weights, or nil.
func (m *RidgeModel) Weights() []float64 {
	if m.current == nil {
		return nil
	}
	return slices.Clone(m.current.Weights)
}

// TrainedExampleCount is the example count behind the current weights.
func (m *RidgeModel) TrainedExampleCount() int {
	if m.current == nil {
		return 0
	}
	return m.current.TrainedExampleCount
}

func (m *RidgeModel) reset() {
	m.current = nil
	m.status = schema.TrainingStatus{State: schema.NotTrainedState}
}

func trainedStatus(w *schema.ModelWeights) schema.TrainingStatus {
	return schema.TrainingStatus{
		State:         schema.TrainedState,
		ExampleCount:  w.TrainedExampleCount,
		LastTrainedAt: w.LastTrainedAt,
	}
}
