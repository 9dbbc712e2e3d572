package core

import (
	"time"

	"github.com/huangsam/readiness/core/algo"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/telemetry"
	"github.com/huangsam/readiness/schema"
	"go.uber.org/zap"
)

// DefaultTransitionDays is the number of training days until the model takes over.
const DefaultTransitionDays = 30

// MLWeight ramps linearly from 0 at zero days to 1 at transitionDays.
func MLWeight(daysOfData, transitionDays int) float64 {
	if transitionDays < 1 {
		transitionDays = DefaultTransitionDays
	}
	if daysOfData <= 0 {
		return 0
	}
	return float64(min(daysOfData, transitionDays)) / float64(transitionDays)
}

// BlendController mixes the rules scorer with the personalized model.
type BlendController struct {
	model          *RidgeModel
	transitionDays int
	daysOfData     int
	ruleWeights    map[schema.BreakdownKey]float64
	recorder       *telemetry.Recorder
}

// NewBlendController seeds daysOfData from the model's trained example count.
// Nil rule weights use the defaults; a nil recorder records nothing.
func NewBlendController(model *RidgeModel, transitionDays int, ruleWeights map[schema.BreakdownKey]float64, recorder *telemetry.Recorder) *BlendController {
	if transitionDays < 1 {
		transitionDays = DefaultTransitionDays
	}
	return &BlendController{
		model:          model,
		transitionDays: transitionDays,
		daysOfData:     model.TrainedExampleCount(),
		ruleWeights:    ruleWeights,
		recorder:       recorder,
	}
}

// Model returns the controlled model.
func (b *BlendController) Model() *RidgeModel { return b.model }

// DaysOfData returns the usable training example count.
func (b *BlendController) DaysOfData() int { return b.daysOfData }

// TransitionDays returns the ramp length.
func (b *BlendController) TransitionDays() int { return b.transitionDays }

// MLWeight returns the current blend weight.
func (b *BlendController) MLWeight() float64 {
	return MLWeight(b.daysOfData, b.transitionDays)
}

// Calculate returns the blended score, or nil when the rules scorer has no data.
// Model failures fall back to the rules score.
func (b *BlendController) Calculate(metrics *schema.MetricsRecord, energyLevel *int, now time.Time) *schema.ReadinessScore {
	rules := algo.ScoreRules(metrics, energyLevel, b.ruleWeights, now)
	if rules == nil {
		return nil
	}
	result := *rules

	w := b.MLWeight()
	b.recorder.SetMLWeight(w)
	if w > 0 {
		fv := algo.ExtractFeatures(metrics, b.model.TrainedExampleCount(), now)
		mlScore, err := b.model.Predict(fv)
		if err != nil {
			contract.Logger().Debug("model unavailable, using rules score", zap.Error(err))
			b.recorder.ObserveFallback(err)
		} else {
			blended := float64(rules.Score)*(1-w) + float64(mlScore)*w
			result.Score = schema.RoundClamp(blended, 0, 100)
			result.MLWeight = w
			result.Source = schema.SourceForWeight(w)
		}
	}

	b.recorder.ObserveScore(result.Source)
	return &result
}

// Retrain rebuilds the training set and retrains the model from scratch.
func (b *BlendController) Retrain(src schema.ObservationSource, now time.Time) (schema.TrainingStatus, error) {
	count := b.model.TrainedExampleCount()
	examples := algo.CollectTrainingExamples(src, count)
	b.daysOfData = len(examples)

	err := b.model.Train(examples, now)
	status := b.model.Status()
	b.recorder.ObserveRetrain(status.State)

	logger := contract.Logger()
	if err != nil {
		logger.Info("model retrain did not complete", zap.Int("examples", len(examples)), zap.Error(err))
	} else {
		logger.Info("model retrained", zap.Int("examples", len(examples)))
	}
	return status, err
}

// Reset clears the model and the day counter.
func (b *BlendController) Reset() error {
	b.daysOfData = 0
	return b.model.Clear()
}
