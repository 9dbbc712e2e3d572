// Package telemetry counts engine outcomes with Prometheus collectors.
package telemetry

import (
	"errors"

	"github.com/huangsam/readiness/schema"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "readiness"

// Fallback reasons reported when the blend degrades to rules only.
const (
	FallbackNotTrained           = "not_trained"
	FallbackInsufficientFeatures = "insufficient_features"
	FallbackError                = "error"
)

// Recorder owns a private registry so that a CLI run exports only its own series.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry    *prometheus.Registry
	scores      *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	retrains    *prometheus.CounterVec
	predictions prometheus.Counter
	mlWeight    prometheus.Gauge
}

// Default is the process-wide recorder used by the CLI.
var Default = NewRecorder()

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		scores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_total",
			Help:      "Readiness scores computed, by source.",
		}, []string{"source"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_fallbacks_total",
			Help:      "Scores that fell back to rules only, by reason.",
		}, []string{"reason"}),
		retrains: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_retrains_total",
			Help:      "Model retrains, by resulting state.",
		}, []string{"state"}),
		predictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_created_total",
			Help:      "Next-day predictions created.",
		}),
		mlWeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ml_weight",
			Help:      "Share of the score attributed to the personalized model.",
		}),
	}
	r.registry.MustRegister(r.scores, r.fallbacks, r.retrains, r.predictions, r.mlWeight)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveScore counts a computed score.
func (r *Recorder) ObserveScore(source schema.ScoreSource) {
	if r == nil {
		return
	}
	r.scores.WithLabelValues(string(source)).Inc()
}

// ObserveFallback counts a model failure that degraded to rules.
func (r *Recorder) ObserveFallback(err error) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(FallbackReason(err)).Inc()
}

// ObserveRetrain counts a retrain by its resulting state.
func (r *Recorder) ObserveRetrain(state schema.TrainingState) {
	if r == nil {
		return
	}
	r.retrains.WithLabelValues(string(state)).Inc()
}

// ObservePrediction counts a newly created prediction.
func (r *Recorder) ObservePrediction() {
	if r == nil {
		return
	}
	r.predictions.Inc()
}

// SetMLWeight records the current blend weight.
func (r *Recorder) SetMLWeight(w float64) {
	if r == nil {
		return
	}
	r.mlWeight.Set(w)
}

// WriteTextfile writes all series in the node-exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

// FallbackReason maps a model error onto a bounded label value.
func FallbackReason(err error) string {
	switch {
	case errors.Is(err, schema.ErrModelNotTrained):
		return FallbackNotTrained
	case errors.Is(err, schema.ErrInsufficientFeatures):
		return FallbackInsufficientFeatures
	default:
		return FallbackError
	}
}
