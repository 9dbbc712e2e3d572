// Package schema holds the data model shared by the readiness engine.
package schema

import (
	"fmt"
	"time"
)

// ReadinessBreakdown holds the per-component scores of the rules scorer.
type ReadinessBreakdown struct {
	HRV              *int `json:"hrv,omitempty"`
	RestingHeartRate *int `json:"resting_heart_rate,omitempty"`
	Sleep            *int `json:"sleep,omitempty"`
	Energy           *int `json:"energy,omitempty"`
}

// ComponentCount returns the number of present components.
func (b ReadinessBreakdown) ComponentCount() int {
	n := 0
	for _, v := range []*int{b.HRV, b.RestingHeartRate, b.Sleep, b.Energy} {
		if v != nil {
			n++
		}
	}
	return n
}

// Components maps breakdown keys to present component scores.
func (b ReadinessBreakdown) Components() map[BreakdownKey]int {
	out := make(map[BreakdownKey]int, 4)
	if b.HRV != nil {
		out[BreakdownHRV] = *b.HRV
	}
	if b.Sleep != nil {
		out[BreakdownSleep] = *b.Sleep
	}
	if b.Energy != nil {
		out[BreakdownEnergy] = *b.Energy
	}
	if b.RestingHeartRate != nil {
		out[BreakdownRestingHR] = *b.RestingHeartRate
	}
	return out
}

// ReadinessScore is the daily readiness result.
type ReadinessScore struct {
	Date              time.Time          `json:"date"`
	Score             int                `json:"score"`
	Breakdown         ReadinessBreakdown `json:"breakdown"`
	Confidence        Confidence         `json:"confidence"`
	Source            ScoreSource        `json:"source"`
	MLWeight          float64            `json:"ml_weight"`
	SourceMetrics     *MetricsRecord     `json:"source_metrics,omitempty"`
	SourceEnergyLevel *int               `json:"source_energy_level,omitempty"`
	ComputedAt        time.Time          `json:"computed_at"`
}

// Prediction is a forecast of the next day's score.
type Prediction struct {
	ID                    string         `json:"id"`
	CreatedAt             time.Time      `json:"created_at"`
	TargetDate            time.Time      `json:"target_date"`
	PredictedScore        int            `json:"predicted_score"`
	Confidence            Confidence     `json:"confidence"`
	Source                ScoreSource    `json:"source"`
	InputMetrics          *MetricsRecord `json:"input_metrics,omitempty"`
	InputEnergyLevel      *int           `json:"input_energy_level,omitempty"`
	ActualScore           *int           `json:"actual_score,omitempty"`
	ActualScoreRecordedAt *time.Time     `json:"actual_score_recorded_at,omitempty"`
}

// IsResolved reports whether the actual score has been attached.
func (p *Prediction) IsResolved() bool {
	return p.ActualScore != nil
}

// AbsoluteError returns |predicted - actual| once resolved.
func (p *Prediction) AbsoluteError() (int, bool) {
	if p.ActualScore == nil {
		return 0, false
	}
	d := p.PredictedScore - *p.ActualScore
	if d < 0 {
		d = -d
	}
	return d, true
}

// TrainingExample is one labeled day.
type TrainingExample struct {
	Features FeatureVector `json:"features"`
	Label    float64       `json:"label"`
	Date     time.Time     `json:"date"`
}

// WeightCount is the length of a ridge weight vector: bias, hrv, rhr, sleep, dayOfWeek.
const WeightCount = 5

// ModelWeights is a trained ridge weight vector with its metadata.
type ModelWeights struct {
	Weights             []float64 `json:"weights"`
	TrainedExampleCount int       `json:"trained_example_count"`
	LastTrainedAt       time.Time `json:"last_trained_at"`
}

// TrainingStatus is the lifecycle state of the ridge model.
type TrainingStatus struct {
	State         TrainingState `json:"state"`
	ExampleCount  int           `json:"example_count,omitempty"`
	LastTrainedAt time.Time     `json:"last_trained_at,omitzero"`
	Reason        string        `json:"reason,omitempty"`
}

// String renders the status for humans.
func (s TrainingStatus) String() string {
	switch s.State {
	case TrainedState:
		return fmt.Sprintf("trained (%d examples, %s)", s.ExampleCount, s.LastTrainedAt.Format(time.RFC3339))
	case FailedState:
		return fmt.Sprintf("failed (%s)", s.Reason)
	case TrainingRunning:
		return "training"
	default:
		return "not trained"
	}
}

// ModelReport summarizes the personalization state for display.
type ModelReport struct {
	Status         TrainingStatus `json:"status"`
	Weights        []float64      `json:"weights,omitempty"`
	DaysOfData     int            `json:"days_of_data"`
	TransitionDays int            `json:"transition_days"`
	MLWeight       float64        `json:"ml_weight"`
}

// ForecastSummary aggregates accuracy over resolved predictions.
type ForecastSummary struct {
	Total             int     `json:"total"`
	Resolved          int     `json:"resolved"`
	MeanAbsoluteError float64 `json:"mean_absolute_error"`
}
