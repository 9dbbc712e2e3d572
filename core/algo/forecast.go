package algo

import (
	"time"

	"github.com/huangsam/readiness/schema"
)

// Next-day predictor constants.
const (
	NeutralBaseline    = 65
	DampingFactor      = 0.7
	ForecastScoreMin   = 15
	ForecastScoreMax   = 95
	WellRestedHours    = 7.0
	sleepSignalWeight  = 0.35
	hrvSignalWeight    = 0.25
	rhrSignalWeight    = 0.15
	stepSignalWeight   = 0.10
	energySignalWeight = 0.15
)

// ForecastWeights returns the per-signal weights of the next-day predictor.
func ForecastWeights() map[string]float64 {
	return map[string]float64{
		"sleep":  sleepSignalWeight,
		"hrv":    hrvSignalWeight,
		"rhr":    rhrSignalWeight,
		"steps":  stepSignalWeight,
		"energy": energySignalWeight,
	}
}

// ForecastInput holds today's signals.
type ForecastInput struct {
	Metrics     *schema.MetricsRecord
	EnergyLevel *int
	TodayScore  *int
	TodaySource schema.ScoreSource
}

// PredictNextDay forecasts tomorrow's score from today's signals.
// It returns nil when there is no metrics data, no energy level and no score for today.
// The result has no ID; callers assign one when persisting.
func PredictNextDay(in ForecastInput, now time.Time) *schema.Prediction {
	if !in.Metrics.HasAnyData() && in.EnergyLevel == nil && in.TodayScore == nil {
		return nil
	}

	baseline := float64(NeutralBaseline)
	if in.TodayScore != nil {
		baseline = float64(*in.TodayScore)
	}

	var weighted, weightSum float64
	signals := 0
	add := func(adjustment, weight float64) {
		weighted += adjustment * weight
		weightSum += weight
		signals++
	}

	sleepHours, hasSleep := in.Metrics.SleepHours()
	if hasSleep {
		add(SleepAdjustment(sleepHours), sleepSignalWeight)
	}
	if in.Metrics != nil && in.Metrics.HRV != nil {
		add(HRVAdjustment(*in.Metrics.HRV), hrvSignalWeight)
	}
	if in.Metrics != nil && in.Metrics.RestingHeartRate != nil {
		add(RHRAdjustment(*in.Metrics.RestingHeartRate), rhrSignalWeight)
	}
	if in.Metrics != nil && in.Metrics.StepCount != nil {
		wellRested := hasSleep && sleepHours >= WellRestedHours
		add(StepsAdjustment(*in.Metrics.StepCount, wellRested), stepSignalWeight)
	}
	if in.EnergyLevel != nil {
		add(EnergyAdjustment(*in.EnergyLevel), energySignalWeight)
	}
	if in.TodayScore != nil {
		signals++
	}

	combined := 0.0
	if weightSum > 0 {
		combined = weighted / weightSum
	}

	source := schema.RulesSource
	if in.TodayScore != nil && in.TodaySource != "" {
		source = in.TodaySource
	}

	return &schema.Prediction{
		CreatedAt:        now,
		TargetDate:       schema.NextDay(now),
		PredictedScore:   schema.RoundClamp(baseline+combined*DampingFactor, ForecastScoreMin, ForecastScoreMax),
		Confidence:       schema.ConfidenceForSignals(signals),
		Source:           source,
		InputMetrics:     in.Metrics,
		InputEnergyLevel: in.EnergyLevel,
	}
}

// SleepAdjustment returns the point adjustment for last night's sleep.
func SleepAdjustment(hours float64) float64 {
	switch {
	case hours < 4:
		return -20
	case hours < 5:
		return -15
	case hours < 6:
		return -10
	case hours < 7:
		return -3
	case hours < 8:
		return 3
	case hours < 9:
		return 5
	case hours < 10:
		return 2
	default:
		return -3
	}
}

// HRVAdjustment returns the point adjustment for HRV (ms).
func HRVAdjustment(hrv float64) float64 {
	switch {
	case hrv < 20:
		return -15
	case hrv < 35:
		return -8
	case hrv < 50:
		return -2
	case hrv < 70:
		return 3
	case hrv < 100:
		return 8
	default:
		return 12
	}
}

// RHRAdjustment returns the point adjustment for resting heart rate (bpm).
func RHRAdjustment(rhr float64) float64 {
	switch {
	case rhr >= 90:
		return -10
	case rhr >= 80:
		return -5
	case rhr >= 70:
		return -2
	case rhr >= 60:
		return 2
	case rhr >= 50:
		return 5
	default:
		return 8
	}
}

// StepsAdjustment returns the point adjustment for today's load.
// High step counts cost more when the user did not sleep well.
func StepsAdjustment(steps int, wellRested bool) float64 {
	switch {
	case steps < 3000:
		return 0
	case steps < 7000:
		return 3
	case steps < 12000:
		if wellRested {
			return 5
		}
		return -2
	case steps < 18000:
		if wellRested {
			return 2
		}
		return -8
	default:
		if wellRested {
			return -3
		}
		return -12
	}
}

// EnergyAdjustment returns the point adjustment for a 1-5 self-report.
func EnergyAdjustment(level int) float64 {
	switch schema.ClampInt(level, 1, 5) {
	case 1:
		return -10
	case 2:
		return -5
	case 3:
		return 0
	case 4:
		return 5
	default:
		return 8
	}
}
