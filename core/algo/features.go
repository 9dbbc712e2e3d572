// Package algo has the pure numeric pieces of the readiness engine.
package algo

import (
	"time"

	"github.com/huangsam/readiness/schema"
)

// OpinionatedThreshold is the example count below which sleep is scored
// with the opinionated curve instead of the linear one.
const OpinionatedThreshold = 30

// Normalization bounds.
const (
	hrvMin        = 20.0
	hrvMax        = 100.0
	rhrMin        = 40.0
	rhrMax        = 90.0
	sleepMinHours = 4.0
	sleepMaxHours = 12.0
)

// ExtractFeatures converts a metrics record into a bounded feature vector.
// The sleep policy depends on how many examples the model has been trained on.
// dayOfWeek uses the metrics date when present, else now.
func ExtractFeatures(metrics *schema.MetricsRecord, trainingExampleCount int, now time.Time) schema.FeatureVector {
	ref := now
	if metrics != nil && !metrics.Date.IsZero() {
		ref = metrics.Date
	}
	fv := schema.FeatureVector{DayOfWeek: DayOfWeek(ref)}
	if metrics == nil {
		return fv
	}

	if metrics.HRV != nil {
		fv.HRV = schema.Float64Ptr(NormalizeHRV(*metrics.HRV))
	}
	if metrics.RestingHeartRate != nil {
		fv.RHR = schema.Float64Ptr(NormalizeRHR(*metrics.RestingHeartRate))
	}
	if hours, ok := metrics.SleepHours(); ok {
		if trainingExampleCount < OpinionatedThreshold {
			fv.Sleep = schema.Float64Ptr(NormalizeSleepOpinionated(hours))
		} else {
			fv.Sleep = schema.Float64Ptr(NormalizeSleepLinear(hours))
		}
	}
	return fv
}

// DayOfWeek maps Sunday..Saturday onto [0,1].
func DayOfWeek(t time.Time) float64 {
	return float64(t.Weekday()) / 6
}

// NormalizeHRV rescales HRV over [20,100] ms; higher is better.
func NormalizeHRV(hrv float64) float64 {
	return (schema.Clamp(hrv, hrvMin, hrvMax) - hrvMin) / (hrvMax - hrvMin)
}

// NormalizeRHR rescales resting heart rate over [40,90] bpm, inverted so lower is better.
func NormalizeRHR(rhr float64) float64 {
	return 1 - (schema.Clamp(rhr, rhrMin, rhrMax)-rhrMin)/(rhrMax-rhrMin)
}

// NormalizeSleepLinear rescales sleep over [4,12] hours.
func NormalizeSleepLinear(hours float64) float64 {
	return (schema.Clamp(hours, sleepMinHours, sleepMaxHours) - sleepMinHours) / (sleepMaxHours - sleepMinHours)
}

// NormalizeSleepOpinionated peaks at 8 hours.
// [7,9] spans 0.8..1.0..0.8, [4,7) ramps 0.2..0.8 and (9,12] falls 0.8..0.5.
func NormalizeSleepOpinionated(hours float64) float64 {
	h := schema.Clamp(hours, sleepMinHours, sleepMaxHours)
	switch {
	case h < 7:
		return 0.2 + (h-4)/3*0.6
	case h <= 9:
		d := h - 8
		if d < 0 {
			d = -d
		}
		return 1 - 0.2*d
	default:
		return 0.8 - (h-9)/3*0.3
	}
}
