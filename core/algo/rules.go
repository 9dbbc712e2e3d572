package algo

import (
	"math"
	"time"

	"github.com/huangsam/readiness/schema"
)

// ScoreRules computes a readiness score from population curves.
// It returns nil when no component is available.
// Weights are renormalized over the available components; nil weights use the defaults.
func ScoreRules(metrics *schema.MetricsRecord, energyLevel *int, weights map[schema.BreakdownKey]float64, now time.Time) *schema.ReadinessScore {
	if weights == nil {
		weights = schema.GetDefaultWeights()
	}

	var b schema.ReadinessBreakdown
	if metrics != nil {
		if metrics.HRV != nil {
			b.HRV = schema.IntPtr(schema.RoundClamp(HRVComponent(*metrics.HRV), 0, 100))
		}
		if metrics.RestingHeartRate != nil {
			b.RestingHeartRate = schema.IntPtr(schema.RoundClamp(RHRComponent(*metrics.RestingHeartRate), 0, 100))
		}
		if hours, ok := metrics.SleepHours(); ok {
			b.Sleep = schema.IntPtr(schema.RoundClamp(SleepComponent(hours), 0, 100))
		}
	}
	if energyLevel != nil {
		b.Energy = schema.IntPtr(schema.RoundClamp(EnergyComponent(*energyLevel), 0, 100))
	}

	components := b.Components()
	if len(components) == 0 {
		return nil
	}

	total, weightSum, plain := 0.0, 0.0, 0.0
	for _, key := range schema.AllBreakdownKeys {
		value, ok := components[key]
		if !ok {
			continue
		}
		w := weights[key]
		total += w * float64(value)
		weightSum += w
		plain += float64(value)
	}
	mean := plain / float64(len(components))
	if weightSum > 0 {
		mean = total / weightSum
	}

	date := now
	if metrics != nil && !metrics.Date.IsZero() {
		date = metrics.Date
	}

	return &schema.ReadinessScore{
		Date:              schema.DayStart(date),
		Score:             schema.RoundClamp(mean, 0, 100),
		Breakdown:         b,
		Confidence:        schema.ConfidenceForComponents(len(components)),
		Source:            schema.RulesSource,
		SourceMetrics:     metrics,
		SourceEnergyLevel: energyLevel,
		ComputedAt:        now,
	}
}

// HRVComponent maps HRV (ms) onto 0..100.
func HRVComponent(hrv float64) float64 {
	switch {
	case hrv < 20:
		return 10 + hrv/20*20
	case hrv < 40:
		return 30 + (hrv - 20)
	case hrv < 60:
		return 50 + (hrv - 40)
	case hrv < 100:
		return 70 + (hrv-60)/40*20
	default:
		return math.Min(100, 90+(hrv-100)/50*10)
	}
}

// RHRComponent maps resting heart rate (bpm) onto 0..100; lower is better down to 40.
// Below 40 is capped at 85 so bradycardia is not read as excellence.
func RHRComponent(rhr float64) float64 {
	switch {
	case rhr >= 90:
		return math.Max(10, 30-(rhr-90)*2)
	case rhr >= 80:
		return 50 - (rhr-80)*2
	case rhr >= 70:
		return 65 - (rhr-70)*1.5
	case rhr >= 60:
		return 80 - (rhr-60)*1.5
	case rhr >= 50:
		return 95 - (rhr-50)*1.5
	case rhr >= 40:
		return 90 + (rhr - 40)
	default:
		return 85
	}
}

// SleepComponent maps sleep hours onto 0..100 with a plateau at 8-9 hours.
func SleepComponent(hours float64) float64 {
	switch {
	case hours < 4:
		return 10 + hours/4*15
	case hours < 5:
		return 25 + (hours-4)*15
	case hours < 6:
		return 40 + (hours-5)*20
	case hours < 7:
		return 60 + (hours-6)*20
	case hours < 8:
		return 80 + (hours-7)*15
	case hours < 9:
		return 95 + (hours-8)*5
	case hours < 10:
		return 95 - (hours-9)*5
	default:
		return math.Max(70, 90-(hours-10)/2*10)
	}
}

// EnergyComponent maps a 1-5 self-report onto 20..100.
func EnergyComponent(level int) float64 {
	return float64(schema.ClampInt(level, 1, 5) * 20)
}
