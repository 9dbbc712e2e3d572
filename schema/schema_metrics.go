package schema

import (
	"math"
	"time"
)

// MetricsRecord is one day of physiological signals. Any field may be absent,
// and absent is distinct from zero.
type MetricsRecord struct {
	Date             time.Time `json:"date"`
	RestingHeartRate *float64  `json:"resting_heart_rate,omitempty"` // bpm
	HRV              *float64  `json:"hrv,omitempty"`                // ms, SDNN
	SleepDuration    *float64  `json:"sleep_duration,omitempty"`     // seconds
	StepCount        *int      `json:"step_count,omitempty"`
	ActiveEnergy     *float64  `json:"active_energy,omitempty"` // kcal
}

// HasAnyData reports whether at least one signal is present.
func (m *MetricsRecord) HasAnyData() bool {
	if m == nil {
		return false
	}
	return m.RestingHeartRate != nil || m.HRV != nil || m.SleepDuration != nil ||
		m.StepCount != nil || m.ActiveEnergy != nil
}

// SleepHours returns the sleep duration in hours.
func (m *MetricsRecord) SleepHours() (float64, bool) {
	if m == nil || m.SleepDuration == nil {
		return 0, false
	}
	return *m.SleepDuration / 3600, true
}

// Sanitize returns a copy where non-finite or negative readings are dropped.
func (m MetricsRecord) Sanitize() MetricsRecord {
	clean := func(v *float64) *float64 {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
			return nil
		}
		return Float64Ptr(*v)
	}
	out := MetricsRecord{
		Date:             DayStart(m.Date),
		RestingHeartRate: clean(m.RestingHeartRate),
		HRV:              clean(m.HRV),
		SleepDuration:    clean(m.SleepDuration),
		ActiveEnergy:     clean(m.ActiveEnergy),
	}
	if m.StepCount != nil && *m.StepCount >= 0 {
		out.StepCount = IntPtr(*m.StepCount)
	}
	return out
}

// FeatureVector is the bounded model input derived from a MetricsRecord.
// Physiological features are in [0,1] or absent; DayOfWeek is always set.
type FeatureVector struct {
	HRV       *float64 `json:"hrv,omitempty"`
	RHR       *float64 `json:"rhr,omitempty"`
	Sleep     *float64 `json:"sleep,omitempty"`
	DayOfWeek float64  `json:"day_of_week"`
}

// MissingFeatureValue substitutes absent physiological features at inference.
const MissingFeatureValue = 0.5

// AvailableFeatureCount counts present physiological features plus the day of week.
func (f FeatureVector) AvailableFeatureCount() int {
	n := 1
	for _, v := range []*float64{f.HRV, f.RHR, f.Sleep} {
		if v != nil {
			n++
		}
	}
	return n
}

// Values returns [hrv, rhr, sleep, dayOfWeek] with absent features filled in.
func (f FeatureVector) Values() [4]float64 {
	get := func(v *float64) float64 {
		if v == nil {
			return MissingFeatureValue
		}
		return *v
	}
	return [4]float64{get(f.HRV), get(f.RHR), get(f.Sleep), f.DayOfWeek}
}
