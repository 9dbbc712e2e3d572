package schema

import (
	"math"
	"time"
)

// DayFormat is the storage and display format of a calendar day.
const DayFormat = "2006-01-02"

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// RoundClamp rounds v half away from zero and bounds it to [lo, hi].
func RoundClamp(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		return lo
	}
	return ClampInt(int(math.Round(Clamp(v, float64(lo), float64(hi)))), lo, hi)
}

// DayStart returns the calendar day of t as midnight UTC.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDay returns the calendar day after t.
func NextDay(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1)
}

// DayKey formats the calendar day of t.
func DayKey(t time.Time) string {
	return t.Format(DayFormat)
}

// ParseDayKey parses a DayFormat string into a UTC day.
func ParseDayKey(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// ConfidenceForComponents maps a rules component count to a tier.
func ConfidenceForComponents(n int) Confidence {
	switch {
	case n >= 4:
		return FullConfidence
	case n >= 2:
		return PartialConfidence
	default:
		return LimitedConfidence
	}
}

// ConfidenceForSignals maps a forecast signal count to a tier.
func ConfidenceForSignals(n int) Confidence {
	switch {
	case n >= 5:
		return FullConfidence
	case n >= 3:
		return PartialConfidence
	default:
		return LimitedConfidence
	}
}

// SourceForWeight maps a blend weight to the source that produced a score.
func SourceForWeight(mlWeight float64) ScoreSource {
	switch {
	case mlWeight <= 0:
		return RulesSource
	case mlWeight >= 1:
		return MLSource
	default:
		return BlendedSource
	}
}
