package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/readiness/schema"
)

// Define the regular expression to capture "N [units] ago"
// e.g., "2 weeks ago", "3 days ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day)s?\s+ago$`)

// ParseRelativeTime converts strings like "2 weeks ago" into a time.Time in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relative time value: %w", err)
	}

	switch matches[2] {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.AddDate(0, 0, -7*value), nil
	default:
		return now.AddDate(0, 0, -value), nil
	}
}

// ParseDay resolves a calendar day from "", "today", "yesterday", "N days ago",
// YYYY-MM-DD or RFC3339. The empty string means today.
func ParseDay(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "today":
		return schema.DayStart(now), nil
	case "yesterday":
		return schema.DayStart(now).AddDate(0, 0, -1), nil
	case "tomorrow":
		return schema.NextDay(now), nil
	}

	if t, err := schema.ParseDayKey(s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateTimeFormat, strings.ToUpper(s)); err == nil {
		return schema.DayStart(t), nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q. Expected YYYY-MM-DD, today, yesterday or 'N [units] ago'", s)
	}
	return schema.DayStart(t), nil
}

// ParseDayNotAfter is ParseDay for days that must already have started.
// Check-ins, scores and forecasts act on today or earlier.
func ParseDayNotAfter(s string, now time.Time) (time.Time, error) {
	day, err := ParseDay(s, now)
	if err != nil {
		return time.Time{}, err
	}
	if day.After(schema.DayStart(now)) {
		return time.Time{}, fmt.Errorf("date %s is in the future", schema.DayKey(day))
	}
	return day, nil
}
