package dates

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the date-only wire format used by query parameters.
const DayLayout = "2006-01-02"

// StartOfDay floors t to 00:00:00.000 in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay ceils t to 23:59:59.999 in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).Add(24*time.Hour - time.Millisecond)
}

// WithinDays reports whether t falls inside [start day, end day], both inclusive.
func WithinDays(t, start, end time.Time, loc *time.Location) bool {
	if t.Before(StartOfDay(start, loc)) {
		return false
	}
	return !t.After(EndOfDay(end, loc))
}

// SameOrBeforeDay reports whether t's calendar day is on or before ref's.
func SameOrBeforeDay(t, ref time.Time, loc *time.Location) bool {
	return !StartOfDay(t, loc).After(StartOfDay(ref, loc))
}

// ParseDay parses either a YYYY-MM-DD day or an RFC3339 timestamp.
func ParseDay(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DayLayout, raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected %s)", raw, DayLayout)
	}
	return t.In(loc), nil
}
