// Package timeutil implements civil-time arithmetic in the organization's
// fixed UTC offset. Every "date" in the attendance domain is the start of a
// civil day in this offset, never in the host's local timezone.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var offsetRegex = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// ParseOffset builds a fixed location from an offset string like "+05:45".
func ParseOffset(offset string) (*time.Location, error) {
	m := offsetRegex.FindStringSubmatch(offset)
	if m == nil {
		return nil, fmt.Errorf("invalid UTC offset %q, expected +HH:MM or -HH:MM", offset)
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	seconds := hours*3600 + minutes*60
	if m[1] == "-" {
		seconds = -seconds
	}
	return time.FixedZone("UTC"+offset, seconds), nil
}

// StartOfDay truncates t to the start of its civil day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ParseTimeOfDay parses a wall-clock time with no date ("15:04" or "15:04:05").
func ParseTimeOfDay(s string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t, nil
}

// Combine places a wall-clock time of day onto date's civil day in loc.
func Combine(date time.Time, timeOfDay time.Time, loc *time.Location) time.Time {
	local := date.In(loc)
	return time.Date(
		local.Year(), local.Month(), local.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), timeOfDay.Second(), 0,
		loc,
	)
}

// ParseDate parses a boundary "YYYY-MM-DD" date as the start of that civil
// day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// SameCivilDay reports whether a and b fall on the same civil day in loc.
func SameCivilDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}
