package utils

import (
	"fmt"
	"time"

	"github.com/daybook-app/daybook/internal/constants"
)

// DayString formats a time as a calendar-day string (YYYY-MM-DD) in the
// time's own location. Days are local days, not UTC days: what the user
// sees as "today" is what gets stored.
func DayString(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// Today returns the current local calendar day.
func Today() string {
	return DayString(time.Now())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", day, err)
	}
	return t, nil
}

// NextDay returns the calendar day after the given one. Used to build
// half-open [day, day+1) range filters so a query matches every record
// on a day regardless of stored timestamp precision.
func NextDay(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return DayString(t.AddDate(0, 0, 1)), nil
}

// MonthRange returns the first and last calendar days of a month, both
// inclusive.
func MonthRange(year int, month time.Month) (first, last string) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, -1)
	return DayString(start), DayString(end)
}

// DayOf truncates a stored date value to its calendar-day prefix. The
// server normalizes date fields to full timestamps ("2024-03-01 00:00:00.000Z");
// callers only care about the day.
func DayOf(value string) string {
	if len(value) >= len(constants.DateFormat) {
		return value[:len(constants.DateFormat)]
	}
	return value
}
