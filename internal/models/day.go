package models

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-day format used for completion dates and
// streak bookkeeping. Streak arithmetic works on calendar days, not
// timestamps.
const DayLayout = "2006-01-02"

// FormatDay renders a time as a calendar day string.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay validates and normalizes a calendar day string.
func ParseDay(day string) (string, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t.Format(DayLayout), nil
}

// PrevDay returns the calendar day before the given day.
func PrevDay(day string) (string, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t.AddDate(0, 0, -1).Format(DayLayout), nil
}
