package models

import (
	"fmt"
	"time"
)

// Week keys identify a planning week by the ISO date of its Monday,
// e.g. "2026-01-05". All schedule tables and engine inputs use this form.
const WeekKeyLayout = "2006-01-02"

// WeekKeyOf returns the week key of the week containing t.
func WeekKeyOf(t time.Time) string {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // ISO: Sunday is 7
	}
	monday := t.AddDate(0, 0, 1-weekday)
	return monday.Format(WeekKeyLayout)
}

// ParseWeekKey parses and validates a week key.
// The date must be a Monday.
func ParseWeekKey(key string) (time.Time, error) {
	t, err := time.Parse(WeekKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week key %q: %w", key, err)
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("week key %q is not a Monday", key)
	}
	return t, nil
}

// WeekIndex converts a week key into a week ordinal (weeks since the Unix
// epoch). Returns false for malformed keys.
func WeekIndex(key string) (int, bool) {
	t, err := ParseWeekKey(key)
	if err != nil {
		return 0, false
	}
	return int(t.Unix() / (7 * 24 * 3600)), true
}

// WeeksBetween returns the number of whole weeks from key a to key b
// (positive when b is later).
func WeeksBetween(a, b string) (int, error) {
	ta, err := ParseWeekKey(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseWeekKey(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / (24 * 7)), nil
}

// AddWeeks returns the week key n weeks after key.
func AddWeeks(key string, n int) (string, error) {
	t, err := ParseWeekKey(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 7*n).Format(WeekKeyLayout), nil
}
