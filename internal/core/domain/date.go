package domain

import (
	"fmt"
	"time"
)

// DateLayout is the canonical YYYY-MM-DD layout for DateKey values.
const DateLayout = "2006-01-02"

// DateKey is a calendar-valid YYYY-MM-DD date.
// The zero value is not a valid key; construct with ParseDateKey or DateKeyFromTime.
type DateKey string

// ParseDateKey validates s and returns it as a DateKey.
// Validation uses calendar arithmetic, so 2025-02-29 and 2025-04-31 are rejected
// while 2024-02-29 is accepted.
func ParseDateKey(s string) (DateKey, error) {
	if len(s) != len(DateLayout) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	// Reject anything Parse tolerates but would not print back identically.
	if t.Format(DateLayout) != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateKey(s), nil
}

// MustParseDateKey is like ParseDateKey but panics on invalid input.
// Intended for constants in tests and fixtures.
func MustParseDateKey(s string) DateKey {
	d, err := ParseDateKey(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateKeyFromTime returns the calendar date of t in t's location.
func DateKeyFromTime(t time.Time) DateKey {
	return DateKey(t.Format(DateLayout))
}

// Today returns the current date in loc. A nil loc means local time.
func Today(loc *time.Location) DateKey {
	now := time.Now()
	if loc != nil {
		now = now.In(loc)
	}
	return DateKeyFromTime(now)
}

// IsValid reports whether d is a calendar-valid date.
func (d DateKey) IsValid() bool {
	_, err := ParseDateKey(string(d))
	return err == nil
}

// Time returns midnight UTC of the date.
func (d DateKey) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the date n days after d (n may be negative).
func (d DateKey) AddDays(n int) DateKey {
	return DateKeyFromTime(d.Time().AddDate(0, 0, n))
}

// String returns the string representation.
func (d DateKey) String() string {
	return string(d)
}
