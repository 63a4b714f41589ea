package billing

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH - Canonical "YYYY-MM" period key
// =============================================================================

// Month is a canonical 4-digit-year/2-digit-month key ("2025-07").
// By construction, comparisons between canonical months are
// lexicographic-safe, so Go's string ordering is chronological ordering.
type Month string

const monthLayout = "2006-01"

// ParseMonth validates s and returns it as a Month.
func ParseMonth(s string) (Month, error) {
	m := Month(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return m, nil
}

// Valid reports whether m is a canonical "YYYY-MM" key.
func (m Month) Valid() bool {
	t, err := time.Parse(monthLayout, string(m))
	return err == nil && t.Format(monthLayout) == string(m)
}

// Time returns the first day of the month in UTC.
func (m Month) Time() time.Time {
	t, _ := time.Parse(monthLayout, string(m))
	return t
}

// Next returns the following calendar month, rolling over at December.
func (m Month) Next() Month {
	return MonthOf(m.Time().AddDate(0, 1, 0))
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format(monthLayout))
}

// MonthsBetween materializes the ordered, inclusive sequence of months from
// start to end, stepping one calendar month at a time with year rollover.
// It is used to build the obligation timeline: every month a member could
// owe kas, anchored at the member's first recorded kas month.
func MonthsBetween(start, end Month) ([]Month, error) {
	if !start.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonth, start)
	}
	if !end.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonth, end)
	}
	if start > end {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidMonthRange, start, end)
	}

	var months []Month
	for m := start; m <= end; m = m.Next() {
		months = append(months, m)
	}
	return months, nil
}
