package datesolver

import "time"

// MonthsApart returns the calendar-month distance between two timestamps,
// ignoring days and times. January 31st and February 1st are one month apart.
func MonthsApart(a, b time.Time) int {
	diff := (a.Year()-b.Year())*12 + int(a.Month()) - int(b.Month())
	if diff < 0 {
		return -diff
	}
	return diff
}

// WithinTolerance reports whether two timestamps agree within the given
// calendar-month tolerance.
func WithinTolerance(a, b time.Time, toleranceMonths int) bool {
	return MonthsApart(a, b) < toleranceMonths
}

func earlierOf(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
