// Package calendar provides day- and week-granularity date helpers shared by
// the insight engines. All computations treat dates at calendar-day
// resolution; time-of-day on input values is not significant.
package calendar

import (
	"math"
	"time"
)

// daysPerWeek is the number of days in a calendar week.
const daysPerWeek = 7

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfWeek returns the Monday at midnight of the week containing t.
// The service uses a fixed ISO-8601 week convention (weeks start Monday)
// so that week framing is stable regardless of locale.
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday()) // Sunday = 0
	back := weekday - 1
	if back < 0 {
		back = daysPerWeek - 1
	}
	return StartOfDay(t.AddDate(0, 0, -back))
}

// NextWeek returns the start of the week following weekStart.
func NextWeek(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, daysPerWeek)
}

// DaysBetween returns the number of whole calendar days from a to b
// (positive when b is after a). Both arguments are truncated to day
// boundaries first, so two times on the same day yield 0.
func DaysBetween(a, b time.Time) int {
	from := StartOfDay(a)
	to := StartOfDay(b)
	// Round instead of truncate so DST-shortened or -lengthened days still
	// count as whole days.
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// InLookback reports whether occurrence falls inside the half-open
// lookback window of windowDays ending at (and including) ref. With a
// one-day window only the same calendar day qualifies; with two days,
// the day before also qualifies. Occurrences after ref never qualify.
func InLookback(occurrence, ref time.Time, windowDays int) bool {
	if windowDays <= 0 {
		return false
	}
	d := DaysBetween(occurrence, ref)
	return d >= 0 && d < windowDays
}

// SameWeek reports whether a and b fall inside the same Monday-based week.
func SameWeek(a, b time.Time) bool {
	return StartOfWeek(a).Equal(StartOfWeek(b))
}
