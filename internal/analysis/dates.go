package analysis

import "time"

// calendarDay returns t's calendar date as a UTC midnight. Stored dates are
// calendar dates and the clock carries a time of day and a zone, so every
// window compares days rather than instants.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysFrom returns the calendar day offset by days from now's calendar day.
func daysFrom(now time.Time, days int) time.Time {
	return calendarDay(now).AddDate(0, 0, days)
}

// onOrAfterDay reports whether t falls on or after the calendar day day.
func onOrAfterDay(t, day time.Time) bool {
	return !calendarDay(t).Before(day)
}

// afterDay reports whether t falls on a later calendar day than day.
func afterDay(t, day time.Time) bool {
	return calendarDay(t).After(day)
}
