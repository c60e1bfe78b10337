package dateutil

import "time"

// Day is the length of a calendar day used for elapsed-time bucketing.
const Day = 24 * time.Hour

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// ElapsedDays returns floor((to - from) / 24h). Negative spans return a
// negative count.
func ElapsedDays(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return -int((-d) / Day)
	}
	return int(d / Day)
}

// CalendarDaysBetween returns the number of calendar-day boundaries between
// from and to, ignoring the time of day on either side.
func CalendarDaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)) / Day)
}

// WithinDays reports whether t falls inside the last n days ending at now,
// inclusive of both ends.
func WithinDays(t, now time.Time, n int) bool {
	if t.After(now) {
		return false
	}
	return !t.Before(now.Add(-time.Duration(n) * Day))
}

// DayOffset buckets t into a fixed 7-slot week ending today: today maps to 6,
// yesterday to 5, and so on. Returns -1 for anything older than the window
// or in the future.
func DayOffset(t, now time.Time) int {
	days := ElapsedDays(t, now)
	if days < 0 || days > 6 {
		return -1
	}
	return 6 - days
}
