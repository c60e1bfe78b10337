package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(base, base.Add(8*time.Hour)))
	assert.False(t, SameDay(base, base.Add(9*time.Hour)))
	assert.False(t, SameDay(base, base.AddDate(0, 0, -1)))
}

func TestElapsedDays(t *testing.T) {
	assert.Equal(t, 0, ElapsedDays(base, base.Add(23*time.Hour)))
	assert.Equal(t, 1, ElapsedDays(base, base.Add(25*time.Hour)))
	assert.Equal(t, 3, ElapsedDays(base.AddDate(0, 0, -3), base))
	assert.Equal(t, -1, ElapsedDays(base, base.Add(-25*time.Hour)))
}

func TestCalendarDaysBetween(t *testing.T) {
	// 23h apart but across midnight: one calendar day.
	late := time.Date(2025, time.March, 10, 23, 0, 0, 0, time.UTC)
	early := time.Date(2025, time.March, 11, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, CalendarDaysBetween(late, early))
	assert.Equal(t, 0, CalendarDaysBetween(base, base.Add(2*time.Hour)))
}

func TestDayOffset(t *testing.T) {
	assert.Equal(t, 6, DayOffset(base.Add(-time.Hour), base))
	assert.Equal(t, 5, DayOffset(base.Add(-25*time.Hour), base))
	assert.Equal(t, 0, DayOffset(base.AddDate(0, 0, -6), base))
	assert.Equal(t, -1, DayOffset(base.AddDate(0, 0, -8), base))
	assert.Equal(t, -1, DayOffset(base.Add(time.Hour), base))
}

func TestWithinDays(t *testing.T) {
	assert.True(t, WithinDays(base.AddDate(0, 0, -7), base, 7))
	assert.False(t, WithinDays(base.AddDate(0, 0, -8), base, 7))
	assert.False(t, WithinDays(base.Add(time.Minute), base, 7))
}
