package progress

import (
	"sort"
	"time"

	"github.com/tomfenwick/studytrack/internal/dateutil"
	"github.com/tomfenwick/studytrack/internal/domain/entities"
)

// Streak counts consecutive calendar days with at least one completed
// session, ending at the most recent one. Input order does not matter.
//
// The streak survives as long as the most recent session is today or
// yesterday; a larger gap resets it to zero (today-not-yet-studied still
// counts). Multiple sessions on one calendar day count once.
func Streak(sessions []*entities.StudySession, now time.Time) int {
	var mostRecent time.Time
	for _, s := range sessions {
		if s.Completed && s.OccurredAt.After(mostRecent) {
			mostRecent = s.OccurredAt
		}
	}
	if mostRecent.IsZero() || dateutil.ElapsedDays(mostRecent, now) > 1 {
		return 0
	}

	days := completedDays(sessions)

	// Most recent first.
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	current := days[0]
	for _, day := range days[1:] {
		if dateutil.CalendarDaysBetween(day, current) == 1 {
			streak++
			current = day
			continue
		}
		break
	}
	return streak
}

// completedDays collects the distinct calendar days carrying at least one
// completed session.
func completedDays(sessions []*entities.StudySession) []time.Time {
	seen := make(map[time.Time]struct{}, len(sessions))
	days := make([]time.Time, 0, len(sessions))
	for _, s := range sessions {
		if !s.Completed {
			continue
		}
		day := dateutil.StartOfDay(s.OccurredAt)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return days
}
