package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tomfenwick/studytrack/internal/domain/entities"
)

func sessionOn(userID uuid.UUID, at time.Time, completed bool) *entities.StudySession {
	s := entities.NewStudySession(userID, "maths", "algebra", entities.SessionRevision, 30, at)
	s.Completed = completed
	return s
}

func TestStreak(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2025, time.April, 10, 18, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2025, time.April, 10+offset, hour, 0, 0, 0, time.UTC)
	}

	t.Run("no sessions", func(t *testing.T) {
		assert.Equal(t, 0, Streak(nil, now))
	})

	t.Run("three consecutive days", func(t *testing.T) {
		sessions := []*entities.StudySession{
			sessionOn(userID, day(0, 9), true),
			sessionOn(userID, day(-1, 20), true),
			sessionOn(userID, day(-2, 7), true),
		}
		assert.Equal(t, 3, Streak(sessions, now))
	})

	t.Run("second session on the same day does not change the streak", func(t *testing.T) {
		sessions := []*entities.StudySession{
			sessionOn(userID, day(0, 9), true),
			sessionOn(userID, day(0, 14), true),
			sessionOn(userID, day(-1, 20), true),
			sessionOn(userID, day(-2, 7), true),
		}
		assert.Equal(t, 3, Streak(sessions, now))
	})

	t.Run("yesterday only still counts", func(t *testing.T) {
		sessions := []*entities.StudySession{sessionOn(userID, day(-1, 19), true)}
		assert.Equal(t, 1, Streak(sessions, now))
	})

	t.Run("two day gap resets to zero", func(t *testing.T) {
		sessions := []*entities.StudySession{
			sessionOn(userID, day(-2, 9), true),
			sessionOn(userID, day(-3, 9), true),
		}
		assert.Equal(t, 0, Streak(sessions, now))
	})

	t.Run("gap in history stops the walk", func(t *testing.T) {
		sessions := []*entities.StudySession{
			sessionOn(userID, day(0, 9), true),
			sessionOn(userID, day(-1, 9), true),
			// gap on day -2
			sessionOn(userID, day(-3, 9), true),
			sessionOn(userID, day(-4, 9), true),
		}
		assert.Equal(t, 2, Streak(sessions, now))
	})

	t.Run("incomplete sessions do not count", func(t *testing.T) {
		sessions := []*entities.StudySession{
			sessionOn(userID, day(0, 9), false),
			sessionOn(userID, day(-1, 9), true),
			sessionOn(userID, day(-2, 9), false),
		}
		assert.Equal(t, 1, Streak(sessions, now))
	})

	t.Run("input order is irrelevant", func(t *testing.T) {
		sessions := []*entities.StudySession{
			sessionOn(userID, day(-2, 7), true),
			sessionOn(userID, day(0, 9), true),
			sessionOn(userID, day(-1, 20), true),
		}
		assert.Equal(t, 3, Streak(sessions, now))
	})
}
