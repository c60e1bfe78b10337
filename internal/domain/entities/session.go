package entities

import (
	"time"

	"github.com/google/uuid"
)

// Session types accepted by the API.
const (
	SessionRevision = "revision"
	SessionHomework = "homework"
	SessionPractice = "practice"
	SessionQuiz     = "quiz"
)

// StudySession is a single timestamped study event. Immutable once created
// except for the completed flag (one-way, pending -> completed) and notes.
type StudySession struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Subject         string
	Topic           string
	SessionType     string
	DurationMinutes int
	Notes           string
	OccurredAt      time.Time
	Completed       bool
}

func NewStudySession(userID uuid.UUID, subject, topic, sessionType string, durationMinutes int, occurredAt time.Time) *StudySession {
	return &StudySession{
		ID:              uuid.New(),
		UserID:          userID,
		Subject:         subject,
		Topic:           topic,
		SessionType:     sessionType,
		DurationMinutes: durationMinutes,
		OccurredAt:      occurredAt,
	}
}

// Complete marks the session done. The transition is one-way: completing an
// already-completed session is a no-op.
func (s *StudySession) Complete() {
	s.Completed = true
}

// DurationHours converts the session length to fractional hours for the
// user's running total.
func (s *StudySession) DurationHours() float64 {
	return float64(s.DurationMinutes) / 60
}
