package entities

import (
	"time"

	"github.com/google/uuid"
)

// QuizResult is an append-only record of one quiz attempt.
type QuizResult struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Subject          string
	Topic            string
	ScorePercent     float64 // 0-100
	CorrectAnswers   int
	TotalQuestions   int
	TimeSpentSeconds int
	OccurredAt       time.Time
}

func NewQuizResult(userID uuid.UUID, subject, topic string, score float64, correct, total, timeSpentSeconds int, occurredAt time.Time) *QuizResult {
	return &QuizResult{
		ID:               uuid.New(),
		UserID:           userID,
		Subject:          subject,
		Topic:            topic,
		ScorePercent:     score,
		CorrectAnswers:   correct,
		TotalQuestions:   total,
		TimeSpentSeconds: timeSpentSeconds,
		OccurredAt:       occurredAt,
	}
}
