package entities

import (
	"time"

	"github.com/google/uuid"
)

// Review difficulty ratings. Anything outside this range schedules the
// shortest interval rather than failing the review.
const (
	RatingHard   = 1
	RatingMedium = 2
	RatingEasy   = 3
)

// Flashcard is a user-owned card with fixed-interval spaced-repetition
// scheduling state. A new card is due immediately.
type Flashcard struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Subject        string
	Topic          string
	Front          string
	Back           string
	Difficulty     int // last review rating, kept for audit
	LastReviewedAt *time.Time
	NextReviewAt   time.Time
	ReviewCount    int
	CreatedAt      time.Time
}

func NewFlashcard(userID uuid.UUID, subject, topic, front, back string, now time.Time) *Flashcard {
	return &Flashcard{
		ID:           uuid.New(),
		UserID:       userID,
		Subject:      subject,
		Topic:        topic,
		Front:        front,
		Back:         back,
		Difficulty:   RatingHard,
		NextReviewAt: now, // immediately due
		CreatedAt:    now,
	}
}

// reviewInterval maps a difficulty rating to the fixed gap before the next
// review. Invalid ratings fall back to the shortest interval.
func reviewInterval(rating int) time.Duration {
	switch rating {
	case RatingHard:
		return 24 * time.Hour
	case RatingMedium:
		return 3 * 24 * time.Hour
	case RatingEasy:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// ApplyReview records one review outcome: stamps the review time, schedules
// the next one from the rating, and bumps the review counter.
func (f *Flashcard) ApplyReview(rating int, now time.Time) {
	f.LastReviewedAt = &now
	f.NextReviewAt = now.Add(reviewInterval(rating))
	f.ReviewCount++
	f.Difficulty = rating
}

// Due reports whether the card should be shown at the given time.
func (f *Flashcard) Due(now time.Time) bool {
	return !f.NextReviewAt.After(now)
}
