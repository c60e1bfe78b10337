package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewFlashcardIsImmediatelyDue(t *testing.T) {
	now := time.Now()
	card := NewFlashcard(uuid.New(), "maths", "algebra", "x+x", "2x", now)

	assert.True(t, card.Due(now))
	assert.Zero(t, card.ReviewCount)
	assert.Nil(t, card.LastReviewedAt)
}

func TestApplyReviewIntervals(t *testing.T) {
	now := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rating   int
		wantDays int
	}{
		{"hard", RatingHard, 1},
		{"medium", RatingMedium, 3},
		{"easy", RatingEasy, 7},
		{"invalid falls back to one day", 9, 1},
		{"zero falls back to one day", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := NewFlashcard(uuid.New(), "science", "cells", "q", "a", now.AddDate(0, 0, -1))
			card.ApplyReview(tt.rating, now)

			// Assert at day granularity, not exact instants.
			gap := card.NextReviewAt.Sub(now)
			assert.Equal(t, tt.wantDays, int(gap.Hours()/24))
			assert.Equal(t, 1, card.ReviewCount)
			assert.Equal(t, tt.rating, card.Difficulty)
			if assert.NotNil(t, card.LastReviewedAt) {
				assert.Equal(t, now, *card.LastReviewedAt)
			}
		})
	}
}

func TestApplyReviewIncrementsCountPerCall(t *testing.T) {
	now := time.Now()
	card := NewFlashcard(uuid.New(), "french", "verbs", "q", "a", now)

	card.ApplyReview(RatingEasy, now)
	card.ApplyReview(RatingHard, now.AddDate(0, 0, 7))

	assert.Equal(t, 2, card.ReviewCount)
	assert.False(t, card.Due(now.AddDate(0, 0, 7).Add(time.Hour)))
	assert.True(t, card.Due(now.AddDate(0, 0, 9)))
}
