package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/infra/postgres/repository"
)

func TestCreateFlashcardDueImmediately(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	ctx := context.Background()

	card, err := f.flashcards.Create(ctx, user.ID, CreateFlashcardInput{
		Subject: "french",
		Topic:   "vocab",
		Front:   "chien",
		Back:    "dog",
	})
	require.NoError(t, err)
	assert.True(t, card.Due(f.now))

	due, err := f.flashcards.Due(ctx, user.ID, "french")
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, card.ID, due[0].ID)
}

func TestCreateFlashcardValidation(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	ctx := context.Background()

	cases := []CreateFlashcardInput{
		{Subject: "alchemy", Front: "a", Back: "b"},
		{Subject: "french", Front: "", Back: "b"},
		{Subject: "french", Front: "a", Back: ""},
	}
	for _, input := range cases {
		_, err := f.flashcards.Create(ctx, user.ID, input)
		assert.True(t, IsValidation(err), "input %+v should be rejected", input)
	}
}

func TestReviewReschedulesByRating(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	ctx := context.Background()

	card, err := f.flashcards.Create(ctx, user.ID, CreateFlashcardInput{
		Subject: "french", Front: "chat", Back: "cat",
	})
	require.NoError(t, err)

	out, err := f.flashcards.Review(ctx, user.ID, card.ID, entities.RatingMedium)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Card.ReviewCount)
	assert.True(t, out.Card.NextReviewAt.Equal(f.now.Add(3*24*time.Hour)))

	// no longer due
	due, err := f.flashcards.Due(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Empty(t, due)

	// out-of-range rating falls back to the shortest interval
	out, err = f.flashcards.Review(ctx, user.ID, card.ID, 7)
	require.NoError(t, err)
	assert.True(t, out.Card.NextReviewAt.Equal(f.now.Add(24*time.Hour)))
	assert.Equal(t, 2, out.Card.ReviewCount)
}

func TestReviewUnknownCard(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	ctx := context.Background()

	_, err := f.flashcards.Review(ctx, user.ID, user.ID, entities.RatingEasy)
	assert.ErrorIs(t, err, repository.ErrFlashcardNotFound)
}

func TestHundredReviewsUnlockFlashMaster(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	ctx := context.Background()

	card, err := f.flashcards.Create(ctx, user.ID, CreateFlashcardInput{
		Subject: "french", Front: "livre", Back: "book",
	})
	require.NoError(t, err)

	var lastNew []string
	for i := 0; i < 100; i++ {
		out, err := f.flashcards.Review(ctx, user.ID, card.ID, entities.RatingHard)
		require.NoError(t, err)
		lastNew = lastNew[:0]
		for _, def := range out.NewAchievements {
			lastNew = append(lastNew, def.ID)
		}
	}
	assert.Contains(t, lastNew, "flash_master")

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Achievements, "flash_master")
}

func TestDeleteFlashcard(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	ctx := context.Background()

	card, err := f.flashcards.Create(ctx, user.ID, CreateFlashcardInput{
		Subject: "french", Front: "eau", Back: "water",
	})
	require.NoError(t, err)

	require.NoError(t, f.flashcards.Delete(ctx, user.ID, card.ID))
	assert.ErrorIs(t, f.flashcards.Delete(ctx, user.ID, card.ID), repository.ErrFlashcardNotFound)
}
