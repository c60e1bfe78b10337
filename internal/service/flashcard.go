package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomfenwick/studytrack/internal/domain/achievements"
	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/infra/postgres/repository"
)

// CreateFlashcardInput is the payload for adding a card to a deck.
type CreateFlashcardInput struct {
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
	Front   string `json:"front"`
	Back    string `json:"back"`
}

/// ReviewOutcome is what a card review returns: the rescheduled card plus
// any review-count achievements it tipped over.
type ReviewOutcome struct {
	Card            *entities.Flashcard       `json:"card"`
	NewAchievements []achievements.Definition `json:"newAchievements"`
}

// FlashcardService manages decks and drives the review scheduler.
type FlashcardService struct {
	cards        FlashcardRepository
	achievements *AchievementService
	tr           Transactor

	now func() time.Time
}

func NewFlashcardService(cards FlashcardRepository, achievementSvc *AchievementService, tr Transactor) *FlashcardService {
	return &FlashcardService{
		cards:        cards,
		achievements: achievementSvc,
		tr:           tr,
		now:          time.Now,
	}
}

// Create adds a card. New cards are due immediately so they surface in the
// next review queue.
func (s *FlashcardService) Create(ctx context.Context, userID uuid.UUID, input CreateFlashcardInput) (*entities.Flashcard, error) {
	if !KnownSubject(input.Subject) {
		return nil, invalidf("subject", "unrecognized subject %q", input.Subject)
	}
	if input.Front == "" {
		return nil, invalidf("front", "must not be empty")
	}
	if input.Back == "" {
		return nil, invalidf("back", "must not be empty")
	}

	card := entities.NewFlashcard(userID, input.Subject, input.Topic, input.Front, input.Back, s.now())
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// List returns the user's cards, optionally narrowed by subject and topic,
// most overdue first.
func (s *FlashcardService) List(ctx context.Context, userID uuid.UUID, subject, topic string) ([]*entities.Flashcard, error) {
	return s.cards.ListByUser(ctx, userID, repository.FlashcardFilter{Subject: subject, Topic: topic})
}

// Due returns only the cards whose review is due now.
func (s *FlashcardService) Due(ctx context.Context, userID uuid.UUID, subject string) ([]*entities.Flashcard, error) {
	return s.cards.ListByUser(ctx, userID, repository.FlashcardFilter{Subject: subject, DueAt: s.now()})
}

// Review applies a recall rating to a card: the card is rescheduled by the
// fixed interval for the rating and the lifetime review count feeds the
// review achievements. Out-of-range ratings schedule the shortest interval
// rather than failing.
func (s *FlashcardService) Review(ctx context.Context, userID, cardID uuid.UUID, rating int) (*ReviewOutcome, error) {
	var out ReviewOutcome
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		card, err := s.cards.GetByID(ctx, userID, cardID)
		if err != nil {
			return err
		}

		card.ApplyReview(rating, s.now())
		if err := s.cards.Update(ctx, card); err != nil {
			return err
		}

		total, err := s.cards.TotalReviews(ctx, userID)
		if err != nil {
			return err
		}

		newly, err := s.achievements.Evaluate(ctx, userID, achievements.StatSnapshot{FlashcardReviews: total})
		if err != nil {
			return err
		}

		out = ReviewOutcome{Card: card, NewAchievements: newly}
		return nil
	})
	if err != nil {
		return nil, conflictOr(err)
	}

	return &out, nil
}

// Delete removes a card from the user's deck.
func (s *FlashcardService) Delete(ctx context.Context, userID, cardID uuid.UUID) error {
	return s.cards.Delete(ctx, userID, cardID)
}
