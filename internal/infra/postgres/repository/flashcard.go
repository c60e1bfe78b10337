package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/infra/postgres"
)

var ErrFlashcardNotFound = errors.New("flashcard not found")

// FlashcardFilter narrows card listings. Zero values are ignored.
type FlashcardFilter struct {
	Subject string
	Topic   string
	DueAt   time.Time // only cards due at this instant
}

// FlashcardRepository stores per-card review state.
type FlashcardRepository struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepository(pool *pgxpool.Pool) *FlashcardRepository {
	return &FlashcardRepository{pool: pool}
}

func (r *FlashcardRepository) q(ctx context.Context) postgres.DBTX {
	return postgres.Querier(ctx, r.pool)
}

const flashcardColumns = `
	id, user_id, subject, topic, front, back, difficulty,
	last_reviewed_at, next_review_at, review_count, created_at
`

// Create inserts a new flashcard.
func (r *FlashcardRepository) Create(ctx context.Context, f *entities.Flashcard) error {
	query := `
		INSERT INTO flashcards (` + flashcardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q(ctx).Exec(
		ctx, query,
		f.ID, f.UserID, f.Subject, f.Topic, f.Front, f.Back, f.Difficulty,
		f.LastReviewedAt, f.NextReviewAt, f.ReviewCount, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create flashcard: %w", err)
	}

	return nil
}

// GetByID retrieves a card owned by the given user.
func (r *FlashcardRepository) GetByID(ctx context.Context, userID, cardID uuid.UUID) (*entities.Flashcard, error) {
	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE id = $1 AND user_id = $2`

	f, err := scanFlashcard(r.q(ctx).QueryRow(ctx, query, cardID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFlashcardNotFound
		}
		return nil, fmt.Errorf("get flashcard: %w", err)
	}
	return f, nil
}

// ListByUser returns the user's cards sorted ascending by next review, so
// the most overdue come first.
func (r *FlashcardRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter FlashcardFilter) ([]*entities.Flashcard, error) {
	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE user_id = $1`
	args := []any{userID}

	if filter.Subject != "" {
		args = append(args, filter.Subject)
		query += fmt.Sprintf(" AND subject = $%d", len(args))
	}
	if filter.Topic != "" {
		args = append(args, filter.Topic)
		query += fmt.Sprintf(" AND topic = $%d", len(args))
	}
	if !filter.DueAt.IsZero() {
		args = append(args, filter.DueAt)
		query += fmt.Sprintf(" AND next_review_at <= $%d", len(args))
	}
	query += " ORDER BY next_review_at ASC"

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	defer rows.Close()

	var cards []*entities.Flashcard
	for rows.Next() {
		f, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flashcard: %w", err)
		}
		cards = append(cards, f)
	}
	return cards, rows.Err()
}

// Update writes back the card's review state.
func (r *FlashcardRepository) Update(ctx context.Context, f *entities.Flashcard) error {
	query := `
		UPDATE flashcards
		SET difficulty = $3, last_reviewed_at = $4, next_review_at = $5, review_count = $6
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.q(ctx).Exec(ctx, query, f.ID, f.UserID, f.Difficulty, f.LastReviewedAt, f.NextReviewAt, f.ReviewCount)
	if err != nil {
		return fmt.Errorf("update flashcard: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFlashcardNotFound
	}

	return nil
}

// Delete removes a card owned by the user.
func (r *FlashcardRepository) Delete(ctx context.Context, userID, cardID uuid.UUID) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM flashcards WHERE id = $1 AND user_id = $2`, cardID, userID)
	if err != nil {
		return fmt.Errorf("delete flashcard: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFlashcardNotFound
	}

	return nil
}

// TotalReviews counts the user's lifetime card reviews.
func (r *FlashcardRepository) TotalReviews(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := r.q(ctx).QueryRow(ctx, `SELECT COALESCE(SUM(review_count), 0) FROM flashcards WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total reviews: %w", err)
	}
	return total, nil
}

func scanFlashcard(row pgx.Row) (*entities.Flashcard, error) {
	var f entities.Flashcard
	err := row.Scan(
		&f.ID, &f.UserID, &f.Subject, &f.Topic, &f.Front, &f.Back, &f.Difficulty,
		&f.LastReviewedAt, &f.NextReviewAt, &f.ReviewCount, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
