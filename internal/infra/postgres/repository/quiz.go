package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/infra/postgres"
)

// QuizFilter narrows quiz-result listings. Zero values are ignored.
type QuizFilter struct {
	Subject string
	Limit   int
}

// QuizResultRepository is the append-only store of quiz attempts.
type QuizResultRepository struct {
	pool *pgxpool.Pool
}

func NewQuizResultRepository(pool *pgxpool.Pool) *QuizResultRepository {
	return &QuizResultRepository{pool: pool}
}

func (r *QuizResultRepository) q(ctx context.Context) postgres.DBTX {
	return postgres.Querier(ctx, r.pool)
}

const quizColumns = `
	id, user_id, subject, topic, score_percent, correct_answers,
	total_questions, time_spent_seconds, occurred_at
`

// Create appends a quiz result.
func (r *QuizResultRepository) Create(ctx context.Context, q *entities.QuizResult) error {
	query := `
		INSERT INTO quiz_results (` + quizColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q(ctx).Exec(
		ctx, query,
		q.ID, q.UserID, q.Subject, q.Topic, q.ScorePercent,
		q.CorrectAnswers, q.TotalQuestions, q.TimeSpentSeconds, q.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("create quiz result: %w", err)
	}

	return nil
}

// ListByUser returns the user's results matching the filter, most recent
// first.
func (r *QuizResultRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter QuizFilter) ([]*entities.QuizResult, error) {
	query := `SELECT ` + quizColumns + ` FROM quiz_results WHERE user_id = $1`
	args := []any{userID}

	if filter.Subject != "" {
		args = append(args, filter.Subject)
		query += fmt.Sprintf(" AND subject = $%d", len(args))
	}
	query += " ORDER BY occurred_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var results []*entities.QuizResult
	for rows.Next() {
		var q entities.QuizResult
		err := rows.Scan(
			&q.ID, &q.UserID, &q.Subject, &q.Topic, &q.ScorePercent,
			&q.CorrectAnswers, &q.TotalQuestions, &q.TimeSpentSeconds, &q.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		results = append(results, &q)
	}
	return results, rows.Err()
}

// Stats aggregates the lifetime quiz counters the achievement predicates
// read.
type QuizStats struct {
	Attempts          int
	HighScores        int // attempts at 90% or above
	QuestionsAnswered int
}

// StatsByUser computes lifetime quiz statistics in one round trip.
func (r *QuizResultRepository) StatsByUser(ctx context.Context, userID uuid.UUID) (QuizStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE score_percent >= 90),
			COALESCE(SUM(total_questions), 0)
		FROM quiz_results
		WHERE user_id = $1
	`

	var stats QuizStats
	err := r.q(ctx).QueryRow(ctx, query, userID).Scan(&stats.Attempts, &stats.HighScores, &stats.QuestionsAnswered)
	if err != nil {
		return QuizStats{}, fmt.Errorf("quiz stats: %w", err)
	}

	return stats, nil
}
