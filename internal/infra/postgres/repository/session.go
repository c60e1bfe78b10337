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

var ErrSessionNotFound = errors.New("study session not found")

// SessionFilter narrows session listings. Zero values are ignored.
type SessionFilter struct {
	Subject       string
	From, To      time.Time
	CompletedOnly bool
	Limit         int
}

// SessionRepository stores study sessions.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) q(ctx context.Context) postgres.DBTX {
	return postgres.Querier(ctx, r.pool)
}

const sessionColumns = `
	id, user_id, subject, topic, session_type, duration_minutes, notes,
	occurred_at, completed
`

// Create inserts a new study session.
func (r *SessionRepository) Create(ctx context.Context, s *entities.StudySession) error {
	query := `
		INSERT INTO study_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q(ctx).Exec(
		ctx, query,
		s.ID, s.UserID, s.Subject, s.Topic, s.SessionType,
		s.DurationMinutes, s.Notes, s.OccurredAt, s.Completed,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// GetByID retrieves a session owned by the given user.
func (r *SessionRepository) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*entities.StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions WHERE id = $1 AND user_id = $2`

	s, err := scanSession(r.q(ctx).QueryRow(ctx, query, sessionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// ListByUser returns the user's sessions matching the filter, most recent
// first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter SessionFilter) ([]*entities.StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions WHERE user_id = $1`
	args := []any{userID}

	if filter.Subject != "" {
		args = append(args, filter.Subject)
		query += fmt.Sprintf(" AND subject = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}
	if filter.CompletedOnly {
		query += " AND completed"
	}
	query += " ORDER BY occurred_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*entities.StudySession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Update persists the mutable session fields (completed and notes).
func (r *SessionRepository) Update(ctx context.Context, s *entities.StudySession) error {
	query := `
		UPDATE study_sessions
		SET completed = $3, notes = $4
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.q(ctx).Exec(ctx, query, s.ID, s.UserID, s.Completed, s.Notes)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Delete removes a session owned by the user.
func (r *SessionRepository) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM study_sessions WHERE id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func scanSession(row pgx.Row) (*entities.StudySession, error) {
	var s entities.StudySession
	err := row.Scan(
		&s.ID, &s.UserID, &s.Subject, &s.Topic, &s.SessionType,
		&s.DurationMinutes, &s.Notes, &s.OccurredAt, &s.Completed,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
