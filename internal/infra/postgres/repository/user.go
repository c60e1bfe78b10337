package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/infra/postgres"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository provides access to the user aggregate record. The
// per-subject maps live as JSONB documents on the row.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) q(ctx context.Context) postgres.DBTX {
	return postgres.Querier(ctx, r.pool)
}

const userColumns = `
	id, username, email, password_hash, first_name, last_name, school,
	target_grades, progress, achievements, study_streak, total_study_hours,
	last_study_date, created_at, updated_at
`

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	targetGrades, progress, err := marshalMaps(user)
	if err != nil {
		return err
	}

	_, err = r.q(ctx).Exec(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.School,
		targetGrades,
		progress,
		user.Achievements,
		user.StudyStreak,
		user.TotalStudyHours,
		user.LastStudyDate,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.q(ctx).QueryRow(ctx, query, userID))
}

// GetForUpdate retrieves a user and locks the row for the duration of the
// enclosing transaction, serializing aggregate updates per user.
func (r *UserRepository) GetForUpdate(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return r.scanUser(r.q(ctx).QueryRow(ctx, query, userID))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.q(ctx).QueryRow(ctx, query, email))
}

// ExistsByEmailOrUsername checks registration uniqueness.
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)`

	var exists bool
	if err := r.q(ctx).QueryRow(ctx, query, email, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}

	return exists, nil
}

// Update writes back every mutable field of the aggregate record.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	query := `
		UPDATE users SET
			username = $2,
			email = $3,
			password_hash = $4,
			first_name = $5,
			last_name = $6,
			school = $7,
			target_grades = $8,
			progress = $9,
			achievements = $10,
			study_streak = $11,
			total_study_hours = $12,
			last_study_date = $13,
			updated_at = now()
		WHERE id = $1
	`

	targetGrades, progress, err := marshalMaps(user)
	if err != nil {
		return err
	}

	tag, err := r.q(ctx).Exec(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.School,
		targetGrades,
		progress,
		user.Achievements,
		user.StudyStreak,
		user.TotalStudyHours,
		user.LastStudyDate,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListIDs returns every user ID; the nightly streak refresh walks them.
func (r *UserRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT id FROM users`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRepository) scanUser(row pgx.Row) (*entities.User, error) {
	var (
		user         entities.User
		targetGrades []byte
		progress     []byte
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.School,
		&targetGrades,
		&progress,
		&user.Achievements,
		&user.StudyStreak,
		&user.TotalStudyHours,
		&user.LastStudyDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := json.Unmarshal(targetGrades, &user.TargetGrades); err != nil {
		return nil, fmt.Errorf("decode target grades: %w", err)
	}
	if err := json.Unmarshal(progress, &user.Progress); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}

	return &user, nil
}

func marshalMaps(user *entities.User) ([]byte, []byte, error) {
	if user.TargetGrades == nil {
		user.TargetGrades = map[string]int{}
	}
	if user.Progress == nil {
		user.Progress = map[string]entities.SubjectProgress{}
	}

	targetGrades, err := json.Marshal(user.TargetGrades)
	if err != nil {
		return nil, nil, fmt.Errorf("encode target grades: %w", err)
	}
	progress, err := json.Marshal(user.Progress)
	if err != nil {
		return nil, nil, fmt.Errorf("encode progress: %w", err)
	}
	return targetGrades, progress, nil
}
