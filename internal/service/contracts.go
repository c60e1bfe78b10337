package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/infra/postgres/repository"
)

// Subjects the tracker knows about. Sessions and quiz results for anything
// else are rejected as validation errors.
var validSubjects = map[string]struct{}{
	"maths":           {},
	"english":         {},
	"science":         {},
	"geography":       {},
	"french":          {},
	"computerscience": {},
}

// KnownSubject reports whether the tracker accepts the subject.
func KnownSubject(subject string) bool {
	_, ok := validSubjects[subject]
	return ok
}

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	Update(ctx context.Context, user *entities.User) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s *entities.StudySession) error
	GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*entities.StudySession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter repository.SessionFilter) ([]*entities.StudySession, error)
	Update(ctx context.Context, s *entities.StudySession) error
	Delete(ctx context.Context, userID, sessionID uuid.UUID) error
}

type QuizResultRepository interface {
	Create(ctx context.Context, q *entities.QuizResult) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter repository.QuizFilter) ([]*entities.QuizResult, error)
	StatsByUser(ctx context.Context, userID uuid.UUID) (repository.QuizStats, error)
}

type FlashcardRepository interface {
	Create(ctx context.Context, f *entities.Flashcard) error
	GetByID(ctx context.Context, userID, cardID uuid.UUID) (*entities.Flashcard, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter repository.FlashcardFilter) ([]*entities.Flashcard, error)
	Update(ctx context.Context, f *entities.Flashcard) error
	Delete(ctx context.Context, userID, cardID uuid.UUID) error
	TotalReviews(ctx context.Context, userID uuid.UUID) (int, error)
}

// Transactor scopes a function to one database transaction; per-user
// aggregate updates run inside it behind a row lock.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
