package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/infra/postgres/repository"
)

// passTx runs the function directly; the fakes have no transactions.
type passTx struct{}

func (passTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func cloneUser(u *entities.User) *entities.User {
	c := *u
	c.TargetGrades = make(map[string]int, len(u.TargetGrades))
	for k, v := range u.TargetGrades {
		c.TargetGrades[k] = v
	}
	c.Progress = make(map[string]entities.SubjectProgress, len(u.Progress))
	for k, v := range u.Progress {
		c.Progress[k] = v
	}
	c.Achievements = append([]string(nil), u.Achievements...)
	if u.LastStudyDate != nil {
		d := *u.LastStudyDate
		c.LastStudyDate = &d
	}
	return &c
}

func (r *fakeUserRepo) Create(_ context.Context, u *entities.User) error {
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entities.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *fakeUserRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeSessionRepo struct {
	sessions []*entities.StudySession
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entities.StudySession) error {
	c := *s
	r.sessions = append(r.sessions, &c)
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, userID, sessionID uuid.UUID) (*entities.StudySession, error) {
	for _, s := range r.sessions {
		if s.ID == sessionID && s.UserID == userID {
			c := *s
			return &c, nil
		}
	}
	return nil, repository.ErrSessionNotFound
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, userID uuid.UUID, filter repository.SessionFilter) ([]*entities.StudySession, error) {
	var out []*entities.StudySession
	for _, s := range r.sessions {
		if s.UserID != userID {
			continue
		}
		if filter.Subject != "" && s.Subject != filter.Subject {
			continue
		}
		if filter.CompletedOnly && !s.Completed {
			continue
		}
		if !filter.From.IsZero() && s.OccurredAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && s.OccurredAt.After(filter.To) {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *entities.StudySession) error {
	for i, existing := range r.sessions {
		if existing.ID == s.ID && existing.UserID == s.UserID {
			c := *s
			r.sessions[i] = &c
			return nil
		}
	}
	return repository.ErrSessionNotFound
}

func (r *fakeSessionRepo) Delete(_ context.Context, userID, sessionID uuid.UUID) error {
	for i, s := range r.sessions {
		if s.ID == sessionID && s.UserID == userID {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return nil
		}
	}
	return repository.ErrSessionNotFound
}

type fakeQuizRepo struct {
	results []*entities.QuizResult
}

func (r *fakeQuizRepo) Create(_ context.Context, q *entities.QuizResult) error {
	c := *q
	r.results = append(r.results, &c)
	return nil
}

func (r *fakeQuizRepo) ListByUser(_ context.Context, userID uuid.UUID, filter repository.QuizFilter) ([]*entities.QuizResult, error) {
	var out []*entities.QuizResult
	for _, q := range r.results {
		if q.UserID != userID {
			continue
		}
		if filter.Subject != "" && q.Subject != filter.Subject {
			continue
		}
		c := *q
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeQuizRepo) StatsByUser(_ context.Context, userID uuid.UUID) (repository.QuizStats, error) {
	var stats repository.QuizStats
	for _, q := range r.results {
		if q.UserID != userID {
			continue
		}
		stats.Attempts++
		if q.ScorePercent >= 90 {
			stats.HighScores++
		}
		stats.QuestionsAnswered += q.TotalQuestions
	}
	return stats, nil
}

type fakeCardRepo struct {
	cards map[uuid.UUID]*entities.Flashcard
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: make(map[uuid.UUID]*entities.Flashcard)}
}

func (r *fakeCardRepo) Create(_ context.Context, f *entities.Flashcard) error {
	c := *f
	r.cards[f.ID] = &c
	return nil
}

func (r *fakeCardRepo) GetByID(_ context.Context, userID, cardID uuid.UUID) (*entities.Flashcard, error) {
	f, ok := r.cards[cardID]
	if !ok || f.UserID != userID {
		return nil, repository.ErrFlashcardNotFound
	}
	c := *f
	return &c, nil
}

func (r *fakeCardRepo) ListByUser(_ context.Context, userID uuid.UUID, filter repository.FlashcardFilter) ([]*entities.Flashcard, error) {
	var out []*entities.Flashcard
	for _, f := range r.cards {
		if f.UserID != userID {
			continue
		}
		if filter.Subject != "" && f.Subject != filter.Subject {
			continue
		}
		if filter.Topic != "" && f.Topic != filter.Topic {
			continue
		}
		if !filter.DueAt.IsZero() && f.NextReviewAt.After(filter.DueAt) {
			continue
		}
		c := *f
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextReviewAt.Before(out[j].NextReviewAt) })
	return out, nil
}

func (r *fakeCardRepo) Update(_ context.Context, f *entities.Flashcard) error {
	existing, ok := r.cards[f.ID]
	if !ok || existing.UserID != f.UserID {
		return repository.ErrFlashcardNotFound
	}
	c := *f
	r.cards[f.ID] = &c
	return nil
}

func (r *fakeCardRepo) Delete(_ context.Context, userID, cardID uuid.UUID) error {
	f, ok := r.cards[cardID]
	if !ok || f.UserID != userID {
		return repository.ErrFlashcardNotFound
	}
	delete(r.cards, cardID)
	return nil
}

func (r *fakeCardRepo) TotalReviews(_ context.Context, userID uuid.UUID) (int, error) {
	total := 0
	for _, f := range r.cards {
		if f.UserID == userID {
			total += f.ReviewCount
		}
	}
	return total, nil
}

// fixture wires the services over in-memory fakes with a controllable
// clock.
type fixture struct {
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	quizzes  *fakeQuizRepo
	cards    *fakeCardRepo

	achievements *AchievementService
	progress     *ProgressService
	flashcards   *FlashcardService
	auth         *AuthService
	accounts     *UserService

	now time.Time
}

func newFixture() *fixture {
	f := &fixture{
		users:    newFakeUserRepo(),
		sessions: &fakeSessionRepo{},
		quizzes:  &fakeQuizRepo{},
		cards:    newFakeCardRepo(),
		now:      time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
	}

	tr := passTx{}
	f.achievements = NewAchievementService(f.users, tr)
	f.progress = NewProgressService(f.users, f.sessions, f.quizzes, f.cards, f.achievements, tr)
	f.flashcards = NewFlashcardService(f.cards, f.achievements, tr)
	f.auth = NewAuthService(f.users, f.achievements, NewTokenManager("test-secret", time.Hour))
	f.accounts = NewUserService(f.users, f.achievements, tr)

	f.progress.now = func() time.Time { return f.now }
	f.flashcards.now = func() time.Time { return f.now }
	f.auth.now = func() time.Time { return f.now }

	return f
}

func (f *fixture) addUser() *entities.User {
	u := entities.NewUser("student", "student@example.com", "hash")
	u.TargetGrades = map[string]int{"maths": 7, "english": 6}
	_ = f.users.Create(context.Background(), u)
	return u
}
