package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomfenwick/studytrack/internal/dateutil"
	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/domain/progress"
	"github.com/tomfenwick/studytrack/internal/infra/postgres/repository"
)

// SubjectAnalytics is one subject's slice of the dashboard rollup.
// Confidence here is derived from recent quiz scores, independent of the
// user's self-reported confidence level.
type SubjectAnalytics struct {
	AverageScore float64 `json:"averageScore"`
	Attempts     int     `json:"attempts"`
	Confidence   int     `json:"confidence"`
	Status       string  `json:"status"`
}

// DashboardAnalytics is the headline-numbers payload for the dashboard.
type DashboardAnalytics struct {
	TotalSessions      int                         `json:"totalSessions"`
	TotalQuizzes       int                         `json:"totalQuizzes"`
	AverageScore       float64                     `json:"averageScore"`
	StudyStreak        int                         `json:"studyStreak"`
	TotalStudyHours    float64                     `json:"totalStudyHours"`
	WeeklyGoalHours    int                         `json:"weeklyGoalHours"`
	WeeklyStudyMinutes int                         `json:"weeklyStudyMinutes"`
	TotalFlashcards    int                         `json:"totalFlashcards"`
	DueFlashcards      int                         `json:"dueFlashcards"`
	Subjects           map[string]SubjectAnalytics `json:"subjects"`
}

// GetDashboardAnalytics computes the headline numbers: lifetime totals,
// this week's study minutes and per-subject quiz performance.
func (s *ProgressService) GetDashboardAnalytics(ctx context.Context, userID uuid.UUID) (*DashboardAnalytics, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	var (
		sessions []*entities.StudySession
		quizzes  []*entities.QuizResult
		cards    []*entities.Flashcard
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.sessions.ListByUser(gctx, userID, repository.SessionFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		quizzes, err = s.quizzes.ListByUser(gctx, userID, repository.QuizFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = s.flashcards.ListByUser(gctx, userID, repository.FlashcardFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := DashboardAnalytics{
		TotalSessions:   len(sessions),
		TotalQuizzes:    len(quizzes),
		StudyStreak:     user.StudyStreak,
		TotalStudyHours: user.TotalStudyHours,
		WeeklyGoalHours: progress.WeeklyGoalHours(user.TargetGrades),
		Subjects:        make(map[string]SubjectAnalytics),
	}

	for _, sess := range sessions {
		if dateutil.WithinDays(sess.OccurredAt, now, 7) {
			out.WeeklyStudyMinutes += sess.DurationMinutes
		}
	}

	out.TotalFlashcards = len(cards)
	for _, card := range cards {
		if card.Due(now) {
			out.DueFlashcards++
		}
	}

	scoresBySubject := make(map[string][]float64)
	var scoreTotal float64
	for _, quiz := range quizzes {
		scoresBySubject[quiz.Subject] = append(scoresBySubject[quiz.Subject], quiz.ScorePercent)
		scoreTotal += quiz.ScorePercent
	}
	if len(quizzes) > 0 {
		out.AverageScore = scoreTotal / float64(len(quizzes))
	}

	for subject, scores := range scoresBySubject {
		var sum float64
		for _, score := range scores {
			sum += score
		}
		avg := sum / float64(len(scores))
		out.Subjects[subject] = SubjectAnalytics{
			AverageScore: avg,
			Attempts:     len(scores),
			Confidence:   progress.ConfidenceFromScores(scores),
			Status:       progress.StatusLabel(user.SubjectRecord(subject).Progress),
		}
	}

	return &out, nil
}
