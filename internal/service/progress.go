package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomfenwick/studytrack/internal/dateutil"
	"github.com/tomfenwick/studytrack/internal/domain/achievements"
	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/domain/progress"
	"github.com/tomfenwick/studytrack/internal/infra/postgres"
	"github.com/tomfenwick/studytrack/internal/infra/postgres/repository"
)

// quickQuizSecondsPerQuestion is the pace under which a quiz counts as a
// quick completion for the speed achievement.
const quickQuizSecondsPerQuestion = 30

// recentActivityLimit caps the merged activity feed.
const recentActivityLimit = 10

// RecordSessionInput is the payload for recording a study session.
type RecordSessionInput struct {
	Subject         string `json:"subject"`
	Topic           string `json:"topic"`
	SessionType     string `json:"sessionType"`
	DurationMinutes int    `json:"durationMinutes"`
	Notes           string `json:"notes"`
	Completed       bool   `json:"completed"`
}

// RecordQuizInput is the payload for recording a quiz attempt.
type RecordQuizInput struct {
	Subject          string  `json:"subject"`
	Topic            string  `json:"topic"`
	ScorePercent     float64 `json:"scorePercent"`
	CorrectAnswers   int     `json:"correctAnswers"`
	TotalQuestions   int     `json:"totalQuestions"`
	TimeSpentSeconds int     `json:"timeSpentSeconds"`
}

// SessionRecorded is what recording a session returns to the caller.
type SessionRecorded struct {
	Session         *entities.StudySession    `json:"session"`
	Streak          int                       `json:"streak"`
	TotalStudyHours float64                   `json:"totalStudyHours"`
	NewAchievements []achievements.Definition `json:"newAchievements"`
}

// QuizRecorded is what recording a quiz result returns to the caller.
type QuizRecorded struct {
	Result          *entities.QuizResult      `json:"result"`
	UpdatedProgress entities.SubjectProgress  `json:"updatedProgress"`
	NewAchievements []achievements.Definition `json:"newAchievements"`
}

// ActivityItem is one entry of the merged recent-activity feed.
type ActivityItem struct {
	Type    string    `json:"type"` // "quiz" or "study"
	Subject string    `json:"subject"`
	Topic   string    `json:"topic"`
	Details string    `json:"details"`
	Date    time.Time `json:"date"`
}

// OverallStats is the top block of the progress report.
type OverallStats struct {
	Progress        int                `json:"progress"`
	StudyTime       progress.TimeSpent `json:"studyTime"`
	StudyStreak     int                `json:"studyStreak"`
	WeeklyGoalHours int                `json:"weeklyGoalHours"`
}

// SubjectView extends the aggregator snapshot with the grade prediction.
type SubjectView struct {
	progress.Snapshot
	PredictedGrade int `json:"predictedGrade"`
}

// ProgressReport is the full dashboard payload.
type ProgressReport struct {
	Overall        OverallStats           `json:"overall"`
	Subjects       map[string]SubjectView `json:"subjects"`
	RecentActivity []ActivityItem         `json:"recentActivity"`
	Achievements   *AchievementReport     `json:"achievements"`
}

// SubjectPerformance is a subject's aggregate quiz outcome over a week.
type SubjectPerformance struct {
	AverageScore float64 `json:"averageScore"`
	Attempts     int     `json:"attempts"`
}

// WeeklyReport buckets the last seven days of activity. DailyStudyMinutes
// is indexed by day offset with today at index 6.
type WeeklyReport struct {
	DailyStudyMinutes  [7]int                        `json:"dailyStudyMinutes"`
	SubjectPerformance map[string]SubjectPerformance `json:"subjectPerformance"`
	TotalStudyMinutes  int                           `json:"totalStudyMinutes"`
	QuizzesTaken       int                           `json:"quizzesTaken"`
}

// UpdateProgressInput carries an explicit per-subject progress update. Nil
// fields are left untouched.
type UpdateProgressInput struct {
	Progress   *float64 `json:"progress"`
	Confidence *int     `json:"confidence"`
	Grade      *int     `json:"grade"`
}

// ProgressService orchestrates the recording operations: it owns the
// transactional update of the user's aggregate record and feeds the
// achievement engine after every mutation.
type ProgressService struct {
	users        UserRepository
	sessions     SessionRepository
	quizzes      QuizResultRepository
	flashcards   FlashcardRepository
	achievements *AchievementService
	tr           Transactor

	now func() time.Time
}

func NewProgressService(
	users UserRepository,
	sessions SessionRepository,
	quizzes QuizResultRepository,
	flashcards FlashcardRepository,
	achievementSvc *AchievementService,
	tr Transactor,
) *ProgressService {
	return &ProgressService{
		users:        users,
		sessions:     sessions,
		quizzes:      quizzes,
		flashcards:   flashcards,
		achievements: achievementSvc,
		tr:           tr,
		now:          time.Now,
	}
}

// RecordStudySession persists a session and folds it into the user's
// aggregates: total hours, last study date, streak and any achievements the
// new statistics unlock. The whole update is atomic per user.
func (s *ProgressService) RecordStudySession(ctx context.Context, userID uuid.UUID, input RecordSessionInput) (*SessionRecorded, error) {
	if input.DurationMinutes <= 0 {
		return nil, invalidf("durationMinutes", "must be positive")
	}
	if !KnownSubject(input.Subject) {
		return nil, invalidf("subject", "unrecognized subject %q", input.Subject)
	}

	now := s.now()
	session := entities.NewStudySession(userID, input.Subject, input.Topic, input.SessionType, input.DurationMinutes, now)
	session.Notes = input.Notes
	session.Completed = input.Completed

	var out SessionRecorded
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if err := s.sessions.Create(ctx, session); err != nil {
			return err
		}

		user.TotalStudyHours += session.DurationHours()
		user.LastStudyDate = &now

		streak, err := s.currentStreak(ctx, userID, now)
		if err != nil {
			return err
		}
		user.StudyStreak = streak

		snapshot := s.baseSnapshot(user)
		snapshot.SessionRecorded = true
		snapshot.SessionHour = now.Hour()
		newAchievements := s.achievements.Unlock(user, snapshot)

		if err := s.users.Update(ctx, user); err != nil {
			return err
		}

		out = SessionRecorded{
			Session:         session,
			Streak:          streak,
			TotalStudyHours: user.TotalStudyHours,
			NewAchievements: newAchievements,
		}
		return nil
	})
	if err != nil {
		return nil, conflictOr(err)
	}

	return &out, nil
}

// RecordQuizResult persists a quiz attempt, applies the capped progress
// bump for its subject and evaluates quiz-driven achievements.
func (s *ProgressService) RecordQuizResult(ctx context.Context, userID uuid.UUID, input RecordQuizInput) (*QuizRecorded, error) {
	if input.ScorePercent < 0 || input.ScorePercent > 100 {
		return nil, invalidf("scorePercent", "must be between 0 and 100")
	}
	if !KnownSubject(input.Subject) {
		return nil, invalidf("subject", "unrecognized subject %q", input.Subject)
	}
	if input.TotalQuestions <= 0 {
		return nil, invalidf("totalQuestions", "must be positive")
	}
	if input.CorrectAnswers < 0 || input.CorrectAnswers > input.TotalQuestions {
		return nil, invalidf("correctAnswers", "must be between 0 and totalQuestions")
	}

	now := s.now()
	result := entities.NewQuizResult(
		userID, input.Subject, input.Topic, input.ScorePercent,
		input.CorrectAnswers, input.TotalQuestions, input.TimeSpentSeconds, now,
	)

	var out QuizRecorded
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if err := s.quizzes.Create(ctx, result); err != nil {
			return err
		}

		record := user.SubjectRecord(input.Subject)
		record.Progress = progress.BumpProgress(record.Progress, input.ScorePercent)
		user.SetSubjectRecord(input.Subject, record)

		stats, err := s.quizzes.StatsByUser(ctx, userID)
		if err != nil {
			return err
		}

		snapshot := s.baseSnapshot(user)
		snapshot.QuizTaken = true
		snapshot.QuizScore = input.ScorePercent
		snapshot.FirstQuiz = stats.Attempts == 1
		snapshot.HighScoreCount = stats.HighScores
		snapshot.QuestionsAnswered = stats.QuestionsAnswered
		snapshot.QuickCompletion = input.TimeSpentSeconds > 0 &&
			input.TimeSpentSeconds < input.TotalQuestions*quickQuizSecondsPerQuestion
		newAchievements := s.achievements.Unlock(user, snapshot)

		if err := s.users.Update(ctx, user); err != nil {
			return err
		}

		out = QuizRecorded{
			Result:          result,
			UpdatedProgress: record,
			NewAchievements: newAchievements,
		}
		return nil
	})
	if err != nil {
		return nil, conflictOr(err)
	}

	return &out, nil
}

// UpdateSubjectProgress applies an explicit per-subject update (the manual
// reset path) and re-evaluates mastery achievements.
func (s *ProgressService) UpdateSubjectProgress(ctx context.Context, userID uuid.UUID, subject string, input UpdateProgressInput) (entities.SubjectProgress, []achievements.Definition, error) {
	if !KnownSubject(subject) {
		return entities.SubjectProgress{}, nil, invalidf("subject", "unrecognized subject %q", subject)
	}
	if input.Progress != nil && (*input.Progress < 0 || *input.Progress > 100) {
		return entities.SubjectProgress{}, nil, invalidf("progress", "must be between 0 and 100")
	}
	if input.Confidence != nil && (*input.Confidence < 1 || *input.Confidence > 5) {
		return entities.SubjectProgress{}, nil, invalidf("confidence", "must be between 1 and 5")
	}
	if input.Grade != nil && (*input.Grade < 1 || *input.Grade > 9) {
		return entities.SubjectProgress{}, nil, invalidf("grade", "must be between 1 and 9")
	}

	var (
		record entities.SubjectProgress
		newly  []achievements.Definition
	)
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		record = user.SubjectRecord(subject)
		if input.Progress != nil {
			record.Progress = *input.Progress
		}
		if input.Confidence != nil {
			record.Confidence = *input.Confidence
		}
		if input.Grade != nil {
			record.Grade = *input.Grade
		}
		user.SetSubjectRecord(subject, record)

		newly = s.achievements.Unlock(user, s.baseSnapshot(user))

		return s.users.Update(ctx, user)
	})
	if err != nil {
		return entities.SubjectProgress{}, nil, conflictOr(err)
	}

	return record, newly, nil
}

// GetUserProgress assembles the dashboard report. The session and quiz
// histories are independent reads and fetched concurrently.
func (s *ProgressService) GetUserProgress(ctx context.Context, userID uuid.UUID) (*ProgressReport, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		sessions []*entities.StudySession
		quizzes  []*entities.QuizResult
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
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	var totalMinutes int
	completed := make([]*entities.StudySession, 0, len(sessions))
	for _, sess := range sessions {
		totalMinutes += sess.DurationMinutes
		if sess.Completed {
			completed = append(completed, sess)
		}
	}

	subjects := make(map[string]SubjectView, len(user.Progress))
	for subject, record := range user.Progress {
		snap := progress.SubjectSnapshot(subject, record, sessions, quizzes, user.TargetGrades[subject])
		subjects[subject] = SubjectView{
			Snapshot:       snap,
			PredictedGrade: progress.PredictedGrade(record.Progress, record.Confidence),
		}
	}

	return &ProgressReport{
		Overall: OverallStats{
			Progress:        progress.Overall(user.Progress),
			StudyTime:       progress.SplitMinutes(totalMinutes),
			StudyStreak:     progress.Streak(completed, now),
			WeeklyGoalHours: progress.WeeklyGoalHours(user.TargetGrades),
		},
		Subjects:       subjects,
		RecentActivity: mergeActivity(sessions, quizzes, recentActivityLimit),
		Achievements:   BuildAchievementReport(user.Achievements),
	}, nil
}

// ListSessions returns the user's sessions, most recent first, optionally
// narrowed to one subject.
func (s *ProgressService) ListSessions(ctx context.Context, userID uuid.UUID, subject string, limit int) ([]*entities.StudySession, error) {
	if subject != "" && !KnownSubject(subject) {
		return nil, invalidf("subject", "unrecognized subject %q", subject)
	}
	return s.sessions.ListByUser(ctx, userID, repository.SessionFilter{Subject: subject, Limit: limit})
}

// ListQuizResults returns the user's quiz history, most recent first.
func (s *ProgressService) ListQuizResults(ctx context.Context, userID uuid.UUID, subject string, limit int) ([]*entities.QuizResult, error) {
	if subject != "" && !KnownSubject(subject) {
		return nil, invalidf("subject", "unrecognized subject %q", subject)
	}
	return s.quizzes.ListByUser(ctx, userID, repository.QuizFilter{Subject: subject, Limit: limit})
}

// RecentActivity returns the merged quiz/session feed, most recent first.
func (s *ProgressService) RecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]ActivityItem, error) {
	if limit <= 0 {
		limit = recentActivityLimit
	}

	var (
		sessions []*entities.StudySession
		quizzes  []*entities.QuizResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.sessions.ListByUser(gctx, userID, repository.SessionFilter{Limit: limit})
		return err
	})
	g.Go(func() error {
		var err error
		quizzes, err = s.quizzes.ListByUser(gctx, userID, repository.QuizFilter{Limit: limit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeActivity(sessions, quizzes, limit), nil
}

// GetWeeklyReport buckets the last seven days of sessions into per-day
// minutes (today at index 6) and averages quiz scores per subject.
func (s *ProgressService) GetWeeklyReport(ctx context.Context, userID uuid.UUID) (*WeeklyReport, error) {
	now := s.now()
	weekAgo := now.Add(-7 * dateutil.Day)

	var (
		sessions []*entities.StudySession
		quizzes  []*entities.QuizResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.sessions.ListByUser(gctx, userID, repository.SessionFilter{From: weekAgo, To: now})
		return err
	})
	g.Go(func() error {
		var err error
		quizzes, err = s.quizzes.ListByUser(gctx, userID, repository.QuizFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := WeeklyReport{SubjectPerformance: make(map[string]SubjectPerformance)}
	for _, sess := range sessions {
		if idx := dateutil.DayOffset(sess.OccurredAt, now); idx >= 0 {
			report.DailyStudyMinutes[idx] += sess.DurationMinutes
			report.TotalStudyMinutes += sess.DurationMinutes
		}
	}

	totals := make(map[string]float64)
	for _, quiz := range quizzes {
		if !dateutil.WithinDays(quiz.OccurredAt, now, 7) {
			continue
		}
		perf := report.SubjectPerformance[quiz.Subject]
		perf.Attempts++
		totals[quiz.Subject] += quiz.ScorePercent
		report.SubjectPerformance[quiz.Subject] = perf
		report.QuizzesTaken++
	}
	for subject, perf := range report.SubjectPerformance {
		perf.AverageScore = totals[subject] / float64(perf.Attempts)
		report.SubjectPerformance[subject] = perf
	}

	return &report, nil
}

// UpdateSession flips the completed flag (one-way) and/or replaces the
// notes. Completing a session refreshes the streak and achievements.
func (s *ProgressService) UpdateSession(ctx context.Context, userID, sessionID uuid.UUID, completed *bool, notes *string) (*SessionRecorded, error) {
	var out SessionRecorded
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		session, err := s.sessions.GetByID(ctx, userID, sessionID)
		if err != nil {
			return err
		}

		completing := completed != nil && *completed && !session.Completed
		if completing {
			session.Complete()
		}
		if notes != nil {
			session.Notes = *notes
		}
		if err := s.sessions.Update(ctx, session); err != nil {
			return err
		}

		var newAchievements []achievements.Definition
		if completing {
			now := s.now()
			streak, err := s.currentStreak(ctx, userID, now)
			if err != nil {
				return err
			}
			user.StudyStreak = streak
			user.LastStudyDate = &now

			snapshot := s.baseSnapshot(user)
			snapshot.SessionRecorded = true
			snapshot.SessionHour = session.OccurredAt.Hour()
			newAchievements = s.achievements.Unlock(user, snapshot)

			if err := s.users.Update(ctx, user); err != nil {
				return err
			}
		}

		out = SessionRecorded{
			Session:         session,
			Streak:          user.StudyStreak,
			TotalStudyHours: user.TotalStudyHours,
			NewAchievements: newAchievements,
		}
		return nil
	})
	if err != nil {
		return nil, conflictOr(err)
	}

	return &out, nil
}

// DeleteSession removes a session at the user's request and reverses its
// contribution to the aggregate totals.
func (s *ProgressService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		session, err := s.sessions.GetByID(ctx, userID, sessionID)
		if err != nil {
			return err
		}

		if err := s.sessions.Delete(ctx, userID, sessionID); err != nil {
			return err
		}

		user.TotalStudyHours -= session.DurationHours()
		if user.TotalStudyHours < 0 {
			user.TotalStudyHours = 0
		}

		streak, err := s.currentStreak(ctx, userID, s.now())
		if err != nil {
			return err
		}
		user.StudyStreak = streak

		return s.users.Update(ctx, user)
	})
	return conflictOr(err)
}

// RefreshStreak recomputes and persists the stored streak for one user.
// The nightly maintenance job calls this so lapsed streaks do not linger.
func (s *ProgressService) RefreshStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	var streak int
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		streak, err = s.currentStreak(ctx, userID, s.now())
		if err != nil {
			return err
		}
		if streak == user.StudyStreak {
			return nil
		}
		user.StudyStreak = streak
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return 0, conflictOr(err)
	}
	return streak, nil
}

func (s *ProgressService) currentStreak(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	completed, err := s.sessions.ListByUser(ctx, userID, repository.SessionFilter{CompletedOnly: true})
	if err != nil {
		return 0, err
	}
	return progress.Streak(completed, now), nil
}

// baseSnapshot captures the statistics every evaluation needs, regardless
// of which operation triggered it.
func (s *ProgressService) baseSnapshot(user *entities.User) achievements.StatSnapshot {
	subjectProgress := make(map[string]float64, len(user.Progress))
	allMoving := len(user.Progress) > 0
	for subject := range validSubjects {
		rec, tracked := user.Progress[subject]
		if !tracked || rec.Progress <= 0 {
			allMoving = false
		}
	}
	for subject, rec := range user.Progress {
		subjectProgress[subject] = rec.Progress
	}

	return achievements.StatSnapshot{
		Streak:            user.StudyStreak,
		TotalStudyHours:   user.TotalStudyHours,
		SubjectProgress:   subjectProgress,
		AllSubjectsMoving: allMoving,
	}
}

func mergeActivity(sessions []*entities.StudySession, quizzes []*entities.QuizResult, limit int) []ActivityItem {
	items := make([]ActivityItem, 0, len(sessions)+len(quizzes))
	for _, q := range quizzes {
		items = append(items, ActivityItem{
			Type:    "quiz",
			Subject: q.Subject,
			Topic:   q.Topic,
			Details: fmtScore(q.ScorePercent),
			Date:    q.OccurredAt,
		})
	}
	for _, sess := range sessions {
		items = append(items, ActivityItem{
			Type:    "study",
			Subject: sess.Subject,
			Topic:   sess.Topic,
			Details: "Duration: " + progress.FormatMinutes(sess.DurationMinutes),
			Date:    sess.OccurredAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func fmtScore(score float64) string {
	return "Score: " + strconv.FormatFloat(score, 'f', -1, 64) + "%"
}

// conflictOr translates storage-level serialization failures into the
// service conflict error; anything else passes through.
func conflictOr(err error) error {
	if err == nil {
		return nil
	}
	if postgres.IsConflict(err) {
		return ErrConflict
	}
	return err
}
