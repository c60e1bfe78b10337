package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tomfenwick/studytrack/internal/domain/entities"
)

func TestOverall(t *testing.T) {
	tests := []struct {
		name    string
		records map[string]entities.SubjectProgress
		want    int
	}{
		{"no subjects", nil, 0},
		{"only untouched subjects", map[string]entities.SubjectProgress{
			"maths": {}, "french": {},
		}, 0},
		{"mean over tracked subjects", map[string]entities.SubjectProgress{
			"maths":   {Progress: 80},
			"english": {Progress: 60},
			"french":  {}, // untracked, excluded from the mean
		}, 70},
		{"rounds to nearest", map[string]entities.SubjectProgress{
			"maths":   {Progress: 50},
			"english": {Progress: 51},
		}, 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overall(tt.records)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestStatusLabelBoundaries(t *testing.T) {
	assert.Equal(t, StatusExpert, StatusLabel(90))
	assert.Equal(t, StatusAdvanced, StatusLabel(89.9))
	assert.Equal(t, StatusAdvanced, StatusLabel(75))
	assert.Equal(t, StatusIntermediate, StatusLabel(74.9))
	assert.Equal(t, StatusIntermediate, StatusLabel(50))
	assert.Equal(t, StatusBeginner, StatusLabel(49.9))
	assert.Equal(t, StatusBeginner, StatusLabel(0))
}

func TestPredictedGrade(t *testing.T) {
	assert.Equal(t, 4, PredictedGrade(0, 0))
	assert.Equal(t, 4, PredictedGrade(0, 1))
	assert.Equal(t, 5, PredictedGrade(0, 2))
	assert.Equal(t, 9, PredictedGrade(100, 5)) // clamped
	assert.Equal(t, 8, PredictedGrade(35, 3))  // 3 + 4 + 1
}

func TestPredictedGradeMonotoneAndBounded(t *testing.T) {
	prev := 0
	for p := 0.0; p <= 100; p += 5 {
		g := PredictedGrade(p, 3)
		assert.GreaterOrEqual(t, g, prev)
		assert.GreaterOrEqual(t, g, 1)
		assert.LessOrEqual(t, g, 9)
		prev = g
	}
	for c := 0; c <= 5; c++ {
		assert.LessOrEqual(t, PredictedGrade(50, c), PredictedGrade(50, c+1))
	}
}

func TestWeeklyGoalHours(t *testing.T) {
	tests := []struct {
		name    string
		targets map[string]int
		want    int
	}{
		{"no targets floors at five", nil, 5},
		{"single ambitious target", map[string]int{"maths": 9}, 15},
		{"average across subjects", map[string]int{"maths": 9, "english": 5}, 11}, // (15+6)/2 rounded
		{"unmapped grades excluded", map[string]int{"maths": 8, "art": 2}, 12},
		{"low targets floor at five", map[string]int{"maths": 4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeeklyGoalHours(tt.targets))
		})
	}
}

func TestBumpProgressSaturates(t *testing.T) {
	assert.InDelta(t, 55, BumpProgress(50, 100), 1e-9)
	assert.InDelta(t, 52.5, BumpProgress(50, 50), 1e-9)
	assert.InDelta(t, 50, BumpProgress(50, 0), 1e-9)

	// Repeated perfect scores converge to exactly 100, never beyond.
	p := 0.0
	for i := 0; i < 40; i++ {
		next := BumpProgress(p, 100)
		assert.GreaterOrEqual(t, next, p)
		p = next
	}
	assert.Equal(t, 100.0, p)
	assert.Equal(t, 100.0, BumpProgress(100, 100))
}

func TestSubjectSnapshot(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)

	sessions := []*entities.StudySession{
		entities.NewStudySession(userID, "maths", "algebra", entities.SessionRevision, 90, now),
		entities.NewStudySession(userID, "maths", "geometry", entities.SessionPractice, 45, now.AddDate(0, 0, -1)),
		entities.NewStudySession(userID, "english", "poetry", entities.SessionRevision, 60, now),
	}

	var quizzes []*entities.QuizResult
	for i, score := range []float64{40, 50, 60, 70, 80, 90} {
		quizzes = append(quizzes, entities.NewQuizResult(
			userID, "maths", "algebra", score, int(score/10), 10, 300,
			now.AddDate(0, 0, -6+i),
		))
	}
	quizzes = append(quizzes, entities.NewQuizResult(userID, "english", "poetry", 100, 10, 10, 200, now))

	snap := SubjectSnapshot("maths", entities.SubjectProgress{Progress: 76, Confidence: 4, Grade: 7}, sessions, quizzes, 8)

	assert.Equal(t, "maths", snap.Subject)
	assert.Equal(t, StatusAdvanced, snap.Status)
	assert.Equal(t, 8, snap.TargetGrade)
	assert.Equal(t, TimeSpent{Hours: 2, Minutes: 15}, snap.TimeSpent)
	// Last five scores, most recent first; the oldest quiz and the english
	// one are excluded.
	assert.Equal(t, []float64{90, 80, 70, 60, 50}, snap.RecentScores)
}

func TestConfidenceFromScores(t *testing.T) {
	assert.Equal(t, 0, ConfidenceFromScores(nil))
	assert.Equal(t, 5, ConfidenceFromScores([]float64{100, 90}))
	assert.Equal(t, 3, ConfidenceFromScores([]float64{50, 50}))
	assert.Equal(t, 1, ConfidenceFromScores([]float64{10}))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h 15m", FormatMinutes(135))
	assert.Equal(t, "0m", FormatMinutes(0))
}
