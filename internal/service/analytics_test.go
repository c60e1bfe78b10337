package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardAnalytics(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	ctx := context.Background()

	_, err := f.progress.RecordStudySession(ctx, user.ID, RecordSessionInput{
		Subject: "maths", DurationMinutes: 50, Completed: true,
	})
	require.NoError(t, err)

	_, err = f.progress.RecordQuizResult(ctx, user.ID, RecordQuizInput{
		Subject: "maths", ScorePercent: 60, CorrectAnswers: 6, TotalQuestions: 10,
	})
	require.NoError(t, err)
	_, err = f.progress.RecordQuizResult(ctx, user.ID, RecordQuizInput{
		Subject: "maths", ScorePercent: 80, CorrectAnswers: 8, TotalQuestions: 10,
	})
	require.NoError(t, err)

	_, err = f.flashcards.Create(ctx, user.ID, CreateFlashcardInput{
		Subject: "maths", Front: "7x8", Back: "56",
	})
	require.NoError(t, err)

	out, err := f.progress.GetDashboardAnalytics(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, out.TotalSessions)
	assert.Equal(t, 2, out.TotalQuizzes)
	assert.InDelta(t, 70.0, out.AverageScore, 1e-9)
	assert.Equal(t, 1, out.StudyStreak)
	assert.Equal(t, 50, out.WeeklyStudyMinutes)
	assert.Equal(t, 9, out.WeeklyGoalHours)
	assert.Equal(t, 1, out.TotalFlashcards)
	assert.Equal(t, 1, out.DueFlashcards)

	maths, ok := out.Subjects["maths"]
	require.True(t, ok)
	assert.Equal(t, 2, maths.Attempts)
	assert.InDelta(t, 70.0, maths.AverageScore, 1e-9)
	// ceil(70/20) = 4
	assert.Equal(t, 4, maths.Confidence)
	assert.Equal(t, "Beginner", maths.Status)
}

func TestGetDashboardAnalyticsEmpty(t *testing.T) {
	f := newFixture()
	user := f.addUser()

	out, err := f.progress.GetDashboardAnalytics(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, out.TotalSessions)
	assert.Zero(t, out.AverageScore)
	assert.Empty(t, out.Subjects)
}
