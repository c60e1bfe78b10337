// Package progress holds the pure rollup calculations behind the dashboard:
// per-subject snapshots, overall progress, grade prediction, weekly goals and
// study streaks. Everything here is deterministic over its inputs; callers
// pass the clock in.
package progress

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomfenwick/studytrack/internal/domain/entities"
)

// Status labels bucket subject progress into four tiers, inclusive on the
// lower bound.
const (
	StatusExpert       = "Expert"
	StatusAdvanced     = "Advanced"
	StatusIntermediate = "Intermediate"
	StatusBeginner     = "Beginner"
)

// maxQuizBump caps how many percentage points a single quiz can add.
const maxQuizBump = 5.0

// weeklyGoalBaseHours maps a subject's target grade to its base weekly-hour
// requirement. Grades below 4 carry no requirement.
var weeklyGoalBaseHours = map[int]int{
	9: 15,
	8: 12,
	7: 10,
	6: 8,
	5: 6,
	4: 5,
}

// minWeeklyGoalHours is the floor applied to the averaged weekly goal.
const minWeeklyGoalHours = 5

// TimeSpent is a study duration split into whole hours and leftover minutes.
type TimeSpent struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// Snapshot is the per-subject rollup shown on the dashboard.
type Snapshot struct {
	Subject      string    `json:"subject"`
	Progress     float64   `json:"progress"`
	Confidence   int       `json:"confidence"`
	Grade        int       `json:"grade"`
	TargetGrade  int       `json:"targetGrade"`
	RecentScores []float64 `json:"recentScores"` // last 5 quiz scores, most recent first
	TimeSpent    TimeSpent `json:"timeSpent"`
	Status       string    `json:"status"`
}

// Overall returns the rounded mean progress across subjects that have a
// recorded value. Untracked users get 0, never a division by zero.
func Overall(records map[string]entities.SubjectProgress) int {
	var total float64
	var count int
	for _, rec := range records {
		if rec.Progress > 0 {
			total += rec.Progress
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(total / float64(count)))
}

// StatusLabel buckets a progress percentage into its tier.
func StatusLabel(progress float64) string {
	switch {
	case progress >= 90:
		return StatusExpert
	case progress >= 75:
		return StatusAdvanced
	case progress >= 50:
		return StatusIntermediate
	default:
		return StatusBeginner
	}
}

// SubjectSnapshot assembles the dashboard rollup for one subject from the
// user's record and their raw session/quiz history. Sessions and quizzes for
// other subjects are ignored.
func SubjectSnapshot(
	subject string,
	record entities.SubjectProgress,
	sessions []*entities.StudySession,
	quizzes []*entities.QuizResult,
	targetGrade int,
) Snapshot {
	var minutes int
	for _, s := range sessions {
		if s.Subject == subject {
			minutes += s.DurationMinutes
		}
	}

	subjectQuizzes := make([]*entities.QuizResult, 0, len(quizzes))
	for _, q := range quizzes {
		if q.Subject == subject {
			subjectQuizzes = append(subjectQuizzes, q)
		}
	}
	sort.Slice(subjectQuizzes, func(i, j int) bool {
		return subjectQuizzes[i].OccurredAt.After(subjectQuizzes[j].OccurredAt)
	})
	recent := make([]float64, 0, 5)
	for _, q := range subjectQuizzes {
		if len(recent) == 5 {
			break
		}
		recent = append(recent, q.ScorePercent)
	}

	return Snapshot{
		Subject:      subject,
		Progress:     record.Progress,
		Confidence:   record.Confidence,
		Grade:        record.Grade,
		TargetGrade:  targetGrade,
		RecentScores: recent,
		TimeSpent:    SplitMinutes(minutes),
		Status:       StatusLabel(record.Progress),
	}
}

// PredictedGrade estimates a grade from progress and confidence:
// floor(progress/10) + 4, plus up to 2 for confidence, clamped to 1..9.
// Monotonically non-decreasing in both inputs.
func PredictedGrade(progress float64, confidence int) int {
	bonus := confidence / 2
	if bonus > 2 {
		bonus = 2
	}
	grade := int(progress/10) + 4 + bonus
	if grade > 9 {
		grade = 9
	}
	if grade < 1 {
		grade = 1
	}
	return grade
}

// WeeklyGoalHours averages the base weekly-hour requirement over subjects
// whose target grade has a mapping; unmapped subjects are excluded, not
// counted as zero. The result never drops below five hours.
func WeeklyGoalHours(targetGrades map[string]int) int {
	var total, count int
	for _, grade := range targetGrades {
		if hours, ok := weeklyGoalBaseHours[grade]; ok {
			total += hours
			count++
		}
	}
	if count == 0 {
		return minWeeklyGoalHours
	}
	goal := int(math.Round(float64(total) / float64(count)))
	if goal < minWeeklyGoalHours {
		goal = minWeeklyGoalHours
	}
	return goal
}

// BumpProgress applies the quiz-driven progress increase: at most five
// percentage points per quiz, never decreasing, saturating at 100.
func BumpProgress(current, scorePercent float64) float64 {
	next := current + (scorePercent/100)*maxQuizBump
	if next > 100 {
		return 100
	}
	if next < current {
		return current
	}
	return next
}

// ConfidenceFromScores converts recent quiz scores into the 1-5 confidence
// scale (ceil of the average over 20). No scores yet means no confidence.
func ConfidenceFromScores(scores []float64) int {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return int(math.Ceil(sum / float64(len(scores)) / 20))
}

// SplitMinutes breaks total minutes into hours and leftover minutes.
func SplitMinutes(totalMinutes int) TimeSpent {
	return TimeSpent{Hours: totalMinutes / 60, Minutes: totalMinutes % 60}
}

// FormatMinutes renders a duration the way the dashboard shows it: "2h 15m",
// or "45m" under an hour.
func FormatMinutes(totalMinutes int) string {
	ts := SplitMinutes(totalMinutes)
	if ts.Hours > 0 {
		return fmt.Sprintf("%dh %dm", ts.Hours, ts.Minutes)
	}
	return fmt.Sprintf("%dm", ts.Minutes)
}
