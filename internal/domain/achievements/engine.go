package achievements

import "sort"

// StatSnapshot carries the user statistics the unlock predicates read. Zero
// values are valid: a fresh user simply satisfies nothing.
type StatSnapshot struct {
	Streak          int
	TotalStudyHours float64

	QuizScore         float64 // score of the quiz being recorded, if any
	QuizTaken         bool    // whether this snapshot includes a quiz attempt
	FirstQuiz         bool
	HighScoreCount    int  // quizzes at 90% or above, lifetime
	QuickCompletion   bool // finished well under the expected time
	QuestionsAnswered int  // lifetime total

	SubjectProgress   map[string]float64 // subject -> progress percent
	AllSubjectsMoving bool               // every tracked subject above zero

	FlashcardReviews int // lifetime review count

	SessionRecorded bool
	SessionHour     int // hour-of-day of the session being recorded
}

// Predicate decides whether a snapshot satisfies one achievement's unlock
// condition. Predicates are pure and evaluated independently on every call,
// so a user who jumps past several thresholds at once earns all of them.
type Predicate func(StatSnapshot) bool

func streakAtLeast(days int) Predicate {
	return func(s StatSnapshot) bool { return s.Streak >= days }
}

func hoursAtLeast(hours float64) Predicate {
	return func(s StatSnapshot) bool { return s.TotalStudyHours >= hours }
}

func subjectMastered(subject string) Predicate {
	return func(s StatSnapshot) bool { return s.SubjectProgress[subject] >= 90 }
}

// predicates is the single declarative unlock table, keyed by achievement
// ID. Catalog entries without an entry here (profile_complete, video_viewer,
// note_taker, helping_hand, first_login) are awarded explicitly by the flows
// that observe those events.
var predicates = map[string]Predicate{
	"study_streak_3":  streakAtLeast(3),
	"study_streak_7":  streakAtLeast(7),
	"study_streak_30": streakAtLeast(30),

	"study_hours_10":  hoursAtLeast(10),
	"study_hours_50":  hoursAtLeast(50),
	"study_hours_100": hoursAtLeast(100),

	"first_quiz_complete": func(s StatSnapshot) bool { return s.QuizTaken && s.FirstQuiz },
	"perfect_score":       func(s StatSnapshot) bool { return s.QuizTaken && s.QuizScore == 100 },
	"test_ace":            func(s StatSnapshot) bool { return s.HighScoreCount >= 5 },
	"speed_demon":         func(s StatSnapshot) bool { return s.QuizTaken && s.QuickCompletion && s.QuizScore >= 85 },

	"math_master":     subjectMastered("maths"),
	"english_expert":  subjectMastered("english"),
	"science_sage":    subjectMastered("science"),
	"geography_guru":  subjectMastered("geography"),
	"french_fluent":   subjectMastered("french"),
	"coding_champion": subjectMastered("computerscience"),

	"all_subjects_progress":  func(s StatSnapshot) bool { return s.AllSubjectsMoving },
	"practice_makes_perfect": func(s StatSnapshot) bool { return s.QuestionsAnswered >= 50 },
	"flash_master":           func(s StatSnapshot) bool { return s.FlashcardReviews >= 100 },
	"early_bird":             func(s StatSnapshot) bool { return s.SessionRecorded && s.SessionHour < 9 },
}

// Satisfied returns the catalog entries whose predicate holds for the
// snapshot and that are not in the earned set, in catalog order. Running it
// twice over the same inputs returns the same list; adding the result to the
// earned set and re-running returns nothing.
func Satisfied(earned []string, snapshot StatSnapshot) []Definition {
	earnedSet := toSet(earned)
	var unlocked []Definition
	for _, def := range Catalog {
		if _, ok := earnedSet[def.ID]; ok {
			continue
		}
		pred, ok := predicates[def.ID]
		if !ok {
			continue
		}
		if pred(snapshot) {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}

// FilterNew resolves explicit award requests: unknown IDs and already-earned
// IDs drop out silently.
func FilterNew(earned []string, ids []string) []Definition {
	earnedSet := toSet(earned)
	var out []Definition
	for _, id := range ids {
		if _, ok := earnedSet[id]; ok {
			continue
		}
		def, ok := Lookup(id)
		if !ok {
			continue
		}
		earnedSet[id] = struct{}{}
		out = append(out, def)
	}
	return out
}

// TotalPoints sums catalog points over the earned set. IDs missing from the
// catalog contribute nothing.
func TotalPoints(earned []string) int {
	var total int
	for _, id := range earned {
		if def, ok := Lookup(id); ok {
			total += def.Points
		}
	}
	return total
}

// LevelStatus describes where a point total sits within the level table.
type LevelStatus struct {
	Level
	Points       int    `json:"points"`
	Progress     int    `json:"progress"` // percent toward the next level
	NextLevel    string `json:"nextLevel,omitempty"`
	PointsToNext int    `json:"pointsToNext"`
}

// LevelFor maps a point total onto the level table, with linear progress
// toward the next level's threshold. At the top level progress is 100 and
// there are no points to the next.
func LevelFor(points int) LevelStatus {
	current := Levels[0]
	for _, lvl := range Levels {
		if points >= lvl.MinPoints && points <= lvl.MaxPoints {
			current = lvl
			break
		}
	}

	status := LevelStatus{Level: current, Points: points, Progress: 100}
	for _, lvl := range Levels {
		if lvl.MinPoints > current.MinPoints {
			span := lvl.MinPoints - current.MinPoints
			status.Progress = (points - current.MinPoints) * 100 / span
			status.NextLevel = lvl.Name
			status.PointsToNext = lvl.MinPoints - points
			break
		}
	}
	return status
}

// CategoryReport is one category's earned/total breakdown.
type CategoryReport struct {
	Earned       []string           `json:"earned"`
	Total        int                `json:"total"`
	Achievements []CategorizedEntry `json:"achievements"`
}

// CategorizedEntry is a catalog entry annotated with the user's earned flag.
type CategorizedEntry struct {
	Definition
	EarnedFlag bool `json:"earned"`
}

// Categorize groups the catalog by category with per-entry earned flags.
func Categorize(earned []string) map[string]CategoryReport {
	earnedSet := toSet(earned)
	out := make(map[string]CategoryReport, len(Categories))
	for category, ids := range Categories {
		report := CategoryReport{Total: len(ids)}
		for _, id := range ids {
			def, ok := Lookup(id)
			if !ok {
				continue
			}
			_, has := earnedSet[id]
			if has {
				report.Earned = append(report.Earned, id)
			}
			report.Achievements = append(report.Achievements, CategorizedEntry{Definition: def, EarnedFlag: has})
		}
		out[category] = report
	}
	return out
}

// Suggestion is an unearned achievement offered as a next goal.
type Suggestion struct {
	Definition
	Category string `json:"category"`
}

// SuggestNext returns the three cheapest unearned achievements, ascending by
// point cost.
func SuggestNext(earned []string) []Suggestion {
	earnedSet := toSet(earned)
	var unearned []Definition
	for _, def := range Catalog {
		if _, ok := earnedSet[def.ID]; !ok {
			unearned = append(unearned, def)
		}
	}
	sort.SliceStable(unearned, func(i, j int) bool { return unearned[i].Points < unearned[j].Points })

	if len(unearned) > 3 {
		unearned = unearned[:3]
	}
	out := make([]Suggestion, 0, len(unearned))
	for _, def := range unearned {
		out = append(out, Suggestion{Definition: def, Category: CategoryOf(def.ID)})
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
