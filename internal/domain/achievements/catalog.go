// Package achievements holds the static achievement catalog and the pure
// evaluation logic over user statistics. The catalog is configuration, not
// user state: lookups are defensive and unknown IDs are ignored rather than
// surfaced as errors.
package achievements

import "math"

// Definition is one entry of the static achievement catalog.
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
}

// Level is a point-range tier. Levels are contiguous and cover [0, inf); the
// last level has MaxPoints = math.MaxInt.
type Level struct {
	Name      string `json:"name"`
	MinPoints int    `json:"minPoints"`
	MaxPoints int    `json:"maxPoints"`
	Icon      string `json:"icon"`
}

// Catalog lists every achievement the system can award.
var Catalog = []Definition{
	{ID: "first_login", Name: "First Steps", Description: "Welcome to StudyTrack! Complete your first login.", Icon: "🎓", Points: 10},
	{ID: "profile_complete", Name: "Identity Established", Description: "Complete your student profile with all details.", Icon: "📝", Points: 20},
	{ID: "study_streak_3", Name: "Consistent Learner", Description: "Maintain a study streak for 3 days.", Icon: "🔥", Points: 30},
	{ID: "study_streak_7", Name: "Weekly Wonder", Description: "Maintain a study streak for 7 days.", Icon: "✨", Points: 50},
	{ID: "study_streak_30", Name: "Monthly Master", Description: "Maintain a study streak for 30 days.", Icon: "👑", Points: 200},
	{ID: "first_quiz_complete", Name: "Quiz Pioneer", Description: "Complete your first quiz.", Icon: "📚", Points: 15},
	{ID: "perfect_score", Name: "Perfect Performance", Description: "Achieve 100% in any quiz.", Icon: "⭐", Points: 50},
	{ID: "math_master", Name: "Mathematics Maven", Description: "Complete all topics in Mathematics with high scores.", Icon: "➗", Points: 100},
	{ID: "english_expert", Name: "English Expert", Description: "Master all English Language topics.", Icon: "📖", Points: 100},
	{ID: "science_sage", Name: "Science Sage", Description: "Excel in all Science subjects.", Icon: "🔬", Points: 100},
	{ID: "geography_guru", Name: "Geography Guru", Description: "Complete all Geography topics successfully.", Icon: "🌍", Points: 100},
	{ID: "french_fluent", Name: "French Fluency", Description: "Achieve mastery in French speaking and writing.", Icon: "🇫🇷", Points: 100},
	{ID: "coding_champion", Name: "Coding Champion", Description: "Master Computer Science programming concepts.", Icon: "💻", Points: 100},
	{ID: "flash_master", Name: "Flashcard Master", Description: "Review 100 flashcards successfully.", Icon: "🎴", Points: 75},
	{ID: "study_hours_10", Name: "Dedicated Student", Description: "Complete 10 hours of study time.", Icon: "⏱️", Points: 50},
	{ID: "study_hours_50", Name: "Study Sensation", Description: "Complete 50 hours of study time.", Icon: "⭐", Points: 150},
	{ID: "study_hours_100", Name: "Learning Legend", Description: "Complete 100 hours of study time.", Icon: "🌟", Points: 300},
	{ID: "all_subjects_progress", Name: "All-Rounder", Description: "Make progress in every subject area.", Icon: "🎯", Points: 150},
	{ID: "practice_makes_perfect", Name: "Practice Makes Perfect", Description: "Complete 50 practice questions.", Icon: "✅", Points: 75},
	{ID: "video_viewer", Name: "Video Scholar", Description: "Watch 20 educational videos.", Icon: "🎥", Points: 50},
	{ID: "note_taker", Name: "Note Master", Description: "Create study notes for all subjects.", Icon: "📔", Points: 60},
	{ID: "test_ace", Name: "Test Ace", Description: "Score above 90% in 5 different tests.", Icon: "🏆", Points: 100},
	{ID: "speed_demon", Name: "Speed Demon", Description: "Complete a quiz in record time while maintaining accuracy.", Icon: "⚡", Points: 75},
	{ID: "helping_hand", Name: "Helping Hand", Description: "Share study resources with classmates.", Icon: "🤝", Points: 40},
	{ID: "early_bird", Name: "Early Bird", Description: "Complete study sessions before 9 AM.", Icon: "🌅", Points: 45},
}

// Levels maps cumulative points to a named tier.
var Levels = []Level{
	{Name: "Beginner", MinPoints: 0, MaxPoints: 199, Icon: "🌱"},
	{Name: "Intermediate", MinPoints: 200, MaxPoints: 499, Icon: "🌿"},
	{Name: "Advanced", MinPoints: 500, MaxPoints: 999, Icon: "🌳"},
	{Name: "Expert", MinPoints: 1000, MaxPoints: 1999, Icon: "🎓"},
	{Name: "Master", MinPoints: 2000, MaxPoints: math.MaxInt, Icon: "👑"},
}

// Categories groups achievement IDs for the dashboard.
var Categories = map[string][]string{
	"study_habits":     {"study_streak_3", "study_streak_7", "study_streak_30", "study_hours_10", "study_hours_50", "study_hours_100", "early_bird"},
	"subject_mastery":  {"math_master", "english_expert", "science_sage", "geography_guru", "french_fluent", "coding_champion"},
	"test_performance": {"first_quiz_complete", "perfect_score", "test_ace", "speed_demon"},
	"learning_tools":   {"flash_master", "video_viewer", "note_taker", "helping_hand"},
	"milestones":       {"first_login", "profile_complete", "all_subjects_progress", "practice_makes_perfect"},
}

// Lookup returns the catalog entry for id, if it exists.
func Lookup(id string) (Definition, bool) {
	for _, def := range Catalog {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// CategoryOf returns the category containing id, or "" for unknown IDs.
func CategoryOf(id string) string {
	for category, ids := range Categories {
		for _, candidate := range ids {
			if candidate == id {
				return category
			}
		}
	}
	return ""
}
