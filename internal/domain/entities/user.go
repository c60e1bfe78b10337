package entities

import (
	"time"

	"github.com/google/uuid"
)

// SubjectProgress is the per-subject completion/confidence/grade tuple kept
// on the user's aggregate record.
type SubjectProgress struct {
	Progress   float64 `json:"progress"`   // 0-100, non-decreasing except on explicit reset
	Confidence int     `json:"confidence"` // 1-5
	Grade      int     `json:"grade"`      // 1-9, 0 when not yet assessed
}

// User is the aggregate record for a student: identity plus the derived
// progress/streak/achievement fields every recording operation maintains.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	School       string

	TargetGrades map[string]int             // subject -> target grade 1-9
	Progress     map[string]SubjectProgress // subject -> progress record

	Achievements    []string // earned achievement IDs, monotonically growing
	StudyStreak     int
	TotalStudyHours float64
	LastStudyDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewUser(username, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		TargetGrades: make(map[string]int),
		Progress:     make(map[string]SubjectProgress),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SubjectRecord returns the progress record for subject, creating a zeroed
// one when the subject has not been tracked yet.
func (u *User) SubjectRecord(subject string) SubjectProgress {
	if rec, ok := u.Progress[subject]; ok {
		return rec
	}
	return SubjectProgress{Confidence: 1}
}

// SetSubjectRecord stores the record for subject, allocating the map for
// users created before progress tracking existed.
func (u *User) SetSubjectRecord(subject string, rec SubjectProgress) {
	if u.Progress == nil {
		u.Progress = make(map[string]SubjectProgress)
	}
	u.Progress[subject] = rec
}

// HasAchievement reports whether the user already earned the achievement.
func (u *User) HasAchievement(id string) bool {
	for _, a := range u.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// GrantAchievement appends the achievement ID if it is not already present
// and reports whether the set changed.
func (u *User) GrantAchievement(id string) bool {
	if u.HasAchievement(id) {
		return false
	}
	u.Achievements = append(u.Achievements, id)
	return true
}
