package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tomfenwick/studytrack/internal/domain/achievements"
	"github.com/tomfenwick/studytrack/internal/domain/entities"
)

// UpdateProfileInput carries the editable identity fields. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	School    *string `json:"school"`
}

// UserService reads and edits the account profile.
type UserService struct {
	users        UserRepository
	achievements *AchievementService
	tr           Transactor
}

func NewUserService(users UserRepository, achievementSvc *AchievementService, tr Transactor) *UserService {
	return &UserService{users: users, achievements: achievementSvc, tr: tr}
}

// Get returns the user's account record.
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile edits the identity fields. Filling out the full profile
// grants the profile milestone.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entities.User, []achievements.Definition, error) {
	var (
		user  *entities.User
		newly []achievements.Definition
	)
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if input.FirstName != nil {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			user.LastName = *input.LastName
		}
		if input.School != nil {
			user.School = *input.School
		}

		if profileComplete(user) {
			newly = achievements.FilterNew(user.Achievements, []string{"profile_complete"})
			for _, def := range newly {
				user.GrantAchievement(def.ID)
			}
		}

		return s.users.Update(ctx, user)
	})
	if err != nil {
		return nil, nil, conflictOr(err)
	}

	return user, newly, nil
}

// SetTargetGrades replaces the user's per-subject target grades.
func (s *UserService) SetTargetGrades(ctx context.Context, userID uuid.UUID, grades map[string]int) (*entities.User, error) {
	for subject, grade := range grades {
		if !KnownSubject(subject) {
			return nil, invalidf("targetGrades", "unrecognized subject %q", subject)
		}
		if grade < 1 || grade > 9 {
			return nil, invalidf("targetGrades", "grade for %s must be between 1 and 9", subject)
		}
	}

	var user *entities.User
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if user.TargetGrades == nil {
			user.TargetGrades = make(map[string]int, len(grades))
		}
		for subject, grade := range grades {
			user.TargetGrades[subject] = grade
		}

		return s.users.Update(ctx, user)
	})
	if err != nil {
		return nil, conflictOr(err)
	}

	return user, nil
}

func profileComplete(u *entities.User) bool {
	return u.FirstName != "" && u.LastName != "" && u.School != "" && len(u.TargetGrades) > 0
}
