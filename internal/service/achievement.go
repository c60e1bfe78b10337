package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tomfenwick/studytrack/internal/domain/achievements"
	"github.com/tomfenwick/studytrack/internal/domain/entities"
)

// AchievementReport is the full achievement view for the dashboard.
type AchievementReport struct {
	Earned      []string                               `json:"earned"`
	TotalPoints int                                    `json:"totalPoints"`
	Level       achievements.LevelStatus               `json:"currentLevel"`
	Categorized map[string]achievements.CategoryReport `json:"categorized"`
	Completion  int                                    `json:"completion"` // percent of the catalog earned
	Next        []achievements.Suggestion              `json:"next"`
}

// AchievementService evaluates unlock conditions against user statistics
// and maintains the user's earned set. The set only ever grows.
type AchievementService struct {
	users UserRepository
	tr    Transactor
}

func NewAchievementService(users UserRepository, tr Transactor) *AchievementService {
	return &AchievementService{users: users, tr: tr}
}

// Unlock applies every satisfied predicate to the already-loaded user and
// returns the newly earned definitions. The caller persists the user; the
// orchestrator calls this with the row lock held so evaluation and persist
// are one atomic step.
func (s *AchievementService) Unlock(user *entities.User, snapshot achievements.StatSnapshot) []achievements.Definition {
	unlocked := achievements.Satisfied(user.Achievements, snapshot)
	for _, def := range unlocked {
		user.GrantAchievement(def.ID)
	}
	return unlocked
}

// Evaluate runs the predicate table for a user and persists any newly
// earned achievements. Re-running with an identical snapshot awards
// nothing further.
func (s *AchievementService) Evaluate(ctx context.Context, userID uuid.UUID, snapshot achievements.StatSnapshot) ([]achievements.Definition, error) {
	var unlocked []achievements.Definition
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		unlocked = s.Unlock(user, snapshot)
		if len(unlocked) == 0 {
			return nil
		}
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

// Award grants explicitly requested achievement IDs, e.g. the first-login
// milestone. Unknown and already-earned IDs are silently ignored; the call
// never fails on its input.
func (s *AchievementService) Award(ctx context.Context, userID uuid.UUID, ids []string) ([]achievements.Definition, error) {
	var awarded []achievements.Definition
	err := s.tr.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		awarded = achievements.FilterNew(user.Achievements, ids)
		if len(awarded) == 0 {
			return nil
		}
		for _, def := range awarded {
			user.GrantAchievement(def.ID)
		}
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return awarded, nil
}

// Report assembles the read-only achievement view.
func (s *AchievementService) Report(ctx context.Context, userID uuid.UUID) (*AchievementReport, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildAchievementReport(user.Achievements), nil
}

// BuildAchievementReport derives the report from an earned set alone.
func BuildAchievementReport(earned []string) *AchievementReport {
	points := achievements.TotalPoints(earned)
	return &AchievementReport{
		Earned:      earned,
		TotalPoints: points,
		Level:       achievements.LevelFor(points),
		Categorized: achievements.Categorize(earned),
		Completion:  len(earned) * 100 / len(achievements.Catalog),
		Next:        achievements.SuggestNext(earned),
	}
}
