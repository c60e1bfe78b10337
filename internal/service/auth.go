package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomfenwick/studytrack/internal/domain/achievements"
	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/infra/postgres/repository"
)

// ErrInvalidCredentials covers both unknown email and wrong password, so
// login failures do not leak which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountExists rejects registration with a taken email or username.
var ErrAccountExists = errors.New("email or username already registered")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// RegisterInput is the signup payload.
type RegisterInput struct {
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	School       string         `json:"school"`
	TargetGrades map[string]int `json:"targetGrades"`
}

// AuthResult is a successful register/login response.
type AuthResult struct {
	User            *entities.User            `json:"user"`
	Token           string                    `json:"token"`
	NewAchievements []achievements.Definition `json:"newAchievements"`
}

// AuthService handles account creation and credential checks.
type AuthService struct {
	users        UserRepository
	achievements *AchievementService
	tokens       *TokenManager

	now func() time.Time
}

func NewAuthService(users UserRepository, achievementSvc *AchievementService, tokens *TokenManager) *AuthService {
	return &AuthService{
		users:        users,
		achievements: achievementSvc,
		tokens:       tokens,
		now:          time.Now,
	}
}

// Register creates an account, hashes the password and issues the first
// token. The welcome achievement is granted immediately.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if len(input.Username) < 3 {
		return nil, invalidf("username", "must be at least 3 characters")
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, invalidf("email", "must be a valid email address")
	}
	if len(input.Password) < minPasswordLength {
		return nil, invalidf("password", "must be at least %d characters", minPasswordLength)
	}
	for subject, grade := range input.TargetGrades {
		if !KnownSubject(subject) {
			return nil, invalidf("targetGrades", "unrecognized subject %q", subject)
		}
		if grade < 1 || grade > 9 {
			return nil, invalidf("targetGrades", "grade for %s must be between 1 and 9", subject)
		}
	}

	taken, err := s.users.ExistsByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := entities.NewUser(input.Username, input.Email, string(hash))
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.School = input.School
	for subject, grade := range input.TargetGrades {
		user.TargetGrades[subject] = grade
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	awarded, err := s.achievements.Award(ctx, user.ID, []string{"first_login"})
	if err != nil {
		return nil, err
	}
	user.Achievements = appendIDs(user.Achievements, awarded)

	token, err := s.tokens.Issue(user.ID, s.now())
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token, NewAchievements: awarded}, nil
}

// Login verifies the credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.now())
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

func appendIDs(earned []string, defs []achievements.Definition) []string {
	for _, def := range defs {
		earned = append(earned, def.ID)
	}
	return earned
}
