package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.auth.Register(ctx, RegisterInput{
		Username:     "newstudent",
		Email:        "new@example.com",
		Password:     "secret123",
		FirstName:    "Sam",
		LastName:     "Park",
		TargetGrades: map[string]int{"maths": 8},
	})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.NotEqual(t, "secret123", res.User.PasswordHash)

	// the welcome achievement is granted on signup
	assert.Contains(t, res.User.Achievements, "first_login")

	// the issued token resolves back to the user
	userID, err := f.auth.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	login, err := f.auth.Login(ctx, "new@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = f.auth.Login(ctx, "new@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	input := RegisterInput{Username: "student1", Email: "dup@example.com", Password: "secret123"}
	_, err := f.auth.Register(ctx, input)
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, input)
	assert.ErrorIs(t, err, ErrAccountExists)

	// same username, different email
	input.Email = "other@example.com"
	_, err = f.auth.Register(ctx, input)
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []RegisterInput{
		{Username: "ab", Email: "a@b.com", Password: "secret123"},
		{Username: "student", Email: "not-an-email", Password: "secret123"},
		{Username: "student", Email: "a@b.com", Password: "short"},
		{Username: "student", Email: "a@b.com", Password: "secret123", TargetGrades: map[string]int{"alchemy": 5}},
		{Username: "student", Email: "a@b.com", Password: "secret123", TargetGrades: map[string]int{"maths": 10}},
	}
	for _, input := range cases {
		_, err := f.auth.Register(ctx, input)
		assert.True(t, IsValidation(err), "input %+v should be rejected", input)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	other := NewTokenManager("secret-b", time.Hour)

	f := newFixture()
	user := f.addUser()

	token, err := issuer.Issue(user.ID, f.now)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfileGrantsMilestone(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	ctx := context.Background()

	first, last, school := "Sam", "Park", "Northfield High"
	updated, newly, err := f.accounts.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		FirstName: &first,
		LastName:  &last,
		School:    &school,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", updated.FirstName)

	ids := make([]string, 0, len(newly))
	for _, def := range newly {
		ids = append(ids, def.ID)
	}
	assert.Contains(t, ids, "profile_complete")

	// updating again does not re-award
	_, newly, err = f.accounts.UpdateProfile(ctx, user.ID, UpdateProfileInput{FirstName: &first})
	require.NoError(t, err)
	assert.Empty(t, newly)
}

func TestSetTargetGrades(t *testing.T) {
	f := newFixture()
	user := f.addUser()
	ctx := context.Background()

	updated, err := f.accounts.SetTargetGrades(ctx, user.ID, map[string]int{"science": 9})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.TargetGrades["science"])
	assert.Equal(t, 7, updated.TargetGrades["maths"]) // existing targets kept

	_, err = f.accounts.SetTargetGrades(ctx, user.ID, map[string]int{"science": 0})
	assert.True(t, IsValidation(err))
}
