package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomfenwick/studytrack/internal/domain/entities"
	"github.com/tomfenwick/studytrack/internal/http/middleware"
	"github.com/tomfenwick/studytrack/internal/http/response"
	"github.com/tomfenwick/studytrack/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// userView strips the password hash from API responses.
func userView(u *entities.User) gin.H {
	return gin.H{
		"id":              u.ID,
		"username":        u.Username,
		"email":           u.Email,
		"firstName":       u.FirstName,
		"lastName":        u.LastName,
		"school":          u.School,
		"targetGrades":    u.TargetGrades,
		"progress":        u.Progress,
		"achievements":    u.Achievements,
		"studyStreak":     u.StudyStreak,
		"totalStudyHours": u.TotalStudyHours,
		"lastStudyDate":   u.LastStudyDate,
		"createdAt":       u.CreatedAt,
	}
}

func (uh *UserHandler) GetProfile(c *gin.Context) {
	user, err := uh.users.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, userView(user))
}

func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, newAchievements, err := uh.users.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"user":            userView(user),
		"newAchievements": newAchievements,
	})
}

func (uh *UserHandler) SetTargetGrades(c *gin.Context) {
	var req struct {
		TargetGrades map[string]int `json:"targetGrades"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := uh.users.SetTargetGrades(c.Request.Context(), middleware.UserID(c), req.TargetGrades)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, userView(user))
}
