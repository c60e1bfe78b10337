package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tomfenwick/studytrack/internal/domain/achievements"
	"github.com/tomfenwick/studytrack/internal/http/middleware"
	"github.com/tomfenwick/studytrack/internal/http/response"
	"github.com/tomfenwick/studytrack/internal/service"
)

type AchievementHandler struct {
	achievements *service.AchievementService
}

func NewAchievementHandler(achievementSvc *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievementSvc}
}

func (ah *AchievementHandler) GetReport(c *gin.Context) {
	report, err := ah.achievements.Report(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}

// GetCatalog returns the full achievement catalog; it needs no user state.
func (ah *AchievementHandler) GetCatalog(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"achievements": achievements.Catalog,
		"levels":       achievements.Levels,
	})
}
