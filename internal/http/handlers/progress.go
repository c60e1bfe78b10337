package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tomfenwick/studytrack/internal/http/middleware"
	"github.com/tomfenwick/studytrack/internal/http/response"
	"github.com/tomfenwick/studytrack/internal/service"
)

type ProgressHandler struct {
	progress *service.ProgressService
}

func NewProgressHandler(progress *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (ph *ProgressHandler) GetProgress(c *gin.Context) {
	report, err := ph.progress.GetUserProgress(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}

func (ph *ProgressHandler) RecordStudySession(c *gin.Context) {
	var req service.RecordSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	// recording from the dashboard logs an already-finished session
	req.Completed = true

	out, err := ph.progress.RecordStudySession(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, out)
}

func (ph *ProgressHandler) RecordQuizResult(c *gin.Context) {
	var req service.RecordQuizInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := ph.progress.RecordQuizResult(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, out)
}

func (ph *ProgressHandler) UpdateSubjectProgress(c *gin.Context) {
	var req service.UpdateProgressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	record, newAchievements, err := ph.progress.UpdateSubjectProgress(
		c.Request.Context(), middleware.UserID(c), c.Param("subject"), req,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"progress":        record,
		"newAchievements": newAchievements,
	})
}

func (ph *ProgressHandler) GetWeeklyReport(c *gin.Context) {
	report, err := ph.progress.GetWeeklyReport(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}

func (ph *ProgressHandler) GetRecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := ph.progress.RecentActivity(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activity": items})
}

func (ph *ProgressHandler) GetDashboardAnalytics(c *gin.Context) {
	analytics, err := ph.progress.GetDashboardAnalytics(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, analytics)
}

func (ph *ProgressHandler) ListQuizResults(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	results, err := ph.progress.ListQuizResults(c.Request.Context(), middleware.UserID(c), c.Query("subject"), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": results})
}
