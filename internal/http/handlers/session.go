package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tomfenwick/studytrack/internal/http/middleware"
	"github.com/tomfenwick/studytrack/internal/http/response"
	"github.com/tomfenwick/studytrack/internal/service"
)

type SessionHandler struct {
	progress *service.ProgressService
}

func NewSessionHandler(progress *service.ProgressService) *SessionHandler {
	return &SessionHandler{progress: progress}
}

func (sh *SessionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	sessions, err := sh.progress.ListSessions(c.Request.Context(), middleware.UserID(c), c.Query("subject"), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}

// Create schedules a pending session; completing it later is what counts
// toward the streak.
func (sh *SessionHandler) Create(c *gin.Context) {
	var req service.RecordSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := sh.progress.RecordStudySession(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, out)
}

func (sh *SessionHandler) Update(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Completed *bool   `json:"completed"`
		Notes     *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := sh.progress.UpdateSession(c.Request.Context(), middleware.UserID(c), sessionID, req.Completed, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (sh *SessionHandler) Delete(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := sh.progress.DeleteSession(c.Request.Context(), middleware.UserID(c), sessionID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
