package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tomfenwick/studytrack/internal/http/middleware"
	"github.com/tomfenwick/studytrack/internal/http/response"
	"github.com/tomfenwick/studytrack/internal/service"
)

type FlashcardHandler struct {
	flashcards *service.FlashcardService
}

func NewFlashcardHandler(flashcards *service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{flashcards: flashcards}
}

func (fh *FlashcardHandler) List(c *gin.Context) {
	cards, err := fh.flashcards.List(c.Request.Context(), middleware.UserID(c), c.Query("subject"), c.Query("topic"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"flashcards": cards})
}

func (fh *FlashcardHandler) ListDue(c *gin.Context) {
	cards, err := fh.flashcards.Due(c.Request.Context(), middleware.UserID(c), c.Query("subject"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"flashcards": cards})
}

func (fh *FlashcardHandler) Create(c *gin.Context) {
	var req service.CreateFlashcardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	card, err := fh.flashcards.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, card)
}

func (fh *FlashcardHandler) Review(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := fh.flashcards.Review(c.Request.Context(), middleware.UserID(c), cardID, req.Rating)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func (fh *FlashcardHandler) Delete(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := fh.flashcards.Delete(c.Request.Context(), middleware.UserID(c), cardID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
