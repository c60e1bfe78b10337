package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomfenwick/studytrack/internal/http/response"
	"github.com/tomfenwick/studytrack/internal/infra/postgres/repository"
	"github.com/tomfenwick/studytrack/internal/service"
)

// respondServiceError maps service-layer failures onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
	case errors.Is(err, service.ErrAccountExists):
		response.RespondError(c, http.StatusConflict, "account_exists", err)
	case errors.Is(err, service.ErrConflict):
		response.RespondError(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrFlashcardNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
