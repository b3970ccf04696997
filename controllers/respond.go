package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"research-repository-api/services"
)

// respondError writes the JSON error body for a service failure.
func respondError(c *gin.Context, err error) {
	code := services.ErrorCode(err)
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrEditWindowExpired),
		errors.Is(err, services.ErrDeleteWindowExpired),
		errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, services.ErrSubmissionLocked),
		errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrNoFileAttached):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrValidationFailed):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		_ = c.Error(err)
	}

	c.JSON(status, gin.H{"error": message, "code": code})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": "validation_failed"})
}
