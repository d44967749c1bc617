package handlers

import (
	"errors"
	"net/http"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	reqID := middleware.GetRequestID(c)
	if reqID == "" {
		c.JSON(status, ErrorResponse{Error: message, Code: code, Details: details})
		return
	}
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"details":    details,
		"request_id": reqID,
		"message":    message,
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsStorage(err):
		// storage details stay in the log; the caller may retry
		respondError(c, http.StatusBadGateway, "storage_error", "penyimpanan data gagal, silakan coba lagi", nil)
	case domain.IsInternal(err):
		var ie domain.InternalError
		errors.As(err, &ie)
		respondError(c, http.StatusInternalServerError, "internal_error", ie.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "terjadi kesalahan", nil)
	}
}
