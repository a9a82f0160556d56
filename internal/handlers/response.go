// Package handlers implements the REST surface of the toolkit checker.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"toolcheck/internal/analyze"
	"toolcheck/internal/status"
	"toolcheck/internal/store"
)

// APIError is the wire form of a request failure.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps an APIError for JSON responses.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes an error envelope with the given status.
func RespondError(c *gin.Context, httpStatus int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(httpStatus, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondOK writes a 200 JSON response.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondDomainError maps domain errors onto HTTP statuses. Unrecognized
// errors become a 500.
func respondDomainError(c *gin.Context, err error) {
	var cfgErr *analyze.ConfigurationError
	var decErr *analyze.DecodeError

	switch {
	case errors.Is(err, store.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, store.ErrTemplateInUse):
		RespondError(c, http.StatusConflict, "template_in_use", err)
	case errors.Is(err, status.ErrInvalidTransition):
		RespondError(c, http.StatusConflict, "invalid_transition", err)
	case errors.As(err, &cfgErr):
		RespondError(c, http.StatusUnprocessableEntity, "template_not_ready", err)
	case errors.As(err, &decErr):
		RespondError(c, http.StatusBadRequest, "bad_image", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
