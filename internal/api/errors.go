// Package api provides the HTTP handlers, request/response DTOs and route setup.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/identity"
	"github.com/stwalsh4118/lyra/internal/library"
	"github.com/stwalsh4118/lyra/internal/logger"
	"github.com/stwalsh4118/lyra/internal/middleware"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// MessageResponse represents a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// writeError translates a service error into its HTTP status and body.
// Unrecognised errors are logged and reported with a stable generic message.
func writeError(c *gin.Context, err error) {
	var validationErr *library.ValidationError
	var schemaErr *db.SchemaError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Error(),
			Field:   validationErr.Field,
		})
	case errors.Is(err, identity.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error(), Field: "email"})
	case errors.Is(err, identity.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error(), Field: "password"})
	case errors.Is(err, identity.ErrInvalidLogin):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_login", Message: "Invalid email or password"})
	case errors.Is(err, identity.ErrMissingCredential):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing_credential", Message: "A credential is required"})
	case errors.Is(err, identity.ErrInvalidCredential), errors.Is(err, identity.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid_credential", Message: "Invalid or expired token"})
	case errors.Is(err, identity.ErrRevocationOff):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "revocation_unavailable", Message: "Token revocation is not configured"})
	case library.IsPermissionDenied(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden", Message: "You do not have access to this resource"})
	case library.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, identity.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "email_taken", Message: "Email is already registered"})
	case errors.Is(err, library.ErrUsernameTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "username_taken", Message: "Username is already taken"})
	case library.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict", Message: err.Error()})
	case errors.As(err, &schemaErr):
		logger.Log.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFromContext(c)).
			Str("table", schemaErr.Table).
			Str("column", schemaErr.Column).
			Msg("Database schema is incomplete")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "schema_error",
			Message: "The database schema is missing required objects",
			Hint:    schemaErr.Hint,
		})
	default:
		logger.Log.Error().
			Err(err).
			Str("request_id", middleware.RequestIDFromContext(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unexpected error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}

// writeBindError reports a malformed request body
func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body: " + err.Error(),
	})
}
