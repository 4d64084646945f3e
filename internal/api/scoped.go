package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/middleware"
)

// scopedRequest gives handlers behind Authenticate their client and a bounded context
type scopedRequest struct {
	timeout time.Duration
}

// begin returns the request's scoped client and a context bounded by the request timeout.
// It writes a 401 and returns ok=false when the request was not authenticated.
func (s scopedRequest) begin(c *gin.Context) (client *db.Client, ctx context.Context, cancel context.CancelFunc, ok bool) {
	client, ok = middleware.ClientFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_credential",
			Message: "Authorization header is required",
		})
		return nil, nil, nil, false
	}
	ctx, cancel = context.WithTimeout(c.Request.Context(), s.timeout)
	return client, ctx, cancel, true
}

// parseUUIDParam reads a UUID path parameter, writing a 400 when it is malformed
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + name + " format",
			Field:   name,
		})
		return uuid.Nil, false
	}
	return id, true
}
