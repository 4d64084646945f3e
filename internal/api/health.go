package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/logger"
)

const healthCheckTimeout = 2 * time.Second

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Revocation string `json:"revocation"`
	Time       string `json:"time"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db                *db.DB
	revocationEnabled bool
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(database *db.DB, revocationEnabled bool) *HealthHandler {
	return &HealthHandler{db: database, revocationEnabled: revocationEnabled}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:     "ok",
		Database:   "healthy",
		Revocation: "disabled",
		Time:       time.Now().UTC().Format(time.RFC3339),
	}
	if h.revocationEnabled {
		response.Revocation = "enabled"
	}

	if err := h.db.Health(ctx); err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Database health check failed")
		response.Status = "degraded"
		response.Database = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
