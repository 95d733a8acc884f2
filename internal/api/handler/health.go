package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scenepulse/scenepulse-backend/internal/domain"
	"github.com/scenepulse/scenepulse-backend/internal/logger"
)

// statusCounter is the slice of the run service the health surface needs.
type statusCounter interface {
	StatusCounts(ctx context.Context) (map[domain.RunStatus]int64, error)
}

// HealthHandler handles liveness and credential-check endpoints.
type HealthHandler struct {
	project      string
	uploadBucket string
	runs         statusCounter
}

// NewHealthHandler creates a new health handler.
// Parameters:
//   - project: configured cloud project, reported on the root endpoint.
//   - uploadBucket: configured upload bucket, reported on the root endpoint.
//   - runs: run service, queried for per-status counts.
// Returns:
//   - *HealthHandler: initialized handler.
func NewHealthHandler(project, uploadBucket string, runs statusCounter) *HealthHandler {
	return &HealthHandler{
		project:      project,
		uploadBucket: uploadBucket,
		runs:         runs,
	}
}

// Root handles GET /. It is the only unauthenticated endpoint and doubles as
// the liveness check.
func (h *HealthHandler) Root(c *gin.Context) {
	resp := gin.H{
		"status":        "ok",
		"message":       "ScenePulse API running",
		"project":       h.project,
		"upload_bucket": h.uploadBucket,
	}

	// Counts are informational; a store hiccup must not fail liveness.
	if counts, err := h.runs.StatusCounts(c.Request.Context()); err != nil {
		logger.CtxWarn(c.Request.Context(), "Status counts unavailable: %v", err)
	} else {
		resp["run_status_counts"] = counts
	}

	c.JSON(http.StatusOK, resp)
}

// SecurePing handles GET /secure/ping, letting clients verify their API key.
func (h *HealthHandler) SecurePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "secure pong",
	})
}
