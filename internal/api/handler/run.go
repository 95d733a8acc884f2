package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scenepulse/scenepulse-backend/internal/logger"
	"github.com/scenepulse/scenepulse-backend/internal/service"
)

// RunHandler handles run registration and read endpoints.
type RunHandler struct {
	runService *service.RunService
	logger     *logger.Logger
}

// NewRunHandler creates a new run handler.
// Parameters:
//   - runService: run service instance.
//   - log: logger instance.
// Returns:
//   - *RunHandler: initialized handler.
func NewRunHandler(runService *service.RunService, log *logger.Logger) *RunHandler {
	return &RunHandler{
		runService: runService,
		logger:     log,
	}
}

// CreateRun handles POST /v1/runs.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RunHandler) CreateRun(c *gin.Context) {
	var input service.RegisterRunInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	result, err := h.runService.RegisterRun(c.Request.Context(), &input)
	if err != nil {
		h.writeRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRun handles GET /v1/runs/:run_id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RunHandler) GetRun(c *gin.Context) {
	runID := c.Param("run_id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Run ID is required",
		})
		return
	}

	run, err := h.runService.GetRun(c.Request.Context(), runID)
	if err != nil {
		h.writeRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// ListRuns handles GET /v1/runs.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultListLimit)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid limit parameter",
		})
		return
	}

	runs, err := h.runService.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.writeRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// writeRunError maps the service error taxonomy to HTTP statuses
func (h *RunHandler) writeRunError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var validationErr *service.ValidationError
	var signingErr *service.SigningError
	var notFoundErr *service.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.As(err, &signingErr):
		logger.CtxError(ctx, "Signed URL generation failed: file=%s, key=%s, err=%v",
			signingErr.Filename, signingErr.Key, signingErr.Err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": signingErr.Error(),
			"file":  signingErr.Filename,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Run not found",
		})
	default:
		logger.CtxError(ctx, "Run operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
	}
}
