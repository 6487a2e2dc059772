package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/archtools/modelsync/internal/api/shared/dto"
	"github.com/archtools/modelsync/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// Push ingests a full design tree snapshot for one project
	// POST /api/v1/sync/push
	Push(c *gin.Context)

	// Export returns persisted project trees
	// GET /api/v1/sync/export?project=<name>
	Export(c *gin.Context)

	// BindExternalIDs stamps authoring-tool identifiers onto persisted rows
	// POST /api/v1/sync/bindings
	BindExternalIDs(c *gin.Context)

	// DeleteByExternalID removes one bound entity with its descendants
	// POST /api/v1/sync/deletions
	DeleteByExternalID(c *gin.Context)

	// AuditRecords lists recent audit records, newest first
	// GET /api/v1/sync/audit?limit=<n>
	AuditRecords(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug    bool
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(debug bool, exec executor.Executor) Handler {
	return &handler{
		debug:    debug,
		executor: exec,
	}
}

// Push ingests a full design tree snapshot
func (h *handler) Push(c *gin.Context) {
	var req dto.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	response, err := h.executor.Push(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Export returns persisted project trees
func (h *handler) Export(c *gin.Context) {
	projectName := c.Query("project")

	response, err := h.executor.Export(c.Request.Context(), projectName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// BindExternalIDs stamps authoring-tool identifiers onto persisted rows
func (h *handler) BindExternalIDs(c *gin.Context) {
	var req dto.BindExternalIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	response, err := h.executor.BindExternalIDs(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteByExternalID removes one bound entity with its descendants
func (h *handler) DeleteByExternalID(c *gin.Context) {
	var req dto.DeletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	response, err := h.executor.DeleteByExternalID(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AuditRecords lists recent audit records
func (h *handler) AuditRecords(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondBadRequest(c, "Invalid limit parameter", raw)
			return
		}
		limit = parsed
	}

	response, err := h.executor.GetAuditRecords(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
