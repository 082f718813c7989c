package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shoe-catalog-service/internal/models"
)

const serviceName = "shoe-catalog-service"

// HealthCheck handles liveness requests
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// SchemaChecker migrates the catalog schema if that has not happened yet
type SchemaChecker interface {
	Ensure(ctx context.Context) error
}

// DiagnosticsHandler reports store reachability and row counts
type DiagnosticsHandler struct {
	store  CatalogStore
	schema SchemaChecker
}

// NewDiagnosticsHandler builds the handler. schema may be nil when the
// schema is migrated before the handler is used.
func NewDiagnosticsHandler(store CatalogStore, schema SchemaChecker) *DiagnosticsHandler {
	return &DiagnosticsHandler{store: store, schema: schema}
}

// ReadinessCheck reports ready only while the store answers a ping and its
// schema is in place. A store that came up after startup is migrated here.
func (h *DiagnosticsHandler) ReadinessCheck(c *gin.Context) {
	ctx := c.Request.Context()
	err := h.store.Ping(ctx)
	if err == nil && h.schema != nil {
		err = h.schema.Ensure(ctx)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"service": serviceName,
			"error":   "catalog store unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": serviceName,
	})
}

// DatabaseDiagnostics godoc
// @Summary Store diagnostics
// @Description Row counts per entity kind
// @Tags Diagnostics
// @Produce json
// @Success 200 {object} models.DiagnosticsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /diagnostics/db [get]
func (h *DiagnosticsHandler) DatabaseDiagnostics(c *gin.Context) {
	counts, err := h.store.Counts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DiagnosticsResponse{
		Success:   true,
		Counts:    *counts,
		Timestamp: time.Now().UTC(),
	})
}
