package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"idreview/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	gateway port.RemoteGateway
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(gateway port.RemoteGateway) *HealthHandler {
	return &HealthHandler{gateway: gateway}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.gateway.List(ctx, 1); err != nil {
		log.Printf("healthHandler.Readiness: document store not reachable: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "document store not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
