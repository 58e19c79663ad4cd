package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/persistence"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	snapshots *persistence.Store
	logger    *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(snapshots *persistence.Store, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		snapshots: snapshots,
		logger:    logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services,omitempty"`
}

// Health handles the health check endpoint
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: "1.0.0",
	})
}

// Ready handles the readiness check endpoint
func (h *HealthHandler) Ready(c *gin.Context) {
	services := make(map[string]string)

	if h.snapshots != nil {
		services["snapshots"] = "healthy"
	} else {
		services["snapshots"] = "disabled"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ready",
		Version:  "1.0.0",
		Services: services,
	})
}
