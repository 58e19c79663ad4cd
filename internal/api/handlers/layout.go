package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/service"
	"github.com/pulseboard/pulseboard/pkg/validator"
)

// LayoutHandler handles layout endpoints
type LayoutHandler struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewLayoutHandler creates a new layout handler
func NewLayoutHandler(dashboard *service.DashboardService, logger *zap.Logger) *LayoutHandler {
	return &LayoutHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// CreateLayoutRequest is the payload for creating a layout
type CreateLayoutRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Description string             `json:"description"`
	IsDefault   bool               `json:"isDefault"`
	Widgets     []domain.Widget    `json:"widgets"`
	GridConfig  *domain.GridConfig `json:"gridConfig"`
}

// List returns all layouts
func (h *LayoutHandler) List(c *gin.Context) {
	layouts := h.dashboard.ListLayouts()
	c.JSON(http.StatusOK, gin.H{
		"data":           layouts,
		"total":          len(layouts),
		"activeLayoutId": h.dashboard.ActiveLayout(),
	})
}

// Get returns one layout
func (h *LayoutHandler) Get(c *gin.Context) {
	l, ok := h.dashboard.GetLayout(c.Param("id"))
	if !ok {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, l)
}

// Create saves a new layout
func (h *LayoutHandler) Create(c *gin.Context) {
	var req CreateLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	l := domain.Layout{
		Name:        req.Name,
		Description: req.Description,
		IsDefault:   req.IsDefault,
		Widgets:     req.Widgets,
		GridConfig:  domain.GridConfig{Columns: 12, Gap: 16, Responsive: true},
	}
	if req.GridConfig != nil {
		l.GridConfig = *req.GridConfig
	}
	// Snapshot the live widget set when none was supplied.
	if l.Widgets == nil {
		l.Widgets = h.dashboard.ListWidgets()
	}

	created, err := h.dashboard.CreateLayout(l)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial update atomically
func (h *LayoutHandler) Update(c *gin.Context) {
	var patch domain.LayoutPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		_ = c.Error(err)
		return
	}

	changed, err := h.dashboard.UpdateLayout(c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !changed {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	l, _ := h.dashboard.GetLayout(c.Param("id"))
	c.JSON(http.StatusOK, l)
}

// Delete removes a layout, activating a fallback when it was active
func (h *LayoutHandler) Delete(c *gin.Context) {
	if !h.dashboard.DeleteLayout(c.Param("id")) {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// Activate switches the active layout, replacing the live widget set
func (h *LayoutHandler) Activate(c *gin.Context) {
	id := c.Param("id")
	if !h.dashboard.SwitchLayout(id) {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	l, _ := h.dashboard.GetLayout(id)
	c.JSON(http.StatusOK, l)
}

// Reset restores the default layout's widget snapshot
func (h *LayoutHandler) Reset(c *gin.Context) {
	if !h.dashboard.ResetToDefault() {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	widgets := h.dashboard.ListWidgets()
	c.JSON(http.StatusOK, gin.H{
		"data":           widgets,
		"total":          len(widgets),
		"activeLayoutId": h.dashboard.ActiveLayout(),
	})
}
