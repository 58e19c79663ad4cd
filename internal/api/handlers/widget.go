package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/service"
	"github.com/pulseboard/pulseboard/pkg/validator"
)

// WidgetHandler handles widget endpoints
type WidgetHandler struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewWidgetHandler creates a new widget handler
func NewWidgetHandler(dashboard *service.DashboardService, logger *zap.Logger) *WidgetHandler {
	return &WidgetHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// CreateWidgetRequest is the payload for adding a widget
type CreateWidgetRequest struct {
	Kind              string          `json:"kind" binding:"required,widgetkind"`
	Title             string          `json:"title" binding:"required,max=200"`
	Width             string          `json:"width" binding:"required,widthclass"`
	Height            string          `json:"height" binding:"required,heightclass"`
	RefreshIntervalMs int64           `json:"refreshIntervalMs" binding:"omitempty,gte=0"`
	Permissions       []string        `json:"permissions"`
	Data              json.RawMessage `json:"data"`
}

// List returns the live widget set in position order
func (h *WidgetHandler) List(c *gin.Context) {
	widgets := h.dashboard.ListWidgets()
	c.JSON(http.StatusOK, ListResponse{
		Data:  widgets,
		Total: len(widgets),
	})
}

// Get returns a single widget
func (h *WidgetHandler) Get(c *gin.Context) {
	w, ok := h.dashboard.GetWidget(c.Param("id"))
	if !ok {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Create adds a widget to the live set
func (h *WidgetHandler) Create(c *gin.Context) {
	var req CreateWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	w := domain.Widget{
		Kind:            domain.WidgetKind(req.Kind),
		Title:           req.Title,
		Width:           domain.WidthClass(req.Width),
		Height:          domain.HeightClass(req.Height),
		RefreshInterval: time.Duration(req.RefreshIntervalMs) * time.Millisecond,
		Permissions:     req.Permissions,
	}
	if len(req.Data) > 0 && string(req.Data) != "null" {
		payload, err := domain.DecodePayload(w.Kind, req.Data)
		if err != nil {
			_ = c.Error(err)
			return
		}
		w.Data = payload
	}

	created, err := h.dashboard.AddWidget(w)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial update to a widget
func (h *WidgetHandler) Update(c *gin.Context) {
	id := c.Param("id")
	existing, ok := h.dashboard.GetWidget(id)
	if !ok {
		_ = c.Error(domain.ErrNotFound)
		return
	}

	var req struct {
		Title             *string         `json:"title" binding:"omitempty,max=200"`
		Width             *string         `json:"width" binding:"omitempty,widthclass"`
		Height            *string         `json:"height" binding:"omitempty,heightclass"`
		RefreshIntervalMs *int64          `json:"refreshIntervalMs" binding:"omitempty,gte=0"`
		Permissions       []string        `json:"permissions"`
		Data              json.RawMessage `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	patch := domain.WidgetPatch{
		Permissions: req.Permissions,
	}
	if req.Title != nil {
		patch.Title = req.Title
	}
	if req.Width != nil {
		w := domain.WidthClass(*req.Width)
		patch.Width = &w
	}
	if req.Height != nil {
		hc := domain.HeightClass(*req.Height)
		patch.Height = &hc
	}
	if req.RefreshIntervalMs != nil {
		d := time.Duration(*req.RefreshIntervalMs) * time.Millisecond
		patch.RefreshInterval = &d
	}
	if len(req.Data) > 0 && string(req.Data) != "null" {
		payload, err := domain.DecodePayload(existing.Kind, req.Data)
		if err != nil {
			_ = c.Error(err)
			return
		}
		patch.Data = payload
	}

	updated, ok := h.dashboard.UpdateWidget(id, patch)
	if !ok {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a widget and every layout reference to it
func (h *WidgetHandler) Delete(c *gin.Context) {
	h.dashboard.RemoveWidget(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// Move splices a widget to a new position
func (h *WidgetHandler) Move(c *gin.Context) {
	var req struct {
		Position *int `json:"position" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	if !h.dashboard.MoveWidget(c.Param("id"), *req.Position) {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, ListResponse{
		Data:  h.dashboard.ListWidgets(),
		Total: len(h.dashboard.ListWidgets()),
	})
}

// Reorder replaces the widget ordering; omitted widgets are dropped
func (h *WidgetHandler) Reorder(c *gin.Context) {
	var req struct {
		WidgetIDs []string `json:"widgetIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	dropped := h.dashboard.ReorderWidgets(req.WidgetIDs)
	widgets := h.dashboard.ListWidgets()
	c.JSON(http.StatusOK, gin.H{
		"data":    widgets,
		"total":   len(widgets),
		"dropped": dropped,
	})
}

// Expand expands a widget, collapsing any other
func (h *WidgetHandler) Expand(c *gin.Context) {
	if !h.dashboard.ExpandWidget(c.Param("id")) {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// Collapse clears any expanded widget
func (h *WidgetHandler) Collapse(c *gin.Context) {
	h.dashboard.CollapseWidgets()
	c.Status(http.StatusNoContent)
}

// Refresh forces an immediate data refresh for a widget
func (h *WidgetHandler) Refresh(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.dashboard.GetWidget(id); !ok {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	if err := h.dashboard.RefreshWidget(id); err != nil {
		h.logger.Warn("manual widget refresh failed", zap.String("widget_id", id), zap.Error(err))
		_ = c.Error(err)
		return
	}
	w, _ := h.dashboard.GetWidget(id)
	c.JSON(http.StatusOK, w)
}
