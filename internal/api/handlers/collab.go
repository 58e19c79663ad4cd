package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/service"
	"github.com/pulseboard/pulseboard/pkg/validator"
)

// CollabHandler handles settings, filters, comments and realtime controls
type CollabHandler struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewCollabHandler creates a new collab handler
func NewCollabHandler(dashboard *service.DashboardService, logger *zap.Logger) *CollabHandler {
	return &CollabHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// GetSettings returns the current dashboard settings
func (h *CollabHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Settings())
}

// UpdateSettings applies a partial settings update
func (h *CollabHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		domain.SettingsPatch
		RefreshIntervalMs *int64 `json:"refreshIntervalMs" binding:"omitempty,gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	patch := req.SettingsPatch
	if req.RefreshIntervalMs != nil {
		d := time.Duration(*req.RefreshIntervalMs) * time.Millisecond
		patch.RefreshInterval = &d
	}
	c.JSON(http.StatusOK, h.dashboard.UpdateSettings(patch))
}

// GetRealTime reports the realtime gate
func (h *CollabHandler) GetRealTime(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.dashboard.RealTime()})
}

// SetRealTime flips the realtime gate
func (h *CollabHandler) SetRealTime(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	h.dashboard.SetRealTime(*req.Enabled)
	c.JSON(http.StatusOK, gin.H{"enabled": h.dashboard.RealTime()})
}

// GetCustomizing reports whether edit mode is on
func (h *CollabHandler) GetCustomizing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.dashboard.Customizing()})
}

// SetCustomizing toggles edit mode
func (h *CollabHandler) SetCustomizing(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	h.dashboard.SetCustomizing(*req.Enabled)
	c.Status(http.StatusNoContent)
}

// GetSearch returns the global search query
func (h *CollabHandler) GetSearch(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"query": h.dashboard.SearchQuery()})
}

// SetSearch records the global search query; empty clears it
func (h *CollabHandler) SetSearch(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	h.dashboard.SetSearchQuery(req.Query)
	c.JSON(http.StatusOK, gin.H{"query": req.Query})
}

// ListDatasets returns the uploaded datasets
func (h *CollabHandler) ListDatasets(c *gin.Context) {
	datasets := h.dashboard.ListDatasets()
	c.JSON(http.StatusOK, ListResponse{Data: datasets, Total: len(datasets)})
}

// CreateDataset stores an uploaded dataset
func (h *CollabHandler) CreateDataset(c *gin.Context) {
	var req struct {
		Name string           `json:"name" binding:"required"`
		Rows []map[string]any `json:"rows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	created := h.dashboard.AddDataset(domain.Dataset{
		Name: req.Name,
		Rows: req.Rows,
	})
	c.JSON(http.StatusCreated, created)
}

// DeleteDataset removes a dataset
func (h *CollabHandler) DeleteDataset(c *gin.Context) {
	h.dashboard.RemoveDataset(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ListPresence returns collaborators seen within the presence window
func (h *CollabHandler) ListPresence(c *gin.Context) {
	users := h.dashboard.ActiveUsers()
	c.JSON(http.StatusOK, ListResponse{Data: users, Total: len(users)})
}

// Heartbeat upserts a collaborator's presence entry
func (h *CollabHandler) Heartbeat(c *gin.Context) {
	var req struct {
		ID     string `json:"id" binding:"required"`
		Name   string `json:"name" binding:"required"`
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	h.dashboard.Heartbeat(domain.ActiveUser{
		ID:     req.ID,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	c.Status(http.StatusNoContent)
}

// ListFilters returns the global filters
func (h *CollabHandler) ListFilters(c *gin.Context) {
	filters := h.dashboard.ListFilters()
	c.JSON(http.StatusOK, ListResponse{Data: filters, Total: len(filters)})
}

// CreateFilter stores a global filter
func (h *CollabHandler) CreateFilter(c *gin.Context) {
	var req struct {
		Field    string `json:"field" binding:"required"`
		Operator string `json:"operator" binding:"required,oneof=eq neq gt lt contains between"`
		Value    any    `json:"value" binding:"required"`
		Label    string `json:"label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	created := h.dashboard.AddFilter(domain.GlobalFilter{
		Field:    req.Field,
		Operator: req.Operator,
		Value:    req.Value,
		Label:    req.Label,
	})
	c.JSON(http.StatusCreated, created)
}

// UpdateFilter replaces a filter's fields
func (h *CollabHandler) UpdateFilter(c *gin.Context) {
	var f domain.GlobalFilter
	if err := c.ShouldBindJSON(&f); err != nil {
		_ = c.Error(err)
		return
	}
	if !h.dashboard.UpdateFilter(c.Param("id"), f) {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteFilter removes a filter
func (h *CollabHandler) DeleteFilter(c *gin.Context) {
	h.dashboard.RemoveFilter(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ListComments returns all widget comments
func (h *CollabHandler) ListComments(c *gin.Context) {
	comments := h.dashboard.ListComments()
	c.JSON(http.StatusOK, ListResponse{Data: comments, Total: len(comments)})
}

// CreateComment attaches a comment to a widget
func (h *CollabHandler) CreateComment(c *gin.Context) {
	var req struct {
		WidgetID string `json:"widgetId" binding:"required"`
		Author   string `json:"author" binding:"required"`
		Text     string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	created := h.dashboard.AddComment(domain.Comment{
		WidgetID: req.WidgetID,
		Author:   req.Author,
		Text:     req.Text,
	})
	c.JSON(http.StatusCreated, created)
}

// UpdateComment patches a comment
func (h *CollabHandler) UpdateComment(c *gin.Context) {
	var patch domain.CommentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		_ = c.Error(err)
		return
	}
	if !h.dashboard.UpdateComment(c.Param("id"), patch) {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteComment removes a comment
func (h *CollabHandler) DeleteComment(c *gin.Context) {
	h.dashboard.DeleteComment(c.Param("id"))
	c.Status(http.StatusNoContent)
}
