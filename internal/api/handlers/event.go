package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/service"
	"github.com/pulseboard/pulseboard/pkg/validator"
)

// EventHandler handles the alert, insight and notification pipelines
type EventHandler struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(dashboard *service.DashboardService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// CreateAlertRequest is the payload for enqueuing an alert
type CreateAlertRequest struct {
	Title         string               `json:"title" binding:"required,max=200"`
	Message       string               `json:"message" binding:"required"`
	Type          string               `json:"type" binding:"required,oneof=info success warning error"`
	Priority      string               `json:"priority" binding:"required,priority"`
	Actions       []domain.EventAction `json:"actions"`
	RelatedWidget string               `json:"relatedWidget"`
	AutoHide      bool                 `json:"autoHide"`
}

// CreateInsightRequest is the payload for enqueuing an insight
type CreateInsightRequest struct {
	Title        string               `json:"title" binding:"required,max=200"`
	Description  string               `json:"description" binding:"required"`
	Type         string               `json:"type" binding:"required,oneof=trend anomaly prediction recommendation"`
	Confidence   float64              `json:"confidence" binding:"gte=0,lte=1"`
	Impact       string               `json:"impact" binding:"required,impact"`
	Category     string               `json:"category"`
	Data         map[string]any       `json:"data"`
	IsActionable bool                 `json:"isActionable"`
	Actions      []domain.EventAction `json:"actions"`
}

// CreateNotificationRequest is the payload for enqueuing a notification
type CreateNotificationRequest struct {
	Title   string               `json:"title" binding:"required,max=200"`
	Message string               `json:"message" binding:"required"`
	Type    string               `json:"type" binding:"required,oneof=info success warning error"`
	Actions []domain.EventAction `json:"actions"`
}

// ListAlerts returns alerts newest first
func (h *EventHandler) ListAlerts(c *gin.Context) {
	alerts := h.dashboard.ListAlerts()
	c.JSON(http.StatusOK, ListResponse{Data: alerts, Total: len(alerts)})
}

// CreateAlert enqueues an alert
func (h *EventHandler) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	created := h.dashboard.AddAlert(domain.Alert{
		Title:         req.Title,
		Message:       req.Message,
		Type:          domain.AlertType(req.Type),
		Priority:      domain.Priority(req.Priority),
		Actions:       req.Actions,
		RelatedWidget: req.RelatedWidget,
		AutoHide:      req.AutoHide,
	})
	c.JSON(http.StatusCreated, created)
}

// DismissAlert removes an alert; idempotent
func (h *EventHandler) DismissAlert(c *gin.Context) {
	h.dashboard.DismissAlert(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ListInsights returns insights newest first
func (h *EventHandler) ListInsights(c *gin.Context) {
	insights := h.dashboard.ListInsights()
	c.JSON(http.StatusOK, ListResponse{Data: insights, Total: len(insights)})
}

// CreateInsight enqueues an insight
func (h *EventHandler) CreateInsight(c *gin.Context) {
	var req CreateInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	created := h.dashboard.AddInsight(domain.Insight{
		Title:        req.Title,
		Description:  req.Description,
		Type:         domain.InsightType(req.Type),
		Confidence:   req.Confidence,
		Impact:       domain.Impact(req.Impact),
		Category:     req.Category,
		Data:         req.Data,
		IsActionable: req.IsActionable,
		Actions:      req.Actions,
	})
	c.JSON(http.StatusCreated, created)
}

// DismissInsight removes an insight; idempotent
func (h *EventHandler) DismissInsight(c *gin.Context) {
	h.dashboard.DismissInsight(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ListNotifications returns notifications newest first with the unread count
func (h *EventHandler) ListNotifications(c *gin.Context) {
	notifications := h.dashboard.ListNotifications()
	c.JSON(http.StatusOK, gin.H{
		"data":        notifications,
		"total":       len(notifications),
		"unreadCount": h.dashboard.UnreadCount(),
	})
}

// CreateNotification enqueues a notification
func (h *EventHandler) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	created := h.dashboard.AddNotification(domain.Notification{
		Title:   req.Title,
		Message: req.Message,
		Type:    domain.AlertType(req.Type),
		Actions: req.Actions,
	})
	c.JSON(http.StatusCreated, created)
}

// MarkNotificationRead flags a notification read; idempotent
func (h *EventHandler) MarkNotificationRead(c *gin.Context) {
	h.dashboard.MarkNotificationRead(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"unreadCount": h.dashboard.UnreadCount()})
}

// ClearNotifications drops every notification
func (h *EventHandler) ClearNotifications(c *gin.Context) {
	h.dashboard.ClearNotifications()
	c.Status(http.StatusNoContent)
}
