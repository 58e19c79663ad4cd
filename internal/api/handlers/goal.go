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

// GoalHandler handles goal endpoints
type GoalHandler struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(dashboard *service.DashboardService, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// CreateGoalRequest is the payload for creating a goal. Status is absent:
// it is derived on every read and never settable.
type CreateGoalRequest struct {
	Title          string             `json:"title" binding:"required,max=200"`
	Description    string             `json:"description"`
	Metric         string             `json:"metric" binding:"required"`
	Target         float64            `json:"target" binding:"gt=0"`
	Current        float64            `json:"current"`
	Unit           string             `json:"unit"`
	Deadline       time.Time          `json:"deadline" binding:"required"`
	Category       string             `json:"category"`
	Priority       string             `json:"priority" binding:"omitempty,priority"`
	Milestones     []domain.Milestone `json:"milestones"`
	AssignedTo     []string           `json:"assignedTo"`
	RelatedWidgets []string           `json:"relatedWidgets"`
}

// List returns all goals with statuses derived at read time
func (h *GoalHandler) List(c *gin.Context) {
	goals := h.dashboard.ListGoals()
	c.JSON(http.StatusOK, ListResponse{Data: goals, Total: len(goals)})
}

// Get returns one goal with its derived status
func (h *GoalHandler) Get(c *gin.Context) {
	g, ok := h.dashboard.GetGoal(c.Param("id"))
	if !ok {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Create stores a goal
func (h *GoalHandler) Create(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority = domain.Priority(req.Priority)
	}
	created := h.dashboard.AddGoal(domain.Goal{
		Title:          req.Title,
		Description:    req.Description,
		Metric:         req.Metric,
		Target:         req.Target,
		Current:        req.Current,
		Unit:           req.Unit,
		Deadline:       req.Deadline,
		Category:       req.Category,
		Priority:       priority,
		Milestones:     req.Milestones,
		AssignedTo:     req.AssignedTo,
		RelatedWidgets: req.RelatedWidgets,
	})
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial goal update
func (h *GoalHandler) Update(c *gin.Context) {
	var patch domain.GoalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		_ = c.Error(err)
		return
	}

	updated, ok, err := h.dashboard.UpdateGoal(c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !ok {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a goal
func (h *GoalHandler) Delete(c *gin.Context) {
	h.dashboard.DeleteGoal(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// Summary aggregates goals by derived status
func (h *GoalHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.GoalSummary())
}
