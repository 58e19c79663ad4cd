package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/service"
	"github.com/pulseboard/pulseboard/pkg/validator"
)

// ThemeHandler handles theme endpoints
type ThemeHandler struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewThemeHandler creates a new theme handler
func NewThemeHandler(dashboard *service.DashboardService, logger *zap.Logger) *ThemeHandler {
	return &ThemeHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// CreateThemeRequest is the payload for registering a custom theme
type CreateThemeRequest struct {
	Name         string                 `json:"name" binding:"required,max=100"`
	Mode         string                 `json:"mode" binding:"required,thememode"`
	Colors       domain.ThemeColors     `json:"colors" binding:"required"`
	Typography   domain.ThemeTypography `json:"typography"`
	Spacing      map[string]string      `json:"spacing"`
	BorderRadius map[string]string      `json:"borderRadius"`
	Shadows      map[string]string      `json:"shadows"`
}

// List returns all registered themes
func (h *ThemeHandler) List(c *gin.Context) {
	themes := h.dashboard.ListThemes()
	c.JSON(http.StatusOK, gin.H{
		"data":          themes,
		"total":         len(themes),
		"activeThemeId": h.dashboard.ActiveTheme(),
	})
}

// Create registers a custom theme
func (h *ThemeHandler) Create(c *gin.Context) {
	var req CreateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if ve := validator.ParseValidationErrors(err); len(ve) > 0 {
			_ = c.Error(ve)
			return
		}
		_ = c.Error(err)
		return
	}

	created := h.dashboard.CreateCustomTheme(domain.Theme{
		Name:         req.Name,
		Mode:         domain.ThemeMode(req.Mode),
		Colors:       req.Colors,
		Typography:   req.Typography,
		Spacing:      req.Spacing,
		BorderRadius: req.BorderRadius,
		Shadows:      req.Shadows,
	})
	c.JSON(http.StatusCreated, created)
}

// Activate switches the active theme
func (h *ThemeHandler) Activate(c *gin.Context) {
	id := c.Param("id")
	if !h.dashboard.SwitchTheme(id) {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activeThemeId": id})
}
