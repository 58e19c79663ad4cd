package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/api/handlers"
	"github.com/pulseboard/pulseboard/internal/api/middleware"
	"github.com/pulseboard/pulseboard/internal/config"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Health    *handlers.HealthHandler
	Widget    *handlers.WidgetHandler
	Layout    *handlers.LayoutHandler
	Theme     *handlers.ThemeHandler
	Event     *handlers.EventHandler
	Goal      *handlers.GoalHandler
	Export    *handlers.ExportHandler
	Collab    *handlers.CollabHandler
	WebSocket *handlers.WebSocketHandler
}

// SetupRouter configures the Gin router with all routes and middleware
func SetupRouter(h *Handlers, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.ErrorHandler())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoints
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)

	// WebSocket endpoint for live engine events
	r.GET("/ws", h.WebSocket.ServeWS)

	// API v1
	v1 := r.Group("/v1")
	{
		// Widgets
		widgets := v1.Group("/widgets")
		{
			widgets.GET("", h.Widget.List)
			widgets.POST("", h.Widget.Create)
			widgets.POST("/reorder", h.Widget.Reorder)
			widgets.POST("/collapse", h.Widget.Collapse)
			widgets.GET("/:id", h.Widget.Get)
			widgets.PUT("/:id", h.Widget.Update)
			widgets.DELETE("/:id", h.Widget.Delete)
			widgets.POST("/:id/move", h.Widget.Move)
			widgets.POST("/:id/expand", h.Widget.Expand)
			widgets.POST("/:id/refresh", h.Widget.Refresh)
		}

		// Layouts
		layouts := v1.Group("/layouts")
		{
			layouts.GET("", h.Layout.List)
			layouts.POST("", h.Layout.Create)
			layouts.POST("/reset", h.Layout.Reset)
			layouts.GET("/:id", h.Layout.Get)
			layouts.PUT("/:id", h.Layout.Update)
			layouts.DELETE("/:id", h.Layout.Delete)
			layouts.POST("/:id/activate", h.Layout.Activate)
		}

		// Themes
		themes := v1.Group("/themes")
		{
			themes.GET("", h.Theme.List)
			themes.POST("", h.Theme.Create)
			themes.POST("/:id/activate", h.Theme.Activate)
		}

		// Alert pipeline
		alerts := v1.Group("/alerts")
		{
			alerts.GET("", h.Event.ListAlerts)
			alerts.POST("", h.Event.CreateAlert)
			alerts.DELETE("/:id", h.Event.DismissAlert)
		}

		// Insight pipeline
		insights := v1.Group("/insights")
		{
			insights.GET("", h.Event.ListInsights)
			insights.POST("", h.Event.CreateInsight)
			insights.DELETE("/:id", h.Event.DismissInsight)
		}

		// Notification pipeline
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.Event.ListNotifications)
			notifications.POST("", h.Event.CreateNotification)
			notifications.POST("/:id/read", h.Event.MarkNotificationRead)
			notifications.DELETE("", h.Event.ClearNotifications)
		}

		// Goals
		goals := v1.Group("/goals")
		{
			goals.GET("", h.Goal.List)
			goals.POST("", h.Goal.Create)
			goals.GET("/summary", h.Goal.Summary)
			goals.GET("/:id", h.Goal.Get)
			goals.PUT("/:id", h.Goal.Update)
			goals.DELETE("/:id", h.Goal.Delete)
		}

		// Export jobs
		exports := v1.Group("/exports")
		{
			exports.POST("", h.Export.Create)
			exports.GET("/:id", h.Export.Get)
			exports.GET("/:id/download", h.Export.Download)
		}

		// Settings and realtime controls
		v1.GET("/settings", h.Collab.GetSettings)
		v1.PUT("/settings", h.Collab.UpdateSettings)
		v1.GET("/realtime", h.Collab.GetRealTime)
		v1.PUT("/realtime", h.Collab.SetRealTime)
		v1.GET("/customizing", h.Collab.GetCustomizing)
		v1.PUT("/customizing", h.Collab.SetCustomizing)
		v1.GET("/search", h.Collab.GetSearch)
		v1.PUT("/search", h.Collab.SetSearch)

		// Collaborator presence
		presence := v1.Group("/presence")
		{
			presence.GET("", h.Collab.ListPresence)
			presence.POST("", h.Collab.Heartbeat)
		}

		// Global filters
		filters := v1.Group("/filters")
		{
			filters.GET("", h.Collab.ListFilters)
			filters.POST("", h.Collab.CreateFilter)
			filters.PUT("/:id", h.Collab.UpdateFilter)
			filters.DELETE("/:id", h.Collab.DeleteFilter)
		}

		// Uploaded datasets
		datasets := v1.Group("/datasets")
		{
			datasets.GET("", h.Collab.ListDatasets)
			datasets.POST("", h.Collab.CreateDataset)
			datasets.DELETE("/:id", h.Collab.DeleteDataset)
		}

		// Widget comments
		comments := v1.Group("/comments")
		{
			comments.GET("", h.Collab.ListComments)
			comments.POST("", h.Collab.CreateComment)
			comments.PUT("/:id", h.Collab.UpdateComment)
			comments.DELETE("/:id", h.Collab.DeleteComment)
		}
	}

	return r
}
