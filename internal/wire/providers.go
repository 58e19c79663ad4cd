package wire

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pulseboard/pulseboard/internal/api"
	"github.com/pulseboard/pulseboard/internal/api/handlers"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/persistence"
	"github.com/pulseboard/pulseboard/internal/service"
	"github.com/pulseboard/pulseboard/internal/store"
)

// ProviderSet is the main provider set that includes all application dependencies.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideSnapshotStore,
	ProvideStores,
	ProvideEventHub,
	ProvideProducerRegistry,
	ProvideInsightService,
	ProvideRefreshScheduler,
	ProvideExportService,
	ProvideDashboardService,
	HandlerSet,
	ProvideRouter,
	ProvideApplication,
)

// HandlerSet provides all HTTP handlers.
var HandlerSet = wire.NewSet(
	handlers.NewHealthHandler,
	handlers.NewWidgetHandler,
	handlers.NewLayoutHandler,
	handlers.NewThemeHandler,
	handlers.NewEventHandler,
	handlers.NewGoalHandler,
	handlers.NewExportHandler,
	handlers.NewCollabHandler,
	handlers.NewWebSocketHandler,
	ProvideHandlers,
)

// Application holds all the dependencies needed to run the server.
type Application struct {
	Config    *config.Config
	Logger    *zap.Logger
	Router    *gin.Engine
	Handlers  *api.Handlers
	Dashboard *service.DashboardService
	Scheduler *service.RefreshScheduler
	Exports   *service.ExportService
	Hub       *service.EventHub

	snapshots *persistence.Store
	cancel    context.CancelFunc
}

// Start bootstraps the engine state and launches background services.
func (a *Application) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.Hub.Run(ctx)
	go a.Exports.RunSweep(ctx, a.Config.Export.SweepInterval)

	return a.Dashboard.Bootstrap()
}

// Cleanup stops background services and releases resources.
func (a *Application) Cleanup() {
	if a.cancel != nil {
		a.cancel()
	}
	a.Scheduler.Stop()
	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil {
			a.Logger.Error("failed to close snapshot store", zap.Error(err))
		}
	}
}

// ProvideLogger creates a configured zap logger.
func ProvideLogger(cfg *config.Config) *zap.Logger {
	var zapConfig zap.Config
	if cfg.IsDevelopment() {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	logger, err := zapConfig.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return logger
}

// ProvideSnapshotStore opens the local snapshot store, or returns nil when
// persistence is disabled.
func ProvideSnapshotStore(cfg *config.Config, logger *zap.Logger) (*persistence.Store, error) {
	if !cfg.Snapshot.Enabled {
		logger.Info("snapshot persistence disabled")
		return nil, nil
	}
	return persistence.Open(cfg.Snapshot.Path, logger)
}

// ProvideStores creates the per-concern state stores.
func ProvideStores(cfg *config.Config) service.Stores {
	return service.Stores{
		Widgets:       store.NewWidgetStore(),
		Layouts:       store.NewLayoutStore(),
		Themes:        store.NewThemeStore(),
		Alerts:        store.NewPipeline[domain.Alert](),
		Insights:      store.NewPipeline[domain.Insight](),
		Notifications: store.NewNotificationStore(),
		Goals:         store.NewGoalStore(cfg.Goals.RiskSlack),
		Collab:        store.NewCollabStore(),
	}
}

// ProvideEventHub creates the WebSocket event hub.
func ProvideEventHub(logger *zap.Logger) *service.EventHub {
	return service.NewEventHub(logger)
}

// ProvideProducerRegistry creates the registry of per-kind data producers.
func ProvideProducerRegistry(stores service.Stores) *service.ProducerRegistry {
	return service.DefaultProducerRegistry(stores.Goals, stores.Alerts, time.Now)
}

// ProvideInsightService creates the refresh rule evaluator.
func ProvideInsightService(cfg *config.Config, stores service.Stores, logger *zap.Logger) *service.InsightService {
	return service.NewInsightService(cfg, stores.Insights, logger)
}

// ProvideRefreshScheduler creates the per-widget refresh scheduler.
func ProvideRefreshScheduler(cfg *config.Config, logger *zap.Logger) *service.RefreshScheduler {
	return service.NewRefreshScheduler(cfg.Refresh.RealTimeDefault, cfg.Refresh.MinInterval, logger)
}

// ProvideExportService creates the export job service.
func ProvideExportService(cfg *config.Config, hub *service.EventHub, logger *zap.Logger) *service.ExportService {
	return service.NewExportService(cfg, hub, logger)
}

// ProvideDashboardService creates the orchestrator.
func ProvideDashboardService(
	stores service.Stores,
	snapshots *persistence.Store,
	scheduler *service.RefreshScheduler,
	producers *service.ProducerRegistry,
	insights *service.InsightService,
	hub *service.EventHub,
	logger *zap.Logger,
) *service.DashboardService {
	return service.NewDashboardService(stores, snapshots, scheduler, producers, insights, hub, logger)
}

// ProvideHandlers bundles the HTTP handlers.
func ProvideHandlers(
	health *handlers.HealthHandler,
	widget *handlers.WidgetHandler,
	layout *handlers.LayoutHandler,
	theme *handlers.ThemeHandler,
	event *handlers.EventHandler,
	goal *handlers.GoalHandler,
	export *handlers.ExportHandler,
	collab *handlers.CollabHandler,
	ws *handlers.WebSocketHandler,
) *api.Handlers {
	return &api.Handlers{
		Health:    health,
		Widget:    widget,
		Layout:    layout,
		Theme:     theme,
		Event:     event,
		Goal:      goal,
		Export:    export,
		Collab:    collab,
		WebSocket: ws,
	}
}

// ProvideRouter creates the Gin router with all routes configured.
func ProvideRouter(h *api.Handlers, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	return api.SetupRouter(h, cfg, logger)
}

// ProvideApplication creates the main Application struct with all dependencies.
func ProvideApplication(
	cfg *config.Config,
	logger *zap.Logger,
	snapshots *persistence.Store,
	router *gin.Engine,
	apiHandlers *api.Handlers,
	dashboard *service.DashboardService,
	scheduler *service.RefreshScheduler,
	exports *service.ExportService,
	hub *service.EventHub,
) *Application {
	return &Application{
		Config:    cfg,
		Logger:    logger,
		Router:    router,
		Handlers:  apiHandlers,
		Dashboard: dashboard,
		Scheduler: scheduler,
		Exports:   exports,
		Hub:       hub,
		snapshots: snapshots,
	}
}
