package service

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/persistence"
	"github.com/pulseboard/pulseboard/internal/store"
)

// DashboardService orchestrates the engine's stores. Cross-store
// operations touch stores in the fixed order widgets, layouts, alerts,
// insights, notifications, goals, jobs, so lock acquisition order is
// globally consistent.
//
// Mutations of the persisted subset write through to the snapshot store;
// a snapshot failure is logged, never surfaced, so persistence trouble
// cannot fail an otherwise valid operation.
type DashboardService struct {
	widgets       *store.WidgetStore
	layouts       *store.LayoutStore
	themes        *store.ThemeStore
	alerts        *store.Pipeline[domain.Alert]
	insightStore  *store.Pipeline[domain.Insight]
	notifications *store.NotificationStore
	goals         *store.GoalStore
	collab        *store.CollabStore

	snapshots *persistence.Store
	scheduler *RefreshScheduler
	producers *ProducerRegistry
	insights  *InsightService
	hub       *EventHub

	// mirrorMu couples the active theme/layout pointers with their
	// copies inside settings: switches hold it across the pointer flip
	// and the mirror write, readers hold it across both reads, so no
	// reader ever sees the pair disagree.
	mirrorMu sync.RWMutex

	now    func() time.Time
	logger *zap.Logger
}

// Stores bundles the per-concern state stores for construction.
type Stores struct {
	Widgets       *store.WidgetStore
	Layouts       *store.LayoutStore
	Themes        *store.ThemeStore
	Alerts        *store.Pipeline[domain.Alert]
	Insights      *store.Pipeline[domain.Insight]
	Notifications *store.NotificationStore
	Goals         *store.GoalStore
	Collab        *store.CollabStore
}

// NewDashboardService creates the orchestrator and attaches it to the
// scheduler as its refresh target. snapshots may be nil when persistence
// is disabled.
func NewDashboardService(
	stores Stores,
	snapshots *persistence.Store,
	scheduler *RefreshScheduler,
	producers *ProducerRegistry,
	insights *InsightService,
	hub *EventHub,
	logger *zap.Logger,
) *DashboardService {
	s := &DashboardService{
		widgets:       stores.Widgets,
		layouts:       stores.Layouts,
		themes:        stores.Themes,
		alerts:        stores.Alerts,
		insightStore:  stores.Insights,
		notifications: stores.Notifications,
		goals:         stores.Goals,
		collab:        stores.Collab,
		snapshots:     snapshots,
		scheduler:     scheduler,
		producers:     producers,
		insights:      insights,
		hub:           hub,
		now:           time.Now,
		logger:        logger,
	}
	scheduler.AttachTarget(s)
	return s
}

// Bootstrap seeds the stores, preferring a saved snapshot over defaults,
// and installs the initial refresh schedule.
func (s *DashboardService) Bootstrap() error {
	now := s.now()

	restored := false
	if s.snapshots != nil {
		snap, found, err := s.snapshots.Load()
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if found {
			s.widgets.Replace(snap.Widgets)
			s.layouts.Seed(snap.Layouts, snap.ActiveLayout)
			s.themes.Seed(snap.Themes, snap.ActiveTheme)
			s.goals.Seed(snap.Goals)
			s.collab.SeedSettings(snap.Settings)
			restored = true
			s.logger.Info("restored dashboard snapshot",
				zap.Int("widgets", len(snap.Widgets)),
				zap.Int("layouts", len(snap.Layouts)),
				zap.Int("goals", len(snap.Goals)),
			)
		}
	}

	if !restored {
		layouts := DefaultLayouts(now)
		s.layouts.Seed(layouts, "default")
		s.widgets.Replace(layouts[0].Widgets)
		s.logger.Info("seeded default dashboard")
	}

	s.scheduler.ScheduleAll(s.widgets.List())
	return nil
}

// RefreshWidget implements RefreshTarget: it runs the widget's producer
// and replaces the payload wholesale. Producer failure keeps the stale
// payload and timestamp, and enqueues nothing.
func (s *DashboardService) RefreshWidget(id string) error {
	w, ok := s.widgets.Get(id)
	if !ok {
		return nil
	}
	producer, ok := s.producers.Lookup(w.Kind)
	if !ok {
		return fmt.Errorf("%w for kind %s", ErrNoProducer, w.Kind)
	}

	fresh, err := producer(w)
	if err != nil {
		return fmt.Errorf("produce %s payload: %w", w.Kind, err)
	}

	now := s.now()
	if !s.widgets.ReplaceData(id, fresh, now) {
		// Removed between Get and ReplaceData; drop the result.
		return nil
	}
	s.persist()

	if s.hub != nil {
		s.hub.Broadcast(EventWidgetRefreshed, map[string]any{
			"widgetId":    id,
			"lastUpdated": now,
		})
	}

	// Fire-and-forget emissions; pipeline order follows the global store
	// order so each widget's own emissions stay internally ordered.
	emissions := s.insights.EvaluateRefresh(w, w.Data, fresh)
	for _, a := range emissions.Alerts {
		s.AddAlert(a)
	}
	for _, i := range emissions.Insights {
		s.AddInsight(i)
	}
	for _, n := range emissions.Notifications {
		s.AddNotification(n)
	}
	return nil
}

// --- Widgets ---

// AddWidget validates and stores a widget, then schedules its refresh.
func (s *DashboardService) AddWidget(w domain.Widget) (domain.Widget, error) {
	if err := w.Validate(); err != nil {
		return domain.Widget{}, err
	}
	added := s.widgets.Add(w)
	s.scheduler.Schedule(added)
	s.persist()
	return added, nil
}

// RemoveWidget deletes the widget, its timer, and every layout's
// reference to it. Unknown ids are a no-op.
func (s *DashboardService) RemoveWidget(id string) {
	if s.widgets.Remove(id) {
		s.layouts.RemoveWidgetRefs(id)
		s.scheduler.Cancel(id)
		s.persist()
	}
}

// UpdateWidget applies a partial update; an interval change reschedules
// the widget's timer. Unknown ids are a no-op.
func (s *DashboardService) UpdateWidget(id string, patch domain.WidgetPatch) (domain.Widget, bool) {
	if !s.widgets.Update(id, patch) {
		return domain.Widget{}, false
	}
	w, _ := s.widgets.Get(id)
	if patch.RefreshInterval != nil {
		s.scheduler.Schedule(w)
	}
	s.persist()
	return w, true
}

// ExpandWidget expands one widget, collapsing any other.
func (s *DashboardService) ExpandWidget(id string) bool {
	ok := s.widgets.Expand(id)
	if ok {
		s.persist()
	}
	return ok
}

// CollapseWidgets clears any expanded widget.
func (s *DashboardService) CollapseWidgets() {
	s.widgets.Collapse()
	s.persist()
}

// MoveWidget splices the widget to a new position and renumbers the set.
func (s *DashboardService) MoveWidget(id string, position int) bool {
	ok := s.widgets.Move(id, position)
	if ok {
		s.persist()
	}
	return ok
}

// ReorderWidgets replaces the widget ordering. Live widgets omitted from
// ids are dropped, and their timers cancelled; this is replace-by-new-
// order, not a partial permutation.
func (s *DashboardService) ReorderWidgets(ids []string) []string {
	dropped := s.widgets.Reorder(ids)
	for _, id := range dropped {
		s.layouts.RemoveWidgetRefs(id)
		s.scheduler.Cancel(id)
	}
	s.persist()
	return dropped
}

// ListWidgets returns the live widget set in position order.
func (s *DashboardService) ListWidgets() []domain.Widget {
	return s.widgets.List()
}

// GetWidget returns one widget.
func (s *DashboardService) GetWidget(id string) (domain.Widget, bool) {
	return s.widgets.Get(id)
}

// --- Layouts ---

// CreateLayout validates grid parameters, stamps id and timestamps.
func (s *DashboardService) CreateLayout(l domain.Layout) (domain.Layout, error) {
	if err := l.GridConfig.Validate(); err != nil {
		return domain.Layout{}, err
	}
	created := s.layouts.Create(l, s.now())
	s.persist()
	return created, nil
}

// SwitchLayout activates a layout, replacing the live widget set with the
// layout's own snapshot and rebuilding the refresh schedule. An unknown
// id is a no-op: the previous active set is retained.
func (s *DashboardService) SwitchLayout(id string) bool {
	s.mirrorMu.Lock()
	layout, ok := s.layouts.SetActive(id)
	if ok {
		s.collab.MirrorLayout(id)
	}
	s.mirrorMu.Unlock()
	if !ok {
		return false
	}
	s.widgets.Replace(layout.Widgets)
	s.scheduler.ScheduleAll(s.widgets.List())
	s.persist()

	if s.hub != nil {
		s.hub.Broadcast(EventLayoutSwitched, map[string]any{"layoutId": id})
	}
	return true
}

// UpdateLayout patches a layout atomically; an invalid patch leaves the
// layout untouched. Unknown ids are a no-op.
func (s *DashboardService) UpdateLayout(id string, patch domain.LayoutPatch) (bool, error) {
	changed, err := s.layouts.Update(id, patch, s.now())
	if err != nil {
		return false, err
	}
	if changed {
		s.persist()
	}
	return changed, nil
}

// DeleteLayout removes a layout. Deleting the active layout activates the
// default layout (or the first remaining one) and swaps in its widget
// snapshot; deleting the last layout leaves the live widgets in place
// with no active layout.
func (s *DashboardService) DeleteLayout(id string) bool {
	s.mirrorMu.Lock()
	successor, removed := s.layouts.Delete(id)
	if removed && successor != nil {
		s.collab.MirrorLayout(successor.ID)
	}
	s.mirrorMu.Unlock()
	if !removed {
		return false
	}
	if successor != nil {
		s.widgets.Replace(successor.Widgets)
		s.scheduler.ScheduleAll(s.widgets.List())
	}
	s.persist()
	return true
}

// ListLayouts returns all layouts.
func (s *DashboardService) ListLayouts() []domain.Layout {
	return s.layouts.List()
}

// GetLayout returns one layout.
func (s *DashboardService) GetLayout(id string) (domain.Layout, bool) {
	return s.layouts.Get(id)
}

// ActiveLayout returns the active layout id.
func (s *DashboardService) ActiveLayout() string {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.layouts.Active()
}

// ResetToDefault restores the default layout's widget snapshot and makes
// it active again.
func (s *DashboardService) ResetToDefault() bool {
	def, ok := s.layouts.Default()
	if !ok {
		return false
	}
	return s.SwitchLayout(def.ID)
}

// --- Themes ---

// SwitchTheme activates a theme and mirrors the id into settings in the
// same operation, so the pointer and the settings copy cannot diverge.
// Unknown ids are a no-op.
func (s *DashboardService) SwitchTheme(id string) bool {
	s.mirrorMu.Lock()
	ok := s.themes.SetActive(id)
	if ok {
		s.collab.MirrorTheme(id)
	}
	s.mirrorMu.Unlock()
	if !ok {
		return false
	}
	s.persist()
	return true
}

// CreateCustomTheme appends a theme under a fresh id.
func (s *DashboardService) CreateCustomTheme(t domain.Theme) domain.Theme {
	created := s.themes.CreateCustom(t)
	s.persist()
	return created
}

// ListThemes returns the registry.
func (s *DashboardService) ListThemes() []domain.Theme {
	return s.themes.List()
}

// ActiveTheme returns the active theme id.
func (s *DashboardService) ActiveTheme() string {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.themes.Active()
}

// --- Pipelines ---

// AddAlert enqueues an alert, newest first.
func (s *DashboardService) AddAlert(a domain.Alert) domain.Alert {
	added := s.alerts.Add(a, s.now())
	if s.hub != nil {
		s.hub.Broadcast(EventAlertCreated, added)
	}
	return added
}

// DismissAlert removes an alert; idempotent.
func (s *DashboardService) DismissAlert(id string) {
	s.alerts.Dismiss(id)
}

// ListAlerts returns alerts newest first.
func (s *DashboardService) ListAlerts() []domain.Alert {
	return s.alerts.List()
}

// AddInsight enqueues an insight and kicks off optional enrichment.
func (s *DashboardService) AddInsight(i domain.Insight) domain.Insight {
	added := s.insightStore.Add(i, s.now())
	if s.hub != nil {
		s.hub.Broadcast(EventInsightCreated, added)
	}
	s.insights.Enrich(added)
	return added
}

// DismissInsight removes an insight; idempotent.
func (s *DashboardService) DismissInsight(id string) {
	s.insightStore.Dismiss(id)
}

// ListInsights returns insights newest first.
func (s *DashboardService) ListInsights() []domain.Insight {
	return s.insightStore.List()
}

// AddNotification enqueues a notification.
func (s *DashboardService) AddNotification(n domain.Notification) domain.Notification {
	added := s.notifications.Add(n, s.now())
	if s.hub != nil {
		s.hub.Broadcast(EventNotificationCreated, added)
	}
	return added
}

// MarkNotificationRead flags a notification read; idempotent.
func (s *DashboardService) MarkNotificationRead(id string) {
	s.notifications.MarkRead(id)
}

// ClearNotifications drops every notification.
func (s *DashboardService) ClearNotifications() {
	s.notifications.Clear()
}

// ListNotifications returns notifications newest first.
func (s *DashboardService) ListNotifications() []domain.Notification {
	return s.notifications.List()
}

// UnreadCount is derived from the collection on every call.
func (s *DashboardService) UnreadCount() int {
	return s.notifications.UnreadCount()
}

// --- Goals ---

// AddGoal stores a goal; the returned record carries its derived status.
func (s *DashboardService) AddGoal(g domain.Goal) domain.Goal {
	added := s.goals.Add(g, s.now())
	s.persist()
	return added
}

// UpdateGoal patches a goal. Status is not patchable.
func (s *DashboardService) UpdateGoal(id string, patch domain.GoalPatch) (domain.Goal, bool, error) {
	updated, ok, err := s.goals.Update(id, patch, s.now())
	if err != nil {
		return domain.Goal{}, false, err
	}
	if ok {
		s.persist()
	}
	return updated, ok, nil
}

// DeleteGoal removes a goal; unknown ids are a no-op.
func (s *DashboardService) DeleteGoal(id string) {
	if s.goals.Delete(id) {
		s.persist()
	}
}

// GetGoal returns a goal with status derived now.
func (s *DashboardService) GetGoal(id string) (domain.Goal, bool) {
	return s.goals.Get(id, s.now())
}

// ListGoals returns all goals with statuses derived now.
func (s *DashboardService) ListGoals() []domain.Goal {
	return s.goals.List(s.now())
}

// GoalSummary aggregates goals by derived status.
func (s *DashboardService) GoalSummary() domain.GoalSummary {
	return s.goals.Summary(s.now())
}

// --- Settings, filters, comments, presence ---

// Settings returns the current settings.
func (s *DashboardService) Settings() domain.DashboardSettings {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.collab.Settings()
}

// UpdateSettings applies a partial settings update.
func (s *DashboardService) UpdateSettings(patch domain.SettingsPatch) domain.DashboardSettings {
	updated := s.collab.UpdateSettings(patch)
	s.persist()
	return updated
}

// SetRealTime flips the realtime gate; timers restart from zero when
// re-enabled.
func (s *DashboardService) SetRealTime(enabled bool) {
	s.scheduler.SetRealTime(enabled)
}

// RealTime reports the realtime gate.
func (s *DashboardService) RealTime() bool {
	return s.scheduler.RealTime()
}

// AddFilter stores a global filter.
func (s *DashboardService) AddFilter(f domain.GlobalFilter) domain.GlobalFilter {
	return s.collab.AddFilter(f)
}

// UpdateFilter replaces a filter's fields; unknown ids are a no-op.
func (s *DashboardService) UpdateFilter(id string, f domain.GlobalFilter) bool {
	return s.collab.UpdateFilter(id, f)
}

// RemoveFilter deletes a filter; unknown ids are a no-op.
func (s *DashboardService) RemoveFilter(id string) {
	s.collab.RemoveFilter(id)
}

// ListFilters returns the filters.
func (s *DashboardService) ListFilters() []domain.GlobalFilter {
	return s.collab.Filters()
}

// AddComment stores a widget comment.
func (s *DashboardService) AddComment(c domain.Comment) domain.Comment {
	return s.collab.AddComment(c, s.now())
}

// UpdateComment patches a comment; unknown ids are a no-op.
func (s *DashboardService) UpdateComment(id string, patch domain.CommentPatch) bool {
	return s.collab.UpdateComment(id, patch)
}

// DeleteComment removes a comment; unknown ids are a no-op.
func (s *DashboardService) DeleteComment(id string) {
	s.collab.DeleteComment(id)
}

// ListComments returns all comments.
func (s *DashboardService) ListComments() []domain.Comment {
	return s.collab.Comments()
}

// AddDataset stores an uploaded dataset.
func (s *DashboardService) AddDataset(d domain.Dataset) domain.Dataset {
	return s.collab.AddDataset(d, s.now())
}

// RemoveDataset deletes a dataset; unknown ids are a no-op.
func (s *DashboardService) RemoveDataset(id string) {
	s.collab.RemoveDataset(id)
}

// ListDatasets returns the uploaded datasets.
func (s *DashboardService) ListDatasets() []domain.Dataset {
	return s.collab.Datasets()
}

// SetCustomizing toggles edit mode.
func (s *DashboardService) SetCustomizing(on bool) {
	s.collab.SetCustomizing(on)
}

// Customizing reports whether edit mode is on.
func (s *DashboardService) Customizing() bool {
	return s.collab.Customizing()
}

// SetSearchQuery records the global search query.
func (s *DashboardService) SetSearchQuery(q string) {
	s.collab.SetSearchQuery(q)
}

// SearchQuery returns the global search query.
func (s *DashboardService) SearchQuery() string {
	return s.collab.SearchQuery()
}

// presenceMaxAge is how long a collaborator stays listed after their
// last heartbeat.
const presenceMaxAge = 2 * time.Minute

// Heartbeat upserts a collaborator's presence entry.
func (s *DashboardService) Heartbeat(u domain.ActiveUser) {
	s.collab.TouchUser(u, s.now())
}

// ActiveUsers prunes stale entries and returns the present collaborators.
func (s *DashboardService) ActiveUsers() []domain.ActiveUser {
	now := s.now()
	s.collab.PruneUsers(now, presenceMaxAge)
	return s.collab.ActiveUsers()
}

// persist writes the persisted subset through to the snapshot store.
// Pipelines, export jobs and comments are ephemeral and excluded.
func (s *DashboardService) persist() {
	if s.snapshots == nil {
		return
	}
	snap := &persistence.Snapshot{
		Widgets:      s.widgets.List(),
		ActiveLayout: s.layouts.Active(),
		ActiveTheme:  s.themes.Active(),
		Settings:     s.collab.Settings(),
		Layouts:      s.layouts.List(),
		Themes:       s.themes.List(),
		Goals:        s.goals.Raw(),
	}
	if err := s.snapshots.Save(snap); err != nil {
		s.logger.Error("snapshot write-through failed", zap.Error(err))
	}
}
