package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/store"
)

func newTestDashboard(t *testing.T) (*DashboardService, Stores, *ProducerRegistry) {
	t.Helper()

	cfg := &config.Config{}
	stores := Stores{
		Widgets:       store.NewWidgetStore(),
		Layouts:       store.NewLayoutStore(),
		Themes:        store.NewThemeStore(),
		Alerts:        store.NewPipeline[domain.Alert](),
		Insights:      store.NewPipeline[domain.Insight](),
		Notifications: store.NewNotificationStore(),
		Goals:         store.NewGoalStore(0.15),
		Collab:        store.NewCollabStore(),
	}
	producers := NewProducerRegistry()
	insights := NewInsightService(cfg, stores.Insights, zap.NewNop())
	scheduler := NewRefreshScheduler(false, time.Millisecond, zap.NewNop())
	t.Cleanup(scheduler.Stop)

	svc := NewDashboardService(stores, nil, scheduler, producers, insights, nil, zap.NewNop())
	return svc, stores, producers
}

func TestDashboardBootstrapSeedsDefaults(t *testing.T) {
	svc, stores, _ := newTestDashboard(t)

	require.NoError(t, svc.Bootstrap())

	assert.Equal(t, "default", stores.Layouts.Active())
	assert.NotEmpty(t, svc.ListWidgets(), "default layout's widgets become the live set")
	assert.NotEmpty(t, svc.ListLayouts())

	def, ok := stores.Layouts.Default()
	assert.True(t, ok)
	assert.Equal(t, "default", def.ID)
}

func TestDashboardAddWidgetValidates(t *testing.T) {
	svc, _, _ := newTestDashboard(t)

	_, err := svc.AddWidget(domain.Widget{Kind: "weather", Width: domain.WidthSmall, Height: domain.HeightSmall})
	assert.ErrorIs(t, err, domain.ErrValidation)

	created, err := svc.AddWidget(domain.Widget{
		Kind:   domain.KindKPICard,
		Title:  "Revenue",
		Width:  domain.WidthSmall,
		Height: domain.HeightSmall,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.Position)
}

func TestDashboardRemoveWidgetDropsLayoutRefs(t *testing.T) {
	svc, stores, _ := newTestDashboard(t)
	require.NoError(t, svc.Bootstrap())

	live := svc.ListWidgets()
	require.NotEmpty(t, live)
	victim := live[0].ID

	svc.RemoveWidget(victim)

	_, found := svc.GetWidget(victim)
	assert.False(t, found)
	for _, l := range stores.Layouts.List() {
		for _, w := range l.Widgets {
			assert.NotEqual(t, victim, w.ID, "layout %s still references removed widget", l.ID)
		}
	}
}

func TestDashboardReorderDropsOmitted(t *testing.T) {
	svc, stores, _ := newTestDashboard(t)

	a, _ := svc.AddWidget(domain.Widget{Kind: domain.KindKPICard, Width: domain.WidthSmall, Height: domain.HeightSmall})
	b, _ := svc.AddWidget(domain.Widget{Kind: domain.KindPieChart, Width: domain.WidthSmall, Height: domain.HeightSmall})
	c, _ := svc.AddWidget(domain.Widget{Kind: domain.KindLineChart, Width: domain.WidthSmall, Height: domain.HeightSmall})

	dropped := svc.ReorderWidgets([]string{c.ID, a.ID})
	assert.Equal(t, []string{b.ID}, dropped)

	live := svc.ListWidgets()
	require.Len(t, live, 2)
	assert.Equal(t, c.ID, live[0].ID)
	assert.Equal(t, a.ID, live[1].ID)

	for _, l := range stores.Layouts.List() {
		for _, w := range l.Widgets {
			assert.NotEqual(t, b.ID, w.ID)
		}
	}
}

func TestDashboardSwitchLayout(t *testing.T) {
	svc, stores, _ := newTestDashboard(t)
	require.NoError(t, svc.Bootstrap())

	layouts := svc.ListLayouts()
	require.Greater(t, len(layouts), 1)

	var other domain.Layout
	for _, l := range layouts {
		if l.ID != stores.Layouts.Active() {
			other = l
			break
		}
	}

	assert.True(t, svc.SwitchLayout(other.ID))
	assert.Equal(t, other.ID, stores.Layouts.Active())
	assert.Len(t, svc.ListWidgets(), len(other.Widgets), "live set is the layout's own snapshot")
	assert.Equal(t, other.ID, svc.Settings().Layout, "settings mirror follows the switch")

	// Unknown layout is a no-op; live set and active id stay put.
	before := svc.ListWidgets()
	assert.False(t, svc.SwitchLayout("ghost"))
	assert.Equal(t, other.ID, stores.Layouts.Active())
	assert.Equal(t, len(before), len(svc.ListWidgets()))
}

func TestDashboardDeleteActiveLayoutFallsBack(t *testing.T) {
	svc, stores, _ := newTestDashboard(t)
	require.NoError(t, svc.Bootstrap())

	layouts := svc.ListLayouts()
	var secondary domain.Layout
	for _, l := range layouts {
		if !l.IsDefault {
			secondary = l
			break
		}
	}
	require.NotEmpty(t, secondary.ID)

	require.True(t, svc.SwitchLayout(secondary.ID))
	assert.True(t, svc.DeleteLayout(secondary.ID))

	assert.Equal(t, "default", stores.Layouts.Active(), "deleting the active layout activates the default")
	def, _ := stores.Layouts.Default()
	assert.Len(t, svc.ListWidgets(), len(def.Widgets))
}

func TestDashboardSwitchThemeMirrorsSettings(t *testing.T) {
	svc, _, _ := newTestDashboard(t)

	assert.True(t, svc.SwitchTheme("dark"))
	assert.Equal(t, "dark", svc.ActiveTheme())
	assert.Equal(t, "dark", svc.Settings().Theme)

	// Unknown theme changes neither the pointer nor the settings copy.
	assert.False(t, svc.SwitchTheme("neon"))
	assert.Equal(t, "dark", svc.ActiveTheme())
	assert.Equal(t, "dark", svc.Settings().Theme)
}

func TestDashboardConcurrentThemeSwitchesKeepMirrorInSync(t *testing.T) {
	svc, _, _ := newTestDashboard(t)

	// Interleaved switches must leave the active pointer and the settings
	// copy in agreement; a split critical section can strand them on
	// different themes for good.
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			themes := []string{"light", "dark"}
			for i := 0; i < 200; i++ {
				svc.SwitchTheme(themes[(g+i)%2])
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, svc.ActiveTheme(), svc.Settings().Theme)
}

func TestDashboardResetToDefault(t *testing.T) {
	svc, stores, _ := newTestDashboard(t)
	require.NoError(t, svc.Bootstrap())

	original := len(svc.ListWidgets())
	live := svc.ListWidgets()
	svc.RemoveWidget(live[0].ID)
	svc.ReorderWidgets([]string{live[1].ID})
	require.Less(t, len(svc.ListWidgets()), original)

	// The default layout's snapshot lost the removed widgets too, so reset
	// restores the remaining snapshot, not the factory set.
	assert.True(t, svc.ResetToDefault())
	def, _ := stores.Layouts.Default()
	assert.Len(t, svc.ListWidgets(), len(def.Widgets))
	assert.Equal(t, "default", stores.Layouts.Active())
}

func TestDashboardRefreshWidget(t *testing.T) {
	svc, stores, producers := newTestDashboard(t)

	w, err := svc.AddWidget(domain.Widget{
		Kind:   domain.KindKPICard,
		Title:  "Conversion",
		Width:  domain.WidthSmall,
		Height: domain.HeightSmall,
		Data:   domain.KPICardPayload{Label: "Conversion", Value: 50, Change: 1},
	})
	require.NoError(t, err)

	producers.Register(domain.KindKPICard, func(domain.Widget) (domain.WidgetPayload, error) {
		return domain.KPICardPayload{Label: "Conversion", Value: 30, Change: -20}, nil
	})

	require.NoError(t, svc.RefreshWidget(w.ID))

	refreshed, _ := svc.GetWidget(w.ID)
	payload, ok := refreshed.Data.(domain.KPICardPayload)
	require.True(t, ok)
	assert.Equal(t, float64(30), payload.Value, "payload is replaced wholesale")
	assert.False(t, refreshed.LastUpdated.IsZero())

	// The sharp drop emitted a critical alert into the pipeline.
	alerts := stores.Alerts.List()
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.PriorityCritical, alerts[0].Priority)
	assert.Equal(t, w.ID, alerts[0].RelatedWidget)
}

func TestDashboardRefreshWidgetNoProducer(t *testing.T) {
	svc, _, _ := newTestDashboard(t)

	w, err := svc.AddWidget(domain.Widget{
		Kind:   domain.KindPieChart,
		Width:  domain.WidthSmall,
		Height: domain.HeightSmall,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RefreshWidget(w.ID), ErrNoProducer)

	// An unknown widget id is not an error; the tick is simply stale.
	assert.NoError(t, svc.RefreshWidget("ghost"))
}

func TestDashboardRefreshFailureKeepsStaleData(t *testing.T) {
	svc, _, producers := newTestDashboard(t)

	w, err := svc.AddWidget(domain.Widget{
		Kind:   domain.KindKPICard,
		Width:  domain.WidthSmall,
		Height: domain.HeightSmall,
		Data:   domain.KPICardPayload{Value: 50},
	})
	require.NoError(t, err)

	producers.Register(domain.KindKPICard, func(domain.Widget) (domain.WidgetPayload, error) {
		return nil, assert.AnError
	})

	assert.Error(t, svc.RefreshWidget(w.ID))

	stale, _ := svc.GetWidget(w.ID)
	payload, ok := stale.Data.(domain.KPICardPayload)
	require.True(t, ok)
	assert.Equal(t, float64(50), payload.Value)
	assert.True(t, stale.LastUpdated.IsZero(), "a failed refresh does not touch lastUpdated")
}
