package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/store"
)

// ProducerFunc computes a fresh payload for a widget. An error leaves the
// widget's previous payload and lastUpdated untouched.
type ProducerFunc func(w domain.Widget) (domain.WidgetPayload, error)

// ProducerRegistry maps widget kinds to their data producers.
type ProducerRegistry struct {
	mu        sync.RWMutex
	producers map[domain.WidgetKind]ProducerFunc
}

// NewProducerRegistry creates an empty registry.
func NewProducerRegistry() *ProducerRegistry {
	return &ProducerRegistry{producers: make(map[domain.WidgetKind]ProducerFunc)}
}

// Register installs or replaces the producer for a kind.
func (r *ProducerRegistry) Register(kind domain.WidgetKind, fn ProducerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.producers[kind] = fn
}

// Lookup returns the producer for a kind.
func (r *ProducerRegistry) Lookup(kind domain.WidgetKind) (ProducerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.producers[kind]
	return fn, ok
}

// DefaultProducerRegistry wires synthetic producers for every widget kind.
// Numeric series take a bounded random walk from the widget's previous
// payload; the goal and alert widgets read their live stores instead.
func DefaultProducerRegistry(goals *store.GoalStore, alerts *store.Pipeline[domain.Alert], now func() time.Time) *ProducerRegistry {
	r := NewProducerRegistry()

	r.Register(domain.KindSalesOverview, func(w domain.Widget) (domain.WidgetPayload, error) {
		prev, _ := w.Data.(domain.SalesOverviewPayload)
		if prev.CurrentMonth == 0 {
			prev = seedSalesOverview()
		}
		next := prev
		next.PreviousMonth = prev.CurrentMonth
		next.CurrentMonth = drift(prev.CurrentMonth, 0.05)
		if next.PreviousMonth != 0 {
			next.Growth = (next.CurrentMonth - next.PreviousMonth) / next.PreviousMonth * 100
		}
		if len(next.ByMonth) > 0 {
			next.ByMonth = append([]domain.MonthValue{}, prev.ByMonth...)
			next.ByMonth[len(next.ByMonth)-1].Value = next.CurrentMonth
		}
		return next, nil
	})

	r.Register(domain.KindAIInsights, func(w domain.Widget) (domain.WidgetPayload, error) {
		prev, _ := w.Data.(domain.AIInsightsPayload)
		if len(prev.Trends) == 0 {
			prev = seedAIInsights()
		}
		next := domain.AIInsightsPayload{
			Trends:      make([]domain.MetricTrend, len(prev.Trends)),
			Predictions: make([]domain.MetricPrediction, len(prev.Predictions)),
		}
		for i, t := range prev.Trends {
			t.Change = drift(t.Change, 0.2)
			if t.Change >= 0 {
				t.Trend = "up"
			} else {
				t.Trend = "down"
			}
			next.Trends[i] = t
		}
		for i, p := range prev.Predictions {
			p.Value = drift(p.Value, 0.03)
			next.Predictions[i] = p
		}
		return next, nil
	})

	r.Register(domain.KindGoalTracker, func(w domain.Widget) (domain.WidgetPayload, error) {
		ts := now()
		ids := make([]string, 0)
		for _, g := range goals.List(ts) {
			ids = append(ids, g.ID)
		}
		return domain.GoalTrackerPayload{
			GoalIDs: ids,
			Summary: goals.Summary(ts),
		}, nil
	})

	r.Register(domain.KindHeatmapCalendar, func(w domain.Widget) (domain.WidgetPayload, error) {
		prev, _ := w.Data.(domain.HeatmapCalendarPayload)
		if len(prev.Days) == 0 {
			prev = seedHeatmap(now())
		}
		next := prev
		next.Days = append([]domain.HeatmapDay{}, prev.Days...)
		today := len(next.Days) - 1
		next.Days[today].Value = rand.Intn(100)
		next.Days[today].Events = rand.Intn(10)
		next.TotalEvents = 0
		next.PeakValue = 0
		for _, d := range next.Days {
			next.TotalEvents += d.Events
			if d.Value > next.PeakValue {
				next.PeakValue = d.Value
				next.PeakDay = d.Date
			}
		}
		next.AverageDaily = float64(next.TotalEvents) / float64(len(next.Days))
		return next, nil
	})

	r.Register(domain.KindTeamPerformance, func(w domain.Widget) (domain.WidgetPayload, error) {
		prev, _ := w.Data.(domain.TeamPerformancePayload)
		if len(prev.Teams) == 0 {
			prev = seedTeamPerformance()
		}
		next := domain.TeamPerformancePayload{
			Teams:         make([]domain.TeamStanding, len(prev.Teams)),
			TopPerformers: prev.TopPerformers,
		}
		for i, t := range prev.Teams {
			t.Performance = clamp(drift(t.Performance, 0.03), 0, 120)
			switch {
			case t.Performance > t.Target:
				t.Trend = "up"
			case t.Performance < t.Target*0.9:
				t.Trend = "down"
			default:
				t.Trend = "stable"
			}
			next.Teams[i] = t
		}
		return next, nil
	})

	r.Register(domain.KindRealTimeAlerts, func(w domain.Widget) (domain.WidgetPayload, error) {
		critical := 0
		entries := alerts.List()
		for _, a := range entries {
			if a.Priority == domain.PriorityCritical {
				critical++
			}
		}
		return domain.RealTimeAlertsPayload{
			ActiveCount:   len(entries),
			CriticalCount: critical,
		}, nil
	})

	r.Register(domain.KindPieChart, func(w domain.Widget) (domain.WidgetPayload, error) {
		prev, _ := w.Data.(domain.PieChartPayload)
		if len(prev.Segments) == 0 {
			prev = seedPieChart()
		}
		next := prev
		next.Segments = make([]domain.PieSegment, len(prev.Segments))
		next.Total = 0
		for i, seg := range prev.Segments {
			seg.Value = drift(seg.Value, 0.04)
			next.Segments[i] = seg
			next.Total += seg.Value
		}
		for i := range next.Segments {
			next.Segments[i].Percentage = next.Segments[i].Value / next.Total * 100
		}
		return next, nil
	})

	r.Register(domain.KindLineChart, func(w domain.Widget) (domain.WidgetPayload, error) {
		prev, _ := w.Data.(domain.LineChartPayload)
		if len(prev.Datasets) == 0 {
			prev = seedLineChart()
		}
		next := prev
		next.Datasets = make([]domain.LineSeries, len(prev.Datasets))
		for i, series := range prev.Datasets {
			series.Data = append([]domain.LinePoint{}, series.Data...)
			if len(series.Data) > 0 {
				last := len(series.Data) - 1
				series.Data[last].Y = drift(series.Data[last].Y, 0.05)
			}
			next.Datasets[i] = series
		}
		return next, nil
	})

	r.Register(domain.KindFunnelChart, func(w domain.Widget) (domain.WidgetPayload, error) {
		prev, _ := w.Data.(domain.FunnelChartPayload)
		if len(prev.Stages) == 0 {
			prev = seedFunnelChart()
		}
		next := prev
		next.Stages = make([]domain.FunnelStage, len(prev.Stages))
		for i, stage := range prev.Stages {
			stage.Value = drift(stage.Value, 0.03)
			next.Stages[i] = stage
		}
		if top := next.Stages[0].Value; top > 0 {
			bottom := next.Stages[len(next.Stages)-1].Value
			next.ConversionRate = bottom / top * 100
			next.TotalLeads = int(top)
			for i := range next.Stages {
				next.Stages[i].Percentage = next.Stages[i].Value / top * 100
			}
		}
		return next, nil
	})

	r.Register(domain.KindKPICard, func(w domain.Widget) (domain.WidgetPayload, error) {
		prev, _ := w.Data.(domain.KPICardPayload)
		if prev.Label == "" {
			prev = domain.KPICardPayload{Label: "Monthly Recurring Revenue", Value: 427500, Unit: "USD"}
		}
		next := prev
		next.Value = drift(prev.Value, 0.04)
		if prev.Value != 0 {
			next.Change = (next.Value - prev.Value) / prev.Value * 100
		}
		if next.Change >= 0 {
			next.Trend = "up"
		} else {
			next.Trend = "down"
		}
		return next, nil
	})

	return r
}

// drift nudges v within ±fraction of its magnitude.
func drift(v, fraction float64) float64 {
	if v == 0 {
		v = 1
	}
	return v * (1 + (rand.Float64()*2-1)*fraction)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func seedSalesOverview() domain.SalesOverviewPayload {
	return domain.SalesOverviewPayload{
		CurrentMonth:  427500,
		PreviousMonth: 380200,
		Growth:        12.4,
		ByMonth: []domain.MonthValue{
			{Month: "Jan", Value: 320000},
			{Month: "Feb", Value: 340000},
			{Month: "Mar", Value: 380200},
			{Month: "Apr", Value: 427500},
		},
	}
}

func seedAIInsights() domain.AIInsightsPayload {
	return domain.AIInsightsPayload{
		Trends: []domain.MetricTrend{
			{Metric: "Revenue", Trend: "up", Change: 12.4, Confidence: 0.92},
			{Metric: "Customer Acquisition", Trend: "up", Change: 8.7, Confidence: 0.85},
			{Metric: "Churn Rate", Trend: "down", Change: -2.1, Confidence: 0.78},
		},
		Predictions: []domain.MetricPrediction{
			{Metric: "Next Month Revenue", Value: 485000, Confidence: 0.89},
			{Metric: "Quarter End Revenue", Value: 1420000, Confidence: 0.82},
		},
	}
}

func seedHeatmap(now time.Time) domain.HeatmapCalendarPayload {
	days := make([]domain.HeatmapDay, 0, 90)
	for i := 89; i >= 0; i-- {
		days = append(days, domain.HeatmapDay{
			Date:   now.AddDate(0, 0, -i).Format("2006-01-02"),
			Value:  rand.Intn(100),
			Events: rand.Intn(10),
		})
	}
	payload := domain.HeatmapCalendarPayload{Days: days}
	for _, d := range days {
		payload.TotalEvents += d.Events
		if d.Value > payload.PeakValue {
			payload.PeakValue = d.Value
			payload.PeakDay = d.Date
		}
	}
	payload.AverageDaily = float64(payload.TotalEvents) / float64(len(days))
	return payload
}

func seedTeamPerformance() domain.TeamPerformancePayload {
	return domain.TeamPerformancePayload{
		Teams: []domain.TeamStanding{
			{Name: "Sales", Performance: 92, Target: 100, Members: 12, Trend: "up"},
			{Name: "Marketing", Performance: 87, Target: 90, Members: 8, Trend: "up"},
			{Name: "Support", Performance: 95, Target: 95, Members: 15, Trend: "stable"},
			{Name: "Development", Performance: 89, Target: 85, Members: 20, Trend: "up"},
		},
		TopPerformers: []domain.Performer{
			{Name: "John Doe", Team: "Sales", Score: 98},
			{Name: "Jane Smith", Team: "Marketing", Score: 96},
			{Name: "Mike Johnson", Team: "Support", Score: 94},
		},
	}
}

func seedPieChart() domain.PieChartPayload {
	return domain.PieChartPayload{
		Title:    "Revenue by Product",
		Subtitle: "Quarterly Distribution",
		Total:    2450000,
		Segments: []domain.PieSegment{
			{Label: "Software Licenses", Value: 980000, Color: "#3b82f6", Percentage: 40, Trend: "up", Change: 12.5},
			{Label: "Professional Services", Value: 735000, Color: "#10b981", Percentage: 30, Trend: "up", Change: 8.3},
			{Label: "Support & Maintenance", Value: 490000, Color: "#f59e0b", Percentage: 20, Trend: "stable", Change: 0.2},
			{Label: "Training", Value: 245000, Color: "#ef4444", Percentage: 10, Trend: "down", Change: -3.1},
		},
	}
}

func seedLineChart() domain.LineChartPayload {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	current := make([]domain.LinePoint, len(months))
	previous := make([]domain.LinePoint, len(months))
	for i, m := range months {
		current[i] = domain.LinePoint{X: m, Y: 320 + float64(i)*32}
		previous[i] = domain.LinePoint{X: m, Y: 280 + float64(i)*18}
	}
	return domain.LineChartPayload{
		Title:    "Revenue Trends",
		Subtitle: "Monthly Performance",
		Datasets: []domain.LineSeries{
			{Label: "Current Year", Color: "#3b82f6", Trend: "up", Change: 15.3, Data: current},
			{Label: "Previous Year", Color: "#10b981", Trend: "up", Change: 8.7, Data: previous},
		},
	}
}

func seedFunnelChart() domain.FunnelChartPayload {
	return domain.FunnelChartPayload{
		Title:          "Sales Funnel",
		Subtitle:       "Lead Conversion Pipeline",
		TotalLeads:     10000,
		ConversionRate: 2.5,
		Stages: []domain.FunnelStage{
			{Label: "Website Visitors", Value: 10000, Percentage: 100, Color: "#3b82f6", ConversionRate: 100, Trend: "up", Change: 8.5},
			{Label: "Leads Generated", Value: 3500, Percentage: 35, Color: "#10b981", ConversionRate: 35, Trend: "up", Change: 12.3},
			{Label: "Qualified Leads", Value: 1750, Percentage: 17.5, Color: "#f59e0b", ConversionRate: 50, Trend: "stable", Change: 0.8},
			{Label: "Opportunities", Value: 875, Percentage: 8.75, Color: "#ef4444", ConversionRate: 50, Trend: "up", Change: 5.2},
			{Label: "Customers", Value: 250, Percentage: 2.5, Color: "#8b5cf6", ConversionRate: 28.6, Trend: "up", Change: 15.7},
		},
	}
}

// seedWidget builds one of the default widgets.
func seedWidget(id string, kind domain.WidgetKind, title string, width domain.WidthClass, height domain.HeightClass, position int, interval time.Duration, data domain.WidgetPayload, now time.Time) domain.Widget {
	return domain.Widget{
		ID:              id,
		Kind:            kind,
		Title:           title,
		Width:           width,
		Height:          height,
		Position:        position,
		RefreshInterval: interval,
		LastUpdated:     now,
		Permissions:     []string{"view", "edit"},
		Data:            data,
	}
}

// DefaultWidgets returns the seeded widget set of the default layout.
func DefaultWidgets(now time.Time) []domain.Widget {
	return []domain.Widget{
		seedWidget("widget-sales-overview", domain.KindSalesOverview, "Sales Overview", domain.WidthMedium, domain.HeightSmall, 0, 30*time.Second, seedSalesOverview(), now),
		seedWidget("widget-ai-insights", domain.KindAIInsights, "AI Insights", domain.WidthLarge, domain.HeightMedium, 1, time.Minute, seedAIInsights(), now),
		seedWidget("widget-goal-tracker", domain.KindGoalTracker, "Goal Tracker", domain.WidthMedium, domain.HeightMedium, 2, 5*time.Minute, domain.GoalTrackerPayload{}, now),
		seedWidget("widget-heatmap", domain.KindHeatmapCalendar, "Activity Heatmap", domain.WidthLarge, domain.HeightMedium, 3, time.Hour, seedHeatmap(now), now),
		seedWidget("widget-team-performance", domain.KindTeamPerformance, "Team Performance", domain.WidthMedium, domain.HeightMedium, 4, 5*time.Minute, seedTeamPerformance(), now),
		seedWidget("widget-alerts", domain.KindRealTimeAlerts, "Real-time Alerts", domain.WidthSmall, domain.HeightMedium, 5, 5*time.Second, domain.RealTimeAlertsPayload{}, now),
		seedWidget("widget-revenue-pie", domain.KindPieChart, "Revenue Distribution", domain.WidthMedium, domain.HeightMedium, 6, 5*time.Minute, seedPieChart(), now),
		seedWidget("widget-revenue-trends", domain.KindLineChart, "Revenue Trends", domain.WidthLarge, domain.HeightMedium, 7, 5*time.Minute, seedLineChart(), now),
		seedWidget("widget-sales-funnel", domain.KindFunnelChart, "Sales Funnel", domain.WidthMedium, domain.HeightLarge, 8, 5*time.Minute, seedFunnelChart(), now),
	}
}

// DefaultLayouts returns the seeded layouts: the default view and a
// trimmed executive view.
func DefaultLayouts(now time.Time) []domain.Layout {
	widgets := DefaultWidgets(now)
	executive := make([]domain.Widget, 0, 3)
	for _, w := range widgets {
		switch w.Kind {
		case domain.KindSalesOverview, domain.KindAIInsights, domain.KindGoalTracker:
			cp := w
			cp.Position = len(executive)
			executive = append(executive, cp)
		}
	}
	return []domain.Layout{
		{
			ID:          "default",
			Name:        "Default Layout",
			Description: "Standard dashboard layout with key metrics",
			IsDefault:   true,
			Widgets:     widgets,
			GridConfig:  domain.GridConfig{Columns: 12, Gap: 16, Responsive: true},
			CreatedBy:   "system",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "executive",
			Name:        "Executive View",
			Description: "High-level overview for executives",
			IsDefault:   false,
			Widgets:     executive,
			GridConfig:  domain.GridConfig{Columns: 8, Gap: 24, Responsive: true},
			CreatedBy:   "system",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// ErrNoProducer is returned when a widget kind has no registered producer.
var ErrNoProducer = fmt.Errorf("no producer registered")
