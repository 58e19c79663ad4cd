package domain

import (
	"encoding/json"
	"time"
)

// WidgetKind identifies the payload shape carried by a widget.
type WidgetKind string

// Widget kinds
const (
	KindSalesOverview   WidgetKind = "sales_overview"
	KindAIInsights      WidgetKind = "ai_insights"
	KindGoalTracker     WidgetKind = "goal_tracker"
	KindHeatmapCalendar WidgetKind = "heatmap_calendar"
	KindTeamPerformance WidgetKind = "team_performance"
	KindRealTimeAlerts  WidgetKind = "real_time_alerts"
	KindPieChart        WidgetKind = "pie_chart"
	KindLineChart       WidgetKind = "line_chart"
	KindFunnelChart     WidgetKind = "funnel_chart"
	KindKPICard         WidgetKind = "kpi_card"
)

// WidgetKinds lists every valid widget kind.
var WidgetKinds = []WidgetKind{
	KindSalesOverview,
	KindAIInsights,
	KindGoalTracker,
	KindHeatmapCalendar,
	KindTeamPerformance,
	KindRealTimeAlerts,
	KindPieChart,
	KindLineChart,
	KindFunnelChart,
	KindKPICard,
}

// Valid reports whether k is a known widget kind.
func (k WidgetKind) Valid() bool {
	for _, known := range WidgetKinds {
		if k == known {
			return true
		}
	}
	return false
}

// WidthClass is the horizontal size class of a widget.
type WidthClass string

// HeightClass is the vertical size class of a widget.
type HeightClass string

// Size classes
const (
	WidthSmall  WidthClass = "small"
	WidthMedium WidthClass = "medium"
	WidthLarge  WidthClass = "large"
	WidthFull   WidthClass = "full"

	HeightSmall  HeightClass = "small"
	HeightMedium HeightClass = "medium"
	HeightLarge  HeightClass = "large"
)

// Widget represents a single dashboard tile. Data is replaced wholesale on
// every refresh, never merged.
type Widget struct {
	ID              string        `json:"id"`
	Kind            WidgetKind    `json:"kind"`
	Title           string        `json:"title"`
	Width           WidthClass    `json:"width"`
	Height          HeightClass   `json:"height"`
	Position        int           `json:"position"`
	RefreshInterval time.Duration `json:"refreshIntervalMs"`
	LastUpdated     time.Time     `json:"lastUpdated"`
	IsExpanded      bool          `json:"isExpanded"`
	Permissions     []string      `json:"permissions,omitempty"`
	Data            WidgetPayload `json:"data,omitempty"`
}

// widgetAlias avoids recursing into Widget's own JSON methods.
type widgetAlias Widget

type widgetJSON struct {
	widgetAlias
	RefreshInterval int64           `json:"refreshIntervalMs"`
	Data            json.RawMessage `json:"data,omitempty"`
}

// MarshalJSON encodes the refresh interval as milliseconds and the payload
// as its kind-specific shape.
func (w Widget) MarshalJSON() ([]byte, error) {
	out := widgetJSON{
		widgetAlias:     widgetAlias(w),
		RefreshInterval: w.RefreshInterval.Milliseconds(),
	}
	if w.Data != nil {
		raw, err := json.Marshal(w.Data)
		if err != nil {
			return nil, err
		}
		out.Data = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the payload according to the widget's kind.
func (w *Widget) UnmarshalJSON(data []byte) error {
	var in widgetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*w = Widget(in.widgetAlias)
	w.RefreshInterval = time.Duration(in.RefreshInterval) * time.Millisecond
	w.Data = nil
	if len(in.Data) > 0 && string(in.Data) != "null" {
		payload, err := DecodePayload(w.Kind, in.Data)
		if err != nil {
			return err
		}
		w.Data = payload
	}
	return nil
}

// WidgetPatch is a partial widget update. Nil fields are left untouched;
// a non-nil Data replaces the payload wholesale.
type WidgetPatch struct {
	Title           *string        `json:"title,omitempty"`
	Width           *WidthClass    `json:"width,omitempty"`
	Height          *HeightClass   `json:"height,omitempty"`
	RefreshInterval *time.Duration `json:"-"`
	Permissions     []string       `json:"permissions,omitempty"`
	Data            WidgetPayload  `json:"-"`
}

// Apply copies the patch's set fields onto w.
func (p WidgetPatch) Apply(w *Widget) {
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.Width != nil {
		w.Width = *p.Width
	}
	if p.Height != nil {
		w.Height = *p.Height
	}
	if p.RefreshInterval != nil {
		w.RefreshInterval = *p.RefreshInterval
	}
	if p.Permissions != nil {
		w.Permissions = p.Permissions
	}
	if p.Data != nil {
		w.Data = p.Data
	}
}

// Validate checks the widget's closed enumerations.
func (w Widget) Validate() error {
	var errs ValidationErrors
	if !w.Kind.Valid() {
		errs.Add("kind", "unknown widget kind")
	}
	switch w.Width {
	case WidthSmall, WidthMedium, WidthLarge, WidthFull:
	default:
		errs.Add("width", "width must be one of: small, medium, large, full")
	}
	switch w.Height {
	case HeightSmall, HeightMedium, HeightLarge:
	default:
		errs.Add("height", "height must be one of: small, medium, large")
	}
	if w.RefreshInterval < 0 {
		errs.Add("refreshIntervalMs", "refresh interval must not be negative")
	}
	if w.Data != nil && w.Data.Kind() != w.Kind {
		errs.Add("data", "payload shape does not match widget kind")
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
