package domain

import (
	"encoding/json"
	"fmt"
)

// WidgetPayload is the tagged union of per-kind widget data. The engine
// treats payloads as atomic values: a refresh replaces the whole payload.
type WidgetPayload interface {
	Kind() WidgetKind
}

// MonthValue is one point in a by-month series.
type MonthValue struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// SalesOverviewPayload carries headline sales figures.
type SalesOverviewPayload struct {
	CurrentMonth  float64      `json:"currentMonth"`
	PreviousMonth float64      `json:"previousMonth"`
	Growth        float64      `json:"growth"`
	ByMonth       []MonthValue `json:"byMonth"`
}

func (SalesOverviewPayload) Kind() WidgetKind { return KindSalesOverview }

// MetricTrend is a single observed metric movement.
type MetricTrend struct {
	Metric     string  `json:"metric"`
	Trend      string  `json:"trend"` // up, down, stable
	Change     float64 `json:"change"`
	Confidence float64 `json:"confidence"`
}

// MetricPrediction is a forecast value for a metric.
type MetricPrediction struct {
	Metric     string  `json:"metric"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

// AIInsightsPayload carries derived trends and predictions.
type AIInsightsPayload struct {
	Trends      []MetricTrend      `json:"trends"`
	Predictions []MetricPrediction `json:"predictions"`
}

func (AIInsightsPayload) Kind() WidgetKind { return KindAIInsights }

// GoalTrackerPayload summarises tracked goals for the goal widget.
type GoalTrackerPayload struct {
	GoalIDs []string    `json:"goalIds"`
	Summary GoalSummary `json:"summary"`
}

func (GoalTrackerPayload) Kind() WidgetKind { return KindGoalTracker }

// HeatmapDay is one cell of the activity heatmap.
type HeatmapDay struct {
	Date   string `json:"date"`
	Value  int    `json:"value"`
	Events int    `json:"events"`
}

// HeatmapCalendarPayload carries a year of daily activity.
type HeatmapCalendarPayload struct {
	Days         []HeatmapDay `json:"days"`
	TotalEvents  int          `json:"totalEvents"`
	AverageDaily float64      `json:"averageDaily"`
	PeakDay      string       `json:"peakDay"`
	PeakValue    int          `json:"peakValue"`
}

func (HeatmapCalendarPayload) Kind() WidgetKind { return KindHeatmapCalendar }

// TeamStanding is one team's performance against target.
type TeamStanding struct {
	Name        string  `json:"name"`
	Performance float64 `json:"performance"`
	Target      float64 `json:"target"`
	Members     int     `json:"members"`
	Trend       string  `json:"trend"`
}

// Performer is a top-scoring individual.
type Performer struct {
	Name  string  `json:"name"`
	Team  string  `json:"team"`
	Score float64 `json:"score"`
}

// TeamPerformancePayload carries per-team standings.
type TeamPerformancePayload struct {
	Teams         []TeamStanding `json:"teams"`
	TopPerformers []Performer    `json:"topPerformers"`
}

func (TeamPerformancePayload) Kind() WidgetKind { return KindTeamPerformance }

// RealTimeAlertsPayload carries alert counts for the alert widget; the
// alert entries themselves live in the alert pipeline.
type RealTimeAlertsPayload struct {
	ActiveCount   int `json:"activeCount"`
	CriticalCount int `json:"criticalCount"`
}

func (RealTimeAlertsPayload) Kind() WidgetKind { return KindRealTimeAlerts }

// PieSegment is one slice of a pie chart.
type PieSegment struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
	Trend      string  `json:"trend"`
	Change     float64 `json:"change"`
}

// PieChartPayload carries a labelled distribution.
type PieChartPayload struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Total    float64      `json:"total"`
	Segments []PieSegment `json:"segments"`
}

func (PieChartPayload) Kind() WidgetKind { return KindPieChart }

// LinePoint is one x/y point in a line series.
type LinePoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// LineSeries is one dataset of a line chart.
type LineSeries struct {
	Label  string      `json:"label"`
	Color  string      `json:"color"`
	Trend  string      `json:"trend"`
	Change float64     `json:"change"`
	Data   []LinePoint `json:"data"`
}

// LineChartPayload carries one or more line series.
type LineChartPayload struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Datasets []LineSeries `json:"datasets"`
}

func (LineChartPayload) Kind() WidgetKind { return KindLineChart }

// FunnelStage is one stage of a conversion funnel.
type FunnelStage struct {
	Label          string  `json:"label"`
	Value          float64 `json:"value"`
	Percentage     float64 `json:"percentage"`
	Color          string  `json:"color"`
	ConversionRate float64 `json:"conversionRate"`
	Trend          string  `json:"trend"`
	Change         float64 `json:"change"`
}

// FunnelChartPayload carries a conversion pipeline.
type FunnelChartPayload struct {
	Title          string        `json:"title"`
	Subtitle       string        `json:"subtitle"`
	TotalLeads     int           `json:"totalLeads"`
	ConversionRate float64       `json:"conversionRate"`
	Stages         []FunnelStage `json:"stages"`
}

func (FunnelChartPayload) Kind() WidgetKind { return KindFunnelChart }

// KPICardPayload carries a single headline metric.
type KPICardPayload struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Change float64 `json:"change"`
	Trend  string  `json:"trend"`
}

func (KPICardPayload) Kind() WidgetKind { return KindKPICard }

// DecodePayload decodes raw JSON into the payload type for the given kind.
// The switch is exhaustive over WidgetKinds; an unknown kind is an error,
// not an opaque blob.
func DecodePayload(kind WidgetKind, raw json.RawMessage) (WidgetPayload, error) {
	var (
		payload WidgetPayload
		err     error
	)
	switch kind {
	case KindSalesOverview:
		var p SalesOverviewPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindAIInsights:
		var p AIInsightsPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindGoalTracker:
		var p GoalTrackerPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindHeatmapCalendar:
		var p HeatmapCalendarPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindTeamPerformance:
		var p TeamPerformancePayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindRealTimeAlerts:
		var p RealTimeAlertsPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindPieChart:
		var p PieChartPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindLineChart:
		var p LineChartPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindFunnelChart:
		var p FunnelChartPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	case KindKPICard:
		var p KPICardPayload
		err = json.Unmarshal(raw, &p)
		payload = p
	default:
		return nil, fmt.Errorf("%w: unknown widget kind %q", ErrInvalidInput, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return payload, nil
}
