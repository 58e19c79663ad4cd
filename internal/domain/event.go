package domain

import "time"

// EventAction is an advisory action attached to a pipeline entry. The
// engine carries actions to the boundary; it never executes them.
type EventAction struct {
	Label   string `json:"label"`
	Action  string `json:"action"`
	Variant string `json:"variant,omitempty"`
}

// AlertType classifies an alert.
type AlertType string

// Alert types
const (
	AlertInfo    AlertType = "info"
	AlertSuccess AlertType = "success"
	AlertWarning AlertType = "warning"
	AlertError   AlertType = "error"
)

// Priority is the severity of an alert.
type Priority string

// Priorities
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Alert is a real-time alert entry. Dismissal is the only negative
// transition; a dismissed alert cannot be resurrected.
type Alert struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Message       string        `json:"message"`
	Type          AlertType     `json:"type"`
	Priority      Priority      `json:"priority"`
	Timestamp     time.Time     `json:"timestamp"`
	Actions       []EventAction `json:"actions,omitempty"`
	RelatedWidget string        `json:"relatedWidget,omitempty"`
	AutoHide      bool          `json:"autoHide"`
}

// WithStamp returns a copy with identity and timestamp assigned.
func (a Alert) WithStamp(id string, ts time.Time) Alert {
	a.ID = id
	a.Timestamp = ts
	return a
}

// GetID returns the entry id.
func (a Alert) GetID() string { return a.ID }

// InsightType classifies an insight.
type InsightType string

// Insight types
const (
	InsightTrend          InsightType = "trend"
	InsightAnomaly        InsightType = "anomaly"
	InsightPrediction     InsightType = "prediction"
	InsightRecommendation InsightType = "recommendation"
)

// Impact is the business impact of an insight.
type Impact string

// Impact levels
const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Insight is a derived observation about dashboard data.
type Insight struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Type         InsightType    `json:"type"`
	Confidence   float64        `json:"confidence"`
	Impact       Impact         `json:"impact"`
	Category     string         `json:"category,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	IsActionable bool           `json:"isActionable"`
	Actions      []EventAction  `json:"actions,omitempty"`
}

// WithStamp returns a copy with identity and timestamp assigned.
func (i Insight) WithStamp(id string, ts time.Time) Insight {
	i.ID = id
	i.Timestamp = ts
	return i
}

// GetID returns the entry id.
func (i Insight) GetID() string { return i.ID }

// Notification is a user-facing message with read state.
type Notification struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Type      AlertType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	IsRead    bool          `json:"isRead"`
	Actions   []EventAction `json:"actions,omitempty"`
}

// WithStamp returns a copy with identity and timestamp assigned.
func (n Notification) WithStamp(id string, ts time.Time) Notification {
	n.ID = id
	n.Timestamp = ts
	return n
}

// GetID returns the entry id.
func (n Notification) GetID() string { return n.ID }
