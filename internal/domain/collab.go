package domain

import "time"

// GlobalFilter narrows the data shown across all widgets.
type GlobalFilter struct {
	ID       string `json:"id"`
	Field    string `json:"field"`
	Operator string `json:"operator"` // eq, neq, gt, lt, contains, between
	Value    any    `json:"value"`
	Label    string `json:"label,omitempty"`
}

// Comment is a remark attached to a widget.
type Comment struct {
	ID        string    `json:"id"`
	WidgetID  string    `json:"widgetId"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Resolved  bool      `json:"resolved"`
}

// CommentPatch is a partial comment update.
type CommentPatch struct {
	Text     *string `json:"text,omitempty"`
	Resolved *bool   `json:"resolved,omitempty"`
}

// Apply copies the patch's set fields onto c.
func (p CommentPatch) Apply(c *Comment) {
	if p.Text != nil {
		c.Text = *p.Text
	}
	if p.Resolved != nil {
		c.Resolved = *p.Resolved
	}
}

// ActiveUser is a currently-present collaborator.
type ActiveUser struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar,omitempty"`
	LastSeen time.Time `json:"lastSeen"`
}

// Dataset is an uploaded data table that chart widgets can draw from.
// Rows are opaque to the engine.
type Dataset struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Rows       []map[string]any `json:"rows"`
	UploadedAt time.Time        `json:"uploadedAt"`
}

// NotificationPrefs controls delivery channels.
type NotificationPrefs struct {
	Email     bool   `json:"email"`
	Push      bool   `json:"push"`
	InApp     bool   `json:"inApp"`
	Frequency string `json:"frequency"` // immediate, hourly, daily
}

// PrivacyPrefs controls analytics sharing.
type PrivacyPrefs struct {
	ShareAnalytics bool `json:"shareAnalytics"`
	AllowTracking  bool `json:"allowTracking"`
}

// AccessibilityPrefs controls accessibility features.
type AccessibilityPrefs struct {
	HighContrast  bool   `json:"highContrast"`
	ReducedMotion bool   `json:"reducedMotion"`
	ScreenReader  bool   `json:"screenReader"`
	FontSize      string `json:"fontSize"`
}

// DashboardSettings is the per-dashboard preference bag. Theme and Layout
// mirror the active theme and layout ids; switching either keeps both the
// pointer and this copy in step.
type DashboardSettings struct {
	AutoRefresh     bool               `json:"autoRefresh"`
	RefreshInterval time.Duration      `json:"refreshIntervalMs"`
	Theme           string             `json:"theme"`
	Layout          string             `json:"layout"`
	Timezone        string             `json:"timezone"`
	DateFormat      string             `json:"dateFormat"`
	NumberFormat    string             `json:"numberFormat"`
	Currency        string             `json:"currency"`
	Language        string             `json:"language"`
	Notifications   NotificationPrefs  `json:"notifications"`
	Privacy         PrivacyPrefs       `json:"privacy"`
	Accessibility   AccessibilityPrefs `json:"accessibility"`
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	AutoRefresh     *bool               `json:"autoRefresh,omitempty"`
	RefreshInterval *time.Duration      `json:"-"`
	Timezone        *string             `json:"timezone,omitempty"`
	DateFormat      *string             `json:"dateFormat,omitempty"`
	NumberFormat    *string             `json:"numberFormat,omitempty"`
	Currency        *string             `json:"currency,omitempty"`
	Language        *string             `json:"language,omitempty"`
	Notifications   *NotificationPrefs  `json:"notifications,omitempty"`
	Privacy         *PrivacyPrefs       `json:"privacy,omitempty"`
	Accessibility   *AccessibilityPrefs `json:"accessibility,omitempty"`
}

// Apply copies the patch's set fields onto s.
func (p SettingsPatch) Apply(s *DashboardSettings) {
	if p.AutoRefresh != nil {
		s.AutoRefresh = *p.AutoRefresh
	}
	if p.RefreshInterval != nil {
		s.RefreshInterval = *p.RefreshInterval
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.DateFormat != nil {
		s.DateFormat = *p.DateFormat
	}
	if p.NumberFormat != nil {
		s.NumberFormat = *p.NumberFormat
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Privacy != nil {
		s.Privacy = *p.Privacy
	}
	if p.Accessibility != nil {
		s.Accessibility = *p.Accessibility
	}
}

// DefaultSettings returns the seeded settings.
func DefaultSettings() DashboardSettings {
	return DashboardSettings{
		AutoRefresh:     true,
		RefreshInterval: 30 * time.Second,
		Theme:           "light",
		Layout:          "default",
		Timezone:        "UTC",
		DateFormat:      "MM/DD/YYYY",
		NumberFormat:    "en-US",
		Currency:        "USD",
		Language:        "en",
		Notifications: NotificationPrefs{
			Email:     true,
			Push:      true,
			InApp:     true,
			Frequency: "immediate",
		},
		Privacy: PrivacyPrefs{
			ShareAnalytics: true,
			AllowTracking:  true,
		},
		Accessibility: AccessibilityPrefs{
			FontSize: "medium",
		},
	}
}
