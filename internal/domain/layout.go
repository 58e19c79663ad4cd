package domain

import "time"

// GridConfig controls how a layout arranges its widgets.
type GridConfig struct {
	Columns    int  `json:"columns"`
	Gap        int  `json:"gap"`
	Responsive bool `json:"responsive"`
}

// Validate checks grid parameters.
func (g GridConfig) Validate() error {
	var errs ValidationErrors
	if g.Columns <= 0 {
		errs.Add("gridConfig.columns", "columns must be greater than zero")
	}
	if g.Gap < 0 {
		errs.Add("gridConfig.gap", "gap must not be negative")
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Layout is a named, ordered composition of widgets. A layout owns its own
// copy of the widget records taken at creation time; switching layouts
// replaces the live widget set wholesale rather than aliasing it.
type Layout struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsDefault   bool       `json:"isDefault"`
	Widgets     []Widget   `json:"widgets"`
	GridConfig  GridConfig `json:"gridConfig"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// LayoutPatch is a partial layout update. Nil fields are left untouched.
type LayoutPatch struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	IsDefault   *bool       `json:"isDefault,omitempty"`
	GridConfig  *GridConfig `json:"gridConfig,omitempty"`
	Widgets     []Widget    `json:"widgets,omitempty"`
}

// Validate rejects the whole patch if any field is invalid; patches are
// applied atomically or not at all.
func (p LayoutPatch) Validate() error {
	if p.GridConfig != nil {
		if err := p.GridConfig.Validate(); err != nil {
			return err
		}
	}
	if p.Name != nil && *p.Name == "" {
		var errs ValidationErrors
		errs.Add("name", "name must not be empty")
		return errs
	}
	return nil
}

// Apply copies the patch's set fields onto l.
func (p LayoutPatch) Apply(l *Layout) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.IsDefault != nil {
		l.IsDefault = *p.IsDefault
	}
	if p.GridConfig != nil {
		l.GridConfig = *p.GridConfig
	}
	if p.Widgets != nil {
		l.Widgets = p.Widgets
	}
}
