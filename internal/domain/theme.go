package domain

// ThemeMode is the base appearance of a theme.
type ThemeMode string

// Theme modes
const (
	ModeLight ThemeMode = "light"
	ModeDark  ThemeMode = "dark"
)

// ThemeColors holds the eleven named color slots plus info.
type ThemeColors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
	Border        string `json:"border"`
	Success       string `json:"success"`
	Warning       string `json:"warning"`
	Error         string `json:"error"`
	Info          string `json:"info"`
}

// ThemeTypography holds font settings.
type ThemeTypography struct {
	FontFamily string            `json:"fontFamily"`
	FontSize   map[string]string `json:"fontSize"`
}

// Theme is a named bundle of style tokens. All token groups are required
// once a theme exists; themes are never deleted.
type Theme struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Mode         ThemeMode         `json:"mode"`
	Colors       ThemeColors       `json:"colors"`
	Typography   ThemeTypography   `json:"typography"`
	Spacing      map[string]string `json:"spacing"`
	BorderRadius map[string]string `json:"borderRadius"`
	Shadows      map[string]string `json:"shadows"`
}

// DefaultThemes returns the seeded light and dark themes.
func DefaultThemes() []Theme {
	scale := map[string]string{
		"xs": "0.25rem", "sm": "0.5rem", "md": "1rem", "lg": "1.5rem", "xl": "2rem",
	}
	radius := map[string]string{
		"sm": "0.25rem", "md": "0.5rem", "lg": "0.75rem", "xl": "1rem",
	}
	fontSize := map[string]string{
		"xs": "0.75rem", "sm": "0.875rem", "base": "1rem",
		"lg": "1.125rem", "xl": "1.25rem", "2xl": "1.5rem",
	}
	return []Theme{
		{
			ID:   "light",
			Name: "Light Theme",
			Mode: ModeLight,
			Colors: ThemeColors{
				Primary:       "#4f46e5",
				Secondary:     "#6b7280",
				Accent:        "#10b981",
				Background:    "#ffffff",
				Surface:       "#f9fafb",
				Text:          "#111827",
				TextSecondary: "#6b7280",
				Border:        "#e5e7eb",
				Success:       "#10b981",
				Warning:       "#f59e0b",
				Error:         "#ef4444",
				Info:          "#3b82f6",
			},
			Typography:   ThemeTypography{FontFamily: "Inter, system-ui, sans-serif", FontSize: fontSize},
			Spacing:      scale,
			BorderRadius: radius,
			Shadows: map[string]string{
				"sm": "0 1px 2px 0 rgb(0 0 0 / 0.05)",
				"md": "0 4px 6px -1px rgb(0 0 0 / 0.1)",
				"lg": "0 10px 15px -3px rgb(0 0 0 / 0.1)",
				"xl": "0 20px 25px -5px rgb(0 0 0 / 0.1)",
			},
		},
		{
			ID:   "dark",
			Name: "Dark Theme",
			Mode: ModeDark,
			Colors: ThemeColors{
				Primary:       "#6366f1",
				Secondary:     "#9ca3af",
				Accent:        "#34d399",
				Background:    "#111827",
				Surface:       "#1f2937",
				Text:          "#f9fafb",
				TextSecondary: "#9ca3af",
				Border:        "#374151",
				Success:       "#34d399",
				Warning:       "#fbbf24",
				Error:         "#f87171",
				Info:          "#60a5fa",
			},
			Typography:   ThemeTypography{FontFamily: "Inter, system-ui, sans-serif", FontSize: fontSize},
			Spacing:      scale,
			BorderRadius: radius,
			Shadows: map[string]string{
				"sm": "0 1px 2px 0 rgb(0 0 0 / 0.3)",
				"md": "0 4px 6px -1px rgb(0 0 0 / 0.4)",
				"lg": "0 10px 15px -3px rgb(0 0 0 / 0.4)",
				"xl": "0 20px 25px -5px rgb(0 0 0 / 0.4)",
			},
		},
	}
}
