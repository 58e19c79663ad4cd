package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Snapshot SnapshotConfig
	Refresh  RefreshConfig
	Export   ExportConfig
	Insights InsightsConfig
	Goals    GoalsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `envconfig:"PORT" default:"8080"`
	Environment  string        `envconfig:"ENV" default:"development"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	CORSOrigins  []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// SnapshotConfig holds local snapshot persistence configuration
type SnapshotConfig struct {
	Enabled bool   `envconfig:"SNAPSHOT_ENABLED" default:"true"`
	Path    string `envconfig:"SNAPSHOT_PATH" default:"./data/snapshot"`
}

// RefreshConfig holds refresh scheduler configuration
type RefreshConfig struct {
	RealTimeDefault bool          `envconfig:"REFRESH_REALTIME_DEFAULT" default:"true"`
	MinInterval     time.Duration `envconfig:"REFRESH_MIN_INTERVAL" default:"1s"`
}

// ExportConfig holds export job configuration
type ExportConfig struct {
	TTL             time.Duration `envconfig:"EXPORT_TTL" default:"24h"`
	ProcessingDelay time.Duration `envconfig:"EXPORT_PROCESSING_DELAY" default:"3s"`
	SweepInterval   time.Duration `envconfig:"EXPORT_SWEEP_INTERVAL" default:"1h"`
}

// InsightsConfig holds insight generation configuration
type InsightsConfig struct {
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
}

// GoalsConfig holds goal status derivation configuration
type GoalsConfig struct {
	// RiskSlack is how far progress may lag the schedule, as a fraction,
	// before a goal counts as at risk.
	RiskSlack float64 `envconfig:"GOALS_RISK_SLACK" default:"0.15"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("PULSEBOARD", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
