// Package config defines the global configuration for the FloodWatch service.
// Configuration is loaded once at process initialization and is immutable
// thereafter. Values are resolved from the OS environment, with an optional
// .env file for local development. Any missing required value or invalid
// format fails the process immediately on startup.
package config

import (
	"time"
)

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server    ServerConfig
	Database  DatabaseConfig
	Artifacts ArtifactConfig
	History   HistoryConfig
	Security  SecurityConfig
}

// ServerConfig holds HTTP server tuning.
type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"29s"`
}

// DatabaseConfig holds the assessment store connection settings. An empty URL
// disables persistence; assessments are then kept in the in-process ledger
// only.
type DatabaseConfig struct {
	URL             string        `envconfig:"DATABASE_URL"`
	MaxConns        int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	PersistTimeout  time.Duration `envconfig:"PERSIST_TIMEOUT" default:"2s"`
}

// ArtifactConfig locates the trained-model bundle. The feature-name list in
// this directory is required; the model itself is optional and falls back to
// the heuristic surrogate.
type ArtifactConfig struct {
	Dir string `envconfig:"FLOOD_ARTIFACT_DIR" default:"artifacts" validate:"required"`
}

// HistoryConfig bounds the in-process assessment ledger.
type HistoryConfig struct {
	Capacity int `envconfig:"HISTORY_CAPACITY" default:"30" validate:"gte=1,lte=100"`
}

// SecurityConfig holds CORS settings for the public API.
type SecurityConfig struct {
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// PersistenceEnabled reports whether a durable assessment store is configured.
func (c *Config) PersistenceEnabled() bool {
	return c.Database.URL != ""
}
