// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Distance
	DistanceProvider string `envconfig:"DISTANCE_PROVIDER" default:"haversine"`
	MapQuestAPIKey   string `envconfig:"MAPQUEST_API_KEY"`
	MapQuestBaseURL  string `envconfig:"MAPQUEST_BASE_URL" default:"https://www.mapquestapi.com"`
	MapQuestUseMock  bool   `envconfig:"MAPQUEST_USE_MOCK" default:"false"`

	// Storage; an empty URL keeps cache, quota and accounts in memory.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	QuotaLimit  int    `envconfig:"QUOTA_LIMIT" default:"1"`

	// DAT
	DATAPIKey  string `envconfig:"DAT_API_KEY"`
	DATBaseURL string `envconfig:"DAT_BASE_URL" default:"https://analytics.api.dat.com"`
	DATEnabled bool   `envconfig:"DAT_ENABLED" default:"true"`
	DATUseMock bool   `envconfig:"DAT_USE_MOCK" default:"true"`

	// Simulated boards
	SimulatedBoardsEnabled bool   `envconfig:"SIMULATED_BOARDS_ENABLED" default:"true"`
	SimulatedSeed          uint64 `envconfig:"SIMULATED_SEED"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"freightbench"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.QuotaLimit < 0 {
		return nil, fmt.Errorf("loading config: QUOTA_LIMIT must not be negative, got %d", cfg.QuotaLimit)
	}
	return &cfg, nil
}

// PersistentStorage reports whether a database is configured.
func (c *Config) PersistentStorage() bool {
	return c.DatabaseURL != ""
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("distance.provider", c.DistanceProvider),
		attribute.Bool("mapquest.mock", c.MapQuestUseMock),
		attribute.Bool("dat.enabled", c.DATEnabled),
		attribute.Bool("simulated.enabled", c.SimulatedBoardsEnabled),
		attribute.Bool("storage.persistent", c.PersistentStorage()),
		attribute.Int("quota.limit", c.QuotaLimit),
	}
}
