package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Version is the build version, overridden at link time.
var Version = "dev"

var envReloadedAt time.Time

// GetEnvReloadedAt reports when configuration was last loaded from the
// environment.
func GetEnvReloadedAt() time.Time {
	return envReloadedAt
}

// Config holds all environment backed configuration for message-api.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8007"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Redis / Queues
	RedisURL            string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	ClassificationQueue string `env:"CLASSIFICATION_QUEUE" envDefault:"topic_classification_queue"`
	UsageQueue          string `env:"USAGE_QUEUE" envDefault:"token_usage_queue"`

	// Usage service (daily limit guard)
	UserServiceURL    string        `env:"USER_SERVICE_URL" envDefault:"http://user-api:8001"`
	LimitCheckTimeout time.Duration `env:"LIMIT_CHECK_TIMEOUT" envDefault:"5s"`

	// Side-effect dispatch
	DispatchTimeout time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"2s"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"message-api"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"modai"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.UserServiceURL); err != nil {
		return nil, fmt.Errorf("invalid USER_SERVICE_URL: %w", err)
	}

	if cfg.LimitCheckTimeout <= 0 {
		return nil, fmt.Errorf("LIMIT_CHECK_TIMEOUT must be positive, got %s", cfg.LimitCheckTimeout)
	}
	if cfg.DispatchTimeout <= 0 {
		return nil, fmt.Errorf("DISPATCH_TIMEOUT must be positive, got %s", cfg.DispatchTimeout)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()
	envReloadedAt = cfg.EnvReloadedAt

	return cfg, nil
}
