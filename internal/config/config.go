// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// CORS modes.
const (
	CORSPermissive = "permissive"
	CORSStrict     = "strict"
)

// Config holds the service configuration. Variable names are read without a prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	Port        int         `envconfig:"PORT" default:"5000"`

	StoreDriver    string        `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURI       string        `envconfig:"MONGODB_URI"`
	MongoDatabase  string        `envconfig:"MONGODB_DATABASE" default:"authapi"`
	ConnectRetries uint64        `envconfig:"DB_CONNECT_RETRIES" default:"5"`
	ConnectBackoff time.Duration `envconfig:"DB_CONNECT_BACKOFF" default:"500ms"`

	CORSMode    string   `envconfig:"CORS_MODE" default:"permissive"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`

	// Diagnostics enables /api/users and /api/users/clear. Unset means
	// enabled everywhere except production.
	Diagnostics   *bool `envconfig:"ENABLE_DIAGNOSTICS"`
	VerboseHealth bool  `envconfig:"VERBOSE_HEALTH" default:"false"`

	// RateLimitRPM controls requests per minute per email on register and login.
	RateLimitRPM int `envconfig:"RATE_LIMIT_RPM" default:"10"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// New creates a Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects inconsistent settings.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return fmt.Errorf("unsupported ENVIRONMENT: %s", c.Environment)
	}

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI must be set when STORE_DRIVER=%s", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}

	switch c.CORSMode {
	case CORSPermissive:
	case CORSStrict:
		if len(c.CORSOrigins) == 0 {
			return fmt.Errorf("CORS_ORIGINS must list at least one origin when CORS_MODE=%s", CORSStrict)
		}
		// strict mode allows credentials, which cannot be combined with any origin
		for _, o := range c.CORSOrigins {
			if strings.TrimSpace(o) == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain %q when CORS_MODE=%s", "*", CORSStrict)
			}
		}
	default:
		return fmt.Errorf("unsupported CORS_MODE: %s", c.CORSMode)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	return nil
}

// NewForTesting returns a config wired to the in-memory store.
func NewForTesting() *Config {
	enabled := true
	return &Config{
		Environment:     EnvTesting,
		Port:            5000,
		StoreDriver:     DriverMemory,
		MongoDatabase:   "authapi_test",
		ConnectRetries:  0,
		ConnectBackoff:  10 * time.Millisecond,
		CORSMode:        CORSPermissive,
		Diagnostics:     &enabled,
		RateLimitRPM:    1000,
		LogLevel:        "disabled",
		LogFormat:       "json",
		ShutdownTimeout: time.Second,
	}
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// DiagnosticsEnabled reports whether the account diagnostics routes are served.
func (c *Config) DiagnosticsEnabled() bool {
	if c.Diagnostics != nil {
		return *c.Diagnostics
	}
	return !c.IsProduction()
}

// HTTPAddr returns the listen address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
