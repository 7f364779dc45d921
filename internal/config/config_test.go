package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "authapi", cfg.MongoDatabase)
	assert.Equal(t, CORSPermissive, cfg.CORSMode)
	assert.Equal(t, 500*time.Millisecond, cfg.ConnectBackoff)
	assert.EqualValues(t, 5, cfg.ConnectRetries)
	assert.True(t, cfg.DiagnosticsEnabled())
	assert.Equal(t, ":5000", cfg.HTTPAddr())
}

func TestNew_MongoRequiresURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := New()
	assert.ErrorContains(t, err, "MONGODB_URI")
}

func TestNew_StrictCORS(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CORS_MODE", "strict")
	t.Setenv("CORS_ORIGINS", "https://app.example.com,https://admin.example.com")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestNew_StrictCORSRejectsWildcard(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CORS_MODE", "strict")
	t.Setenv("CORS_ORIGINS", "*")

	_, err := New()
	assert.ErrorContains(t, err, "CORS_ORIGINS")
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"environment": func(c *Config) { c.Environment = "staging" },
		"driver":      func(c *Config) { c.StoreDriver = "sqlite" },
		"cors mode":   func(c *Config) { c.CORSMode = "open" },
		"strict cors": func(c *Config) { c.CORSMode = CORSStrict; c.CORSOrigins = nil },
		"strict cors wildcard": func(c *Config) {
			c.CORSMode = CORSStrict
			c.CORSOrigins = []string{"https://app.example.com", "*"}
		},
		"port": func(c *Config) { c.Port = 70000 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewForTesting()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDiagnosticsEnabled(t *testing.T) {
	cfg := NewForTesting()
	cfg.Diagnostics = nil

	cfg.Environment = EnvProduction
	assert.False(t, cfg.DiagnosticsEnabled())

	cfg.Environment = EnvDevelopment
	assert.True(t, cfg.DiagnosticsEnabled())

	off := false
	cfg.Diagnostics = &off
	assert.False(t, cfg.DiagnosticsEnabled())
}
