package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:             "3000",
		Env:              "development",
		StorageDriver:    DriverFile,
		DataDir:          "data",
		SQLitePath:       "data/hotgist.db",
		FeedDefaultLimit: 20,
		FeedMaxLimit:     50,
		FeedConcurrency:  8,
		FeedTimeoutMS:    5000,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Defaults are valid", func(_ *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Unknown driver", func(c *Config) { c.StorageDriver = "firestore" }, true},
		{"File driver without data dir", func(c *Config) { c.DataDir = "" }, true},
		{"SQLite driver without path", func(c *Config) { c.StorageDriver = DriverSQLite; c.SQLitePath = "" }, true},
		{"Default limit above max", func(c *Config) { c.FeedDefaultLimit = 80 }, true},
		{"Zero concurrency", func(c *Config) { c.FeedConcurrency = 0 }, true},
		{"Zero timeout", func(c *Config) { c.FeedTimeoutMS = 0 }, true},
		{"Rate limit enabled without budget", func(c *Config) { c.RateLimitEnabled = true }, true},
		{"Rate limit enabled with budget", func(c *Config) {
			c.RateLimitEnabled = true
			c.RateLimitWrites = 10
			c.RateLimitWindowSeconds = 60
		}, false},
		{"Production postgres with default password", func(c *Config) {
			c.Env = "production"
			c.StorageDriver = DriverPostgres
			c.DBPassword = "password"
			c.DBSSLMode = "require"
		}, true},
		{"Production postgres with ssl disabled", func(c *Config) {
			c.Env = "prod"
			c.StorageDriver = DriverPostgres
			c.DBPassword = "a-strong-password"
			c.DBSSLMode = "disable"
		}, true},
		{"Production postgres hardened", func(c *Config) {
			c.Env = "production"
			c.StorageDriver = DriverPostgres
			c.DBPassword = "a-strong-password"
			c.DBSSLMode = "verify-full"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("FEED_CONCURRENCY", "12")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, 12, cfg.FeedConcurrency)
	assert.Equal(t, 50, cfg.FeedMaxLimit)
	assert.Equal(t, int64(5000), cfg.FeedTimeout().Milliseconds())
}
