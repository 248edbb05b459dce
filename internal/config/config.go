// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`
	DBSSLMode     string `mapstructure:"DB_SSLMODE"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`
	DataDir       string `mapstructure:"DATA_DIR"`

	RedisURL                  string `mapstructure:"REDIS_URL"`
	EngagementCacheTTLSeconds int    `mapstructure:"ENGAGEMENT_CACHE_TTL_SECONDS"`

	FeedDefaultLimit       int `mapstructure:"FEED_DEFAULT_LIMIT"`
	FeedMaxLimit           int `mapstructure:"FEED_MAX_LIMIT"`
	FeedConcurrency        int `mapstructure:"FEED_CONCURRENCY"`
	FeedTimeoutMS          int `mapstructure:"FEED_TIMEOUT_MS"`
	FeedTrendingCandidates int `mapstructure:"FEED_TRENDING_CANDIDATES"`

	RateLimitEnabled       bool `mapstructure:"RATE_LIMIT_ENABLED"`
	RateLimitWrites        int  `mapstructure:"RATE_LIMIT_WRITES"`
	RateLimitWindowSeconds int  `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`

	BreakerFailureThreshold int `mapstructure:"BREAKER_FAILURE_THRESHOLD"`
	BreakerTimeoutSeconds   int `mapstructure:"BREAKER_TIMEOUT_SECONDS"`

	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingService  string  `mapstructure:"TRACING_SERVICE_NAME"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	setDefaults(v)

	// The base config file is optional; defaults and env cover a bare checkout.
	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("invalid profile-specific config 'config.%s.yml': %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:8081,http://localhost:19006,http://127.0.0.1:8081")
	v.SetDefault("FEATURE_FLAGS", "trending_authors=on")

	v.SetDefault("STORAGE_DRIVER", DriverFile)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "hotgist")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "data/hotgist.db")
	v.SetDefault("DATA_DIR", "data")

	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("ENGAGEMENT_CACHE_TTL_SECONDS", 30)

	v.SetDefault("FEED_DEFAULT_LIMIT", 20)
	v.SetDefault("FEED_MAX_LIMIT", 50)
	v.SetDefault("FEED_CONCURRENCY", 8)
	v.SetDefault("FEED_TIMEOUT_MS", 5000)
	v.SetDefault("FEED_TRENDING_CANDIDATES", 500)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_WRITES", 30)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	v.SetDefault("BREAKER_FAILURE_THRESHOLD", 5)
	v.SetDefault("BREAKER_TIMEOUT_SECONDS", 30)

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "hotgist-api")
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}

	switch c.StorageDriver {
	case DriverPostgres, DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of postgres, sqlite, file (got %q)", c.StorageDriver)
	}
	if c.StorageDriver == DriverFile && c.DataDir == "" {
		return errors.New("DATA_DIR is required for the file storage driver")
	}
	if c.StorageDriver == DriverSQLite && c.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required for the sqlite storage driver")
	}

	if c.FeedMaxLimit <= 0 {
		return errors.New("FEED_MAX_LIMIT must be positive")
	}
	if c.FeedDefaultLimit <= 0 || c.FeedDefaultLimit > c.FeedMaxLimit {
		return fmt.Errorf("FEED_DEFAULT_LIMIT must be between 1 and FEED_MAX_LIMIT (%d)", c.FeedMaxLimit)
	}
	if c.FeedConcurrency <= 0 {
		return errors.New("FEED_CONCURRENCY must be positive")
	}
	if c.FeedTimeoutMS <= 0 {
		return errors.New("FEED_TIMEOUT_MS must be positive")
	}
	if c.RateLimitEnabled && (c.RateLimitWrites <= 0 || c.RateLimitWindowSeconds <= 0) {
		return errors.New("RATE_LIMIT_WRITES and RATE_LIMIT_WINDOW_SECONDS must be positive when rate limiting is enabled")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction && c.StorageDriver == DriverPostgres {
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must not be 'disable' in production")
		}
	}
	if isProduction && c.AllowedOrigins == "*" {
		log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
	}

	return nil
}

// FeedTimeout is the per-request deadline for feed assembly.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutMS) * time.Millisecond
}

// EngagementCacheTTL is how long aggregated engagement stays cached.
func (c *Config) EngagementCacheTTL() time.Duration {
	return time.Duration(c.EngagementCacheTTLSeconds) * time.Second
}

// BreakerTimeout is how long the storage breaker stays open before probing.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutSeconds) * time.Second
}

// RateLimitWindow is the window for the write-path rate limiter.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

// IsProduction reports whether the app runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
