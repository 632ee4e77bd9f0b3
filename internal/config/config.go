package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DefaultSeedURL is the mock user list the directory is seeded from
const DefaultSeedURL = "https://jsonplaceholder.typicode.com/users"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Seed source configuration
	Seed SeedConfig

	// Session lifecycle configuration
	Session SessionConfig

	// Per-client rate limiting
	RateLimit RateLimitConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// SeedConfig holds settings for the remote user list
type SeedConfig struct {
	URL          string
	Timeout      time.Duration
	MaxBodySize  int64 // in bytes
	CacheTTL     time.Duration
	SafeClient   bool // block private/loopback targets
	AllowedPorts []int
}

// SessionConfig holds session lifecycle settings
type SessionConfig struct {
	IdleTTL      time.Duration
	ReapInterval time.Duration
	MaxSessions  int
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Seed: SeedConfig{
			URL:          getEnv("SEED_URL", DefaultSeedURL),
			Timeout:      getDurationEnv("SEED_TIMEOUT", 10*time.Second),
			MaxBodySize:  getInt64Env("SEED_MAX_BODY_SIZE", 1024*1024), // 1MB
			CacheTTL:     getDurationEnv("SEED_CACHE_TTL", time.Hour),
			SafeClient:   getBoolEnv("SEED_SAFE_CLIENT", true),
			AllowedPorts: []int{80, 443},
		},
		Session: SessionConfig{
			IdleTTL:      getDurationEnv("SESSION_IDLE_TTL", 30*time.Minute),
			ReapInterval: getDurationEnv("SESSION_REAP_INTERVAL", time.Minute),
			MaxSessions:  getIntEnv("SESSION_MAX", 10000),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolEnv("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatEnv("RATE_LIMIT_RPS", 20),
			Burst:             getIntEnv("RATE_LIMIT_BURST", 40),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Seed.URL == "" {
		return fmt.Errorf("SEED_URL is required")
	}
	u, err := url.Parse(c.Seed.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SEED_URL must be an absolute http(s) URL, got %q", c.Seed.URL)
	}
	if c.Seed.MaxBodySize <= 0 {
		return fmt.Errorf("SEED_MAX_BODY_SIZE must be positive")
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	if c.Session.ReapInterval <= 0 {
		return fmt.Errorf("SESSION_REAP_INTERVAL must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
