// internal/config/config.go
// Centralized configuration management
// Loads from environment variables with sensible defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port           string
	Environment    string
	AllowedOrigins []string

	// Local store
	LocalStoreDriver string // "file", "redis", or "postgres"
	LocalStorePath   string // file driver: path to the JSON data directory
	RedisURL         string // redis driver
	DatabaseURL      string // postgres driver

	// Remote store
	RemoteDriver        string // "firestore" or "mock"
	FirestoreProjectID  string
	FirestoreCredsFile  string
	FirestoreCollection string
	FirestoreDocID      string // single aggregate document per user

	// Sync
	RemoteWriteTimeout time.Duration
	ReconnectBackoff   time.Duration

	// Shutdown
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		// Server
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", "*"),

		// Local store
		LocalStoreDriver: getEnv("LOCAL_STORE_DRIVER", "file"),
		LocalStorePath:   getEnv("LOCAL_STORE_PATH", "./data"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),

		// Remote store
		RemoteDriver:        getEnv("REMOTE_DRIVER", "mock"),
		FirestoreProjectID:  getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredsFile:  getEnv("FIRESTORE_CREDENTIALS_FILE", ""),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION", "trackers"),
		FirestoreDocID:      getEnv("FIRESTORE_DOC_ID", "default"),

		// Sync
		RemoteWriteTimeout: getEnvDuration("REMOTE_WRITE_TIMEOUT", "10s"),
		ReconnectBackoff:   getEnvDuration("RECONNECT_BACKOFF", "5s"),

		// Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", "30s"),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.LocalStoreDriver {
	case "file":
		if c.LocalStorePath == "" {
			return fmt.Errorf("local store path is required for the file driver")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("redis URL is required for the redis driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid local store driver: %s", c.LocalStoreDriver)
	}

	switch c.RemoteDriver {
	case "firestore":
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("firestore project ID is required for the firestore driver")
		}
	case "mock":
		if c.Environment == "production" {
			return fmt.Errorf("mock remote store cannot be used in production")
		}
	default:
		return fmt.Errorf("invalid remote driver: %s", c.RemoteDriver)
	}

	if c.RemoteWriteTimeout <= 0 {
		return fmt.Errorf("remote write timeout must be positive")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper functions

// getEnv gets a string value from environment with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList gets a comma-separated list from environment with a default
func getEnvList(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnvInt gets an integer value from environment with a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment with a default
func getEnvDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		// If parsing fails, try to parse the default
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
