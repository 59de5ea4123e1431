// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database. An empty DatabaseURL selects the local SQLite store.
	DatabaseURL string
	SQLitePath  string

	// Redis (week view cache). Empty disables caching.
	RedisURL string

	// RabbitMQ. Empty selects the in-process bus.
	RabbitMQURL string

	// Outbox
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxRetries   int

	// Worker
	WorkerHealthAddr string

	// CalDAV import
	CalDAVURL      string
	CalDAVUsername string
	CalDAVPassword string
	CalDAVToken    string
	CalDAVCalendar string

	// Natural language task parser service. Empty disables `task parse`.
	ParserURL    string
	ParserAPIKey string

	// Planning. When false every calendar event blocks time regardless
	// of its busy flag.
	RespectBusyFlag bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("WEEKPLAN_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("WEEKPLAN_SQLITE_PATH", ""),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval: getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:    getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:   getIntEnv("OUTBOX_MAX_RETRIES", 5),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		CalDAVURL:      getEnv("CALDAV_URL", ""),
		CalDAVUsername: getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword: getEnv("CALDAV_PASSWORD", ""),
		CalDAVToken:    getEnv("CALDAV_TOKEN", ""),
		CalDAVCalendar: getEnv("CALDAV_CALENDAR", ""),

		ParserURL:    getEnv("PARSER_URL", ""),
		ParserAPIKey: getEnv("PARSER_API_KEY", ""),

		RespectBusyFlag: getBoolEnv("WEEKPLAN_RESPECT_BUSY_FLAG", false),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
