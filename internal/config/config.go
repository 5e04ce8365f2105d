package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the planner service configuration.
type Config struct {
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Database string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Planner struct {
		// CooldownWeeks is the minimum spacing between two assignments
		// of the same person to the same part type.
		CooldownWeeks int
		// LookaheadWeeks bounds the coverage-alert window.
		LookaheadWeeks int
		// ScanIntervalSeconds is the period of the background
		// validation scan (0 disables it).
		ScanIntervalSeconds int
		// LockTTLSeconds bounds how long an auto-assignment run may
		// hold the program lock.
		LockTTLSeconds int
		// AlertCacheTTLSeconds is the lifetime of the cached alert
		// list per program.
		AlertCacheTTLSeconds int
		// Key prefixes in Redis
		LockKeyPrefix  string
		AlertKeyPrefix string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "planner")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Planner.CooldownWeeks = parseInt(getEnv("PLANNER_COOLDOWN_WEEKS", "4"), 4)
	cfg.Planner.LookaheadWeeks = parseInt(getEnv("PLANNER_LOOKAHEAD_WEEKS", "4"), 4)
	cfg.Planner.ScanIntervalSeconds = parseInt(getEnv("PLANNER_SCAN_INTERVAL", "300"), 300)
	cfg.Planner.LockTTLSeconds = parseInt(getEnv("PLANNER_LOCK_TTL", "120"), 120)
	cfg.Planner.AlertCacheTTLSeconds = parseInt(getEnv("PLANNER_ALERT_CACHE_TTL", "60"), 60)
	cfg.Planner.LockKeyPrefix = getEnv("PLANNER_LOCK_PREFIX", "planner:lock:")
	cfg.Planner.AlertKeyPrefix = getEnv("PLANNER_ALERT_PREFIX", "planner:program:")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if cfg.Planner.CooldownWeeks < 0 {
		return nil, fmt.Errorf("PLANNER_COOLDOWN_WEEKS must not be negative")
	}
	if cfg.Planner.LookaheadWeeks < 0 {
		return nil, fmt.Errorf("PLANNER_LOOKAHEAD_WEEKS must not be negative")
	}

	return cfg, nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Database, c.Database.SSLMode)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
