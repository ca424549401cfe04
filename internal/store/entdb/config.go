package entdb

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the Postgres connection and pool settings for the durable
// fact/knowledge backend. The in-process MemStore/MemDocStore remain the
// default; entdb only comes into play when an operator opts into a
// non-embedded deployment (spec §4.10/§9).
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// LoadConfigFromEnv loads the Postgres configuration from environment
// variables, applying annad-scale defaults (a single local daemon, not a
// fleet, so the pool stays small).
func LoadConfigFromEnv() (Config, error) {
	port, err := strconv.Atoi(getEnvOrDefault("ANNAD_DB_PORT", "5432"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ANNAD_DB_PORT: %w", err)
	}

	maxConns, _ := strconv.Atoi(getEnvOrDefault("ANNAD_DB_MAX_CONNS", "8"))
	minConns, _ := strconv.Atoi(getEnvOrDefault("ANNAD_DB_MIN_CONNS", "1"))

	maxLifetime, err := time.ParseDuration(getEnvOrDefault("ANNAD_DB_CONN_MAX_LIFETIME", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ANNAD_DB_CONN_MAX_LIFETIME: %w", err)
	}
	maxIdleTime, err := time.ParseDuration(getEnvOrDefault("ANNAD_DB_CONN_MAX_IDLE_TIME", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ANNAD_DB_CONN_MAX_IDLE_TIME: %w", err)
	}

	cfg := Config{
		Host:            getEnvOrDefault("ANNAD_DB_HOST", "localhost"),
		Port:            port,
		User:            getEnvOrDefault("ANNAD_DB_USER", "annad"),
		Password:        os.Getenv("ANNAD_DB_PASSWORD"),
		Database:        getEnvOrDefault("ANNAD_DB_NAME", "annad"),
		SSLMode:         getEnvOrDefault("ANNAD_DB_SSLMODE", "disable"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		MaxConnLifetime: maxLifetime,
		MaxConnIdleTime: maxIdleTime,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for obviously broken combinations.
func (c Config) Validate() error {
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("ANNAD_DB_MIN_CONNS (%d) cannot exceed ANNAD_DB_MAX_CONNS (%d)", c.MinConns, c.MaxConns)
	}
	if c.MaxConns < 1 {
		return fmt.Errorf("ANNAD_DB_MAX_CONNS must be at least 1")
	}
	return nil
}

// DSN builds the pgx connection string for this config.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
