package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	DBName   string
	SSLMode  string
}

// SessionConfig holds the session cookie configuration
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// LoadConfig loads the configuration from environment variables.
//
// Two naming conventions exist for the database settings, one per deployment
// target: the DB_* names win, the libpq-style PG* names are the fallback.
func LoadConfig() *Config {
	host := getEnvFirst([]string{"DB_HOST", "PGHOST"}, "localhost")

	// Managed hosts require TLS; local development does not run with certs.
	sslDefault := "require"
	if host == "localhost" || host == "127.0.0.1" {
		sslDefault = "disable"
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnvFirstAsInt([]string{"PORT", "SERVER_PORT"}, 3000),
		},
		Database: DatabaseConfig{
			Host:     host,
			Port:     getEnvFirstAsInt([]string{"DB_PORT", "PGPORT"}, 5432),
			Username: getEnvFirst([]string{"DB_USER", "PGUSER"}, "postgres"),
			Password: getEnvFirst([]string{"DB_PASSWORD", "PGPASSWORD"}, "password"),
			DBName:   getEnvFirst([]string{"DB_NAME", "PGDATABASE"}, "condo_manager"),
			SSLMode:  getEnv("DB_SSLMODE", sslDefault),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "dev_secret_key"),
			TTL:    time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		},
	}
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvFirst(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvFirstAsInt(keys []string, defaultValue int) int {
	for _, key := range keys {
		if value, exists := os.LookupEnv(key); exists {
			if n, err := strconv.Atoi(value); err == nil {
				return n
			}
		}
	}
	return defaultValue
}
