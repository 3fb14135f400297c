// Package config provides environment-driven configuration for menucart.
package config

import (
	"os"
	"strconv"
)

// Config holds the complete application configuration.
type Config struct {
	Store StoreConfig
	Log   LogConfig
}

// StoreConfig locates the session database and the catalog.
type StoreConfig struct {
	// DBPath is the SQLite file holding session values.
	DBPath string
	// CatalogPath is the YAML or CUE catalog document.
	CatalogPath string
	// SessionID selects the session cart commands work against.
	SessionID string
	// MetricsPath, when set, receives a Prometheus textfile after each command.
	MetricsPath string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Store: StoreConfig{
			DBPath:      getEnv("MENUCART_DB", "./menucart.db"),
			CatalogPath: getEnv("MENUCART_CATALOG", "./menu.yaml"),
			SessionID:   getEnv("MENUCART_SESSION", ""),
			MetricsPath: getEnv("MENUCART_METRICS_FILE", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "warn"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
