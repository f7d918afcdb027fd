// Package config provides configuration management for the LuxPlan server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL   string
	DBMaxIdleConn int
	DBMaxOpenConn int
	DBDebug       bool

	// Profile library configuration
	ProfileLibraryEnabled bool   // Import profile JSON files on startup
	ProfileLibraryPath    string // Directory scanned for profile files

	// Placement session configuration
	SessionTimeout time.Duration // Idle time before a placement session is closed

	// CORS configuration
	CORSOrigin string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "5000"),
		Env:  getEnv("ENV", "development"),

		// Database
		DatabaseURL:   getEnv("DATABASE_URL", "file:./luxplan.db"),
		DBMaxIdleConn: getEnvInt("DB_MAX_IDLE_CONN", 5),
		DBMaxOpenConn: getEnvInt("DB_MAX_OPEN_CONN", 10),
		DBDebug:       getEnvBool("DB_DEBUG", false),

		// Profile library
		ProfileLibraryEnabled: getEnvBool("PROFILE_LIBRARY_ENABLED", true),
		ProfileLibraryPath:    getEnv("PROFILE_LIBRARY_PATH", "./profiles"),

		// Placement sessions
		SessionTimeout: time.Duration(getEnvInt("SESSION_TIMEOUT_MINUTES", 30)) * time.Minute,

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
