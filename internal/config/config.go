// Package config loads application configuration from the environment.
// The loaded Config is constructed once in main and passed down explicitly;
// nothing reads configuration through package globals.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBDriver   string // "sqlite" or "postgres"
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTIssuer        string
	JWTAudience      string
	JWTExpirationDur time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "envelopes"),
		DBPassword: getEnv("DB_PASSWORD", "envelopes"),
		DBName:     getEnv("DB_NAME", "envelopes"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "envelopes.db"),

		// JWT
		JWTSecret:   getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTIssuer:   getEnv("JWT_ISSUER", "envelopes-api"),
		JWTAudience: getEnv("JWT_AUDIENCE", "envelopes-client"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
