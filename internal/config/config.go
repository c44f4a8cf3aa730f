// Package config handles loading and validating runtime configuration for the
// Queens Ballers Republiq API. Configuration values (like the database URL and
// API port) come from environment variables rather than being hardcoded, so the
// same binary runs in dev, staging, and production — just swap the environment.
package config

import (
	"os"

	// godotenv reads a .env file and loads its key=value pairs into the
	// process environment. Convenient in development: put your settings in a
	// .env file and they're available as env vars. Production uses real ones.
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values for the application.
type Config struct {
	Port           string // TCP port the HTTP server listens on (e.g. "8080")
	DatabaseURL    string // PostgreSQL connection string
	ClerkSecretKey string // Secret key for verifying Clerk authentication tokens
	Env            string // "development", "staging", or "production"
}

// Load reads configuration from environment variables and returns a populated
// Config. It first tries to load a .env file for local development; a missing
// .env is fine (production sets real env vars), so that error is discarded.
func Load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		// Default to "development" so local runs don't behave like production
		env = "development"
	}

	return &Config{
		Port:           port,
		DatabaseURL:    os.Getenv("DATABASE_URL"),     // Required — server won't start without it
		ClerkSecretKey: os.Getenv("CLERK_SECRET_KEY"), // Required once Clerk verification is enabled
		Env:            env,
	}
}
