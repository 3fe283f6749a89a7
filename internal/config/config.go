package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the API server.
// Values come from the environment, with a .env file loaded first if present.
type Config struct {
	Port         string
	Env          string
	DatabasePath string
	JWTSecret    string
	APIKey       string
	APISecret    string
	// SweepInterval controls how often the installment processor runs,
	// expressed as a Go duration string.
	SweepInterval string
}

// Load reads configuration from the environment
func Load() *Config {
	godotenv.Load() // best effort, env vars win over a missing file

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		DatabasePath:  getEnv("DATABASE_PATH", "estatebook.db"),
		JWTSecret:     getEnv("JWT_SECRET", "estatebook-secret-key"),
		APIKey:        getEnv("API_KEY", "test-api-key"),
		APISecret:     getEnv("API_SECRET", "test-api-secret"),
		SweepInterval: getEnv("SWEEP_INTERVAL", "1h"),
	}
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
