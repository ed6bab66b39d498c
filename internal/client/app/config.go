package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string // Base URL of the catalog backend (default: http://localhost:5000/api)
	StateFile  string // Path to the sqlite state database (default: per-user config dir)

	Env         string        // Environment (dev, staging, prod) (default: dev)
	LogLevel    string        // Log level (debug, info, warn, error) (default: info)
	LogFormat   string        // Log format (json, text) (default: text)
	HTTPTimeout time.Duration // Per-request timeout for backend calls (default: 10s)
}

func LoadConfig() Config {
	// A .env next to the binary is a developer convenience; absence is fine.
	_ = godotenv.Load()

	return Config{
		APIBaseURL:  getEnvOrDefault("PRODUCTR_API_URL", "http://localhost:5000/api"),
		StateFile:   getEnvOrDefault("PRODUCTR_STATE_FILE", defaultStateFile()),
		Env:         getEnvOrDefault("ENV", "dev"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "text"),
		HTTPTimeout: getEnvDurationOrDefault("PRODUCTR_HTTP_TIMEOUT", 10*time.Second),
	}
}

// defaultStateFile places the state database in the per-user config
// directory, falling back to the working directory when none is available.
func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "productr.db"
	}
	return filepath.Join(dir, "productr", "state.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
