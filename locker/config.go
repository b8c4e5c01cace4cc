package locker

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration values loaded from the environment.
type Config struct {
	DBPath    string
	PrefsPath string
	Latency   time.Duration
	AIAPIKey  string
	LogLevel  string
}

// NewConfig loads configuration from environment variables, falling back to
// defaults suitable for local use.
func NewConfig() Config {
	return Config{
		DBPath:    getEnv("BOOKSWAP_DB", "bookswap.db"),
		PrefsPath: getEnv("BOOKSWAP_PREFS", "bookswap_prefs.json"),
		Latency:   time.Millisecond * time.Duration(getEnvAsInt("BOOKSWAP_LATENCY_MS", 400)),
		AIAPIKey:  getEnv("AI_SERVICE_API_KEY", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a
// default value.
func getEnvAsInt(name string, fallback int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
