package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all logwarden configuration.
type Config struct {
	Server   ServerConfig
	Engine   EngineConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr           string
	MaxUploadBytes int64
}

// EngineConfig holds analysis pipeline settings.
type EngineConfig struct {
	Window time.Duration
	Trees  int
	Seed   int64
	Seeded bool // true only when LOGWARDEN_SEED is set
}

// DatabaseConfig holds the credential store connection settings.
// An empty URL disables the account endpoints.
type DatabaseConfig struct {
	URL string
}

// LoggingConfig holds log verbosity and format settings.
type LoggingConfig struct {
	Level string
	JSON  bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	cfg := Config{
		Server: ServerConfig{
			Addr:           getenv("LOGWARDEN_ADDR", ":8080"),
			MaxUploadBytes: getenvInt64("LOGWARDEN_MAX_UPLOAD_BYTES", 32<<20),
		},
		Engine: EngineConfig{
			Window: getenvDuration("LOGWARDEN_WINDOW", 5*time.Minute),
			Trees:  getenvInt("LOGWARDEN_TREES", 100),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("LOGWARDEN_DATABASE_URL"),
		},
		Logging: LoggingConfig{
			Level: getenv("LOGWARDEN_LOG_LEVEL", "info"),
			JSON:  getenv("LOGWARDEN_LOG_FORMAT", "text") == "json",
		},
	}

	if v := os.Getenv("LOGWARDEN_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Engine.Seed = seed
			cfg.Engine.Seeded = true
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
