// Package config reads process configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config selects the storage backend and its settings.
type Config struct {
	// DataDir holds the flat files when StorageBackend is "file".
	DataDir string

	// StorageBackend is one of "file", "postgres" or "memory".
	StorageBackend string

	// PostgresDSN is required when StorageBackend is "postgres".
	PostgresDSN string

	// KafkaBrokers enables event publishing when non-empty.
	KafkaBrokers []string
}

// Load reads .env if present (ignored when missing) and applies defaults.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DataDir:        envOr("DATA_DIR", "data"),
		StorageBackend: envOr("STORAGE_BACKEND", "file"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
