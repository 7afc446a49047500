// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Addr is the HTTP listen address for serve mode.
	Addr string

	// StorageDir is the local directory for uploaded statements and
	// reports. Ignored when GCSBucket is set.
	StorageDir string

	// GCSBucket, when set, switches document storage to Google Cloud
	// Storage.
	GCSBucket string

	// DBPath is the SQLite database file for analysis records.
	DBPath string

	// MaskPII controls whether transaction text is masked before the
	// analysis result leaves the process.
	MaskPII bool
}

// Load reads configuration from the environment, after loading a .env
// file if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:       getEnv("ANALYZER_ADDR", ":8080"),
		StorageDir: getEnv("ANALYZER_STORAGE_DIR", "data/statements"),
		GCSBucket:  os.Getenv("ANALYZER_GCS_BUCKET"),
		DBPath:     getEnv("ANALYZER_DB_PATH", "data/analyzer.db"),
		MaskPII:    true,
	}

	if v := os.Getenv("ANALYZER_MASK_PII"); v != "" {
		masked, err := strconv.ParseBool(v)
		if err == nil {
			cfg.MaskPII = masked
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
