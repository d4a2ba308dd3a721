package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Database
	DatabaseURL    string
	DatabaseDriver string

	// Storage directories
	OutputDir    string
	ProcessedDir string

	// Background processing
	QueueSize int

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	queueSize, err := strconv.Atoi(getEnv("QUEUE_SIZE", "64"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_SIZE: %w", err)
	}

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),

		OutputDir:    getEnv("OUTPUT_DIR", "output"),
		ProcessedDir: getEnv("PROCESSED_DIR", "processed_images"),

		QueueSize: queueSize,

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "sqlite" {
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.DatabaseDriver)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("QUEUE_SIZE must be positive, got %d", c.QueueSize)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
