package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the forecast visualization service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Prediction backend
	APIBaseURL string `env:"API_BASE_URL,default=http://localhost:8000"`

	// Snapshot storage (GCS bucket wins when set, otherwise local dir)
	SnapshotsDir string `env:"SNAPSHOTS_DIR,default=./snapshots"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// Chart geometry
	ChartWidthPx  int `env:"CHART_WIDTH_PX,default=900"`
	ChartHeightPx int `env:"CHART_HEIGHT_PX,default=420"`

	// Animation phase durations in milliseconds
	RescaleMs int `env:"RESCALE_MS,default=750"`
	RevealMs  int `env:"REVEAL_MS,default=500"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
