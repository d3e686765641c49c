// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and GACHA_ environment variables on top.
// - Errors wrap this package's sentinels.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/gacha/internal/domain/draw"
	"github.com/okian/gacha/internal/domain/model"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// DatasetPath is the built dataset document served by the runtime.
	DatasetPath string `koanf:"dataset_path" validate:"required"`

	// WatchDataset reloads the dataset when the file changes.
	WatchDataset bool `koanf:"watch_dataset"`

	// StoreDriver selects collection persistence: memory or sqlite.
	StoreDriver string `koanf:"store_driver" validate:"oneof=memory sqlite"`

	// SQLitePath is used when StoreDriver is sqlite.
	SQLitePath string `koanf:"sqlite_path" validate:"required_if=StoreDriver sqlite"`

	// CollectionCacheSize bounds cached collector states; 0 disables the cache.
	CollectionCacheSize int `koanf:"collection_cache_size" validate:"min=0"`

	// CollectionCacheTTLSec is how long a cached state stays fresh.
	CollectionCacheTTLSec int `koanf:"collection_cache_ttl_sec" validate:"min=1"`

	// DrawRatePerSec and DrawBurst limit POST /draw and /battle; 0 disables limiting.
	DrawRatePerSec float64 `koanf:"draw_rate_per_sec" validate:"min=0"`
	DrawBurst      int     `koanf:"draw_burst" validate:"min=1"`

	// MaxListLimit caps ?limit on list endpoints.
	MaxListLimit int `koanf:"max_list_limit" validate:"min=1"`

	// RandomSeed makes draws and battles reproducible when non-zero.
	RandomSeed uint64 `koanf:"random_seed"`

	// GradeProbabilities maps grade names to roll probabilities. They must
	// sum to one.
	GradeProbabilities map[string]float64 `koanf:"grade_probabilities" validate:"required,min=1"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	probs := make(map[string]float64, len(model.Grades()))
	for g, p := range draw.UniformDistribution() {
		probs[string(g)] = p
	}
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		DatasetPath:           "data/players.json",
		WatchDataset:          false,
		StoreDriver:           StoreMemory,
		SQLitePath:            "data/collections.db",
		CollectionCacheSize:   1024,
		CollectionCacheTTLSec: 300,
		DrawRatePerSec:        20,
		DrawBurst:             40,
		MaxListLimit:          200,
		GradeProbabilities:    probs,
	}
}

// CollectionCacheTTL returns the cache TTL as a duration.
func (c *Config) CollectionCacheTTL() time.Duration {
	return time.Duration(c.CollectionCacheTTLSec) * time.Second
}

// Distribution parses and validates the grade probabilities.
func (c *Config) Distribution() (draw.Distribution, error) {
	d := make(draw.Distribution, len(c.GradeProbabilities))
	for name, p := range c.GradeProbabilities {
		g, err := model.ParseGrade(name)
		if err != nil {
			return nil, fmt.Errorf("%w: grade_probabilities: %w", ErrInvalidConfig, err)
		}
		d[g] += p
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: grade_probabilities: %w", ErrInvalidConfig, err)
	}
	return d, nil
}
