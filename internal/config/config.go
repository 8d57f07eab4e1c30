// Package config loads scene-server configuration from the environment, an
// optional YAML file, and explicit overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the scene server configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `yaml:"addr"`
	// MapPath is the raster office map asset.
	MapPath string `yaml:"map"`
	// TileSize is the tile edge length in pixels.
	TileSize int `yaml:"tileSize"`
	// TickInterval is the simulation tick period.
	TickInterval time.Duration `yaml:"tickInterval"`
	// AllowedOrigins are the CORS origins allowed to reach the feed.
	AllowedOrigins []string `yaml:"allowedOrigins"`
	// Seed seeds the engine's random source; 0 means time-based.
	Seed int64 `yaml:"seed"`
	// Debug enables verbose logging.
	Debug bool `yaml:"debug"`
}

// Overrides optionally overrides values from the environment/file.
//
// A nil pointer means "use the environment/default value".
type Overrides struct {
	Addr         *string
	MapPath      *string
	TileSize     *int
	TickInterval *time.Duration
	Seed         *int64
	Debug        *bool
}

// Load loads configuration in ascending precedence: defaults, YAML file
// (PIXEL_OFFICE_CONFIG, when set), environment, explicit overrides.
func Load(overrides Overrides) (*Config, error) {
	cfg := &Config{
		Addr:           ":3210",
		MapPath:        "assets/office-map.png",
		TileSize:       32,
		TickInterval:   33 * time.Millisecond,
		AllowedOrigins: []string{"*"},
	}

	if path := os.Getenv("PIXEL_OFFICE_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
		}
		cfg.Addr = fmt.Sprintf(":%d", p)
	}
	if v := os.Getenv("PIXEL_OFFICE_MAP"); v != "" {
		cfg.MapPath = v
	}
	if v := os.Getenv("PIXEL_OFFICE_TILE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PIXEL_OFFICE_TILE_SIZE %q: %w", v, err)
		}
		cfg.TileSize = n
	}
	if v := os.Getenv("PIXEL_OFFICE_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid PIXEL_OFFICE_SEED %q: %w", v, err)
		}
		cfg.Seed = n
	}
	if v := os.Getenv("DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	if overrides.Addr != nil {
		cfg.Addr = *overrides.Addr
	}
	if overrides.MapPath != nil {
		cfg.MapPath = *overrides.MapPath
	}
	if overrides.TileSize != nil {
		cfg.TileSize = *overrides.TileSize
	}
	if overrides.TickInterval != nil {
		cfg.TickInterval = *overrides.TickInterval
	}
	if overrides.Seed != nil {
		cfg.Seed = *overrides.Seed
	}
	if overrides.Debug != nil {
		cfg.Debug = *overrides.Debug
	}

	if cfg.TileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", cfg.TileSize)
	}
	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %v", cfg.TickInterval)
	}
	return cfg, nil
}
