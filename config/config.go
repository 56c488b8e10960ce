// Package config loads optional engine-wide defaults from a TOML file using
// github.com/pelletier/go-toml, the teacher's own configuration-loading
// dependency. It is the only externally supplied configuration the engine
// has; CLI flag parsing remains out of scope per spec.md.
package config

import (
	"os"

	"github.com/pelletier/go-toml"

	"github.com/colquery/colquery/logger"
)

// EngineConfig mirrors the settings ExecutionContext understands, per
// spec.md §4.8.
type EngineConfig struct {
	CSVBatchSize int `toml:"csv_batch_size"`
}

// DefaultEngineConfig returns the spec-mandated defaults (csv.batch_size =
// 1024).
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{CSVBatchSize: 1024}
}

// Load reads path as TOML and overlays any keys it sets onto the defaults.
// A missing file is not an error: it simply yields the defaults, since the
// engine is meant to run unconfigured out of the box.
func Load(path string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Log.Debugf("config: %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.CSVBatchSize <= 0 {
		cfg.CSVBatchSize = DefaultEngineConfig().CSVBatchSize
	}
	return cfg, nil
}
