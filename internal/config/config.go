// Package config loads the ambient settings for the psobuild/psoquery
// binaries from a TOML file, in the style of the teacher's toml schema
// parser: a plain struct with `toml` tags, decoded with BurntSushi/toml,
// with defaults applied where the file is silent or absent.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk ambient configuration (§5, §9 — the engine's root
// directory and concurrency bound are implementation policy, not part of
// the core's contract).
type Config struct {
	Database Database `toml:"database"`
	Log      Log      `toml:"log"`
}

// Database configures where database directories live and how much
// concurrent fan-out persistence may use (§4.3, §5).
type Database struct {
	Root       string `toml:"root"`
	MaxWorkers int    `toml:"max_workers"`
}

// Log configures the zap logger level.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database: Database{Root: "./data", MaxWorkers: 4},
		Log:      Log{Level: "info"},
	}
}

// Load reads a TOML config file at path and overlays it on Default(). A
// missing file is not an error — it returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %q: %w", path, err)
	}
	if cfg.Database.MaxWorkers <= 0 {
		cfg.Database.MaxWorkers = 1
	}
	return cfg, nil
}
