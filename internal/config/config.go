// Package config loads VM tunables from a TOML file (SPEC_FULL.md §4.1).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config mirrors the fields SPEC_FULL.md §4.1 names. CLI flags override
// whatever is loaded here, which in turn overrides these defaults.
type Config struct {
	HeapGrowFactor   float64 `toml:"HeapGrowFactor"`
	InitialHeapBytes int64   `toml:"InitialHeapBytes"`
	StackSlots       int     `toml:"StackSlots"`
	MaxFrames        int     `toml:"MaxFrames"`
	Color            bool    `toml:"Color"`
	GCStress         bool    `toml:"GCStress"`
	LogLevel         string  `toml:"LogLevel"`
}

// Default returns the built-in defaults (spec.md §4.F factor 2.0 and
// 1MiB initial threshold; spec.md §4.E's typical 16384/64 sizing).
func Default() Config {
	return Config{
		HeapGrowFactor:   2.0,
		InitialHeapBytes: 1 << 20,
		StackSlots:       16384,
		MaxFrames:        64,
		Color:            true,
		GCStress:         false,
		LogLevel:         "warning",
	}
}

// Load reads path, if it exists, merging its fields over Default(). A
// missing file is not an error (SPEC_FULL.md §4.1: "silently absent is
// not an error").
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
