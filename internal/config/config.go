// Package config loads drift.toml. File values overlay the defaults and
// command-line flags overlay both; core packages never read configuration
// themselves, they receive plain option structs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"drift/internal/ir"
)

// FileName is the manifest drift looks for when no --config is given.
const FileName = "drift.toml"

// Config mirrors drift.toml.
type Config struct {
	Output  OutputConfig  `toml:"output"`
	Limits  LimitsConfig  `toml:"limits"`
	Batch   BatchConfig   `toml:"batch"`
	Context ContextConfig `toml:"context"`
}

// OutputConfig controls the default rendering of compiled reports.
type OutputConfig struct {
	Format        string `toml:"format"`
	Color         string `toml:"color"`
	MaxDeviations int    `toml:"max-deviations"`
	Traces        bool   `toml:"traces"`
	Hints         bool   `toml:"hints"`
	Width         int    `toml:"width"`
}

// LimitsConfig bounds the pipeline. Zero values fall back to the built-in
// defaults at conversion.
type LimitsConfig struct {
	MaxTraceFrames    int `toml:"max-trace-frames"`
	MaxAltTraces      int `toml:"max-alt-traces"`
	ProviderTimeoutMS int `toml:"provider-timeout-ms"`
}

// BatchConfig controls multi-capture compilation.
type BatchConfig struct {
	Jobs int `toml:"jobs"`
}

// ContextConfig points at the static symbol table backing hint enrichment.
type ContextConfig struct {
	Symbols string `toml:"symbols"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	limits := ir.DefaultLimits()
	return Config{
		Output: OutputConfig{
			Format:        "pretty",
			Color:         "auto",
			MaxDeviations: 100,
			Traces:        true,
			Hints:         true,
		},
		Limits: LimitsConfig{
			MaxTraceFrames:    limits.MaxTraceFrames,
			MaxAltTraces:      limits.MaxAltTraces,
			ProviderTimeoutMS: int(limits.ProviderTimeout / time.Millisecond),
		},
	}
}

// Find walks from startDir toward the filesystem root looking for
// drift.toml. ok=false means no manifest exists on the path.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load decodes the file at path over the defaults, so keys the file omits
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no command could honor.
func (c Config) Validate() error {
	switch c.Output.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("invalid [output].format %q (expected pretty|json)", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid [output].color %q (expected auto|on|off)", c.Output.Color)
	}
	if c.Output.MaxDeviations < 0 {
		return fmt.Errorf("invalid [output].max-deviations %d", c.Output.MaxDeviations)
	}
	if c.Output.Width < 0 {
		return fmt.Errorf("invalid [output].width %d", c.Output.Width)
	}
	if c.Limits.MaxTraceFrames < 0 || c.Limits.MaxAltTraces < 0 || c.Limits.ProviderTimeoutMS < 0 {
		return errors.New("[limits] values must not be negative")
	}
	if c.Batch.Jobs < 0 {
		return fmt.Errorf("invalid [batch].jobs %d", c.Batch.Jobs)
	}
	return nil
}

// IRLimits converts the configured bounds, filling zeroes from the
// built-in defaults.
func (c Config) IRLimits() ir.Limits {
	limits := ir.DefaultLimits()
	if c.Limits.MaxTraceFrames > 0 {
		limits.MaxTraceFrames = c.Limits.MaxTraceFrames
	}
	if c.Limits.MaxAltTraces > 0 {
		limits.MaxAltTraces = c.Limits.MaxAltTraces
	}
	if c.Limits.ProviderTimeoutMS > 0 {
		limits.ProviderTimeout = time.Duration(c.Limits.ProviderTimeoutMS) * time.Millisecond
	}
	return limits
}
