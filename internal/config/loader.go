package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New)
//  2. YAML file if ECHOTONE_CONFIG is set
//  3. environment (prefix ECHOTONE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided.
	if path := os.Getenv("ECHOTONE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %q: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: ECHOTONE_SEED, ECHOTONE_QUEUE_SIZE, ...
	// Keys keep their underscores so they line up with the koanf tags.
	envProvider := env.Provider("ECHOTONE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "echotone_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrLoadConfig, err)
	}

	// Unmarshal over a copy of the defaults so unset keys keep them.
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate rejects configurations the engine cannot run with. Sizing knobs
// (queue, workers, dedupe) are left to the components, which substitute
// defaults for non-positive values.
func (c *Config) validate() error {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("%w: canvas dimensions must be positive", ErrInvalidConfig)
	}
	if c.TempoBPM <= 0 {
		return fmt.Errorf("%w: tempo_bpm must be positive", ErrInvalidConfig)
	}
	if c.MaxPositionErrorPx <= 0 || c.MaxRhythmErrorMs <= 0 {
		return fmt.Errorf("%w: scoring tolerances must be positive", ErrInvalidConfig)
	}
	if c.CalculatingDelayMS < 0 {
		return fmt.Errorf("%w: calculating_delay_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
