// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields koanf-tagged so the file and env layers unmarshal cleanly.
// - Provide New() to build a Config with defaults; Load(ctx) layers file
//   and environment overrides on top.
// - External errors must be wrapped via this package's sentinels.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Seed seeds sequence generation; 0 derives a seed from the clock.
	Seed int64 `koanf:"seed"`

	// CanvasWidth and CanvasHeight set the stage size in pixels.
	CanvasWidth  float64 `koanf:"canvas_width"`
	CanvasHeight float64 `koanf:"canvas_height"`

	// TempoBPM sets the beat grid used for sequence timing.
	TempoBPM float64 `koanf:"tempo_bpm"`

	// ResultQueueSize bounds the in-memory result queue.
	ResultQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of submission workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps leaderboard TopN queries.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// MinTotal, MinPosition and MinRhythm are the round pass thresholds.
	MinTotal    int `koanf:"min_total"`
	MinPosition int `koanf:"min_position"`
	MinRhythm   int `koanf:"min_rhythm"`

	// MaxPositionErrorPx and MaxRhythmErrorMs set scoring tolerances.
	MaxPositionErrorPx float64 `koanf:"max_position_error_px"`
	MaxRhythmErrorMs   float64 `koanf:"max_rhythm_error_ms"`

	// CalculatingDelayMS is the pause before revealing scores.
	CalculatingDelayMS int `koanf:"calculating_delay_ms"`
}

// New creates a Config populated with the stock defaults.
func New() *Config {
	c := &Config{
		LogLevel:            "info",
		CanvasWidth:         800,
		CanvasHeight:        400,
		TempoBPM:            120,
		ResultQueueSize:     4096,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		MaxLeaderboardLimit: 100,
		MinTotal:            50,
		MinPosition:         30,
		MinRhythm:           30,
		MaxPositionErrorPx:  150,
		MaxRhythmErrorMs:    400,
		CalculatingDelayMS:  1200,
	}
	return c
}
