package config

import "errors"

// Sentinel kinds for config errors.
var (
	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig indicates configuration could not be loaded from a source.
	ErrLoadConfig = errors.New("failed to load config")
)
