package config_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/echotone/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.CanvasWidth, convey.ShouldEqual, 800.0)
				convey.So(cfg.CanvasHeight, convey.ShouldEqual, 400.0)
				convey.So(cfg.TempoBPM, convey.ShouldEqual, 120.0)
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, 4096)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ECHOTONE_LOG_LEVEL", "debug")
			_ = os.Setenv("ECHOTONE_SEED", "12345")
			_ = os.Setenv("ECHOTONE_QUEUE_SIZE", "1024")
			_ = os.Setenv("ECHOTONE_WORKER_COUNT", "16")
			_ = os.Setenv("ECHOTONE_DEDUPE_SIZE", "25000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Seed, convey.ShouldEqual, int64(12345))
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 25000)
				convey.So(cfg.CanvasHeight, convey.ShouldEqual, 400.0) // untouched default
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
log_level: warn
seed: 99
canvas_width: 1024
canvas_height: 512
tempo_bpm: 90
queue_size: 2048
worker_count: 24
dedupe_size: 10000
max_leaderboard_limit: 25
min_total: 60
min_position: 40
min_rhythm: 35
max_position_error_px: 120
max_rhythm_error_ms: 350
calculating_delay_ms: 800
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ECHOTONE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.Seed, convey.ShouldEqual, int64(99))
				convey.So(cfg.CanvasWidth, convey.ShouldEqual, 1024.0)
				convey.So(cfg.CanvasHeight, convey.ShouldEqual, 512.0)
				convey.So(cfg.TempoBPM, convey.ShouldEqual, 90.0)
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, 2048)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 10000)
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 25)
				convey.So(cfg.MinTotal, convey.ShouldEqual, 60)
				convey.So(cfg.MinPosition, convey.ShouldEqual, 40)
				convey.So(cfg.MinRhythm, convey.ShouldEqual, 35)
				convey.So(cfg.MaxPositionErrorPx, convey.ShouldEqual, 120.0)
				convey.So(cfg.MaxRhythmErrorMs, convey.ShouldEqual, 350.0)
				convey.So(cfg.CalculatingDelayMS, convey.ShouldEqual, 800)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
log_level: warn
queue_size: 2048
worker_count: 24
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ECHOTONE_CONFIG", tmpFile)
			_ = os.Setenv("ECHOTONE_LOG_LEVEL", "error") // This should override the file
			_ = os.Setenv("ECHOTONE_WORKER_COUNT", "32") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "error")      // Overridden by env
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, 2048)  // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)        // Overridden by env
				convey.So(cfg.CanvasWidth, convey.ShouldEqual, 800.0)     // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ECHOTONE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ECHOTONE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a zero canvas dimension", func() {
			_ = os.Setenv("ECHOTONE_CANVAS_WIDTH", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "canvas dimensions must be positive")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative tempo", func() {
			_ = os.Setenv("ECHOTONE_TEMPO_BPM", "-10")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "tempo_bpm must be positive")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			// Create a YAML file with only some fields
			yamlContent := `
seed: 7
min_total: 65
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ECHOTONE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Seed, convey.ShouldEqual, int64(7))                  // From file
				convey.So(cfg.MinTotal, convey.ShouldEqual, 65)                    // From file
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")                // From defaults
				convey.So(cfg.CanvasWidth, convey.ShouldEqual, 800.0)              // From defaults
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2) // From defaults
			})
		})

		convey.Convey("When loading config with numeric environment variables", func() {
			_ = os.Setenv("ECHOTONE_QUEUE_SIZE", "8192")
			_ = os.Setenv("ECHOTONE_WORKER_COUNT", "32")
			_ = os.Setenv("ECHOTONE_MAX_POSITION_ERROR_PX", "175.5")
			_ = os.Setenv("ECHOTONE_CALCULATING_DELAY_MS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse numeric values correctly", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, 8192)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
				convey.So(cfg.MaxPositionErrorPx, convey.ShouldEqual, 175.5)
				convey.So(cfg.CalculatingDelayMS, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("ECHOTONE_QUEUE_SIZE", "invalid")
			_ = os.Setenv("ECHOTONE_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given config loader edge cases", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with very large values", func() {
			_ = os.Setenv("ECHOTONE_QUEUE_SIZE", "1000000")
			_ = os.Setenv("ECHOTONE_SEED", "4294967295")
			_ = os.Setenv("ECHOTONE_DEDUPE_SIZE", "2000000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should handle large values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, 1000000)
				convey.So(cfg.Seed, convey.ShouldEqual, int64(4294967295))
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 2000000)
			})
		})

		convey.Convey("When loading config with zero sizing values", func() {
			_ = os.Setenv("ECHOTONE_QUEUE_SIZE", "0")
			_ = os.Setenv("ECHOTONE_WORKER_COUNT", "0")
			_ = os.Setenv("ECHOTONE_DEDUPE_SIZE", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they pass through for the components to default", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, 0)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 0)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When loading config with negative sizing values", func() {
			_ = os.Setenv("ECHOTONE_QUEUE_SIZE", "-100")
			_ = os.Setenv("ECHOTONE_WORKER_COUNT", "-10")
			_ = os.Setenv("ECHOTONE_DEDUPE_SIZE", "-200")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they pass through for the components to default", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, -100)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, -10)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, -200)
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# Engine tuning
log_level: debug  # Inline comment
queue_size: 2048
# Timing
tempo_bpm: 140
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ECHOTONE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.ResultQueueSize, convey.ShouldEqual, 2048)
				convey.So(cfg.TempoBPM, convey.ShouldEqual, 140.0)
			})
		})

		convey.Convey("When loading config with YAML file containing empty values", func() {
			yamlContent := `
canvas_width: ""
tempo_bpm:
worker_count: 24
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ECHOTONE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return validation error for the empty dimension", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "canvas dimensions must be positive")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"ECHOTONE_CONFIG",
		"ECHOTONE_LOG_LEVEL",
		"ECHOTONE_SEED",
		"ECHOTONE_CANVAS_WIDTH",
		"ECHOTONE_CANVAS_HEIGHT",
		"ECHOTONE_TEMPO_BPM",
		"ECHOTONE_QUEUE_SIZE",
		"ECHOTONE_WORKER_COUNT",
		"ECHOTONE_DEDUPE_SIZE",
		"ECHOTONE_MAX_LEADERBOARD_LIMIT",
		"ECHOTONE_MIN_TOTAL",
		"ECHOTONE_MIN_POSITION",
		"ECHOTONE_MIN_RHYTHM",
		"ECHOTONE_MAX_POSITION_ERROR_PX",
		"ECHOTONE_MAX_RHYTHM_ERROR_MS",
		"ECHOTONE_CALCULATING_DELAY_MS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "echotone-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
