// Command echotone runs a demonstration of the engine: a short seeded
// tournament auto-played at moderate noise through the full pipeline,
// ending with the leaderboards.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	service "github.com/okian/echotone/internal/app"
	"github.com/okian/echotone/internal/config"
	"github.com/okian/echotone/internal/domain/scoring"
	"github.com/okian/echotone/internal/simulate"
	"github.com/okian/echotone/pkg/logger"
)

// Demo configuration constants.
const (
	demoPlayers      = 3
	demoRounds       = 4
	demoTopN         = 10
	demoPosJitterPx  = 40.0
	demoTimeJitterMs = 120.0
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context, cancelled on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration: defaults, then optional file, then environment.
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		return
	}

	// Apply the configured log level, falling back to info on bad input.
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log level, using info",
			logger.String("log_level", cfg.LogLevel),
			logger.Error(err),
		)
		_ = logger.SetLevelString("info")
	}

	log.Info(ctx, "starting demo",
		logger.Int("players", demoPlayers),
		logger.Int("rounds", demoRounds),
		logger.Any("seed", cfg.Seed),
	)

	stats, err := simulate.Run(ctx, demoConfig(cfg, log))
	if err != nil {
		log.Error(ctx, "demo failed", logger.Error(err))
		return
	}

	log.Info(ctx, "demo finished",
		logger.Int("roundsPlayed", stats.RoundsPlayed),
		logger.Int("roundsPassed", stats.RoundsPassed),
		logger.Int("deepestRound", stats.DeepestRound),
		logger.String("duration", stats.Duration.String()),
	)
}

// demoConfig maps the service configuration onto a short verbose
// simulation.
func demoConfig(cfg *config.Config, log logger.Logger) *simulate.Config {
	return &simulate.Config{
		Players:        demoPlayers,
		Rounds:         demoRounds,
		Seed:           uint32(cfg.Seed), //nolint:gosec // G115: seeds beyond 32 bits wrap
		PosJitterPx:    demoPosJitterPx,
		TimeJitterMs:   demoTimeJitterMs,
		TopN:           demoTopN,
		Verbose:        true,
		ServiceOptions: serviceOptions(cfg, log),
	}
}

// serviceOptions translates the loaded configuration into engine options.
func serviceOptions(cfg *config.Config, log logger.Logger) []service.Option {
	return []service.Option{
		service.WithLogger(log),
		service.WithQueueSize(cfg.ResultQueueSize),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithMaxTopN(cfg.MaxLeaderboardLimit),
		service.WithCanvas(cfg.CanvasWidth, cfg.CanvasHeight),
		service.WithTempo(cfg.TempoBPM),
		service.WithPolicy(scoring.Policy{
			MinTotal:    cfg.MinTotal,
			MinPosition: cfg.MinPosition,
			MinRhythm:   cfg.MinRhythm,
		}),
		service.WithTolerances(cfg.MaxPositionErrorPx, cfg.MaxRhythmErrorMs),
		service.WithCalculatingDelay(time.Duration(cfg.CalculatingDelayMS) * time.Millisecond),
	}
}
