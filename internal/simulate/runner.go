package simulate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	service "github.com/okian/echotone/internal/app"
	"github.com/okian/echotone/internal/game"
	"github.com/okian/echotone/pkg/logger"
)

// Run executes a full simulation: it starts a fresh pipeline, lets every
// player play its rounds concurrently, drains the result queue, verifies
// the boards, and reports the final standings and statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	players := config.Players
	if players < 1 {
		players = 1
	}
	rounds := config.Rounds
	if rounds < 1 {
		rounds = 1
	}
	topN := config.TopN
	if topN < 1 {
		topN = defaultTopN
	}

	log := logger.Get()
	log.Info(ctx, "starting simulation",
		logger.Int("players", players),
		logger.Int("rounds", rounds),
		logger.Uint64("seed", uint64(config.Seed)),
		logger.Float64("posJitterPx", config.PosJitterPx),
		logger.Float64("timeJitterMs", config.TimeJitterMs),
	)

	// 1. Start a dedicated pipeline for this simulation. The runner's
	// options go last so the config's seed and query cap always apply.
	opts := append([]service.Option{}, config.ServiceOptions...)
	opts = append(opts, service.WithMaxTopN(max(players, topN)))
	if config.Seed != 0 {
		opts = append(opts, service.WithSeed(config.Seed))
	}
	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("service start failed: %w", err)
	}
	defer svc.Stop()

	// 2. Play every match concurrently, one goroutine per player.
	names := make([]string, players)
	outcomes := make(chan game.Outcome, players*rounds)
	errs := make(chan error, players)
	var wg sync.WaitGroup
	for i := 0; i < players; i++ {
		names[i] = uuid.NewString()
		player := newAutoplayer(names[i], config.Seed, i, config.PosJitterPx, config.TimeJitterMs)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := player.play(ctx, svc, rounds, config.Verbose, outcomes); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(outcomes)
	close(errs)
	var playErrs []error
	for err := range errs {
		playErrs = append(playErrs, err)
	}
	if err := errors.Join(playErrs...); err != nil {
		return nil, fmt.Errorf("autoplay failed: %w", err)
	}

	// 3. Fold the streamed outcomes into aggregate statistics.
	var sumPosition, sumRhythm, sumTotal float64
	for outcome := range outcomes {
		stats.RoundsPlayed++
		if outcome.Passed {
			stats.RoundsPassed++
		} else {
			stats.RoundsFailed++
		}
		if outcome.Round > stats.DeepestRound {
			stats.DeepestRound = outcome.Round
		}
		sumPosition += float64(outcome.Score.Position)
		sumRhythm += float64(outcome.Score.Rhythm)
		sumTotal += float64(outcome.Score.Total)
	}
	stats.Players = players
	if stats.RoundsPlayed > 0 {
		stats.MeanPosition = sumPosition / float64(stats.RoundsPlayed)
		stats.MeanRhythm = sumRhythm / float64(stats.RoundsPlayed)
		stats.MeanTotal = sumTotal / float64(stats.RoundsPlayed)
	}

	// 4. Wait for the queue to drain so every result reaches the boards.
	if err := waitForDrain(ctx, svc); err != nil {
		return nil, err
	}

	// 5. Cross-check the boards against the simulated field.
	if err := verifyBoards(ctx, svc, names); err != nil {
		return nil, fmt.Errorf("board verification failed: %w", err)
	}

	// 6. Report the standings and the run statistics.
	printBoards(ctx, svc, topN)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	return stats, nil
}

// waitForDrain polls until the result queue is empty, then pauses briefly
// so dequeued results still in worker hands land on the boards.
func waitForDrain(ctx context.Context, svc *service.Service) error {
	deadline := time.Now().Add(drainTimeout)
	for time.Now().Before(deadline) {
		if n, ok := svc.GetStats()["queueLength"].(int); ok && n == 0 {
			time.Sleep(settleDelay)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(drainPollInterval):
		}
	}
	return ErrDrainTimeout
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var passRate, roundsPerSecond float64
	if stats.RoundsPlayed > 0 {
		passRate = float64(stats.RoundsPassed) / float64(stats.RoundsPlayed) * percentageMultiplier
	}
	if stats.Duration > 0 {
		roundsPerSecond = float64(stats.RoundsPlayed) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("players", stats.Players),
		logger.Int("roundsPlayed", stats.RoundsPlayed),
		logger.Int("roundsPassed", stats.RoundsPassed),
		logger.Int("roundsFailed", stats.RoundsFailed),
		logger.Int("deepestRound", stats.DeepestRound),
		logger.Float64("passRate", passRate),
		logger.Float64("meanPosition", stats.MeanPosition),
		logger.Float64("meanRhythm", stats.MeanRhythm),
		logger.Float64("meanTotal", stats.MeanTotal),
		logger.Float64("roundsPerSecond", roundsPerSecond),
		logger.String("duration", stats.Duration.String()),
	)
}
