package simulate

import (
	"context"
	"fmt"
	"time"

	service "github.com/okian/echotone/internal/app"
	"github.com/okian/echotone/internal/domain/model"
	"github.com/okian/echotone/internal/domain/rng"
	"github.com/okian/echotone/internal/domain/sequence"
	"github.com/okian/echotone/internal/game"
	"github.com/okian/echotone/internal/playback"
	"github.com/okian/echotone/pkg/logger"
)

// autoplayer replicates generated sequences with bounded uniform noise,
// standing in for a human tapping the stage.
type autoplayer struct {
	name         string
	noise        sequence.Rand
	posJitterPx  float64
	timeJitterMs float64
}

// newAutoplayer creates a player whose noise stream is derived from the
// base seed and the player index, so seeded simulations replay exactly.
func newAutoplayer(name string, seed uint32, index int, posJitterPx, timeJitterMs float64) *autoplayer {
	var noise sequence.Rand
	if seed != 0 {
		noise = rng.New(seed + uint32(index+1)*noiseSeedStride) //nolint:gosec // G115: player indexes are small
	} else {
		noise = rng.NewNondeterministic()
	}
	return &autoplayer{
		name:         name,
		noise:        noise,
		posJitterPx:  posJitterPx,
		timeJitterMs: timeJitterMs,
	}
}

// jitter returns a uniform offset in [-amplitude, amplitude].
func (a *autoplayer) jitter(amplitude float64) float64 {
	if amplitude <= 0 {
		return 0
	}
	return (a.noise.Next()*2 - 1) * amplitude
}

// play drives one full match: the given number of attempts, each replicated
// from the revealed targets with this player's noise. Outcomes are streamed
// to the shared channel as they land.
func (a *autoplayer) play(ctx context.Context, svc *service.Service, rounds int, verbose bool, outcomes chan<- game.Outcome) error {
	transitions := make(chan game.State, transitionBuffer)
	ctrl, err := svc.NewMatch(a.name,
		game.WithDriver(playback.NewConductor(playback.WithSleeper(instantSleep))),
		game.WithTransitionHook(func(_, to game.State) {
			select {
			case transitions <- to:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("new match: %w", err)
	}
	defer ctrl.Reset()

	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("start match: %w", err)
	}

	log := logger.Get()
	for attempt := 0; attempt < rounds; attempt++ {
		if err := waitForState(ctx, ctrl, transitions, game.StatePlayerTurn); err != nil {
			return err
		}

		for _, tgt := range ctrl.Targets() {
			in := model.PlayerInput{
				X:      tgt.X + a.jitter(a.posJitterPx),
				Y:      tgt.Y + a.jitter(a.posJitterPx),
				TimeMs: tgt.TimeOffsetMs + a.jitter(a.timeJitterMs),
			}
			if !ctrl.RecordInput(in) {
				return fmt.Errorf("%w: player %s attempt %d", ErrInputRejected, a.name, attempt+1)
			}
		}

		if err := waitForState(ctx, ctrl, transitions, game.StateScoring); err != nil {
			return err
		}

		outcome, ok := ctrl.LastOutcome()
		if !ok {
			return fmt.Errorf("%w: player %s attempt %d", ErrNoOutcome, a.name, attempt+1)
		}
		if verbose {
			log.Info(ctx, "attempt finished",
				logger.String("playerID", a.name),
				logger.Int("attempt", attempt+1),
				logger.Int("round", outcome.Round),
				logger.Int("total", outcome.Score.Total),
				logger.Bool("passed", outcome.Passed),
			)
		}

		select {
		case outcomes <- outcome:
		case <-ctx.Done():
			return ctx.Err()
		}

		if attempt < rounds-1 {
			if err := ctrl.NextRound(ctx); err != nil {
				return fmt.Errorf("next round: %w", err)
			}
		}
	}

	return nil
}

// waitForState drains transition notifications until the wanted state
// arrives or the context is cancelled. The hook send is lossy when the
// buffer is full, so the controller state is polled as a fallback; both
// waited states hold until this player acts, which makes the poll safe.
func waitForState(ctx context.Context, ctrl *game.Controller, transitions <-chan game.State, want game.State) error {
	ticker := time.NewTicker(statePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case st := <-transitions:
			if st == want {
				return nil
			}
		case <-ticker.C:
			if ctrl.State() == want {
				return nil
			}
		}
	}
}

// instantSleep skips playback pacing so simulated rounds reveal instantly.
func instantSleep(context.Context, time.Duration) error {
	return nil
}
