// Package playback carries a generated sequence across the renderer
// boundary. The engine never draws or synthesizes anything itself; it
// hands a Schedule to a Driver and treats the driver's return as the
// signal that the last target has been presented.
package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/echotone/internal/domain/model"
	"github.com/okian/echotone/pkg/metrics"
)

// Step is one presentation instruction: what to show and sound, and how
// long to hold before the next step.
type Step struct {
	Index         int
	X             float64
	Y             float64
	Color         string
	Frequency     float64
	DelayToNextMs float64
}

// Schedule is a full round's presentation run. Generation stamps which
// round incarnation produced it, so late completions can be recognized
// as stale.
type Schedule struct {
	Generation uint64
	Steps      []Step
}

// BuildSchedule converts a target list into presentation steps. The
// per-step delay is the gap to the next target's onset; the last step
// holds nothing.
func BuildSchedule(generation uint64, targets []model.Target) Schedule {
	steps := make([]Step, 0, len(targets))
	for i, t := range targets {
		delay := 0.0
		if i < len(targets)-1 {
			delay = targets[i+1].TimeOffsetMs - t.TimeOffsetMs
		}
		steps = append(steps, Step{
			Index:         t.Index,
			X:             t.X,
			Y:             t.Y,
			Color:         t.Color,
			Frequency:     t.Frequency,
			DelayToNextMs: delay,
		})
	}
	return Schedule{Generation: generation, Steps: steps}
}

// Driver presents a schedule to the player. Play blocks until the last
// step has been presented and returns nil exactly then; a non-nil error
// means the run was cut short and the round must not advance on it.
type Driver interface {
	Play(ctx context.Context, s Schedule) error
}

// PresentFunc receives one step at its scheduled moment.
type PresentFunc func(Step)

// Conductor is the reference Driver: it walks the schedule on a single
// goroutine, presenting each step and sleeping the inter-step delay.
// Real products swap in a renderer-backed driver; the conductor serves
// tests, the demo, and simulation.
type Conductor struct {
	present PresentFunc
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewConductor creates a conductor. Without a presenter it still keeps
// time, which is enough for a silent run.
func NewConductor(opts ...Option) *Conductor {
	c := &Conductor{
		present: func(Step) {},
		sleep:   sleepWithContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Play walks the schedule. On cancellation it stops before the next
// present: once Play has returned an error, no further steps fire.
func (c *Conductor) Play(ctx context.Context, s Schedule) error {
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("playback interrupted: %w", err)
		}

		c.present(step)
		metrics.RecordPlaybackStep()

		if i == len(s.Steps)-1 {
			break
		}
		if err := c.sleep(ctx, time.Duration(step.DelayToNextMs)*time.Millisecond); err != nil {
			return fmt.Errorf("playback interrupted: %w", err)
		}
	}
	return nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
