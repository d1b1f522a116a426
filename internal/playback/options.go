package playback

import (
	"context"
	"time"
)

// Option applies a configuration option to the Conductor.
type Option func(*Conductor)

// WithPresenter sets the callback receiving each step.
func WithPresenter(f PresentFunc) Option {
	return func(c *Conductor) {
		if f != nil {
			c.present = f
		}
	}
}

// WithSleeper replaces the inter-step wait. Simulation passes a no-op
// sleeper to play rounds instantly.
func WithSleeper(f func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Conductor) {
		if f != nil {
			c.sleep = f
		}
	}
}
