package game

import (
	"time"

	"github.com/okian/echotone/internal/domain/rng"
	"github.com/okian/echotone/internal/domain/scoring"
	"github.com/okian/echotone/internal/domain/sequence"
	"github.com/okian/echotone/internal/playback"
	"github.com/okian/echotone/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithPlayerID sets the identifier results are submitted under.
func WithPlayerID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.playerID = id
		}
	}
}

// WithCanvas sets the canvas dimensions sequences are generated for.
func WithCanvas(width, height float64) Option {
	return func(c *Controller) {
		if width > 0 && height > 0 {
			c.width = width
			c.height = height
		}
	}
}

// WithSeed makes the match deterministic: the same seed replays the same
// sequences round for round.
func WithSeed(seed uint32) Option {
	return func(c *Controller) {
		c.rnd = rng.New(seed)
	}
}

// WithRand sets the random stream directly, overriding WithSeed.
func WithRand(r sequence.Rand) Option {
	return func(c *Controller) {
		if r != nil {
			c.rnd = r
		}
	}
}

// WithGenerator sets the sequence generator.
func WithGenerator(g *sequence.Generator) Option {
	return func(c *Controller) {
		if g != nil {
			c.generator = g
		}
	}
}

// WithScorer sets the scorer grading each round.
func WithScorer(s scoring.Scorer) Option {
	return func(c *Controller) {
		if s != nil {
			c.scorer = s
		}
	}
}

// WithPolicy sets the advance thresholds.
func WithPolicy(p scoring.Policy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithDriver sets the playback driver presenting sequences.
func WithDriver(d playback.Driver) Option {
	return func(c *Controller) {
		if d != nil {
			c.driver = d
		}
	}
}

// WithBeatSync sets the pre-playback synchronization point.
func WithBeatSync(b BeatSync) Option {
	return func(c *Controller) {
		c.beatSync = b
	}
}

// WithResultSink sets where finished rounds are submitted.
func WithResultSink(s ResultSink) Option {
	return func(c *Controller) {
		c.sink = s
	}
}

// WithCalculatingDelay sets the suspense window between the last tap and
// the score reveal. Zero is allowed and reveals immediately.
func WithCalculatingDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.calcDelay = d
		}
	}
}

// WithTransitionHook registers an observer for committed transitions.
func WithTransitionHook(h TransitionHook) Option {
	return func(c *Controller) {
		c.hook = h
	}
}

// WithLogger sets the controller's logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock sets the time source stamped onto results.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}
