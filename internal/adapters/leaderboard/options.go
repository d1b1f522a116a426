package leaderboard

import (
	"math/rand"
	"time"
)

// Option configures a TreapBoard.
type Option func(*TreapBoard)

// WithMetricsUpdateInterval sets how often board size gauges are refreshed.
func WithMetricsUpdateInterval(d time.Duration) Option {
	return func(b *TreapBoard) {
		if d > 0 {
			b.metricsInterval = d
		}
	}
}

// WithSeed makes treap priorities deterministic. Ranking output is
// identical either way; only the internal tree shape is pinned.
func WithSeed(seed int64) Option {
	return func(b *TreapBoard) {
		b.prng = rand.New(rand.NewSource(seed)) //nolint:gosec
	}
}
