// Package scoring grades how closely a player's taps replicate a target
// sequence. Position and rhythm are judged independently so that a player
// with great aim and poor timing (or the reverse) gets legible feedback.
package scoring

import (
	"math"

	"github.com/okian/echotone/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultMaxPositionError = 150.0 // px at which a tap earns zero position credit
	defaultMaxRhythmError   = 400.0 // ms of interval drift at which credit reaches zero
	perfectScore            = 100.0
)

// Option applies a configuration option to the DualAxisScorer.
type Option func(*DualAxisScorer)

// WithMaxPositionError sets the distance in pixels at which a matched tap
// earns nothing.
func WithMaxPositionError(px float64) Option {
	return func(s *DualAxisScorer) {
		if px > 0 {
			s.maxPositionError = px
		}
	}
}

// WithMaxRhythmError sets the interval drift in milliseconds at which a
// paired interval earns nothing.
func WithMaxRhythmError(ms float64) Option {
	return func(s *DualAxisScorer) {
		if ms > 0 {
			s.maxRhythmError = ms
		}
	}
}

// Scorer grades a replication attempt against the sequence it mimics.
type Scorer interface {
	// Score is pure math: no error cases, degenerate lists produce
	// defined zero scores.
	Score(targets []model.Target, inputs []model.PlayerInput) model.Score
}

// DualAxisScorer implements Scorer with greedy spatial matching and
// index-paired interval comparison.
type DualAxisScorer struct {
	maxPositionError float64
	maxRhythmError   float64
}

// NewDualAxisScorer creates a scorer with the default tolerances.
func NewDualAxisScorer(opts ...Option) *DualAxisScorer {
	s := &DualAxisScorer{
		maxPositionError: defaultMaxPositionError,
		maxRhythmError:   defaultMaxRhythmError,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score grades the attempt. Either list empty means nothing to grade and
// scores all-zero. The three components are rounded independently, so the
// total is the rounded mean of the raw sub-scores, not of the rounded ones.
func (s *DualAxisScorer) Score(targets []model.Target, inputs []model.PlayerInput) model.Score {
	if len(targets) == 0 || len(inputs) == 0 {
		return model.Score{}
	}

	position := s.positionScore(targets, inputs)
	rhythm := s.rhythmScore(targets, inputs)
	total := (position + rhythm) / 2

	return model.Score{
		Position: int(math.Round(position)),
		Rhythm:   int(math.Round(rhythm)),
		Total:    int(math.Round(total)),
	}
}

// positionScore matches taps to targets greedily in arrival order: each
// tap claims the nearest not-yet-claimed target. Greedy is not an optimal
// assignment, but it mirrors how the attempt unfolds in time and keeps the
// cost at O(n²) for sequences that never exceed a dozen targets. The sum
// divides by the target count, so unmatched targets drag the score down.
func (s *DualAxisScorer) positionScore(targets []model.Target, inputs []model.PlayerInput) float64 {
	matched := make([]bool, len(targets))

	sum := 0.0
	for _, in := range inputs {
		best := -1
		bestDist := math.MaxFloat64
		for j, tgt := range targets {
			if matched[j] {
				continue
			}
			if d := math.Hypot(in.X-tgt.X, in.Y-tgt.Y); d < bestDist {
				bestDist = d
				best = j
			}
		}
		if best < 0 {
			// More taps than targets; the extras earn nothing.
			break
		}
		matched[best] = true
		sum += math.Max(0, perfectScore*(1-bestDist/s.maxPositionError))
	}

	return sum / float64(len(targets))
}

// rhythmScore compares inter-note gaps, not absolute times: each list is
// rebased on its own first element, so when the player started does not
// matter, only the spacing. Offsets pair by index. With fewer than two
// elements on either side there are no intervals to compare and timing
// cannot be judged, so the axis scores perfect rather than punishing a
// one-note round.
func (s *DualAxisScorer) rhythmScore(targets []model.Target, inputs []model.PlayerInput) float64 {
	if len(targets) < 2 || len(inputs) < 2 {
		return perfectScore
	}

	pairs := len(inputs)
	if len(targets) < pairs {
		pairs = len(targets)
	}
	pairs--

	sum := 0.0
	for i := 1; i <= pairs; i++ {
		targetOffset := targets[i].TimeOffsetMs - targets[0].TimeOffsetMs
		inputOffset := inputs[i].TimeMs - inputs[0].TimeMs
		drift := math.Abs(inputOffset - targetOffset)
		sum += math.Max(0, perfectScore*(1-drift/s.maxRhythmError))
	}

	// Dividing by the full interval count makes missing taps count as
	// zero-credit intervals.
	return sum / float64(len(targets)-1)
}
