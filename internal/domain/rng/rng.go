// Package rng provides the deterministic random source used to generate
// sequences. Same seed, same stream, on every platform: the game relies on
// this to replay and share rounds.
package rng

import "time"

// Classic numerical-recipes LCG parameters. The state wraps mod 2^32,
// which uint32 arithmetic gives us for free.
const (
	multiplier = 1664525
	increment  = 1013904223
	modulus    = 1 << 32
)

// Source is a seedable linear congruential generator. Each instance owns
// its state; there is no package-level source. Not safe for concurrent
// use; give each goroutine its own.
type Source struct {
	state uint32
}

// New returns a source with the given seed.
func New(seed uint32) *Source {
	return &Source{state: seed}
}

// NewNondeterministic returns a source seeded from the wall clock,
// for casual play where reproducibility does not matter.
func NewNondeterministic() *Source {
	return New(uint32(time.Now().UnixNano())) //nolint:gosec // deliberate truncation, not crypto
}

// Next advances the state and returns a value in [0, 1).
func (s *Source) Next() float64 {
	s.state = s.state*multiplier + increment
	return float64(s.state) / modulus
}

// Reset reinitializes the source to the given seed, so the stream
// restarts from the beginning.
func (s *Source) Reset(seed uint32) {
	s.state = seed
}
