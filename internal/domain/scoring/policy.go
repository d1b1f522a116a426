package scoring

import "github.com/okian/echotone/internal/domain/model"

// Default advance thresholds. A round passes only when the total and both
// sub-scores clear their floors, so a lopsided attempt cannot sneak
// through on one strong axis.
const (
	DefaultMinTotal    = 50
	DefaultMinPosition = 30
	DefaultMinRhythm   = 30
)

// Policy decides whether a scored round advances the player.
type Policy struct {
	MinTotal    int
	MinPosition int
	MinRhythm   int
}

// DefaultPolicy returns the standard advance thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinTotal:    DefaultMinTotal,
		MinPosition: DefaultMinPosition,
		MinRhythm:   DefaultMinRhythm,
	}
}

// Passes reports whether the score clears every threshold.
func (p Policy) Passes(s model.Score) bool {
	return s.Total >= p.MinTotal && s.Position >= p.MinPosition && s.Rhythm >= p.MinRhythm
}
