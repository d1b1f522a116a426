// Package sequence generates the timed, positioned, pitched target runs a
// round asks the player to memorize. Generation is a pure function of the
// injected random source, so equal seeds reproduce a round exactly.
package sequence

import (
	"github.com/okian/echotone/internal/domain/model"
	"github.com/okian/echotone/internal/domain/scale"
)

// Layout and feel defaults.
const (
	defaultSidePadding    = 60.0  // px kept clear at the left and right edges
	defaultCircleRadius   = 24.0  // px, clamp inset so circles stay fully on canvas
	defaultVerticalJitter = 15.0  // px, fixed magnitude regardless of canvas size
	horizontalJitterFrac  = 0.075 // fraction of the horizontal step
	defaultTempoBPM       = 120.0
	msPerMinute           = 60000.0
)

// Rand is the random stream the generator draws from.
type Rand interface {
	Next() float64
}

// DefaultPalette returns the fixed target colors. Colors cycle by sequence
// position and are never randomized, so position N is always the same color
// across rounds and players.
func DefaultPalette() []string {
	return []string{"#ff5964", "#ffb347", "#47d7ac", "#4aa3df", "#9a7fd1", "#f067a6"}
}

// IntervalPalette returns the candidate inter-note gaps in milliseconds for
// a tempo. The quarter note appears three times, which weights the draw
// toward a steady pulse without forbidding syncopation.
func IntervalPalette(bpm float64) []float64 {
	if bpm <= 0 {
		bpm = defaultTempoBPM
	}
	beat := msPerMinute / bpm
	return []float64{
		beat / 2, // eighth
		beat,     // quarter
		beat,
		beat,
		beat * 1.5, // dotted quarter
		beat * 2,   // half
	}
}

// Generator produces target sequences for a given canvas. A generator is
// immutable after construction and safe to share; all per-round variation
// comes from the Rand passed to Generate.
type Generator struct {
	mapper         *scale.Mapper
	palette        []string
	intervals      []float64
	sidePadding    float64
	circleRadius   float64
	verticalJitter float64
}

// NewGenerator creates a generator with the default scale, palette,
// tempo, and layout.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		palette:        DefaultPalette(),
		intervals:      IntervalPalette(defaultTempoBPM),
		sidePadding:    defaultSidePadding,
		circleRadius:   defaultCircleRadius,
		verticalJitter: defaultVerticalJitter,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.mapper == nil {
		g.mapper = scale.NewMapper()
	}

	return g
}

// Generate produces count targets for a w×h canvas, consuming rnd in a
// fixed order: per target the x jitter, the pitch, the y jitter, and for
// every target after the first the interval. Changing that order would
// silently break every shared seed in the wild.
func (g *Generator) Generate(count int, w, h float64, rnd Rand) []model.Target {
	if count <= 0 {
		return nil
	}

	targets := make([]model.Target, 0, count)
	notes := g.mapper.Notes()

	// Even horizontal spread, first and last at the padding edges. A lone
	// target sits at the center and gets no horizontal jitter (step 0).
	var step float64
	if count > 1 {
		step = (w - 2*g.sidePadding) / float64(count-1)
	}

	offset := 0.0
	for i := 0; i < count; i++ {
		baseX := w / 2
		if count > 1 {
			baseX = g.sidePadding + float64(i)*step
		}
		jitterX := (rnd.Next() - 0.5) * 2 * horizontalJitterFrac * step

		pick := int(rnd.Next() * float64(len(notes)))
		freq := notes.Note(pick)

		jitterY := (rnd.Next() - 0.5) * 2 * g.verticalJitter

		if i > 0 {
			idx := int(rnd.Next() * float64(len(g.intervals)))
			if idx >= len(g.intervals) {
				idx = len(g.intervals) - 1
			}
			offset += g.intervals[idx]
		}

		targets = append(targets, model.Target{
			Index:        i,
			X:            clamp(baseX+jitterX, g.circleRadius, w-g.circleRadius),
			Y:            clamp(g.mapper.YForFrequency(freq, h)+jitterY, g.circleRadius, h-g.circleRadius),
			Color:        g.palette[i%len(g.palette)],
			Frequency:    freq,
			TimeOffsetMs: offset,
		})
	}

	return targets
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
