package sequence

import "github.com/okian/echotone/internal/domain/scale"

// Option defines functional options for generator configuration.
type Option func(*Generator)

// WithScale sets the scale targets draw their pitches from, keeping the
// band already in force.
func WithScale(s scale.Scale) Option {
	return func(g *Generator) {
		if len(s) == 0 {
			return
		}
		band := scale.DefaultBand()
		if g.mapper != nil {
			band = g.mapper.PlayableBand()
		}
		g.mapper = scale.NewMapper(scale.WithScale(s), scale.WithBand(band))
	}
}

// WithBand sets the vertical band pitches map into, keeping the scale
// already in force.
func WithBand(b scale.Band) Option {
	return func(g *Generator) {
		notes := scale.CMajorPentatonic()
		if g.mapper != nil {
			notes = g.mapper.Notes()
		}
		g.mapper = scale.NewMapper(scale.WithScale(notes), scale.WithBand(b))
	}
}

// WithMapper sets a fully configured pitch mapper, overriding WithScale
// and WithBand.
func WithMapper(m *scale.Mapper) Option {
	return func(g *Generator) {
		if m != nil {
			g.mapper = m
		}
	}
}

// WithPalette sets the color cycle.
func WithPalette(colors []string) Option {
	return func(g *Generator) {
		if len(colors) > 0 {
			g.palette = colors
		}
	}
}

// WithIntervals sets the candidate inter-note gaps in milliseconds.
// Duplicates are allowed and act as draw weights.
func WithIntervals(intervals []float64) Option {
	return func(g *Generator) {
		if len(intervals) > 0 {
			g.intervals = intervals
		}
	}
}

// WithTempo derives the interval palette from a tempo in beats per minute.
func WithTempo(bpm float64) Option {
	return func(g *Generator) {
		g.intervals = IntervalPalette(bpm)
	}
}

// WithSidePadding sets the horizontal padding in pixels.
func WithSidePadding(px float64) Option {
	return func(g *Generator) {
		if px >= 0 {
			g.sidePadding = px
		}
	}
}

// WithCircleRadius sets the clamp inset keeping circles fully on canvas.
func WithCircleRadius(px float64) Option {
	return func(g *Generator) {
		if px >= 0 {
			g.circleRadius = px
		}
	}
}

// WithVerticalJitter sets the fixed vertical jitter magnitude in pixels.
func WithVerticalJitter(px float64) Option {
	return func(g *Generator) {
		if px >= 0 {
			g.verticalJitter = px
		}
	}
}
