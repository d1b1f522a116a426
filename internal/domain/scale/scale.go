// Package scale maps between vertical canvas position and tone frequency.
// Height means pitch: the top of the playable band is the highest note of
// the scale, the bottom the lowest, interpolated linearly in frequency.
package scale

// Note frequencies in Hz, equal temperament.
const (
	C4 = 261.63 // middle C
	D4 = 293.66
	E4 = 329.63
	G4 = 392.00
	A4 = 440.00 // concert pitch
	C5 = 523.25
)

// Default playable band padding in pixels. Targets never sit flush against
// the canvas edge, so the band excludes a margin top and bottom.
const (
	defaultTopPadding    = 60.0
	defaultBottomPadding = 60.0
)

// Scale is an ordered list of note frequencies, lowest first.
type Scale []float64

// CMajorPentatonic returns the default scale: C-major pentatonic across one
// octave. Every pick from it sounds consonant with every other, which keeps
// random sequences listenable.
func CMajorPentatonic() Scale {
	return Scale{C4, D4, E4, G4, A4, C5}
}

// Min returns the lowest frequency of the scale.
func (s Scale) Min() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// Max returns the highest frequency of the scale.
func (s Scale) Max() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// Note returns the frequency at index i, capping out-of-range indexes to
// the nearest end of the scale.
func (s Scale) Note(i int) float64 {
	if len(s) == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s) {
		i = len(s) - 1
	}
	return s[i]
}

// Band is the vertical slice of the canvas targets may occupy, expressed
// as padding from the top and bottom edges.
type Band struct {
	Top    float64
	Bottom float64
}

// DefaultBand returns the standard playable band.
func DefaultBand() Band {
	return Band{Top: defaultTopPadding, Bottom: defaultBottomPadding}
}

// Mapper converts between y coordinates and frequencies over a fixed scale
// and band. The zero value is not usable; construct with NewMapper.
type Mapper struct {
	scale Scale
	band  Band
}

// NewMapper creates a mapper with the default pentatonic scale and band.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		scale: CMajorPentatonic(),
		band:  DefaultBand(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Notes returns the scale the mapper interpolates over.
func (m *Mapper) Notes() Scale {
	return m.scale
}

// PlayableBand returns the band the mapper projects onto.
func (m *Mapper) PlayableBand() Band {
	return m.band
}

// FrequencyForY returns the frequency for a vertical position on a canvas
// of the given height. Positions outside the band clamp to the band edge,
// so the band edges carry the scale extremes. A band taller than the
// canvas leaves no usable space; the mapper then falls back to the lowest
// note rather than erroring.
func (m *Mapper) FrequencyForY(y, canvasHeight float64) float64 {
	usable := canvasHeight - m.band.Top - m.band.Bottom
	if usable <= 0 {
		return m.scale.Min()
	}

	if y < m.band.Top {
		y = m.band.Top
	}
	if y > canvasHeight-m.band.Bottom {
		y = canvasHeight - m.band.Bottom
	}

	// Top of the band is 1, bottom is 0.
	normalized := 1 - (y-m.band.Top)/usable

	return m.scale.Min() + normalized*(m.scale.Max()-m.scale.Min())
}

// YForFrequency returns the vertical position whose FrequencyForY is f,
// clamping f into the scale range first. Higher frequencies map to smaller
// y. Degenerate geometry falls back to the canvas midline.
func (m *Mapper) YForFrequency(f, canvasHeight float64) float64 {
	usable := canvasHeight - m.band.Top - m.band.Bottom
	if usable <= 0 {
		return canvasHeight / 2
	}

	if f < m.scale.Min() {
		f = m.scale.Min()
	}
	if f > m.scale.Max() {
		f = m.scale.Max()
	}

	return m.band.Top + (1-m.Normalize(f))*usable
}

// Normalize returns where f sits in the scale range: 0 at the lowest note,
// 1 at the highest.
func (m *Mapper) Normalize(f float64) float64 {
	span := m.scale.Max() - m.scale.Min()
	if span <= 0 {
		return 0.5
	}
	return (f - m.scale.Min()) / span
}
