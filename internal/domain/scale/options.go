package scale

// Option defines functional options for mapper configuration.
type Option func(*Mapper)

// WithScale sets the scale the mapper interpolates over. Empty or
// single-note scales are accepted; the mapper degrades to its fallbacks.
func WithScale(s Scale) Option {
	return func(m *Mapper) {
		if len(s) > 0 {
			m.scale = s
		}
	}
}

// WithBand sets the playable band padding.
func WithBand(b Band) Option {
	return func(m *Mapper) {
		if b.Top >= 0 && b.Bottom >= 0 {
			m.band = b
		}
	}
}
