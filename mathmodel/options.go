package mathmodel

import "github.com/stafkit/bayesumis/umis"

// defaultWidePriorBound caps the vague Uniform(0, bound) prior placed
// on magnitudes nothing is known about.
const defaultWidePriorBound = 1e6

// Options configure model compilation. The zero value derives the
// reference material and timeframe from the diagram's accumulated
// scope, which works only when that scope is unambiguous.
type Options struct {
	// ReferenceMaterial expresses every magnitude in one material. Nil
	// means "the diagram's only material".
	ReferenceMaterial *umis.Material

	// ReferenceTimeframe restricts the model to one timeframe. Nil means
	// "the diagram's only timeframe".
	ReferenceTimeframe *umis.Timeframe

	// WidePriorBound is the upper bound of the vague prior. Zero means
	// the default of 1e6.
	WidePriorBound float64
}

// Option mutates Options.
type Option func(*Options)

// WithReferenceMaterial selects the material magnitudes are expressed in.
func WithReferenceMaterial(m umis.Material) Option {
	return func(o *Options) { o.ReferenceMaterial = &m }
}

// WithReferenceTimeframe selects the timeframe the model describes.
func WithReferenceTimeframe(tf umis.Timeframe) Option {
	return func(o *Options) { o.ReferenceTimeframe = &tf }
}

// WithWidePriorBound overrides the vague-prior upper bound.
func WithWidePriorBound(bound float64) Option {
	return func(o *Options) { o.WidePriorBound = bound }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.WidePriorBound <= 0 {
		o.WidePriorBound = defaultWidePriorBound
	}

	return o
}
