package uncertainty

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sentinel errors for construction and parsing.
var (
	// ErrBadBounds indicates Uniform bounds are negative or out of order.
	ErrBadBounds = errors.New("uncertainty: bounds must satisfy 0 <= lower <= upper")

	// ErrBadParameter indicates a negative location or non-positive scale.
	ErrBadParameter = errors.New("uncertainty: mean must be >= 0 and stddev > 0")

	// ErrUnknownDistribution indicates a tag outside {Uniform, Normal, Lognormal}.
	ErrUnknownDistribution = errors.New("uncertainty: unknown distribution")

	// ErrMalformed indicates a textual form Parse cannot decompose.
	ErrMalformed = errors.New("uncertainty: malformed representation")
)

// Uncertainty is the closed family of distributions attached to
// quantified values. Implementations are immutable value types;
// dispatch on the concrete type or on Name, never on anything else.
type Uncertainty interface {
	// Mean returns the expected value of the distribution.
	Mean() float64

	// Name returns the stable family tag: "Uniform", "Normal" or "Lognormal".
	Name() string

	// String returns the canonical textual form, invertible by Parse.
	String() string

	// Sample draws one value using the given source (nil = global source).
	Sample(src rand.Source) float64

	// Quantile returns the value at cumulative probability p, p in (0,1).
	Quantile(p float64) float64

	// sealed keeps the family closed to this package.
	sealed()
}

// Uniform represents bounded ignorance over [Lower, Upper].
type Uniform struct {
	Lower, Upper float64
}

// Normal represents symmetric measurement error with location Mu and
// scale Sigma.
type Normal struct {
	Mu, Sigma float64
}

// Lognormal represents positive, skewed measurement error. Mu and Sigma
// are the location and scale of the underlying normal in log space.
type Lognormal struct {
	Mu, Sigma float64
}

// NewUniform builds a Uniform after checking 0 <= lower <= upper.
func NewUniform(lower, upper float64) (Uniform, error) {
	if lower < 0 || lower > upper {
		return Uniform{}, fmt.Errorf("Uniform(%g, %g): %w", lower, upper, ErrBadBounds)
	}

	return Uniform{Lower: lower, Upper: upper}, nil
}

// NewNormal builds a Normal after checking mu >= 0 and sigma > 0.
func NewNormal(mu, sigma float64) (Normal, error) {
	if mu < 0 || sigma <= 0 {
		return Normal{}, fmt.Errorf("Normal(%g, %g): %w", mu, sigma, ErrBadParameter)
	}

	return Normal{Mu: mu, Sigma: sigma}, nil
}

// NewLognormal builds a Lognormal after checking mu >= 0 and sigma > 0.
// The parameters live in log space; Mean returns exp(mu + sigma²/2).
func NewLognormal(mu, sigma float64) (Lognormal, error) {
	if mu < 0 || sigma <= 0 {
		return Lognormal{}, fmt.Errorf("Lognormal(%g, %g): %w", mu, sigma, ErrBadParameter)
	}

	return Lognormal{Mu: mu, Sigma: sigma}, nil
}

func (Uniform) sealed()   {}
func (Normal) sealed()    {}
func (Lognormal) sealed() {}

// Name returns "Uniform".
func (Uniform) Name() string { return "Uniform" }

// Name returns "Normal".
func (Normal) Name() string { return "Normal" }

// Name returns "Lognormal".
func (Lognormal) Name() string { return "Lognormal" }

// Mean returns the midpoint of the interval.
func (u Uniform) Mean() float64 { return (u.Lower + u.Upper) / 2 }

// Mean returns Mu.
func (n Normal) Mean() float64 { return n.Mu }

// Mean returns exp(Mu + Sigma²/2), the distribution mean in linear space.
func (l Lognormal) Mean() float64 { return math.Exp(l.Mu + l.Sigma*l.Sigma/2) }

func (u Uniform) String() string   { return render("Uniform", u.Lower, u.Upper) }
func (n Normal) String() string    { return render("Normal", n.Mu, n.Sigma) }
func (l Lognormal) String() string { return render("Lognormal", l.Mu, l.Sigma) }

// Sample draws from [Lower, Upper].
func (u Uniform) Sample(src rand.Source) float64 {
	return distuv.Uniform{Min: u.Lower, Max: u.Upper, Src: src}.Rand()
}

// Sample draws from N(Mu, Sigma).
func (n Normal) Sample(src rand.Source) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma, Src: src}.Rand()
}

// Sample draws from LogNormal(Mu, Sigma).
func (l Lognormal) Sample(src rand.Source) float64 {
	return distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma, Src: src}.Rand()
}

// Quantile returns the p-quantile of the interval.
func (u Uniform) Quantile(p float64) float64 {
	return distuv.Uniform{Min: u.Lower, Max: u.Upper}.Quantile(p)
}

// Quantile returns the p-quantile of N(Mu, Sigma).
func (n Normal) Quantile(p float64) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma}.Quantile(p)
}

// Quantile returns the p-quantile of LogNormal(Mu, Sigma).
func (l Lognormal) Quantile(p float64) float64 {
	return distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma}.Quantile(p)
}

// render produces the canonical "Tag(a, b)" form shared by all variants.
func render(tag string, a, b float64) string {
	return tag + "(" + formatParam(a) + ", " + formatParam(b) + ")"
}

// formatParam prints a parameter with the shortest exact representation.
func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
