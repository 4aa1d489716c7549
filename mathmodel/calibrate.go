package mathmodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// maxConcentration stands in for the Dirichlet concentration when a
// stddev target of zero makes the exact concentration non-finite.
// Finite concentrations pass through untouched, however large.
const maxConcentration = 1e10

// StddevTarget pins the standard deviation of one normalized share when
// deriving a Dirichlet concentration vector.
type StddevTarget struct {
	// Index selects the share the stddev applies to.
	Index int

	// Stddev is the requested standard deviation of that share.
	Stddev float64
}

// MakeDistributionTCs converts observed outflow shares into the
// concentration vector of a Dirichlet prior over a process's transfer
// coefficients.
//
// Steps:
//  1. Normalize the shares to sum to one. The stddev target lives on
//     the same scale as the shares, so it is divided by the same
//     normalization factor.
//  2. Without a stddev target, return the normalized shares: a vague
//     prior whose mass scales with the evidence given.
//  3. With a target (m = normalized share at Index, sd = normalized
//     target), check sd against the family bound sqrt(m(1-m)/(1+k))
//     where k is the number of shares. A marginal share of a Dirichlet
//     is Beta, and no Beta with mean m and k-1 siblings is that
//     dispersed; beyond the bound the request is rejected with
//     ErrInfeasibleStddev.
//  4. Solve m(1-m)/sd² - 1 for the total concentration; a non-finite
//     result (sd -> 0) is clamped to 1e10. Scale the normalized shares
//     by the total.
//
// Complexity: O(k) time, O(k) space.
func MakeDistributionTCs(shares []float64, target *StddevTarget) ([]float64, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("no shares: %w", ErrBadShares)
	}
	for i, s := range shares {
		if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("share %d = %g: %w", i, s, ErrBadShares)
		}
	}

	total := floats.Sum(shares)
	if total <= 0 {
		return nil, fmt.Errorf("share sum %g: %w", total, ErrBadShares)
	}

	normalized := make([]float64, len(shares))
	copy(normalized, shares)
	floats.Scale(1/total, normalized)

	if target == nil {
		return normalized, nil
	}
	if target.Index < 0 || target.Index >= len(shares) {
		return nil, fmt.Errorf("stddev index %d of %d shares: %w", target.Index, len(shares), ErrBadShares)
	}
	if target.Stddev < 0 || math.IsNaN(target.Stddev) {
		return nil, fmt.Errorf("stddev %g: %w", target.Stddev, ErrBadShares)
	}

	stddev := target.Stddev / total
	m := normalized[target.Index]
	limit := math.Sqrt(m * (1 - m) / float64(1+len(shares)))
	if stddev > limit {
		return nil, fmt.Errorf("stddev %g exceeds %g for share %g: %w",
			stddev, limit, m, ErrInfeasibleStddev)
	}

	concentration := m*(1-m)/(stddev*stddev) - 1
	if math.IsInf(concentration, 1) || math.IsNaN(concentration) {
		concentration = maxConcentration
	}

	floats.Scale(concentration, normalized)

	return normalized, nil
}

// TransformationCoefficient is a calibrated prior over the single free
// transfer coefficient of a transformation process, expressed as a
// normal in logit space.
type TransformationCoefficient struct {
	// Mu is logit(mean).
	Mu float64

	// Sigma is (logit(upper) - logit(lower)) / 4: the stated interval
	// read as a four-sigma band.
	Sigma float64
}

// NewTransformationCoefficient builds the logit-space prior from a mean
// and an interval, all of which must lie strictly inside (0, 1) with
// lower <= mean <= upper and lower < upper.
func NewTransformationCoefficient(mean, lower, upper float64) (TransformationCoefficient, error) {
	if !(lower > 0 && upper < 1 && lower <= mean && mean <= upper && lower < upper) {
		return TransformationCoefficient{}, fmt.Errorf(
			"coefficient mean %g in [%g, %g]: %w", mean, lower, upper, ErrBadCoefficient)
	}

	return TransformationCoefficient{
		Mu:    logit(mean),
		Sigma: (logit(upper) - logit(lower)) / 4,
	}, nil
}

// ShareStddev pins the stddev of the share sent to one destination.
type ShareStddev struct {
	// Destination is the math-process id of the pinned destination.
	Destination string

	// Stddev is the requested standard deviation of that share.
	Stddev float64
}

// DistributionCoefficients is the calibration input for a distribution
// process: the observed share per outflow destination, keyed by the
// destination's math-process id, plus an optional stddev pin.
type DistributionCoefficients struct {
	Shares map[string]float64
	Stddev *ShareStddev
}

// logit maps (0, 1) to the real line.
func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}
