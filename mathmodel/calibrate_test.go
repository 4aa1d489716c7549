package mathmodel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafkit/bayesumis/mathmodel"
)

// TestMakeDistributionTCs_NormalizesWithoutTarget verifies the vague
// path: shares are normalized and returned as-is.
func TestMakeDistributionTCs_NormalizesWithoutTarget(t *testing.T) {
	got, err := mathmodel.MakeDistributionTCs([]float64{70, 30}, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.7, 0.3}, got, 1e-12)

	got, err = mathmodel.MakeDistributionTCs([]float64{2, 2}, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, got, 1e-12)
}

// TestMakeDistributionTCs_ConcentrationRatio verifies a pinned stddev
// scales the vector while keeping the share ratio intact.
func TestMakeDistributionTCs_ConcentrationRatio(t *testing.T) {
	got, err := mathmodel.MakeDistributionTCs([]float64{70, 30}, &mathmodel.StddevTarget{Index: 0, Stddev: 0.001})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.InDelta(t, 70.0/30.0, got[0]/got[1], 1e-9, "the share ratio survives calibration")

	// total = m(1-m)/sd² - 1 with m = 0.7 and sd = 0.001/100, the
	// target rescaled by the share normalization factor
	wantTotal := 0.7*0.3/1e-10 - 1
	assert.InDelta(t, wantTotal, got[0]+got[1], 1)
}

// TestMakeDistributionTCs_InfeasibleStddev verifies a stddev beyond the
// family bound is rejected: for equal shares of two, the bound is
// sqrt(0.25/3) ≈ 0.2887.
func TestMakeDistributionTCs_InfeasibleStddev(t *testing.T) {
	_, err := mathmodel.MakeDistributionTCs([]float64{1, 1}, &mathmodel.StddevTarget{Index: 0, Stddev: 0.9})
	assert.ErrorIs(t, err, mathmodel.ErrInfeasibleStddev)
}

// TestMakeDistributionTCs_ClampsDivergentConcentration verifies sd = 0
// lands on the cap instead of overflowing.
func TestMakeDistributionTCs_ClampsDivergentConcentration(t *testing.T) {
	got, err := mathmodel.MakeDistributionTCs([]float64{1, 1}, &mathmodel.StddevTarget{Index: 0, Stddev: 0})
	require.NoError(t, err)

	assert.InDelta(t, 1e10, got[0]+got[1], 1)
	assert.False(t, math.IsInf(got[0], 1))
}

// TestMakeDistributionTCs_FiniteConcentrationUnclamped verifies the cap
// stands in only for the divergent sd = 0 case: a finite concentration
// beyond the cap passes through exactly.
func TestMakeDistributionTCs_FiniteConcentrationUnclamped(t *testing.T) {
	got, err := mathmodel.MakeDistributionTCs([]float64{1, 1}, &mathmodel.StddevTarget{Index: 0, Stddev: 2e-6})
	require.NoError(t, err)

	// sd normalizes to 1e-6, so total = 0.25/1e-12 - 1
	wantTotal := 0.25/1e-12 - 1
	assert.InDelta(t, wantTotal, got[0]+got[1], 1)
	assert.Greater(t, got[0]+got[1], 1e10)
}

// TestMakeDistributionTCs_BadShares walks the rejection cases of the
// share vector and the target.
func TestMakeDistributionTCs_BadShares(t *testing.T) {
	cases := []struct {
		name   string
		shares []float64
		target *mathmodel.StddevTarget
	}{
		{"empty", nil, nil},
		{"negative share", []float64{1, -1}, nil},
		{"zero sum", []float64{0, 0}, nil},
		{"index out of range", []float64{1, 1}, &mathmodel.StddevTarget{Index: 2, Stddev: 0.1}},
		{"negative stddev", []float64{1, 1}, &mathmodel.StddevTarget{Index: 0, Stddev: -0.1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mathmodel.MakeDistributionTCs(tc.shares, tc.target)
			assert.ErrorIs(t, err, mathmodel.ErrBadShares)
		})
	}
}

// TestNewTransformationCoefficient verifies the logit transform: a
// symmetric interval around 0.5 gives Mu = 0 and a four-sigma band.
func TestNewTransformationCoefficient(t *testing.T) {
	tc, err := mathmodel.NewTransformationCoefficient(0.5, 0.3, 0.7)
	require.NoError(t, err)

	assert.InDelta(t, 0, tc.Mu, 1e-12)

	wantSigma := (math.Log(0.7/0.3) - math.Log(0.3/0.7)) / 4
	assert.InDelta(t, wantSigma, tc.Sigma, 1e-12)
}

// TestNewTransformationCoefficient_Rejections verifies the open-interval
// and ordering requirements.
func TestNewTransformationCoefficient_Rejections(t *testing.T) {
	cases := []struct {
		name               string
		mean, lower, upper float64
	}{
		{"lower at zero", 0.5, 0, 0.7},
		{"upper at one", 0.5, 0.3, 1},
		{"mean below lower", 0.2, 0.3, 0.7},
		{"mean above upper", 0.8, 0.3, 0.7},
		{"degenerate interval", 0.5, 0.5, 0.5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := mathmodel.NewTransformationCoefficient(c.mean, c.lower, c.upper)
			assert.ErrorIs(t, err, mathmodel.ErrBadCoefficient)
		})
	}
}
