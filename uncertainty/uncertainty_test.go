package uncertainty_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/stafkit/bayesumis/uncertainty"
)

// TestNewUniform_Validation verifies the 0 <= lower <= upper invariant.
func TestNewUniform_Validation(t *testing.T) {
	_, err := uncertainty.NewUniform(-1, 5)
	assert.ErrorIs(t, err, uncertainty.ErrBadBounds, "negative lower bound must error")

	_, err = uncertainty.NewUniform(10, 5)
	assert.ErrorIs(t, err, uncertainty.ErrBadBounds, "lower > upper must error")

	u, err := uncertainty.NewUniform(5, 5)
	assert.NoError(t, err, "degenerate interval is allowed")
	assert.Equal(t, 5.0, u.Mean(), "degenerate interval mean is the point")
}

// TestNewNormal_Validation verifies mu >= 0 and sigma > 0.
func TestNewNormal_Validation(t *testing.T) {
	_, err := uncertainty.NewNormal(-1, 1)
	assert.ErrorIs(t, err, uncertainty.ErrBadParameter, "negative mean must error")

	_, err = uncertainty.NewNormal(1, 0)
	assert.ErrorIs(t, err, uncertainty.ErrBadParameter, "zero stddev must error")

	n, err := uncertainty.NewNormal(110, 20.9)
	require.NoError(t, err)
	assert.Equal(t, 110.0, n.Mean())
}

// TestNewLognormal_MeanIsLinearSpace checks the log-space parameters
// yield the linear-space mean exp(mu + sigma^2/2).
func TestNewLognormal_MeanIsLinearSpace(t *testing.T) {
	l, err := uncertainty.NewLognormal(1, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(1+0.125), l.Mean(), 1e-12)

	_, err = uncertainty.NewLognormal(1, -0.5)
	assert.ErrorIs(t, err, uncertainty.ErrBadParameter, "negative sigma must error")
}

// TestUniform_MeanIsMidpoint checks the Uniform expected value.
func TestUniform_MeanIsMidpoint(t *testing.T) {
	u, err := uncertainty.NewUniform(0, 150)
	require.NoError(t, err)
	assert.Equal(t, 75.0, u.Mean())
}

// TestParse_RoundTrip verifies Parse(u.String()) reproduces the same
// family and parameters for every variant.
func TestParse_RoundTrip(t *testing.T) {
	mk := func(u uncertainty.Uncertainty, err error) uncertainty.Uncertainty {
		require.NoError(t, err)
		return u
	}

	cases := []uncertainty.Uncertainty{
		mk(uncertainty.NewUniform(0, 150)),
		mk(uncertainty.NewNormal(110, 20.9)),
		mk(uncertainty.NewLognormal(4.7, 0.3)),
	}

	for _, want := range cases {
		got, err := uncertainty.Parse(want.String())
		require.NoError(t, err, "round-trip of %s", want)
		assert.Equal(t, want, got, "family and parameters must survive the round-trip")
	}
}

// TestParse_UnknownTag ensures an unrecognized family tag errors.
func TestParse_UnknownTag(t *testing.T) {
	_, err := uncertainty.Parse("Beta(1, 2)")
	assert.ErrorIs(t, err, uncertainty.ErrUnknownDistribution)
}

// TestParse_Malformed covers shapes Parse cannot decompose.
func TestParse_Malformed(t *testing.T) {
	for _, s := range []string{"", "Normal", "Normal(1)", "Normal(1, 2", "Normal(a, b)"} {
		_, err := uncertainty.Parse(s)
		assert.ErrorIs(t, err, uncertainty.ErrMalformed, "input %q", s)
	}
}

// TestSample_WithinSupport draws from each variant with a fixed source
// and checks the draws stay inside the distribution's support.
func TestSample_WithinSupport(t *testing.T) {
	src := rand.NewSource(42)

	u, _ := uncertainty.NewUniform(10, 20)
	for i := 0; i < 100; i++ {
		v := u.Sample(src)
		assert.GreaterOrEqual(t, v, 10.0)
		assert.LessOrEqual(t, v, 20.0)
	}

	l, _ := uncertainty.NewLognormal(1, 0.5)
	for i := 0; i < 100; i++ {
		assert.Greater(t, l.Sample(src), 0.0, "lognormal draws are strictly positive")
	}
}

// TestQuantile_Median checks the 0.5 quantile against the known medians.
func TestQuantile_Median(t *testing.T) {
	u, _ := uncertainty.NewUniform(0, 150)
	assert.InDelta(t, 75.0, u.Quantile(0.5), 1e-9)

	n, _ := uncertainty.NewNormal(110, 20.9)
	assert.InDelta(t, 110.0, n.Quantile(0.5), 1e-9)

	l, _ := uncertainty.NewLognormal(1, 0.5)
	assert.InDelta(t, math.Exp(1), l.Quantile(0.5), 1e-9, "lognormal median is exp(mu)")
}
