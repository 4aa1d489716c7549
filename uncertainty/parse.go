package uncertainty

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse inverts String: it reconstructs an Uncertainty from its
// canonical "Tag(a, b)" form, re-running construction-time validation.
//
// Errors:
//   - ErrMalformed           — the text is not "Tag(a, b)" with two numbers.
//   - ErrUnknownDistribution — the tag names no known variant.
//   - ErrBadBounds / ErrBadParameter — the parameters fail validation.
func Parse(s string) (Uncertainty, error) {
	tag, rest, ok := strings.Cut(strings.TrimSpace(s), "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	a, b, err := parseParams(strings.TrimSuffix(rest, ")"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	switch strings.TrimSpace(tag) {
	case "Uniform":
		return NewUniform(a, b)
	case "Normal":
		return NewNormal(a, b)
	case "Lognormal":
		return NewLognormal(a, b)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDistribution, tag)
	}
}

// parseParams splits "a, b" into its two float parameters.
func parseParams(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want 2 parameters, got %d", len(parts))
	}

	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}

	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}
