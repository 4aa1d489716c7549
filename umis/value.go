package umis

import (
	"fmt"

	"github.com/stafkit/bayesumis/uncertainty"
)

// Value is one quantified measurement: a magnitude, its uncertainty and
// a unit. A nil Quantity means the magnitude was never observed — the
// uncertainty alone describes what is known.
type Value struct {
	// ID is the stable record identifier.
	ID string

	// Quantity is the measured amount; nil means unknown magnitude.
	Quantity *float64

	// Uncertainty describes the error around (or in place of) Quantity.
	Uncertainty uncertainty.Uncertainty

	// Unit is the measurement unit, e.g. "t" or "g".
	Unit string
}

// NewValue builds a Value after checking identity and uncertainty are
// present. quantity may be nil (unknown magnitude).
func NewValue(id string, quantity *float64, u uncertainty.Uncertainty, unit string) (Value, error) {
	if id == "" {
		return Value{}, fmt.Errorf("value: %w", ErrEmptyID)
	}
	if u == nil {
		return Value{}, fmt.Errorf("value %q: %w", id, ErrNilUncertainty)
	}

	return Value{ID: id, Quantity: quantity, Uncertainty: u, Unit: unit}, nil
}

// Known reports whether the magnitude was observed.
func (v Value) Known() bool {
	return v.Quantity != nil
}

// String renders the value as "<quantity> <unit>", with "?" for an
// unknown magnitude.
func (v Value) String() string {
	if v.Quantity == nil {
		return "? " + v.Unit
	}

	return fmt.Sprintf("%g %s", *v.Quantity, v.Unit)
}

// StockValue is a Value reported as a stock level rather than a flow
// magnitude, tagged with how the level is reported.
type StockValue struct {
	Value

	// Type tells whether the level is a Net change or a Total amount.
	Type StockType
}
