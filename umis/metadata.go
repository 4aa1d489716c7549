package umis

import "fmt"

// Space is the location dimension a value is reported against.
type Space struct {
	// ID is the stable record identifier; equality and hashing key.
	ID string

	// Name is the display name of the location.
	Name string
}

// Material is the substance dimension a value is reported against.
type Material struct {
	// ID is the stable record identifier; equality and hashing key.
	ID string

	// Code is the short material code, e.g. "WAT".
	Code string

	// Name is the display name.
	Name string

	// ParentName names the aggregate this material disaggregates.
	ParentName string

	// IsSeparator marks a disaggregation definitionally identical to its
	// parent, used downstream to avoid double counting.
	IsSeparator bool
}

// Timeframe is the period a value is reported against. Two Timeframes
// are equal iff their bounds match; the ID never participates in
// equality, it only addresses the record.
type Timeframe struct {
	ID         string
	Start, End int
}

// NewTimeframe builds a Timeframe after checking start <= end.
func NewTimeframe(id string, start, end int) (Timeframe, error) {
	if start > end {
		return Timeframe{}, fmt.Errorf("timeframe %q [%d, %d]: %w", id, start, end, ErrBadTimeframe)
	}

	return Timeframe{ID: id, Start: start, End: end}, nil
}

// Equal reports value equality on the bounds only.
func (t Timeframe) Equal(o Timeframe) bool {
	return t.Start == o.Start && t.End == o.End
}

// Bounds returns the comparable bound pair, usable as a set key.
func (t Timeframe) Bounds() [2]int {
	return [2]int{t.Start, t.End}
}

// Reference states what a quantity is about: where it originates, where
// it lands, over which period and for which material. It is an immutable
// 4-tuple attached to every Stock and Flow.
type Reference struct {
	OriginSpace      Space
	DestinationSpace Space
	Timeframe        Timeframe
	Material         Material
}
