package umis

import "errors"

// Sentinel errors for entity construction. All are of the
// non-retryable "fix the input" class: construction fails loudly and
// nothing partially built is ever returned.
var (
	// ErrEmptyID indicates an entity was built with an empty identifier.
	ErrEmptyID = errors.New("umis: identifier is empty")

	// ErrBadTimeframe indicates start > end.
	ErrBadTimeframe = errors.New("umis: timeframe start must not exceed end")

	// ErrBadProcessType indicates a process type outside the two legal kinds.
	ErrBadProcessType = errors.New("umis: invalid process type")

	// ErrBadStockType indicates a stock type outside {Net, Total}.
	ErrBadStockType = errors.New("umis: invalid stock type")

	// ErrNilUncertainty indicates a quantified value without an uncertainty.
	ErrNilUncertainty = errors.New("umis: value requires an uncertainty")

	// ErrNilProcess indicates a flow endpoint is nil.
	ErrNilProcess = errors.New("umis: flow endpoint is nil")

	// ErrSelfFlow indicates a flow from a process to itself.
	ErrSelfFlow = errors.New("umis: flow origin and destination are the same process")

	// ErrSameProcessType indicates a flow that does not cross the
	// Transformation/Distribution boundary.
	ErrSameProcessType = errors.New("umis: flow endpoints must differ in process type")

	// ErrDuplicateStock indicates a second stock of the same type on one process.
	ErrDuplicateStock = errors.New("umis: process already holds a stock of that type")
)

// ProcessType distinguishes the two node kinds of the bipartite graph.
type ProcessType int

const (
	// Transformation changes the form or composition of material.
	Transformation ProcessType = iota + 1

	// Distribution splits or routes material without changing its form.
	Distribution
)

// String returns the canonical name of the process type.
func (t ProcessType) String() string {
	switch t {
	case Transformation:
		return "Transformation"
	case Distribution:
		return "Distribution"
	default:
		return "Unknown"
	}
}

// valid reports whether t is one of the two legal kinds.
func (t ProcessType) valid() bool {
	return t == Transformation || t == Distribution
}

// StockType distinguishes how a stock level is reported.
type StockType int

const (
	// Net is the change in stored material over the timeframe.
	Net StockType = iota + 1

	// Total is the absolute stored amount at the end of the timeframe.
	Total
)

// String returns the canonical name of the stock type.
func (t StockType) String() string {
	switch t {
	case Net:
		return "Net"
	case Total:
		return "Total"
	default:
		return "Unknown"
	}
}

// valid reports whether t is one of the two legal kinds.
func (t StockType) valid() bool {
	return t == Net || t == Total
}
