package mathmodel

import "errors"

// Sentinel errors for calibration and model compilation.
var (
	// ErrBadShares indicates a share vector that cannot be normalized:
	// empty, a negative entry, a zero sum, an out-of-range stddev index,
	// or a negative stddev.
	ErrBadShares = errors.New("mathmodel: invalid share vector")

	// ErrInfeasibleStddev indicates a requested share stddev above the
	// family bound sqrt(m(1-m)/(1+k)).
	ErrInfeasibleStddev = errors.New("mathmodel: stddev infeasible for share")

	// ErrBadCoefficient indicates a transformation coefficient outside
	// 0 < lower <= mean <= upper < 1.
	ErrBadCoefficient = errors.New("mathmodel: invalid transformation coefficient")

	// ErrShareCountMismatch indicates calibration shares that do not
	// cover a process's outflow destinations one-to-one.
	ErrShareCountMismatch = errors.New("mathmodel: shares do not match outflows")

	// ErrTooManyOutflows indicates a transformation process with more
	// than two outflows.
	ErrTooManyOutflows = errors.New("mathmodel: transformation process has too many outflows")

	// ErrDuplicateOutflow indicates two flows between one ordered pair of
	// processes.
	ErrDuplicateOutflow = errors.New("mathmodel: duplicate outflow destination")

	// ErrUnknownDistribution indicates an uncertainty family the model
	// cannot express.
	ErrUnknownDistribution = errors.New("mathmodel: unknown distribution family")

	// ErrIncompatibleMaterial indicates a value carried in a material the
	// composition table cannot relate to the reference material.
	ErrIncompatibleMaterial = errors.New("mathmodel: no route to reference material")

	// ErrAmbiguousReference indicates the diagram scope names several
	// materials or timeframes and no option selects one.
	ErrAmbiguousReference = errors.New("mathmodel: ambiguous reference dimension")

	// ErrProcessKindConflict indicates one identifier used as two
	// different mathematical process kinds.
	ErrProcessKindConflict = errors.New("mathmodel: process kind conflict")
)
