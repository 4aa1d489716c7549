package diagram

import "errors"

// Sentinel errors raised during diagram assembly. All are topology
// errors of the non-retryable "fix the input" class; branch with
// errors.Is, never on message text.
var (
	// ErrNilComponent indicates a nil flow or stock was supplied.
	ErrNilComponent = errors.New("diagram: nil flow or stock")

	// ErrInsufficientProcesses indicates fewer than two distinct processes.
	ErrInsufficientProcesses = errors.New("diagram: at least 2 processes required")

	// ErrUnbalancedProcessTypes indicates the Transformation and
	// Distribution process counts differ. UMIS pairs each transformation
	// with a distribution stage; an imbalance signals a malformed import.
	ErrUnbalancedProcessTypes = errors.New("diagram: transformation and distribution process counts must match")

	// ErrDuplicateProcess indicates two distinct Process objects claimed
	// the same diagram-scoped identifier.
	ErrDuplicateProcess = errors.New("diagram: process identifier registered twice")

	// ErrDuplicateFlow indicates the same flow was admitted twice into
	// one collection or one process's outflow set.
	ErrDuplicateFlow = errors.New("diagram: flow admitted twice")

	// ErrUnknownProcess indicates a flow endpoint or stock owner that is
	// not a registered process.
	ErrUnknownProcess = errors.New("diagram: process not registered")

	// ErrExternalFlowTopology indicates an external flow whose endpoints
	// sit on the wrong side of the diagram boundary.
	ErrExternalFlowTopology = errors.New("diagram: external flow endpoint on wrong side of boundary")
)
