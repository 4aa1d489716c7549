// Package mathmodel compiles a validated UMIS diagram, plus optional
// calibration tables, into the probabilistic model an external MCMC
// engine samples: latent random variables for flow magnitudes and
// transfer coefficients, observation entries for measured values, and
// one mass-balance constraint per process.
//
// The compilation is a pure transformation — no I/O, no sampling — and
// the resulting Model is immutable, so it can be shared read-only
// across sampler chains. Partial models are never returned: every
// validation failure surfaces before anything reaches the engine.
//
// Naming scheme for latent variables (stable across runs):
//
//	F_<flowID>             — magnitude of a flow admitted to the diagram
//	S_<processDiagramID>   — flow into the synthetic storage process of a
//	                         positive net stock
//	SR_<processDiagramID>  — release from storage, when a net stock is
//	                         reported non-positive
//	P_<processDiagramID>   — transfer-coefficient vector of a process
//
// The crux routine is MakeDistributionTCs, which turns "this process
// sends share m to that destination, ± sd" into a Dirichlet/Beta
// concentration vector, rejecting precision claims that are
// statistically impossible for the family.
//
// Errors:
//
//	ErrBadShares           - share vector empty, negative, zero-sum, or bad index.
//	ErrInfeasibleStddev    - requested stddev exceeds sqrt(m(1-m)/(1+k)).
//	ErrBadCoefficient      - transformation coefficient outside 0 < a <= m <= b < 1.
//	ErrShareCountMismatch  - calibration shares do not cover the outflows.
//	ErrTooManyOutflows     - a transformation process with more than two outflows.
//	ErrDuplicateOutflow    - two flows between one ordered process pair.
//	ErrUnknownDistribution - an uncertainty tag outside the closed family.
//	ErrIncompatibleMaterial- cross-material reconciliation with no composition entry.
//	ErrAmbiguousReference  - diagram scope names several materials/timeframes and
//	                         no option picks one.
//	ErrProcessKindConflict - one identifier used as two different process kinds.
package mathmodel
