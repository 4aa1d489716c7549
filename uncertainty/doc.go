// Package uncertainty defines the closed family of probability
// distributions used to represent uncertainty around every quantified
// stock and flow value.
//
// The family is a sealed sum type with three variants:
//
//   - Uniform   — bounded ignorance, parameterized by Lower and Upper.
//   - Normal    — symmetric measurement error, parameterized by Mu and Sigma.
//   - Lognormal — positive, skewed measurement error, parameterized in
//     log space by Mu and Sigma.
//
// Every variant exposes an expected value via Mean, a stable tag via
// Name, and a textual form via String that Parse inverts exactly
// (same family, same parameters). Values are immutable once built:
// constructors validate their parameters and reject anything that
// would leave a sampler ill-posed.
//
// Sampling and quantiles are backed by gonum's distuv so the stored
// parameters drive a real sampler rather than hand-rolled math.
//
// Errors:
//
//	ErrBadBounds           - Uniform bounds negative or out of order.
//	ErrBadParameter        - Normal/Lognormal location negative or scale not positive.
//	ErrUnknownDistribution - textual tag names no known variant.
//	ErrMalformed           - textual form is not "Tag(a, b)".
package uncertainty
