// Package bayesumis models material flows between industrial processes
// (a UMIS diagram) and compiles them into Bayesian mass-balance models
// ready for MCMC sampling by an external inference engine.
//
// A UMIS diagram is a bipartite directed graph alternating two process
// types — Transformation (changes the form of material) and Distribution
// (routes material without changing it) — connected by quantified Flows
// and holding quantified Stocks. Measurements are noisy and incomplete;
// the point of the library is to turn what was measured into a set of
// latent random variables and conservation constraints that a sampler
// can reconcile.
//
// The pipeline, package by package:
//
//	stafdb/      — record store: tabular rows for spaces, materials,
//	               timeframes, processes, values and stafs (stock-or-flow),
//	               with in-memory and sqlite implementations plus a
//	               loader that resolves rows into model entities
//	uncertainty/ — closed family of probability distributions
//	               (Uniform, Normal, Lognormal) behind every quantity
//	umis/        — the data model: reference metadata, values,
//	               Process, Flow and Stock with their legality invariants
//	diagram/     — validates and assembles Processes, Flows and Stocks
//	               into a structurally legal flow network
//	mathmodel/   — derives the probabilistic model: transfer-coefficient
//	               priors, flow-magnitude latents, observations and
//	               per-process mass-balance constraints, exported as a
//	               YAML document for the sampler
//
// Sampling itself, storage schemas beyond round-tripping the entities
// above, and result plotting are collaborators, not part of this module.
package bayesumis
