// Package diagram assembles Processes, Flows and Stocks into a
// structurally legal UMIS flow network, rejecting illegal topologies
// eagerly: every check runs at construction time and a Diagram is never
// returned partially built.
//
// A Diagram owns an arena of processes keyed by their diagram-scoped
// identifier, an adjacency map from each process to its outgoing flows,
// and three disjoint flow collections:
//
//   - external inflows  — origin outside the diagram, destination inside
//   - internal flows    — both endpoints inside
//   - external outflows — origin inside, destination outside
//
// Keying everything by string identifier (rather than nesting object
// graphs) keeps cyclic topologies representable: processes may feed
// back into earlier processes freely.
//
// Instead of a single "last seen" Reference, the diagram accumulates
// the distinct spaces, materials and timeframes of every admitted flow
// and stock into ReferenceSets — the unioned scope of the diagram.
//
// Legality rules enforced by Build:
//
//   - at least two processes
//   - equal counts of Transformation and Distribution processes
//   - no two distinct Process objects sharing one identifier
//   - internal flow endpoints must be registered processes
//   - an external inflow's origin must NOT be registered, its
//     destination must be; mirrored for external outflows
//   - no flow admitted twice into a collection or an outflow set
//   - stock owners must be registered; one stock per type per process
//
// There is no add-after-construction API: build once, then read.
package diagram
