// Package umis defines the data model of a UMIS material-flow network:
// reference metadata (Space, Material, Timeframe, Reference), quantified
// values, and the Process / Flow / Stock entities that the diagram and
// mathmodel packages assemble and compile.
//
// Identity is explicit, never reference identity:
//
//   - Space and Material are identified by their record ID.
//   - Timeframe is value-equal on its bounds; its ID never participates.
//   - Process is identified by its diagram-scoped id, ID + "_" + SpaceID,
//     so the same record placed in two spaces is two distinct processes.
//   - Flow and Stock are identified by their record ID.
//
// Legality is enforced at construction (fail fast, never at use):
// a Flow must cross the Transformation/Distribution boundary and may not
// connect a process to itself; a Process holds at most one Stock per
// stock type; every quantified value carries an uncertainty.
//
// Errors:
//
//	ErrEmptyID          - entity built with an empty identifier.
//	ErrBadTimeframe     - timeframe with start > end.
//	ErrBadProcessType   - process type outside {Transformation, Distribution}.
//	ErrBadStockType     - stock type outside {Net, Total}.
//	ErrNilUncertainty   - quantified value without an uncertainty.
//	ErrNilProcess       - flow endpoint is nil.
//	ErrSelfFlow         - flow origin and destination are the same process.
//	ErrSameProcessType  - flow endpoints share a process type.
//	ErrDuplicateStock   - second stock of the same type attached to a process.
package umis
