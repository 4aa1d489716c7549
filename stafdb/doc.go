// Package stafdb persists and resolves the flat records the UMIS
// entities are built from. Records reference each other by id only; the
// Loader turns a closed set of records back into wired umis entities,
// sharing one Process object per process record so diagram identity
// semantics hold.
//
// Two Store implementations ship: MemStore, a mutex-guarded in-memory
// map set for tests and staging, and SQLStore on an embedded SQLite
// database for durable catalogs. The Factory creates records with fresh
// identifiers and persists them in one step; construction never goes
// through package-level state, so independent factories can populate
// independent stores concurrently.
//
// Errors:
//
//	ErrNotFound    - no record under the requested id.
//	ErrDuplicateID - a second record under an existing id.
//	ErrBadRecord   - a stored record that cannot be resolved into an entity.
package stafdb
