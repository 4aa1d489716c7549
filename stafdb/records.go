package stafdb

import (
	"context"
	"errors"
)

// Sentinel errors shared by every Store implementation.
var (
	// ErrNotFound indicates no record exists under the requested id.
	ErrNotFound = errors.New("stafdb: record not found")

	// ErrDuplicateID indicates a second record under an existing id.
	ErrDuplicateID = errors.New("stafdb: duplicate record id")

	// ErrBadRecord indicates a stored record the loader cannot resolve.
	ErrBadRecord = errors.New("stafdb: malformed record")
)

// Record kinds of a StafRecord.
const (
	KindFlow  = "Flow"
	KindStock = "Stock"
)

// SpaceRecord is a persisted reference space.
type SpaceRecord struct {
	ID   string
	Name string
}

// MaterialRecord is a persisted material definition.
type MaterialRecord struct {
	ID          string
	Code        string
	Name        string
	ParentName  string
	IsSeparator bool
}

// TimeframeRecord is a persisted reporting period.
type TimeframeRecord struct {
	ID    string
	Start int
	End   int
}

// ProcessRecord is a persisted process definition. Type is the
// umis.ProcessType tag, "Transformation" or "Distribution".
type ProcessRecord struct {
	ID          string
	Code        string
	Name        string
	SpaceID     string
	IsSeparator bool
	ParentName  string
	Type        string
}

// ValueRecord is a persisted measurement. Quantity is nil for an
// unknown magnitude; Uncertainty holds the canonical textual form the
// uncertainty package parses.
type ValueRecord struct {
	ID          string
	Quantity    *float64
	Uncertainty string
	Unit        string
}

// StafRecord is a persisted stock or flow. Kind selects which of the
// endpoint fields apply: flows carry OriginProcessID and
// DestinationProcessID, stocks carry ProcessID and StockType. ValueIDs
// maps material id to the ValueRecord measured in that material.
type StafRecord struct {
	ID   string
	Kind string
	Name string

	OriginSpaceID      string
	DestinationSpaceID string
	TimeframeID        string
	MaterialID         string

	OriginProcessID      string
	DestinationProcessID string

	ProcessID string
	StockType string

	ValueIDs map[string]string
}

// Store is the persistence boundary: one Get/Put pair per record kind.
// Put never overwrites; a taken id fails with ErrDuplicateID. Get fails
// with ErrNotFound for an absent id.
type Store interface {
	PutSpace(ctx context.Context, r SpaceRecord) error
	GetSpace(ctx context.Context, id string) (SpaceRecord, error)

	PutMaterial(ctx context.Context, r MaterialRecord) error
	GetMaterial(ctx context.Context, id string) (MaterialRecord, error)

	PutTimeframe(ctx context.Context, r TimeframeRecord) error
	GetTimeframe(ctx context.Context, id string) (TimeframeRecord, error)

	PutProcess(ctx context.Context, r ProcessRecord) error
	GetProcess(ctx context.Context, id string) (ProcessRecord, error)

	PutValue(ctx context.Context, r ValueRecord) error
	GetValue(ctx context.Context, id string) (ValueRecord, error)

	PutStaf(ctx context.Context, r StafRecord) error
	GetStaf(ctx context.Context, id string) (StafRecord, error)

	// Close releases any underlying resources.
	Close() error
}
