package stafdb

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store guarded by one RWMutex. Records are
// copied in and out, so callers never alias store state. The zero value
// is not usable; construct with NewMemStore.
type MemStore struct {
	mu sync.RWMutex

	spaces     map[string]SpaceRecord
	materials  map[string]MaterialRecord
	timeframes map[string]TimeframeRecord
	processes  map[string]ProcessRecord
	values     map[string]ValueRecord
	stafs      map[string]StafRecord
}

// NewMemStore builds an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		spaces:     make(map[string]SpaceRecord),
		materials:  make(map[string]MaterialRecord),
		timeframes: make(map[string]TimeframeRecord),
		processes:  make(map[string]ProcessRecord),
		values:     make(map[string]ValueRecord),
		stafs:      make(map[string]StafRecord),
	}
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }

// putRecord inserts into one map under the write lock.
func putRecord[R any](s *MemStore, table map[string]R, kind, id string, r R) error {
	if id == "" {
		return fmt.Errorf("%s: empty id: %w", kind, ErrBadRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := table[id]; taken {
		return fmt.Errorf("%s %q: %w", kind, id, ErrDuplicateID)
	}
	table[id] = r

	return nil
}

// getRecord reads from one map under the read lock.
func getRecord[R any](s *MemStore, table map[string]R, kind, id string) (R, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := table[id]
	if !ok {
		return r, fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}

	return r, nil
}

// PutSpace stores a space record.
func (s *MemStore) PutSpace(_ context.Context, r SpaceRecord) error {
	return putRecord(s, s.spaces, "space", r.ID, r)
}

// GetSpace loads a space record by id.
func (s *MemStore) GetSpace(_ context.Context, id string) (SpaceRecord, error) {
	return getRecord(s, s.spaces, "space", id)
}

// PutMaterial stores a material record.
func (s *MemStore) PutMaterial(_ context.Context, r MaterialRecord) error {
	return putRecord(s, s.materials, "material", r.ID, r)
}

// GetMaterial loads a material record by id.
func (s *MemStore) GetMaterial(_ context.Context, id string) (MaterialRecord, error) {
	return getRecord(s, s.materials, "material", id)
}

// PutTimeframe stores a timeframe record.
func (s *MemStore) PutTimeframe(_ context.Context, r TimeframeRecord) error {
	return putRecord(s, s.timeframes, "timeframe", r.ID, r)
}

// GetTimeframe loads a timeframe record by id.
func (s *MemStore) GetTimeframe(_ context.Context, id string) (TimeframeRecord, error) {
	return getRecord(s, s.timeframes, "timeframe", id)
}

// PutProcess stores a process record.
func (s *MemStore) PutProcess(_ context.Context, r ProcessRecord) error {
	return putRecord(s, s.processes, "process", r.ID, r)
}

// GetProcess loads a process record by id.
func (s *MemStore) GetProcess(_ context.Context, id string) (ProcessRecord, error) {
	return getRecord(s, s.processes, "process", id)
}

// PutValue stores a value record.
func (s *MemStore) PutValue(_ context.Context, r ValueRecord) error {
	if r.Quantity != nil {
		q := *r.Quantity
		r.Quantity = &q
	}

	return putRecord(s, s.values, "value", r.ID, r)
}

// GetValue loads a value record by id.
func (s *MemStore) GetValue(_ context.Context, id string) (ValueRecord, error) {
	r, err := getRecord(s, s.values, "value", id)
	if err == nil && r.Quantity != nil {
		q := *r.Quantity
		r.Quantity = &q
	}

	return r, err
}

// PutStaf stores a stock-or-flow record.
func (s *MemStore) PutStaf(_ context.Context, r StafRecord) error {
	r.ValueIDs = copyValueIDs(r.ValueIDs)

	return putRecord(s, s.stafs, "staf", r.ID, r)
}

// GetStaf loads a stock-or-flow record by id.
func (s *MemStore) GetStaf(_ context.Context, id string) (StafRecord, error) {
	r, err := getRecord(s, s.stafs, "staf", id)
	if err == nil {
		r.ValueIDs = copyValueIDs(r.ValueIDs)
	}

	return r, err
}

func copyValueIDs(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}

	return out
}
