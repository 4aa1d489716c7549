package stafdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stafkit/bayesumis/umis"
	"github.com/stafkit/bayesumis/uncertainty"
)

// RefIDs names the reference dimensions of a stock or flow by record id.
type RefIDs struct {
	OriginSpaceID      string
	DestinationSpaceID string
	TimeframeID        string
	MaterialID         string
}

// Factory mints records with fresh identifiers and persists them in one
// step. Each factory writes to the store it was handed, so independent
// factories can populate independent stores side by side.
type Factory struct {
	store Store
}

// NewFactory builds a factory over the given store.
func NewFactory(store Store) *Factory {
	return &Factory{store: store}
}

// CreateSpace mints and persists a reference space.
func (f *Factory) CreateSpace(ctx context.Context, name string) (SpaceRecord, error) {
	r := SpaceRecord{ID: uuid.NewString(), Name: name}
	if err := f.store.PutSpace(ctx, r); err != nil {
		return SpaceRecord{}, err
	}

	return r, nil
}

// CreateMaterial mints and persists a material definition.
func (f *Factory) CreateMaterial(ctx context.Context, code, name, parentName string, isSeparator bool) (MaterialRecord, error) {
	r := MaterialRecord{
		ID:          uuid.NewString(),
		Code:        code,
		Name:        name,
		ParentName:  parentName,
		IsSeparator: isSeparator,
	}
	if err := f.store.PutMaterial(ctx, r); err != nil {
		return MaterialRecord{}, err
	}

	return r, nil
}

// CreateTimeframe mints and persists a reporting period after checking
// the bounds are ordered.
func (f *Factory) CreateTimeframe(ctx context.Context, start, end int) (TimeframeRecord, error) {
	r := TimeframeRecord{ID: uuid.NewString(), Start: start, End: end}
	if _, err := umis.NewTimeframe(r.ID, start, end); err != nil {
		return TimeframeRecord{}, err
	}
	if err := f.store.PutTimeframe(ctx, r); err != nil {
		return TimeframeRecord{}, err
	}

	return r, nil
}

// CreateProcess mints and persists a process definition.
func (f *Factory) CreateProcess(ctx context.Context, code, name, spaceID string, isSeparator bool, parentName string, typ umis.ProcessType) (ProcessRecord, error) {
	if spaceID == "" {
		return ProcessRecord{}, fmt.Errorf("process space: %w", ErrBadRecord)
	}

	r := ProcessRecord{
		ID:          uuid.NewString(),
		Code:        code,
		Name:        name,
		SpaceID:     spaceID,
		IsSeparator: isSeparator,
		ParentName:  parentName,
		Type:        typ.String(),
	}
	if _, err := umis.NewProcess(r.ID, code, name, umis.Space{ID: spaceID}, isSeparator, parentName, typ); err != nil {
		return ProcessRecord{}, err
	}
	if err := f.store.PutProcess(ctx, r); err != nil {
		return ProcessRecord{}, err
	}

	return r, nil
}

// CreateValue mints and persists a measurement. The uncertainty is
// stored in its canonical textual form.
func (f *Factory) CreateValue(ctx context.Context, quantity *float64, u uncertainty.Uncertainty, unit string) (ValueRecord, error) {
	if u == nil {
		return ValueRecord{}, fmt.Errorf("value uncertainty: %w", ErrBadRecord)
	}

	r := ValueRecord{ID: uuid.NewString(), Uncertainty: u.String(), Unit: unit}
	if quantity != nil {
		q := *quantity
		r.Quantity = &q
	}
	if err := f.store.PutValue(ctx, r); err != nil {
		return ValueRecord{}, err
	}

	return r, nil
}

// CreateFlow mints and persists a flow record between two processes.
func (f *Factory) CreateFlow(ctx context.Context, name string, ref RefIDs, originProcessID, destinationProcessID string, valueIDs map[string]string) (StafRecord, error) {
	if originProcessID == "" || destinationProcessID == "" {
		return StafRecord{}, fmt.Errorf("flow endpoints: %w", ErrBadRecord)
	}

	r := StafRecord{
		ID:                   uuid.NewString(),
		Kind:                 KindFlow,
		Name:                 name,
		OriginSpaceID:        ref.OriginSpaceID,
		DestinationSpaceID:   ref.DestinationSpaceID,
		TimeframeID:          ref.TimeframeID,
		MaterialID:           ref.MaterialID,
		OriginProcessID:      originProcessID,
		DestinationProcessID: destinationProcessID,
		ValueIDs:             valueIDs,
	}
	if err := f.store.PutStaf(ctx, r); err != nil {
		return StafRecord{}, err
	}

	return r, nil
}

// CreateStock mints and persists a stock record at a process.
func (f *Factory) CreateStock(ctx context.Context, name string, ref RefIDs, processID string, typ umis.StockType, valueIDs map[string]string) (StafRecord, error) {
	if processID == "" {
		return StafRecord{}, fmt.Errorf("stock owner: %w", ErrBadRecord)
	}

	r := StafRecord{
		ID:                 uuid.NewString(),
		Kind:               KindStock,
		Name:               name,
		OriginSpaceID:      ref.OriginSpaceID,
		DestinationSpaceID: ref.DestinationSpaceID,
		TimeframeID:        ref.TimeframeID,
		MaterialID:         ref.MaterialID,
		ProcessID:          processID,
		StockType:          typ.String(),
		ValueIDs:           valueIDs,
	}
	if err := f.store.PutStaf(ctx, r); err != nil {
		return StafRecord{}, err
	}

	return r, nil
}
