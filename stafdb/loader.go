package stafdb

import (
	"context"
	"fmt"

	"github.com/stafkit/bayesumis/diagram"
	"github.com/stafkit/bayesumis/umis"
	"github.com/stafkit/bayesumis/uncertainty"
)

// Loader resolves stored records into wired umis entities. It caches
// processes by record id, so every flow and stock naming the same
// process receives the same object; diagram identity checks depend on
// that. A Loader belongs to one goroutine.
type Loader struct {
	store Store

	processes map[string]*umis.Process
}

// NewLoader builds a loader over the given store.
func NewLoader(store Store) *Loader {
	return &Loader{
		store:     store,
		processes: make(map[string]*umis.Process),
	}
}

// Space resolves a space record.
func (l *Loader) Space(ctx context.Context, id string) (umis.Space, error) {
	r, err := l.store.GetSpace(ctx, id)
	if err != nil {
		return umis.Space{}, err
	}

	return umis.Space{ID: r.ID, Name: r.Name}, nil
}

// Material resolves a material record.
func (l *Loader) Material(ctx context.Context, id string) (umis.Material, error) {
	r, err := l.store.GetMaterial(ctx, id)
	if err != nil {
		return umis.Material{}, err
	}

	return umis.Material{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		ParentName:  r.ParentName,
		IsSeparator: r.IsSeparator,
	}, nil
}

// Timeframe resolves a timeframe record.
func (l *Loader) Timeframe(ctx context.Context, id string) (umis.Timeframe, error) {
	r, err := l.store.GetTimeframe(ctx, id)
	if err != nil {
		return umis.Timeframe{}, err
	}

	return umis.NewTimeframe(r.ID, r.Start, r.End)
}

// Process resolves a process record, returning the cached object when
// the record was already loaded.
func (l *Loader) Process(ctx context.Context, id string) (*umis.Process, error) {
	if p, ok := l.processes[id]; ok {
		return p, nil
	}

	r, err := l.store.GetProcess(ctx, id)
	if err != nil {
		return nil, err
	}
	space, err := l.Space(ctx, r.SpaceID)
	if err != nil {
		return nil, fmt.Errorf("process %q: %w", id, err)
	}
	typ, err := parseProcessType(r.Type)
	if err != nil {
		return nil, fmt.Errorf("process %q: %w", id, err)
	}

	p, err := umis.NewProcess(r.ID, r.Code, r.Name, space, r.IsSeparator, r.ParentName, typ)
	if err != nil {
		return nil, err
	}
	l.processes[id] = p

	return p, nil
}

// Value resolves a value record, parsing its uncertainty from the
// canonical textual form.
func (l *Loader) Value(ctx context.Context, id string) (umis.Value, error) {
	r, err := l.store.GetValue(ctx, id)
	if err != nil {
		return umis.Value{}, err
	}

	u, err := uncertainty.Parse(r.Uncertainty)
	if err != nil {
		return umis.Value{}, fmt.Errorf("value %q: %q: %w", id, r.Uncertainty, ErrBadRecord)
	}

	return umis.NewValue(r.ID, r.Quantity, u, r.Unit)
}

// Flow resolves a flow record together with its endpoints and values.
func (l *Loader) Flow(ctx context.Context, id string) (*umis.Flow, error) {
	r, err := l.store.GetStaf(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Kind != KindFlow {
		return nil, fmt.Errorf("staf %q is a %s, not a flow: %w", id, r.Kind, ErrBadRecord)
	}

	ref, err := l.reference(ctx, r)
	if err != nil {
		return nil, err
	}
	values, err := l.values(ctx, r)
	if err != nil {
		return nil, err
	}
	origin, err := l.Process(ctx, r.OriginProcessID)
	if err != nil {
		return nil, fmt.Errorf("flow %q: %w", id, err)
	}
	destination, err := l.Process(ctx, r.DestinationProcessID)
	if err != nil {
		return nil, fmt.Errorf("flow %q: %w", id, err)
	}

	return umis.NewFlow(r.ID, r.Name, ref, values, origin, destination)
}

// Stock resolves a stock record together with its values.
func (l *Loader) Stock(ctx context.Context, id string) (*umis.Stock, error) {
	r, err := l.store.GetStaf(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Kind != KindStock {
		return nil, fmt.Errorf("staf %q is a %s, not a stock: %w", id, r.Kind, ErrBadRecord)
	}

	ref, err := l.reference(ctx, r)
	if err != nil {
		return nil, err
	}
	values, err := l.values(ctx, r)
	if err != nil {
		return nil, err
	}
	typ, err := parseStockType(r.StockType)
	if err != nil {
		return nil, fmt.Errorf("stock %q: %w", id, err)
	}

	return umis.NewStock(r.ID, r.Name, ref, typ, values, r.ProcessID)
}

// LoadDiagram resolves every named record and assembles the diagram. A
// dangling id anywhere is fatal.
func (l *Loader) LoadDiagram(ctx context.Context, externalInflowIDs, internalFlowIDs, externalOutflowIDs, stockIDs []string) (*diagram.Diagram, error) {
	loadFlows := func(ids []string) ([]*umis.Flow, error) {
		out := make([]*umis.Flow, 0, len(ids))
		for _, id := range ids {
			f, err := l.Flow(ctx, id)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}

		return out, nil
	}

	externalInflows, err := loadFlows(externalInflowIDs)
	if err != nil {
		return nil, err
	}
	internalFlows, err := loadFlows(internalFlowIDs)
	if err != nil {
		return nil, err
	}
	externalOutflows, err := loadFlows(externalOutflowIDs)
	if err != nil {
		return nil, err
	}

	stocks := make([]*umis.Stock, 0, len(stockIDs))
	for _, id := range stockIDs {
		s, err := l.Stock(ctx, id)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}

	return diagram.Build(externalInflows, internalFlows, externalOutflows, stocks)
}

// reference resolves the four reference dimensions of a staf record.
func (l *Loader) reference(ctx context.Context, r StafRecord) (umis.Reference, error) {
	origin, err := l.Space(ctx, r.OriginSpaceID)
	if err != nil {
		return umis.Reference{}, fmt.Errorf("staf %q: %w", r.ID, err)
	}
	destination, err := l.Space(ctx, r.DestinationSpaceID)
	if err != nil {
		return umis.Reference{}, fmt.Errorf("staf %q: %w", r.ID, err)
	}
	tf, err := l.Timeframe(ctx, r.TimeframeID)
	if err != nil {
		return umis.Reference{}, fmt.Errorf("staf %q: %w", r.ID, err)
	}
	material, err := l.Material(ctx, r.MaterialID)
	if err != nil {
		return umis.Reference{}, fmt.Errorf("staf %q: %w", r.ID, err)
	}

	return umis.Reference{
		OriginSpace:      origin,
		DestinationSpace: destination,
		Timeframe:        tf,
		Material:         material,
	}, nil
}

// values resolves the per-material value map of a staf record.
func (l *Loader) values(ctx context.Context, r StafRecord) (map[string]umis.Value, error) {
	out := make(map[string]umis.Value, len(r.ValueIDs))
	for materialID, valueID := range r.ValueIDs {
		v, err := l.Value(ctx, valueID)
		if err != nil {
			return nil, fmt.Errorf("staf %q, material %q: %w", r.ID, materialID, err)
		}
		out[materialID] = v
	}

	return out, nil
}

func parseProcessType(s string) (umis.ProcessType, error) {
	switch s {
	case umis.Transformation.String():
		return umis.Transformation, nil
	case umis.Distribution.String():
		return umis.Distribution, nil
	default:
		return 0, fmt.Errorf("process type %q: %w", s, ErrBadRecord)
	}
}

func parseStockType(s string) (umis.StockType, error) {
	switch s {
	case umis.Net.String():
		return umis.Net, nil
	case umis.Total.String():
		return umis.Total, nil
	default:
		return 0, fmt.Errorf("stock type %q: %w", s, ErrBadRecord)
	}
}
