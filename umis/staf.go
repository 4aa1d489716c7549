package umis

import "fmt"

// staf carries what a Stock and a Flow have in common: identity, a
// display name, and the Reference stating what their quantities are
// about. "Staf" is the MFA umbrella term for "stock or flow".
type staf struct {
	id        string
	name      string
	reference Reference
}

// ID returns the stable record identifier.
func (s staf) ID() string { return s.id }

// Name returns the display name.
func (s staf) Name() string { return s.name }

// Reference returns what the quantities are reported against.
func (s staf) Reference() Reference { return s.reference }

// Flow is a directed, quantified edge between two processes of
// differing type. Its values map holds one Value per material the flow
// was measured in, keyed by material id.
type Flow struct {
	staf

	values      map[string]Value
	origin      *Process
	destination *Process
}

// NewFlow builds a Flow after checking its construction-time
// invariants: both endpoints present, distinct, and of differing
// process type. Violations are construction errors, not diagram errors.
func NewFlow(id, name string, ref Reference, values map[string]Value, origin, destination *Process) (*Flow, error) {
	if id == "" {
		return nil, fmt.Errorf("flow: %w", ErrEmptyID)
	}
	if origin == nil || destination == nil {
		return nil, fmt.Errorf("flow %q: %w", id, ErrNilProcess)
	}
	if origin.Equal(destination) {
		return nil, fmt.Errorf("flow %q at process %q: %w", id, origin.DiagramID(), ErrSelfFlow)
	}
	if origin.Type == destination.Type {
		return nil, fmt.Errorf("flow %q: both endpoints are %s processes: %w",
			id, origin.Type, ErrSameProcessType)
	}

	f := &Flow{
		staf:        staf{id: id, name: name, reference: ref},
		values:      make(map[string]Value, len(values)),
		origin:      origin,
		destination: destination,
	}
	for materialID, v := range values {
		f.values[materialID] = v
	}

	return f, nil
}

// Origin returns the process the flow leaves.
func (f *Flow) Origin() *Process { return f.origin }

// Destination returns the process the flow enters.
func (f *Flow) Destination() *Process { return f.destination }

// Value returns the flow's value for the given material, if measured.
func (f *Flow) Value(m Material) (Value, bool) {
	v, ok := f.values[m.ID]

	return v, ok
}

// MaterialIDs returns the ids of every material the flow was measured in.
func (f *Flow) MaterialIDs() []string {
	ids := make([]string, 0, len(f.values))
	for id := range f.values {
		ids = append(ids, id)
	}

	return ids
}

// String renders the flow for diagnostics.
func (f *Flow) String() string {
	return fmt.Sprintf("Flow %q (%s): %s -> %s",
		f.name, f.id, f.origin.DiagramID(), f.destination.DiagramID())
}

// Stock is material accumulated or held at a process. Its values map
// holds one StockValue per material, keyed by material id; every value
// shares the stock's type by construction.
type Stock struct {
	staf

	values    map[string]StockValue
	stockType StockType
	processID string
}

// NewStock builds a Stock after checking identity and type. values may
// be plain Values; they are tagged with the stock's type. processID
// names the owning process (record id or diagram-scoped id).
func NewStock(id, name string, ref Reference, typ StockType, values map[string]Value, processID string) (*Stock, error) {
	if id == "" {
		return nil, fmt.Errorf("stock: %w", ErrEmptyID)
	}
	if !typ.valid() {
		return nil, fmt.Errorf("stock %q: %w: %d", id, ErrBadStockType, typ)
	}
	if processID == "" {
		return nil, fmt.Errorf("stock %q: owner process: %w", id, ErrEmptyID)
	}

	s := &Stock{
		staf:      staf{id: id, name: name, reference: ref},
		values:    make(map[string]StockValue, len(values)),
		stockType: typ,
		processID: processID,
	}
	for materialID, v := range values {
		s.values[materialID] = StockValue{Value: v, Type: typ}
	}

	return s, nil
}

// Type tells whether the stock is reported Net or Total.
func (s *Stock) Type() StockType { return s.stockType }

// ProcessID returns the identifier of the owning process.
func (s *Stock) ProcessID() string { return s.processID }

// Value returns the stock's value for the given material, if measured.
func (s *Stock) Value(m Material) (StockValue, bool) {
	v, ok := s.values[m.ID]

	return v, ok
}

// MaterialIDs returns the ids of every material the stock was measured in.
func (s *Stock) MaterialIDs() []string {
	ids := make([]string, 0, len(s.values))
	for id := range s.values {
		ids = append(ids, id)
	}

	return ids
}
