package umis

import "fmt"

// Process is a node in the bipartite flow network. It is constructed
// once from persisted records; stock attachments mutate it afterwards;
// it is never mutated after being admitted to a diagram.
//
// Two Processes are equal iff their diagram-scoped identifiers match:
// the same record placed in two reference spaces is two processes.
type Process struct {
	// ID is the stable record identifier.
	ID string

	// Code is the short process code.
	Code string

	// Name is the display name.
	Name string

	// Space is the reference space the process operates in.
	Space Space

	// IsSeparator marks a disaggregation definitionally identical to its
	// parent process.
	IsSeparator bool

	// ParentName names the aggregate this process disaggregates.
	ParentName string

	// Type is Transformation or Distribution.
	Type ProcessType

	// stocks holds at most one Stock per StockType.
	stocks map[StockType]*Stock
}

// NewProcess builds a Process after checking identity and type.
func NewProcess(id, code, name string, space Space, isSeparator bool, parentName string, typ ProcessType) (*Process, error) {
	if id == "" {
		return nil, fmt.Errorf("process: %w", ErrEmptyID)
	}
	if !typ.valid() {
		return nil, fmt.Errorf("process %q: %w: %d", id, ErrBadProcessType, typ)
	}

	return &Process{
		ID:          id,
		Code:        code,
		Name:        name,
		Space:       space,
		IsSeparator: isSeparator,
		ParentName:  parentName,
		Type:        typ,
		stocks:      make(map[StockType]*Stock),
	}, nil
}

// DiagramID returns the diagram-scoped identifier: record id combined
// with the reference space id.
func (p *Process) DiagramID() string {
	return p.ID + "_" + p.Space.ID
}

// Equal reports identity equality on the diagram-scoped identifier.
func (p *Process) Equal(o *Process) bool {
	return o != nil && p.DiagramID() == o.DiagramID()
}

// AddStock attaches a stock holding to the process. At most one stock
// per stock type may be held; a second attachment of the same type
// returns ErrDuplicateStock.
func (p *Process) AddStock(s *Stock) error {
	if !s.Type().valid() {
		return fmt.Errorf("process %q: %w", p.DiagramID(), ErrBadStockType)
	}
	if _, exists := p.stocks[s.Type()]; exists {
		return fmt.Errorf("process %q, stock type %s: %w", p.DiagramID(), s.Type(), ErrDuplicateStock)
	}

	p.stocks[s.Type()] = s

	return nil
}

// Stock returns the stock holding of the given type, if any.
func (p *Process) Stock(typ StockType) (*Stock, bool) {
	s, ok := p.stocks[typ]

	return s, ok
}
