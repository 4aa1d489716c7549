package mathmodel

import (
	"fmt"
	"sort"
)

// ProcessKind classifies a node of the mathematical model. Storage
// nodes are synthetic: they absorb positive net stocks and receive
// external outflows, and never get a balance constraint of their own.
type ProcessKind uint8

const (
	KindTransformation ProcessKind = iota + 1
	KindDistribution
	KindStorage
)

// String returns the kind tag.
func (k ProcessKind) String() string {
	switch k {
	case KindTransformation:
		return "Transformation"
	case KindDistribution:
		return "Distribution"
	case KindStorage:
		return "Storage"
	default:
		return fmt.Sprintf("ProcessKind(%d)", k)
	}
}

// mathProcess is the model-side view of one process: its kind, its row
// index in the observation grid, the variables flowing in and out, and
// the ordered set of outflow destinations its transfer coefficients
// range over.
type mathProcess struct {
	id    string
	kind  ProcessKind
	index int

	// outflows maps destination math-process id to the variable carrying
	// that flow's magnitude.
	outflows map[string]string

	inVars  []string
	outVars []string
}

// addOutflow records one outflow edge. A second edge to the same
// destination is rejected, and a transformation process is capped at
// two outflows (its product and at most one storage leg).
func (p *mathProcess) addOutflow(destID, variable string) error {
	if _, dup := p.outflows[destID]; dup {
		return fmt.Errorf("process %q -> %q: %w", p.id, destID, ErrDuplicateOutflow)
	}
	if p.kind == KindTransformation && len(p.outflows) == 2 {
		return fmt.Errorf("process %q -> %q: %w", p.id, destID, ErrTooManyOutflows)
	}

	p.outflows[destID] = variable
	p.outVars = append(p.outVars, variable)

	return nil
}

// addInflow records one variable feeding the process.
func (p *mathProcess) addInflow(variable string) {
	p.inVars = append(p.inVars, variable)
}

// destinations returns the outflow destination ids in sorted order: the
// order the transfer-coefficient vector is indexed in.
func (p *mathProcess) destinations() []string {
	out := make([]string, 0, len(p.outflows))
	for id := range p.outflows {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}
