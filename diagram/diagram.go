package diagram

import (
	"fmt"
	"sort"

	"github.com/stafkit/bayesumis/umis"
)

// Diagram is a validated UMIS flow network. It exclusively owns its
// process arena, adjacency map and flow collections; the Process and
// Flow objects themselves are shared read-only with downstream
// consumers (the math-model builder never mutates diagram state).
type Diagram struct {
	// processes is the arena: diagram-scoped id → process.
	processes map[string]*umis.Process

	// outflows is the adjacency: origin diagram id → flow id → flow.
	// It holds internal flows and external outflows (both leave a
	// registered process); external inflows never appear here.
	outflows map[string]map[string]*umis.Flow

	externalInflows  map[string]*umis.Flow
	internalFlows    map[string]*umis.Flow
	externalOutflows map[string]*umis.Flow

	stocks []*umis.Stock
	refs   *ReferenceSets
}

// Build validates and assembles a diagram from its components.
//
// Steps:
//  1. Registration: every process reachable from the supplied flows is
//     registered exactly once — internal-flow endpoints, external-inflow
//     destinations, external-outflow origins. A second distinct Process
//     object claiming a registered identifier fails with
//     ErrDuplicateProcess.
//  2. Census: at least two processes (ErrInsufficientProcesses) and an
//     equal count of Transformation and Distribution processes
//     (ErrUnbalancedProcessTypes).
//  3. Admission: each flow is checked against the registry and inserted
//     into its collection (and, for flows leaving a registered process,
//     into the origin's outflow set); each stock is attached to its
//     owner. Stocks attach only after every stock has been resolved and
//     validated, since attachment mutates the caller-owned Process.
//     Every admitted flow and stock folds its Reference into the
//     diagram's ReferenceSets.
//
// On any failure the error is returned and no Diagram exists — there is
// no partially built state to observe, and the supplied Processes are
// left untouched.
func Build(externalInflows, internalFlows, externalOutflows []*umis.Flow, stocks []*umis.Stock) (*Diagram, error) {
	d := &Diagram{
		processes:        make(map[string]*umis.Process),
		outflows:         make(map[string]map[string]*umis.Flow),
		externalInflows:  make(map[string]*umis.Flow),
		internalFlows:    make(map[string]*umis.Flow),
		externalOutflows: make(map[string]*umis.Flow),
		refs:             newReferenceSets(),
	}

	if err := d.registerAll(externalInflows, internalFlows, externalOutflows); err != nil {
		return nil, err
	}
	if err := d.checkCensus(); err != nil {
		return nil, err
	}

	for _, f := range internalFlows {
		if err := d.admitInternal(f); err != nil {
			return nil, err
		}
	}
	for _, f := range externalInflows {
		if err := d.admitExternalInflow(f); err != nil {
			return nil, err
		}
	}
	for _, f := range externalOutflows {
		if err := d.admitExternalOutflow(f); err != nil {
			return nil, err
		}
	}
	if err := d.admitStocks(stocks); err != nil {
		return nil, err
	}

	return d, nil
}

// registerAll walks the supplied flows and registers every process that
// belongs inside the diagram.
func (d *Diagram) registerAll(externalInflows, internalFlows, externalOutflows []*umis.Flow) error {
	for _, f := range internalFlows {
		if f == nil {
			return fmt.Errorf("internal flows: %w", ErrNilComponent)
		}
		if err := d.register(f.Origin()); err != nil {
			return err
		}
		if err := d.register(f.Destination()); err != nil {
			return err
		}
	}
	for _, f := range externalInflows {
		if f == nil {
			return fmt.Errorf("external inflows: %w", ErrNilComponent)
		}
		if err := d.register(f.Destination()); err != nil {
			return err
		}
	}
	for _, f := range externalOutflows {
		if f == nil {
			return fmt.Errorf("external outflows: %w", ErrNilComponent)
		}
		if err := d.register(f.Origin()); err != nil {
			return err
		}
	}

	return nil
}

// register admits a process into the arena exactly once. Seeing the
// same object again is a no-op; seeing a different object under an
// already-registered identifier is the duplicate-identity failure.
func (d *Diagram) register(p *umis.Process) error {
	id := p.DiagramID()
	if existing, ok := d.processes[id]; ok {
		if existing != p {
			return fmt.Errorf("process %q (%s): %w", id, p.Name, ErrDuplicateProcess)
		}

		return nil
	}

	d.processes[id] = p
	d.outflows[id] = make(map[string]*umis.Flow)

	return nil
}

// checkCensus enforces the minimum size and the bipartite balance.
func (d *Diagram) checkCensus() error {
	if len(d.processes) < 2 {
		return fmt.Errorf("%d processes: %w", len(d.processes), ErrInsufficientProcesses)
	}

	var transformations, distributions int
	for _, p := range d.processes {
		if p.Type == umis.Transformation {
			transformations++
		} else {
			distributions++
		}
	}
	if transformations != distributions {
		return fmt.Errorf("%d transformation vs %d distribution: %w",
			transformations, distributions, ErrUnbalancedProcessTypes)
	}

	return nil
}

// admitInternal checks both endpoints are registered and records the
// flow in the internal collection and the origin's outflow set.
func (d *Diagram) admitInternal(f *umis.Flow) error {
	originID := f.Origin().DiagramID()
	if _, ok := d.processes[originID]; !ok {
		return fmt.Errorf("internal flow %q origin %q: %w", f.ID(), originID, ErrUnknownProcess)
	}
	destID := f.Destination().DiagramID()
	if _, ok := d.processes[destID]; !ok {
		return fmt.Errorf("internal flow %q destination %q: %w", f.ID(), destID, ErrUnknownProcess)
	}

	if _, dup := d.internalFlows[f.ID()]; dup {
		return fmt.Errorf("internal flow %q: %w", f.ID(), ErrDuplicateFlow)
	}
	if err := d.addOutflow(originID, f); err != nil {
		return err
	}

	d.internalFlows[f.ID()] = f
	d.refs.add(f.Reference())

	return nil
}

// admitExternalInflow checks the origin stays outside the boundary and
// the destination inside, then records the flow. External inflows do
// not enter any outflow set: their origin is not a diagram process.
func (d *Diagram) admitExternalInflow(f *umis.Flow) error {
	if _, inside := d.processes[f.Origin().DiagramID()]; inside {
		return fmt.Errorf("external inflow %q: origin %q is a diagram process: %w",
			f.ID(), f.Origin().DiagramID(), ErrExternalFlowTopology)
	}
	if _, inside := d.processes[f.Destination().DiagramID()]; !inside {
		return fmt.Errorf("external inflow %q: destination %q is outside the diagram: %w",
			f.ID(), f.Destination().DiagramID(), ErrExternalFlowTopology)
	}

	if _, dup := d.externalInflows[f.ID()]; dup {
		return fmt.Errorf("external inflow %q: %w", f.ID(), ErrDuplicateFlow)
	}

	d.externalInflows[f.ID()] = f
	d.refs.add(f.Reference())

	return nil
}

// admitExternalOutflow mirrors admitExternalInflow: origin inside,
// destination outside. The flow leaves a registered process, so it also
// enters that process's outflow set.
func (d *Diagram) admitExternalOutflow(f *umis.Flow) error {
	originID := f.Origin().DiagramID()
	if _, inside := d.processes[originID]; !inside {
		return fmt.Errorf("external outflow %q: origin %q is outside the diagram: %w",
			f.ID(), originID, ErrExternalFlowTopology)
	}
	if _, inside := d.processes[f.Destination().DiagramID()]; inside {
		return fmt.Errorf("external outflow %q: destination %q is a diagram process: %w",
			f.ID(), f.Destination().DiagramID(), ErrExternalFlowTopology)
	}

	if _, dup := d.externalOutflows[f.ID()]; dup {
		return fmt.Errorf("external outflow %q: %w", f.ID(), ErrDuplicateFlow)
	}
	if err := d.addOutflow(originID, f); err != nil {
		return err
	}

	d.externalOutflows[f.ID()] = f
	d.refs.add(f.Reference())

	return nil
}

// addOutflow inserts a flow into the origin's outflow set, rejecting a
// second insertion of the same flow id.
func (d *Diagram) addOutflow(originID string, f *umis.Flow) error {
	set := d.outflows[originID]
	if _, dup := set[f.ID()]; dup {
		return fmt.Errorf("flow %q in outflow set of %q: %w", f.ID(), originID, ErrDuplicateFlow)
	}
	set[f.ID()] = f

	return nil
}

// admitStocks resolves and validates every stock before attaching any
// of them. Attachment mutates the caller-owned Process, so nothing may
// attach until the whole batch is known to be admissible; a failed
// build must leave the supplied processes reusable as-is.
func (d *Diagram) admitStocks(stocks []*umis.Stock) error {
	type attachment struct {
		owner *umis.Process
		stock *umis.Stock
	}

	pending := make([]attachment, 0, len(stocks))
	claimed := make(map[string]bool, len(stocks))

	for _, s := range stocks {
		if s == nil {
			return fmt.Errorf("stocks: %w", ErrNilComponent)
		}

		owner, err := d.resolveStockOwner(s)
		if err != nil {
			return err
		}

		key := owner.DiagramID() + "/" + s.Type().String()
		if _, held := owner.Stock(s.Type()); held || claimed[key] {
			return fmt.Errorf("process %q, stock type %s: %w",
				owner.DiagramID(), s.Type(), umis.ErrDuplicateStock)
		}
		claimed[key] = true

		pending = append(pending, attachment{owner: owner, stock: s})
	}

	for _, a := range pending {
		if err := a.owner.AddStock(a.stock); err != nil {
			return err
		}
		d.stocks = append(d.stocks, a.stock)
		d.refs.add(a.stock.Reference())
	}

	return nil
}

// resolveStockOwner finds the process a stock belongs to. The owner may
// be named by diagram-scoped id or by plain record id; a record id
// matching several registered processes is rejected, since the
// attachment would be ambiguous.
func (d *Diagram) resolveStockOwner(s *umis.Stock) (*umis.Process, error) {
	if owner, ok := d.processes[s.ProcessID()]; ok {
		return owner, nil
	}

	var matches []*umis.Process
	for _, id := range d.sortedProcessIDs() {
		if p := d.processes[id]; p.ID == s.ProcessID() {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("stock %q owner %q: %w", s.ID(), s.ProcessID(), ErrUnknownProcess)
	default:
		return nil, fmt.Errorf("stock %q owner %q matches %d processes: %w",
			s.ID(), s.ProcessID(), len(matches), ErrUnknownProcess)
	}
}

// OutflowsOf returns every flow leaving the process — internal flows
// and external outflows — sorted by flow id. The result is a fresh
// slice each call; repeated calls return identical contents.
func (d *Diagram) OutflowsOf(p *umis.Process) []*umis.Flow {
	return sortedFlows(d.outflows[p.DiagramID()])
}

// ExternalInflows returns the external inflow set, sorted by flow id.
func (d *Diagram) ExternalInflows() []*umis.Flow {
	return sortedFlows(d.externalInflows)
}

// InternalFlows returns the internal flow set, sorted by flow id.
func (d *Diagram) InternalFlows() []*umis.Flow {
	return sortedFlows(d.internalFlows)
}

// ExternalOutflows returns the external outflow set, sorted by flow id.
func (d *Diagram) ExternalOutflows() []*umis.Flow {
	return sortedFlows(d.externalOutflows)
}

// Processes returns every registered process, sorted by diagram id.
func (d *Diagram) Processes() []*umis.Process {
	out := make([]*umis.Process, 0, len(d.processes))
	for _, id := range d.sortedProcessIDs() {
		out = append(out, d.processes[id])
	}

	return out
}

// Process looks up a registered process by diagram-scoped id.
func (d *Diagram) Process(diagramID string) (*umis.Process, bool) {
	p, ok := d.processes[diagramID]

	return p, ok
}

// Stocks returns every admitted stock in admission order.
func (d *Diagram) Stocks() []*umis.Stock {
	out := make([]*umis.Stock, len(d.stocks))
	copy(out, d.stocks)

	return out
}

// References returns the accumulated reference scope of the diagram.
func (d *Diagram) References() *ReferenceSets {
	return d.refs
}

func (d *Diagram) sortedProcessIDs() []string {
	ids := make([]string, 0, len(d.processes))
	for id := range d.processes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func sortedFlows(set map[string]*umis.Flow) []*umis.Flow {
	out := make([]*umis.Flow, 0, len(set))
	for _, f := range set {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })

	return out
}
