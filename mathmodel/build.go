package mathmodel

import (
	"fmt"
	"math"
	"sort"

	"github.com/stafkit/bayesumis/diagram"
	"github.com/stafkit/bayesumis/umis"
	"github.com/stafkit/bayesumis/uncertainty"
)

// storageSuffix marks the synthetic storage node of a stocked process.
const storageSuffix = "_STORAGE"

// Observations carries the calibration tables for transfer
// coefficients, keyed by the owning process's diagram-scoped id.
type Observations struct {
	Transformation map[string]TransformationCoefficient
	Distribution   map[string]DistributionCoefficients
}

// CompositionTable relates carrier materials to the reference material:
// material id to the mass fraction of the reference material it
// carries. A flow measured only in a carrier is rescaled by the
// fraction's mean.
type CompositionTable map[string]uncertainty.Uncertainty

// Build compiles a validated diagram into the probabilistic model.
//
// Steps:
//  1. Resolve the reference material and timeframe, from options or
//     from the diagram's scope when it names exactly one of each.
//  2. Register every diagram process as a model node, in sorted order,
//     fixing the observation-grid indices.
//  3. Admit flows: internal flows and external outflows become latent
//     magnitudes with priors from their values (external outflows feed
//     synthetic storage nodes); external inflows become latent
//     magnitudes with informative priors and no grid cell. Flows
//     reported for a different timeframe are skipped. Measured
//     magnitudes with a normal or lognormal error model also emit an
//     Observation.
//  4. Admit net stocks: a positive level becomes a flow into the
//     process's storage node; an unknown or non-positive level becomes
//     a release feeding the process. Total stocks are not modelled.
//  5. Place one transfer-coefficient variable per process with
//     outflows: deterministic for a single destination, Dirichlet
//     (calibrated through MakeDistributionTCs, or vague) for
//     distributions, logit-normal or Uniform(0,1) for transformations.
//  6. Emit one mass-balance constraint per non-storage process that has
//     both inflows and outflows.
//
// The returned Model is complete or the error tells why; there is no
// partial output.
func Build(d *diagram.Diagram, obs Observations, composition CompositionTable, opts ...Option) (*Model, error) {
	b := &builder{
		diagram:     d,
		obs:         obs,
		composition: composition,
		opts:        buildOptions(opts),
		processes:   make(map[string]*mathProcess),
	}

	if err := b.resolveReferences(); err != nil {
		return nil, err
	}
	if err := b.registerProcesses(); err != nil {
		return nil, err
	}
	if err := b.admitFlows(); err != nil {
		return nil, err
	}
	if err := b.admitStocks(); err != nil {
		return nil, err
	}
	if err := b.placeCoefficients(); err != nil {
		return nil, err
	}

	return b.finish(), nil
}

type builder struct {
	diagram     *diagram.Diagram
	obs         Observations
	composition CompositionTable
	opts        Options

	refMaterial  umis.Material
	refTimeframe umis.Timeframe

	processes map[string]*mathProcess
	nextIndex int

	variables    []Variable
	observations []Observation
}

// resolveReferences fixes the material and timeframe every magnitude is
// expressed against.
func (b *builder) resolveReferences() error {
	refs := b.diagram.References()

	if b.opts.ReferenceMaterial != nil {
		b.refMaterial = *b.opts.ReferenceMaterial
	} else {
		materials := refs.Materials()
		if len(materials) != 1 {
			return fmt.Errorf("%d materials in scope: %w", len(materials), ErrAmbiguousReference)
		}
		b.refMaterial = materials[0]
	}

	if b.opts.ReferenceTimeframe != nil {
		b.refTimeframe = *b.opts.ReferenceTimeframe
	} else {
		timeframes := refs.Timeframes()
		if len(timeframes) != 1 {
			return fmt.Errorf("%d timeframes in scope: %w", len(timeframes), ErrAmbiguousReference)
		}
		b.refTimeframe = timeframes[0]
	}

	return nil
}

// registerProcesses creates one model node per diagram process, in
// sorted id order so grid indices are reproducible.
func (b *builder) registerProcesses() error {
	for _, p := range b.diagram.Processes() {
		kind := KindDistribution
		if p.Type == umis.Transformation {
			kind = KindTransformation
		}
		if _, err := b.ensure(p.DiagramID(), kind); err != nil {
			return err
		}
	}

	return nil
}

// ensure returns the node for id, creating it with the given kind. An
// existing node of a different kind is an identity clash.
func (b *builder) ensure(id string, kind ProcessKind) (*mathProcess, error) {
	if p, ok := b.processes[id]; ok {
		if p.kind != kind {
			return nil, fmt.Errorf("process %q is %s, requested %s: %w",
				id, p.kind, kind, ErrProcessKindConflict)
		}

		return p, nil
	}

	p := &mathProcess{
		id:       id,
		kind:     kind,
		index:    b.nextIndex,
		outflows: make(map[string]string),
	}
	b.nextIndex++
	b.processes[id] = p

	return p, nil
}

func (b *builder) admitFlows() error {
	for _, f := range b.diagram.InternalFlows() {
		if err := b.admitEdge(f, false); err != nil {
			return err
		}
	}
	for _, f := range b.diagram.ExternalOutflows() {
		if err := b.admitEdge(f, true); err != nil {
			return err
		}
	}
	for _, f := range b.diagram.ExternalInflows() {
		if err := b.admitInflow(f); err != nil {
			return err
		}
	}

	return nil
}

// admitEdge turns one flow leaving a diagram process into a latent
// magnitude between two model nodes. External outflows terminate in a
// storage node named after the outside process.
func (b *builder) admitEdge(f *umis.Flow, external bool) error {
	if !f.Reference().Timeframe.Equal(b.refTimeframe) {
		return nil
	}

	v, err := b.resolveValue(f.ID(), f.Value, f.MaterialIDs())
	if err != nil {
		return err
	}

	origin := b.processes[f.Origin().DiagramID()]
	var dest *mathProcess
	if external {
		dest, err = b.ensure(f.Destination().DiagramID(), KindStorage)
		if err != nil {
			return err
		}
	} else {
		dest = b.processes[f.Destination().DiagramID()]
	}

	name := "F_" + f.ID()
	prior, err := b.magnitudePrior(v)
	if err != nil {
		return fmt.Errorf("flow %q: %w", f.ID(), err)
	}

	if err := origin.addOutflow(dest.id, name); err != nil {
		return err
	}
	dest.addInflow(name)

	b.variables = append(b.variables, Variable{Name: name, Prior: prior})
	b.observe(name, v, origin.index, dest.index)

	return nil
}

// admitInflow turns one external inflow into a latent magnitude with an
// informative prior. Its origin lies outside the boundary, so it joins
// no outflow set and no grid cell.
func (b *builder) admitInflow(f *umis.Flow) error {
	if !f.Reference().Timeframe.Equal(b.refTimeframe) {
		return nil
	}

	v, err := b.resolveValue(f.ID(), f.Value, f.MaterialIDs())
	if err != nil {
		return err
	}

	name := "F_" + f.ID()
	prior, err := b.magnitudePrior(v)
	if err != nil {
		return fmt.Errorf("external inflow %q: %w", f.ID(), err)
	}

	b.processes[f.Destination().DiagramID()].addInflow(name)
	b.variables = append(b.variables, Variable{Name: name, Prior: prior})

	return nil
}

// admitStocks walks the processes and models each attached net stock. A
// positive level drains into a synthetic storage node; an unknown or
// non-positive level is treated as a release feeding the process.
func (b *builder) admitStocks() error {
	for _, p := range b.diagram.Processes() {
		s, ok := p.Stock(umis.Net)
		if !ok {
			continue
		}
		if !s.Reference().Timeframe.Equal(b.refTimeframe) {
			continue
		}

		sv, err := b.resolveValue(s.ID(), func(m umis.Material) (umis.Value, bool) {
			v, ok := s.Value(m)

			return v.Value, ok
		}, s.MaterialIDs())
		if err != nil {
			return err
		}

		owner := b.processes[p.DiagramID()]
		if sv.Known() && *sv.Quantity > 0 {
			if err := b.admitAccumulation(owner, sv); err != nil {
				return err
			}

			continue
		}

		if err := b.admitRelease(owner, sv); err != nil {
			return err
		}
	}

	return nil
}

// admitAccumulation drains a positive net stock into the process's
// storage node.
func (b *builder) admitAccumulation(owner *mathProcess, v umis.Value) error {
	storage, err := b.ensure(owner.id+storageSuffix, KindStorage)
	if err != nil {
		return err
	}

	name := "S_" + owner.id
	prior, err := b.magnitudePrior(v)
	if err != nil {
		return fmt.Errorf("stock at %q: %w", owner.id, err)
	}

	if err := owner.addOutflow(storage.id, name); err != nil {
		return err
	}
	storage.addInflow(name)

	b.variables = append(b.variables, Variable{Name: name, Prior: prior})
	b.observe(name, v, owner.index, storage.index)

	return nil
}

// admitRelease feeds a non-positive or unknown net stock back into the
// process as an input.
func (b *builder) admitRelease(owner *mathProcess, v umis.Value) error {
	name := "SR_" + owner.id
	prior, err := b.magnitudePrior(v)
	if err != nil {
		return fmt.Errorf("stock at %q: %w", owner.id, err)
	}

	owner.addInflow(name)
	b.variables = append(b.variables, Variable{Name: name, Prior: prior})

	return nil
}

// resolveValue returns the value in the reference material, consulting
// the composition table when the record carries other materials. The
// first carrier with a composition entry, in material-id order, wins.
func (b *builder) resolveValue(recordID string, get func(umis.Material) (umis.Value, bool), materialIDs []string) (umis.Value, error) {
	if v, ok := get(b.refMaterial); ok {
		return v, nil
	}

	sort.Strings(materialIDs)
	for _, id := range materialIDs {
		fraction, ok := b.composition[id]
		if !ok {
			continue
		}
		v, ok := get(umis.Material{ID: id})
		if !ok {
			continue
		}

		return scaleValue(v, fraction.Mean())
	}

	return umis.Value{}, fmt.Errorf("record %q, material %q: %w", recordID, b.refMaterial.ID, ErrIncompatibleMaterial)
}

// magnitudePrior derives the prior over one latent magnitude. Measured
// magnitudes keep their stated error model; unknown magnitudes keep
// stated bounds, or fall back to the vague Uniform(0, bound) when all
// they carry is an error family with nothing to attach it to.
func (b *builder) magnitudePrior(v umis.Value) (Prior, error) {
	if !v.Known() {
		if _, bounded := v.Uncertainty.(uncertainty.Uniform); !bounded {
			return Prior{
				Dist:   "uniform",
				Params: map[string]float64{"lower": 0, "upper": b.opts.WidePriorBound},
			}, nil
		}
	}

	return priorFor(v.Uncertainty)
}

// observe emits an Observation for a measured magnitude whose error
// family supports one.
func (b *builder) observe(variable string, v umis.Value, row, col int) {
	if !v.Known() {
		return
	}

	switch u := v.Uncertainty.(type) {
	case uncertainty.Normal:
		b.observations = append(b.observations, Observation{
			Variable: variable, Dist: "normal",
			Mean: *v.Quantity, Stddev: u.Sigma,
			Row: row, Col: col,
		})
	case uncertainty.Lognormal:
		b.observations = append(b.observations, Observation{
			Variable: variable, Dist: "lognormal",
			Mean: *v.Quantity, Stddev: u.Sigma,
			Row: row, Col: col,
		})
	}
}

// placeCoefficients adds one transfer-coefficient variable per process
// that has outflows.
func (b *builder) placeCoefficients() error {
	for _, id := range b.sortedProcessIDs() {
		p := b.processes[id]
		if p.kind == KindStorage || len(p.outflows) == 0 {
			continue
		}

		prior, err := b.coefficientPrior(p)
		if err != nil {
			return err
		}

		b.variables = append(b.variables, Variable{Name: "P_" + p.id, Prior: prior})
	}

	return nil
}

// coefficientPrior derives the transfer-coefficient prior of one
// process from its calibration, if any.
func (b *builder) coefficientPrior(p *mathProcess) (Prior, error) {
	dests := p.destinations()

	if len(dests) == 1 {
		// The split is deterministic regardless, but a supplied
		// calibration must still name the one destination; a mis-keyed
		// entry is an input error, not a no-op.
		if p.kind == KindDistribution {
			if _, err := b.dirichletConcentration(p, dests); err != nil {
				return Prior{}, err
			}
		}

		return Prior{
			Dist:       "deterministic",
			Params:     map[string]float64{"value": 1},
			Categories: dests,
		}, nil
	}

	if p.kind == KindTransformation {
		if tc, ok := b.obs.Transformation[p.id]; ok {
			return Prior{
				Dist:       "logitnormal",
				Params:     map[string]float64{"mu": tc.Mu, "sigma": tc.Sigma},
				Categories: dests,
			}, nil
		}

		return Prior{
			Dist:       "uniform",
			Params:     map[string]float64{"lower": 0, "upper": 1},
			Categories: dests,
		}, nil
	}

	concentration, err := b.dirichletConcentration(p, dests)
	if err != nil {
		return Prior{}, err
	}

	return Prior{Dist: "dirichlet", Concentration: concentration, Categories: dests}, nil
}

// dirichletConcentration aligns a distribution calibration with the
// destination ordering and runs the share conversion. Without a
// calibration the concentration is a vague ones vector.
func (b *builder) dirichletConcentration(p *mathProcess, dests []string) ([]float64, error) {
	dc, ok := b.obs.Distribution[p.id]
	if !ok {
		ones := make([]float64, len(dests))
		for i := range ones {
			ones[i] = 1
		}

		return ones, nil
	}

	if len(dc.Shares) != len(dests) {
		return nil, fmt.Errorf("process %q: %d shares for %d outflows: %w",
			p.id, len(dc.Shares), len(dests), ErrShareCountMismatch)
	}

	shares := make([]float64, len(dests))
	for i, dest := range dests {
		share, ok := dc.Shares[dest]
		if !ok {
			return nil, fmt.Errorf("process %q: no share for destination %q: %w",
				p.id, dest, ErrShareCountMismatch)
		}
		shares[i] = share
	}

	var target *StddevTarget
	if dc.Stddev != nil {
		idx := sort.SearchStrings(dests, dc.Stddev.Destination)
		if idx == len(dests) || dests[idx] != dc.Stddev.Destination {
			return nil, fmt.Errorf("process %q: stddev names destination %q: %w",
				p.id, dc.Stddev.Destination, ErrShareCountMismatch)
		}
		target = &StddevTarget{Index: idx, Stddev: dc.Stddev.Stddev}
	}

	concentration, err := MakeDistributionTCs(shares, target)
	if err != nil {
		return nil, fmt.Errorf("process %q: %w", p.id, err)
	}

	return concentration, nil
}

// finish assembles the immutable model: sorted variables, emission
// order observations, one constraint per balanced non-storage process.
func (b *builder) finish() *Model {
	m := &Model{
		refMaterial:  b.refMaterial,
		refTimeframe: b.refTimeframe,
		variables:    b.variables,
		observations: b.observations,
	}

	sort.Slice(m.variables, func(i, j int) bool { return m.variables[i].Name < m.variables[j].Name })

	for _, id := range b.sortedProcessIDs() {
		p := b.processes[id]
		if p.kind == KindStorage || len(p.inVars) == 0 || len(p.outVars) == 0 {
			continue
		}

		inflows := make([]string, len(p.inVars))
		copy(inflows, p.inVars)
		sort.Strings(inflows)

		outflows := make([]string, len(p.outVars))
		copy(outflows, p.outVars)
		sort.Strings(outflows)

		m.constraints = append(m.constraints, Constraint{Process: p.id, Inflows: inflows, Outflows: outflows})
	}

	return m
}

func (b *builder) sortedProcessIDs() []string {
	ids := make([]string, 0, len(b.processes))
	for id := range b.processes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// priorFor maps an uncertainty onto its prior shape.
func priorFor(u uncertainty.Uncertainty) (Prior, error) {
	switch v := u.(type) {
	case uncertainty.Uniform:
		return Prior{Dist: "uniform", Params: map[string]float64{"lower": v.Lower, "upper": v.Upper}}, nil
	case uncertainty.Normal:
		return Prior{Dist: "normal", Params: map[string]float64{"mu": v.Mu, "sigma": v.Sigma}}, nil
	case uncertainty.Lognormal:
		return Prior{Dist: "lognormal", Params: map[string]float64{"mu": v.Mu, "sigma": v.Sigma}}, nil
	default:
		return Prior{}, fmt.Errorf("%T: %w", u, ErrUnknownDistribution)
	}
}

// scaleValue rescales a value by a mass fraction: the amount of the
// reference material carried per unit of the measured material.
func scaleValue(v umis.Value, fraction float64) (umis.Value, error) {
	if fraction <= 0 || math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return umis.Value{}, fmt.Errorf("value %q: fraction %g: %w", v.ID, fraction, ErrIncompatibleMaterial)
	}

	out := v
	if v.Quantity != nil {
		q := *v.Quantity * fraction
		out.Quantity = &q
	}

	switch u := v.Uncertainty.(type) {
	case uncertainty.Uniform:
		out.Uncertainty = uncertainty.Uniform{Lower: u.Lower * fraction, Upper: u.Upper * fraction}
	case uncertainty.Normal:
		out.Uncertainty = uncertainty.Normal{Mu: u.Mu * fraction, Sigma: u.Sigma * fraction}
	case uncertainty.Lognormal:
		out.Uncertainty = uncertainty.Lognormal{Mu: u.Mu + math.Log(fraction), Sigma: u.Sigma}
	default:
		return umis.Value{}, fmt.Errorf("value %q: %T: %w", v.ID, u, ErrUnknownDistribution)
	}

	return out, nil
}
