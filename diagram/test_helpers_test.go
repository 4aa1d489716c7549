package diagram_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stafkit/bayesumis/diagram"
	"github.com/stafkit/bayesumis/umis"
	"github.com/stafkit/bayesumis/uncertainty"
)

// harness builds diagram components against one shared reference scope,
// so tests declare topology instead of plumbing.
type harness struct {
	t *testing.T

	s1, s2   umis.Space
	material umis.Material
	tf       umis.Timeframe
	ref      umis.Reference
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:        t,
		s1:       umis.Space{ID: "s1", Name: "Bristol"},
		s2:       umis.Space{ID: "s2", Name: "Bath"},
		material: umis.Material{ID: "m1", Code: "WAT", Name: "Water", ParentName: "parent"},
	}

	tf, err := umis.NewTimeframe("tf1", 2001, 2001)
	require.NoError(t, err)
	h.tf = tf
	h.ref = umis.Reference{OriginSpace: h.s1, DestinationSpace: h.s2, Timeframe: tf, Material: h.material}

	return h
}

func (h *harness) process(id string, space umis.Space, typ umis.ProcessType) *umis.Process {
	h.t.Helper()

	p, err := umis.NewProcess(id, "P"+id, "Process "+id, space, false, "parent", typ)
	require.NoError(h.t, err)

	return p
}

func (h *harness) normalValue(id string, mean, sd float64) umis.Value {
	h.t.Helper()

	u, err := uncertainty.NewNormal(mean, sd)
	require.NoError(h.t, err)
	v, err := umis.NewValue(id, &mean, u, "g")
	require.NoError(h.t, err)

	return v
}

// uniformValue builds a value with unknown magnitude: the uncertainty
// alone says what is known.
func (h *harness) uniformValue(id string, lower, upper float64) umis.Value {
	h.t.Helper()

	u, err := uncertainty.NewUniform(lower, upper)
	require.NoError(h.t, err)
	v, err := umis.NewValue(id, nil, u, "g")
	require.NoError(h.t, err)

	return v
}

func (h *harness) flow(id string, origin, destination *umis.Process, v umis.Value) *umis.Flow {
	h.t.Helper()

	f, err := umis.NewFlow(id, "Flow "+id, h.ref, map[string]umis.Value{h.material.ID: v}, origin, destination)
	require.NoError(h.t, err)

	return f
}

func (h *harness) stock(id string, typ umis.StockType, processID string, v umis.Value) *umis.Stock {
	h.t.Helper()

	s, err := umis.NewStock(id, "Stock "+id, h.ref, typ, map[string]umis.Value{h.material.ID: v}, processID)
	require.NoError(h.t, err)

	return s
}

// chainFixture is the canonical four-process diagram used across the
// diagram and mathmodel tests:
//
//	extT ⇒ pd1 → pt1 → pd2 ⇒ extT2
//	         ↘ pt2 (Net stock) ⇒ extD3
//
// Registered processes: pd1, pd2 (Distribution) and pt1, pt2
// (Transformation) — balanced. extT, extT2 and extD3 stay outside.
type chainFixture struct {
	diagram *diagram.Diagram

	pd1, pt1, pt2, pd2 *umis.Process

	inflow, f2, f3, f4, out1, out2 *umis.Flow
	stock                          *umis.Stock
}

func buildChainFixture(t *testing.T) *chainFixture {
	t.Helper()

	h := newHarness(t)
	fx := &chainFixture{}

	extT := h.process("x1", h.s2, umis.Transformation)
	extT2 := h.process("x2", h.s2, umis.Transformation)
	extD3 := h.process("x3", h.s2, umis.Distribution)

	fx.pd1 = h.process("1", h.s1, umis.Distribution)
	fx.pt1 = h.process("2", h.s1, umis.Transformation)
	fx.pt2 = h.process("3", h.s1, umis.Transformation)
	fx.pd2 = h.process("4", h.s1, umis.Distribution)

	fx.inflow = h.flow("f1", extT, fx.pd1, h.normalValue("v1", 100, 10))
	fx.f2 = h.flow("f2", fx.pd1, fx.pt1, h.normalValue("v2", 70, 7))
	fx.f3 = h.flow("f3", fx.pd1, fx.pt2, h.uniformValue("v3", 0, 150))
	fx.f4 = h.flow("f4", fx.pt1, fx.pd2, h.normalValue("v4", 50, 5))
	fx.out1 = h.flow("f5", fx.pd2, extT2, h.uniformValue("v5", 0, 150))
	fx.out2 = h.flow("f6", fx.pt2, extD3, h.uniformValue("v6", 0, 150))

	fx.stock = h.stock("st1", umis.Net, fx.pt2.ID, h.normalValue("v7", 20, 0.5))

	d, err := diagram.Build(
		[]*umis.Flow{fx.inflow},
		[]*umis.Flow{fx.f2, fx.f3, fx.f4},
		[]*umis.Flow{fx.out1, fx.out2},
		[]*umis.Stock{fx.stock},
	)
	require.NoError(t, err)
	fx.diagram = d

	return fx
}
