package mathmodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stafkit/bayesumis/diagram"
	"github.com/stafkit/bayesumis/umis"
	"github.com/stafkit/bayesumis/uncertainty"
)

// harness builds diagram components against one shared reference scope.
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

	return h.flowOf(id, h.material, h.ref, origin, destination, v)
}

// flowOf builds a flow measured in an arbitrary material and scope.
func (h *harness) flowOf(id string, m umis.Material, ref umis.Reference, origin, destination *umis.Process, v umis.Value) *umis.Flow {
	h.t.Helper()

	f, err := umis.NewFlow(id, "Flow "+id, ref, map[string]umis.Value{m.ID: v}, origin, destination)
	require.NoError(h.t, err)

	return f
}

func (h *harness) stock(id string, typ umis.StockType, processID string, v umis.Value) *umis.Stock {
	h.t.Helper()

	s, err := umis.NewStock(id, "Stock "+id, h.ref, typ, map[string]umis.Value{h.material.ID: v}, processID)
	require.NoError(h.t, err)

	return s
}

// chainFixture is the canonical four-process chain:
//
//	extT ⇒ pd1 → pt1 → pd2 ⇒ extT2
//	         ↘ pt2 (Net stock 20±0.5) ⇒ extD3
//
// Model-side ids: pd1 = 1_s1, pt1 = 2_s1, pt2 = 3_s1, pd2 = 4_s1;
// the outside endpoints become storage nodes x2_s2 and x3_s2, and the
// stock drains into 3_s1_STORAGE.
type chainFixture struct {
	diagram *diagram.Diagram
	harness *harness
}

func buildChainFixture(t *testing.T) *chainFixture {
	t.Helper()

	h := newHarness(t)

	extT := h.process("x1", h.s2, umis.Transformation)
	extT2 := h.process("x2", h.s2, umis.Transformation)
	extD3 := h.process("x3", h.s2, umis.Distribution)

	pd1 := h.process("1", h.s1, umis.Distribution)
	pt1 := h.process("2", h.s1, umis.Transformation)
	pt2 := h.process("3", h.s1, umis.Transformation)
	pd2 := h.process("4", h.s1, umis.Distribution)

	inflow := h.flow("f1", extT, pd1, h.normalValue("v1", 100, 10))
	f2 := h.flow("f2", pd1, pt1, h.normalValue("v2", 70, 7))
	f3 := h.flow("f3", pd1, pt2, h.uniformValue("v3", 0, 150))
	f4 := h.flow("f4", pt1, pd2, h.normalValue("v4", 50, 5))
	out1 := h.flow("f5", pd2, extT2, h.uniformValue("v5", 0, 150))
	out2 := h.flow("f6", pt2, extD3, h.uniformValue("v6", 0, 150))

	stock := h.stock("st1", umis.Net, pt2.ID, h.normalValue("v7", 20, 0.5))

	d, err := diagram.Build(
		[]*umis.Flow{inflow},
		[]*umis.Flow{f2, f3, f4},
		[]*umis.Flow{out1, out2},
		[]*umis.Stock{stock},
	)
	require.NoError(t, err)

	return &chainFixture{diagram: d, harness: h}
}
