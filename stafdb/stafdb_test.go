package stafdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafkit/bayesumis/stafdb"
	"github.com/stafkit/bayesumis/umis"
	"github.com/stafkit/bayesumis/uncertainty"
)

// eachStore runs a subtest against both Store implementations.
func eachStore(t *testing.T, run func(t *testing.T, store stafdb.Store)) {
	t.Helper()

	t.Run("mem", func(t *testing.T) {
		store := stafdb.NewMemStore()
		defer store.Close()
		run(t, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := stafdb.NewSQLStore(context.Background(), filepath.Join(t.TempDir(), "staf.db"))
		require.NoError(t, err)
		defer store.Close()
		run(t, store)
	})
}

// TestStore_RoundTrip persists one record of every kind and reads each
// back unchanged, on both store implementations.
func TestStore_RoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, store stafdb.Store) {
		ctx := context.Background()
		quantity := 100.0

		space := stafdb.SpaceRecord{ID: "s1", Name: "Bristol"}
		material := stafdb.MaterialRecord{ID: "m1", Code: "WAT", Name: "Water", ParentName: "parent"}
		timeframe := stafdb.TimeframeRecord{ID: "tf1", Start: 2001, End: 2001}
		process := stafdb.ProcessRecord{
			ID: "p1", Code: "P1", Name: "Process 1", SpaceID: "s1",
			ParentName: "parent", Type: "Transformation",
		}
		value := stafdb.ValueRecord{ID: "v1", Quantity: &quantity, Uncertainty: "Normal(100, 10)", Unit: "g"}
		staf := stafdb.StafRecord{
			ID: "f1", Kind: stafdb.KindFlow, Name: "Flow 1",
			OriginSpaceID: "s1", DestinationSpaceID: "s1", TimeframeID: "tf1", MaterialID: "m1",
			OriginProcessID: "p1", DestinationProcessID: "p2",
			ValueIDs: map[string]string{"m1": "v1"},
		}

		require.NoError(t, store.PutSpace(ctx, space))
		require.NoError(t, store.PutMaterial(ctx, material))
		require.NoError(t, store.PutTimeframe(ctx, timeframe))
		require.NoError(t, store.PutProcess(ctx, process))
		require.NoError(t, store.PutValue(ctx, value))
		require.NoError(t, store.PutStaf(ctx, staf))

		gotSpace, err := store.GetSpace(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, space, gotSpace)

		gotMaterial, err := store.GetMaterial(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, material, gotMaterial)

		gotTimeframe, err := store.GetTimeframe(ctx, "tf1")
		require.NoError(t, err)
		assert.Equal(t, timeframe, gotTimeframe)

		gotProcess, err := store.GetProcess(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, process, gotProcess)

		gotValue, err := store.GetValue(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, value, gotValue)

		gotStaf, err := store.GetStaf(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, staf, gotStaf)
	})
}

// TestStore_NilQuantity verifies an unknown magnitude survives storage
// as nil, not zero.
func TestStore_NilQuantity(t *testing.T) {
	eachStore(t, func(t *testing.T, store stafdb.Store) {
		ctx := context.Background()

		require.NoError(t, store.PutValue(ctx, stafdb.ValueRecord{
			ID: "v1", Uncertainty: "Uniform(0, 150)", Unit: "g",
		}))

		got, err := store.GetValue(ctx, "v1")
		require.NoError(t, err)
		assert.Nil(t, got.Quantity)
	})
}

// TestStore_NotFoundAndDuplicate verifies the two failure modes of the
// Store contract.
func TestStore_NotFoundAndDuplicate(t *testing.T) {
	eachStore(t, func(t *testing.T, store stafdb.Store) {
		ctx := context.Background()

		_, err := store.GetSpace(ctx, "missing")
		assert.ErrorIs(t, err, stafdb.ErrNotFound)

		require.NoError(t, store.PutSpace(ctx, stafdb.SpaceRecord{ID: "s1", Name: "Bristol"}))
		err = store.PutSpace(ctx, stafdb.SpaceRecord{ID: "s1", Name: "Bath"})
		assert.ErrorIs(t, err, stafdb.ErrDuplicateID)
	})
}

// TestFactory_LoadDiagram drives the full path: mint records through
// the factory, resolve them through the loader, assemble the diagram.
func TestFactory_LoadDiagram(t *testing.T) {
	eachStore(t, func(t *testing.T, store stafdb.Store) {
		ctx := context.Background()
		factory := stafdb.NewFactory(store)

		space, err := factory.CreateSpace(ctx, "Bristol")
		require.NoError(t, err)
		water, err := factory.CreateMaterial(ctx, "WAT", "Water", "parent", false)
		require.NoError(t, err)
		tf, err := factory.CreateTimeframe(ctx, 2001, 2001)
		require.NoError(t, err)

		p1, err := factory.CreateProcess(ctx, "P1", "Process 1", space.ID, false, "parent", umis.Transformation)
		require.NoError(t, err)
		p2, err := factory.CreateProcess(ctx, "P2", "Process 2", space.ID, false, "parent", umis.Distribution)
		require.NoError(t, err)

		errModel, err := uncertainty.NewNormal(100, 10)
		require.NoError(t, err)
		quantity := 100.0
		flowValue, err := factory.CreateValue(ctx, &quantity, errModel, "g")
		require.NoError(t, err)

		stockModel, err := uncertainty.NewNormal(20, 0.5)
		require.NoError(t, err)
		level := 20.0
		stockValue, err := factory.CreateValue(ctx, &level, stockModel, "g")
		require.NoError(t, err)

		ref := stafdb.RefIDs{
			OriginSpaceID:      space.ID,
			DestinationSpaceID: space.ID,
			TimeframeID:        tf.ID,
			MaterialID:         water.ID,
		}
		flow, err := factory.CreateFlow(ctx, "Flow 1", ref, p1.ID, p2.ID,
			map[string]string{water.ID: flowValue.ID})
		require.NoError(t, err)
		stock, err := factory.CreateStock(ctx, "Stock 1", ref, p1.ID, umis.Net,
			map[string]string{water.ID: stockValue.ID})
		require.NoError(t, err)

		loader := stafdb.NewLoader(store)
		d, err := loader.LoadDiagram(ctx, nil, []string{flow.ID}, nil, []string{stock.ID})
		require.NoError(t, err)

		require.Len(t, d.Processes(), 2)

		origin, ok := d.Process(p1.ID + "_" + space.ID)
		require.True(t, ok)
		assert.Equal(t, umis.Transformation, origin.Type)

		held, ok := origin.Stock(umis.Net)
		require.True(t, ok)
		v, ok := held.Value(umis.Material{ID: water.ID})
		require.True(t, ok)
		require.NotNil(t, v.Quantity)
		assert.Equal(t, 20.0, *v.Quantity)

		flows := d.OutflowsOf(origin)
		require.Len(t, flows, 1)
		fv, ok := flows[0].Value(umis.Material{ID: water.ID})
		require.True(t, ok)
		assert.Equal(t, "Normal(100, 10)", fv.Uncertainty.String())
	})
}

// TestLoader_SharedEndpoints verifies two flows naming one process
// resolve to the same object, not two equal copies.
func TestLoader_SharedEndpoints(t *testing.T) {
	ctx := context.Background()
	store := stafdb.NewMemStore()
	factory := stafdb.NewFactory(store)

	space, err := factory.CreateSpace(ctx, "Bristol")
	require.NoError(t, err)
	water, err := factory.CreateMaterial(ctx, "WAT", "Water", "parent", false)
	require.NoError(t, err)
	tf, err := factory.CreateTimeframe(ctx, 2001, 2001)
	require.NoError(t, err)

	p1, err := factory.CreateProcess(ctx, "P1", "Process 1", space.ID, false, "parent", umis.Transformation)
	require.NoError(t, err)
	p2, err := factory.CreateProcess(ctx, "P2", "Process 2", space.ID, false, "parent", umis.Distribution)
	require.NoError(t, err)

	u, err := uncertainty.NewUniform(0, 150)
	require.NoError(t, err)
	v1, err := factory.CreateValue(ctx, nil, u, "g")
	require.NoError(t, err)
	v2, err := factory.CreateValue(ctx, nil, u, "g")
	require.NoError(t, err)

	ref := stafdb.RefIDs{
		OriginSpaceID:      space.ID,
		DestinationSpaceID: space.ID,
		TimeframeID:        tf.ID,
		MaterialID:         water.ID,
	}
	f1, err := factory.CreateFlow(ctx, "Flow 1", ref, p1.ID, p2.ID, map[string]string{water.ID: v1.ID})
	require.NoError(t, err)
	f2, err := factory.CreateFlow(ctx, "Flow 2", ref, p2.ID, p1.ID, map[string]string{water.ID: v2.ID})
	require.NoError(t, err)

	loader := stafdb.NewLoader(store)
	flow1, err := loader.Flow(ctx, f1.ID)
	require.NoError(t, err)
	flow2, err := loader.Flow(ctx, f2.ID)
	require.NoError(t, err)

	assert.Same(t, flow1.Origin(), flow2.Destination(), "one record, one object")
	assert.Same(t, flow1.Destination(), flow2.Origin())
}

// TestLoader_BadRecords verifies kind mismatches and unparseable
// uncertainties are loader failures, not silent defaults.
func TestLoader_BadRecords(t *testing.T) {
	ctx := context.Background()
	store := stafdb.NewMemStore()

	require.NoError(t, store.PutValue(ctx, stafdb.ValueRecord{
		ID: "v1", Uncertainty: "garbage", Unit: "g",
	}))
	require.NoError(t, store.PutStaf(ctx, stafdb.StafRecord{
		ID: "st1", Kind: stafdb.KindStock, Name: "Stock 1",
		ProcessID: "p1", StockType: "Net",
	}))

	loader := stafdb.NewLoader(store)

	_, err := loader.Value(ctx, "v1")
	assert.ErrorIs(t, err, stafdb.ErrBadRecord)

	_, err = loader.Flow(ctx, "st1")
	assert.ErrorIs(t, err, stafdb.ErrBadRecord)
}

// TestFactory_FreshIdentifiers verifies each created record gets its
// own identifier.
func TestFactory_FreshIdentifiers(t *testing.T) {
	ctx := context.Background()
	factory := stafdb.NewFactory(stafdb.NewMemStore())

	a, err := factory.CreateSpace(ctx, "Bristol")
	require.NoError(t, err)
	b, err := factory.CreateSpace(ctx, "Bristol")
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
