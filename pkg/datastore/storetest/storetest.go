// Package storetest is a conformance suite for types.Catalog implementations.
// Every backend runs the same cases so fixture wrappers behave identically
// whichever store a test environment hands them.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/dsfixtures/pkg/datastore"
	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory opens a fresh, empty store for one test.
type Factory func(t *testing.T, opts datastore.Options) types.Catalog

// SequentialOptions returns options producing "test-0001", "test-0002", ...
// with creation times one second apart starting at base.
func SequentialOptions(base time.Time) datastore.Options {
	var (
		mu    sync.Mutex
		n     int
		clock = base
	)
	return datastore.Options{
		Prefix: "test",
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("%04d", n)
		},
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			clock = clock.Add(time.Second)
			return clock
		},
	}
}

// Run executes the conformance suite against stores built by factory.
func Run(t *testing.T, factory Factory) {
	base := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	open := func(t *testing.T) types.Catalog {
		t.Helper()
		store := factory(t, SequentialOptions(base))
		t.Cleanup(func() { _ = store.Close() })
		return store
	}
	ctx := context.Background()

	t.Run("create assigns unique non-persistent datasets", func(t *testing.T) {
		store := open(t)

		a, err := store.Create(ctx)
		require.NoError(t, err)
		b, err := store.Create(ctx)
		require.NoError(t, err)

		assert.Equal(t, "test-0001", a.Name)
		assert.Equal(t, "test-0002", b.Name)
		assert.False(t, a.Persistent)
		assert.False(t, b.Persistent)
		assert.True(t, b.CreatedAt.After(a.CreatedAt))
	})

	t.Run("set persistent updates store and value", func(t *testing.T) {
		store := open(t)
		ds, err := store.Create(ctx)
		require.NoError(t, err)

		require.NoError(t, store.SetPersistent(ctx, ds, true))
		assert.True(t, ds.Persistent)

		got, err := store.Get(ctx, ds.Name)
		require.NoError(t, err)
		assert.True(t, got.Persistent)

		require.NoError(t, store.SetPersistent(ctx, ds, false))
		got, err = store.Get(ctx, ds.Name)
		require.NoError(t, err)
		assert.False(t, got.Persistent)
	})

	t.Run("set persistent on missing dataset", func(t *testing.T) {
		store := open(t)

		err := store.SetPersistent(ctx, &types.Dataset{Name: "ghost"}, true)
		assert.True(t, errors.IsErrorCode(err, errors.ErrDatasetNotFound), "got %v", err)
	})

	t.Run("delete removes dataset and samples", func(t *testing.T) {
		store := open(t)
		ds, err := store.Create(ctx)
		require.NoError(t, err)
		require.NoError(t, store.AddSample(ctx, ds, "/data/a.jpg"))
		require.NoError(t, store.AddSample(ctx, ds, "/data/b.jpg"))

		n, err := store.CountSamples(ctx, ds)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.NoError(t, store.Delete(ctx, ds))

		_, err = store.Get(ctx, ds.Name)
		assert.True(t, errors.IsErrorCode(err, errors.ErrDatasetNotFound))
		_, err = store.CountSamples(ctx, ds)
		assert.True(t, errors.IsErrorCode(err, errors.ErrDatasetNotFound))

		list, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("delete missing dataset", func(t *testing.T) {
		store := open(t)

		err := store.Delete(ctx, &types.Dataset{Name: "ghost"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrDatasetNotFound), "got %v", err)
	})

	t.Run("nil and unnamed datasets are rejected", func(t *testing.T) {
		store := open(t)

		assert.True(t, errors.IsErrorCode(store.Delete(ctx, nil), errors.ErrInvalidInput))
		assert.True(t, errors.IsErrorCode(store.SetPersistent(ctx, &types.Dataset{}, true), errors.ErrInvalidInput))
	})

	t.Run("purge keeps persistent datasets", func(t *testing.T) {
		store := open(t)
		keep, err := store.Create(ctx)
		require.NoError(t, err)
		require.NoError(t, store.SetPersistent(ctx, keep, true))
		drop, err := store.Create(ctx)
		require.NoError(t, err)
		require.NoError(t, store.AddSample(ctx, drop, "/data/c.jpg"))

		require.NoError(t, store.DeleteNonPersistent(ctx))

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, keep.Name, list[0].Name)
		assert.True(t, list[0].Persistent)
		assert.Equal(t, keep.CreatedAt, list[0].CreatedAt)
		assert.Empty(t, types.FilterDatasets(list, false))
	})

	t.Run("purge is idempotent", func(t *testing.T) {
		store := open(t)

		require.NoError(t, store.DeleteNonPersistent(ctx))
		require.NoError(t, store.DeleteNonPersistent(ctx))

		list, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("purge reports removed count", func(t *testing.T) {
		store := open(t)
		for i := 0; i < 3; i++ {
			_, err := store.Create(ctx)
			require.NoError(t, err)
		}
		keep, err := store.Create(ctx)
		require.NoError(t, err)
		require.NoError(t, store.SetPersistent(ctx, keep, true))

		removed, err := store.Purge(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, removed)

		removed, err = store.Purge(ctx)
		require.NoError(t, err)
		assert.Zero(t, removed)

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, keep.Name, list[0].Name)
	})

	t.Run("list orders by creation", func(t *testing.T) {
		store := open(t)
		var names []string
		for i := 0; i < 3; i++ {
			ds, err := store.Create(ctx)
			require.NoError(t, err)
			names = append(names, ds.Name)
		}

		list, err := store.List(ctx)
		require.NoError(t, err)
		var got []string
		for _, ds := range list {
			got = append(got, ds.Name)
		}
		assert.Equal(t, names, got)
	})

	t.Run("cancelled context", func(t *testing.T) {
		store := open(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.Create(cctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, store.DeleteNonPersistent(cctx), context.Canceled)
		_, err = store.Purge(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
