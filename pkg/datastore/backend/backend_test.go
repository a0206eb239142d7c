package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dsfixtures/pkg/config"
	"github.com/arthur-debert/dsfixtures/pkg/datastore"
	"github.com/arthur-debert/dsfixtures/pkg/datastore/sqlite"
	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Backend = config.BackendMemory
		cfg.Store.Prefix = "mem"

		store, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		assert.IsType(t, &datastore.MemoryStore{}, store)
		ds, err := store.Create(ctx)
		require.NoError(t, err)
		assert.Regexp(t, `^mem-`, ds.Name)
	})

	t.Run("sqlite_explicit_path", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Backend = config.BackendSQLite
		cfg.Store.Path = filepath.Join(t.TempDir(), "explicit.db")

		store, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		assert.IsType(t, &sqlite.Store{}, store)
		assert.FileExists(t, cfg.Store.Path)
	})

	t.Run("sqlite_default_path", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "data")
		t.Setenv(paths.EnvDataDir, dataDir)
		cfg := config.Default()
		cfg.Store.Backend = config.BackendSQLite

		store, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		assert.FileExists(t, filepath.Join(dataDir, paths.DatabaseFile))
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Backend = "etcd"

		_, err := Open(ctx, cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})
}

func TestDatabasePath(t *testing.T) {
	t.Setenv(paths.EnvDataDir, "/var/lib/dsfixtures")
	cfg := config.Default()

	assert.Equal(t, filepath.Join("/var/lib/dsfixtures", paths.DatabaseFile), DatabasePath(cfg))

	cfg.Store.Path = "/srv/custom.db"
	assert.Equal(t, "/srv/custom.db", DatabasePath(cfg))
}
