// Package backend opens the dataset store selected by configuration.
package backend

import (
	"context"

	"github.com/arthur-debert/dsfixtures/pkg/config"
	"github.com/arthur-debert/dsfixtures/pkg/datastore"
	"github.com/arthur-debert/dsfixtures/pkg/datastore/sqlite"
	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/logging"
	"github.com/arthur-debert/dsfixtures/pkg/paths"
	"github.com/arthur-debert/dsfixtures/pkg/types"
)

// Open returns the catalog for cfg.Store. The caller must Close it.
func Open(ctx context.Context, cfg *config.Config) (types.Catalog, error) {
	logger := logging.GetLogger("datastore.backend")
	opts := cfg.DatastoreOptions()

	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Debug().Msg("Using in-memory dataset store")
		return datastore.NewMemory(opts), nil
	case config.BackendSQLite:
		path := DatabasePath(cfg)
		logger.Debug().Str("path", path).Msg("Using sqlite dataset store")
		store, err := sqlite.Open(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.Newf(errors.ErrConfigValid, "unknown store backend %q", cfg.Store.Backend).
			WithDetail("backend", cfg.Store.Backend)
	}
}

// DatabasePath is the sqlite file cfg points at.
func DatabasePath(cfg *config.Config) string {
	if cfg.Store.Path != "" {
		return paths.ExpandHome(cfg.Store.Path)
	}
	return paths.DefaultDatabasePath()
}
