// Package sqlite provides a SQLite-backed dataset store.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/dsfixtures/pkg/datastore"
	"github.com/arthur-debert/dsfixtures/pkg/datastore/sqlite/migrations"
	"github.com/arthur-debert/dsfixtures/pkg/datastore/sqlitemigrate"
	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/logging"
	"github.com/arthur-debert/dsfixtures/pkg/types"
	"github.com/rs/zerolog"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// createAttempts bounds retries when a generated name collides.
const createAttempts = 3

// Store persists datasets and their samples in SQLite.
type Store struct {
	sqlDB *sql.DB
	opts  datastore.Options
	log   zerolog.Logger
}

var _ types.Catalog = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the database at path and applies the
// embedded schema. MemoryPath gives a throwaway database.
func Open(ctx context.Context, path string, opts datastore.Options) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New(errors.ErrStoreOpen, "storage path is required")
	}

	dsn := MemoryPath
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrStoreOpen, "create directory for %s", path)
		}
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"
	} else {
		dsn += "?_pragma=foreign_keys(1)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreOpen, "open sqlite db %s", path)
	}
	if path == MemoryPath {
		// every pooled connection would otherwise get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrapf(err, errors.ErrStoreOpen, "ping sqlite db %s", path)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, errors.ErrStoreOpen, "run migrations")
	}

	logger := logging.GetLogger("datastore.sqlite")
	logger.Debug().Str("path", path).Msg("Opened sqlite dataset store")

	return &Store{sqlDB: sqlDB, opts: opts.WithDefaults(), log: logger}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return errors.New(errors.ErrStoreOpen, "storage is not configured")
	}
	return nil
}

func (s *Store) DeleteNonPersistent(ctx context.Context) error {
	_, err := s.Purge(ctx)
	return err
}

func (s *Store) Purge(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, errors.Wrap(err, errors.ErrDatasetPurge, "delete non-persistent datasets")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrDatasetPurge, "begin purge")
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM samples WHERE dataset IN (SELECT name FROM datasets WHERE persistent = 0)`,
	); err != nil {
		_ = tx.Rollback()
		return 0, errors.Wrap(err, errors.ErrDatasetPurge, "delete samples")
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE persistent = 0`)
	if err != nil {
		_ = tx.Rollback()
		return 0, errors.Wrap(err, errors.ErrDatasetPurge, "delete datasets")
	}
	removed, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, errors.Wrap(err, errors.ErrDatasetPurge, "count purged datasets")
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, errors.ErrDatasetPurge, "commit purge")
	}

	s.log.Debug().Int64("removed", removed).Msg("Purged non-persistent datasets")
	return int(removed), nil
}

func (s *Store) Create(ctx context.Context) (*types.Dataset, error) {
	if err := s.ready(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrDatasetCreate, "create dataset")
	}

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		ds := types.Dataset{Name: s.opts.NextName(), CreatedAt: s.opts.Now().UTC()}
		_, err := s.sqlDB.ExecContext(ctx,
			`INSERT INTO datasets (name, persistent, created_at) VALUES (?, 0, ?)`,
			ds.Name, toMillis(ds.CreatedAt),
		)
		if err == nil {
			// round-trip precision so the value matches what List returns
			ds.CreatedAt = fromMillis(toMillis(ds.CreatedAt))
			s.log.Debug().Str("dataset", ds.Name).Msg("Created dataset")
			return &ds, nil
		}
		if !isUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.ErrDatasetCreate, "insert dataset")
		}
		lastErr = err
	}
	return nil, errors.Wrap(lastErr, errors.ErrDatasetCreate, "could not generate a unique dataset name")
}

func (s *Store) SetPersistent(ctx context.Context, ds *types.Dataset, persistent bool) error {
	if err := datastore.RequireDataset(ds); err != nil {
		return err
	}
	if err := s.ready(ctx); err != nil {
		return errors.Wrapf(err, errors.ErrDatasetUpdate, "set persistent on %s", ds.Name)
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE datasets SET persistent = ? WHERE name = ?`,
		boolToInt(persistent), ds.Name,
	)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDatasetUpdate, "set persistent on %s", ds.Name)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return datastore.NotFound(ds.Name)
	}
	ds.Persistent = persistent
	return nil
}

func (s *Store) Delete(ctx context.Context, ds *types.Dataset) error {
	if err := datastore.RequireDataset(ds); err != nil {
		return err
	}
	if err := s.ready(ctx); err != nil {
		return errors.Wrapf(err, errors.ErrDatasetDelete, "delete %s", ds.Name)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDatasetDelete, "delete %s", ds.Name)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM samples WHERE dataset = ?`, ds.Name); err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(err, errors.ErrDatasetDelete, "delete samples of %s", ds.Name)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, ds.Name)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(err, errors.ErrDatasetDelete, "delete %s", ds.Name)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return datastore.NotFound(ds.Name)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, errors.ErrDatasetDelete, "commit delete of %s", ds.Name)
	}
	s.log.Debug().Str("dataset", ds.Name).Msg("Deleted dataset")
	return nil
}

func (s *Store) List(ctx context.Context) ([]types.Dataset, error) {
	if err := s.ready(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreQuery, "list datasets")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, persistent, created_at FROM datasets ORDER BY created_at, name`,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreQuery, "list datasets")
	}
	defer rows.Close()

	out := []types.Dataset{}
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrStoreQuery, "scan dataset")
		}
		out = append(out, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreQuery, "iterate datasets")
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, name string) (*types.Dataset, error) {
	if err := s.ready(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreQuery, "get dataset")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT name, persistent, created_at FROM datasets WHERE name = ?`, name,
	)
	ds, err := scanDataset(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, datastore.NotFound(name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreQuery, "get dataset %s", name)
	}
	return &ds, nil
}

func (s *Store) AddSample(ctx context.Context, ds *types.Dataset, filepath string) error {
	if err := datastore.RequireDataset(ds); err != nil {
		return err
	}
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := s.Get(ctx, ds.Name); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO samples (dataset, filepath, created_at) VALUES (?, ?, ?)`,
		ds.Name, filepath, toMillis(s.opts.Now()),
	); err != nil {
		return errors.Wrapf(err, errors.ErrDatasetUpdate, "add sample to %s", ds.Name)
	}
	return nil
}

func (s *Store) CountSamples(ctx context.Context, ds *types.Dataset) (int, error) {
	if err := datastore.RequireDataset(ds); err != nil {
		return 0, err
	}
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if _, err := s.Get(ctx, ds.Name); err != nil {
		return 0, err
	}
	var n int
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM samples WHERE dataset = ?`, ds.Name,
	).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, errors.ErrStoreQuery, "count samples of %s", ds.Name)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(row scanner) (types.Dataset, error) {
	var (
		ds         types.Dataset
		persistent int
		createdAt  int64
	)
	if err := row.Scan(&ds.Name, &persistent, &createdAt); err != nil {
		return types.Dataset{}, err
	}
	ds.Persistent = persistent != 0
	ds.CreatedAt = fromMillis(createdAt)
	return ds, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
