package sqlitemigrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query).Scan(&n))
	return n
}

func TestApplyRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
	}

	require.NoError(t, Apply(context.Background(), db, migrations, ""))

	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='items'"))
}

func TestApplyIsIdempotent(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte("CREATE TABLE items(id TEXT PRIMARY KEY);")},
		"002_seed.sql":   &fstest.MapFile{Data: []byte("INSERT INTO items(id) VALUES ('a');")},
	}

	require.NoError(t, Apply(context.Background(), db, migrations, ""))
	require.NoError(t, Apply(context.Background(), db, migrations, ""))

	assert.Equal(t, 2, countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM items"))
}

func TestApplyRequiresDB(t *testing.T) {
	assert.Error(t, Apply(context.Background(), nil, fstest.MapFS{}, ""))
}

func TestExtractUp(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no markers", "CREATE TABLE x(id);", "CREATE TABLE x(id);"},
		{"up only", "-- +migrate Up\nCREATE TABLE x(id);", "\nCREATE TABLE x(id);"},
		{"up and down", "-- +migrate Up\nA;\n-- +migrate Down\nB;", "\nA;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractUp(tt.content))
		})
	}
}
