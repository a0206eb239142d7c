package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dsfixtures/pkg/datastore"
	"github.com/arthur-debert/dsfixtures/pkg/datastore/sqlite"
	"github.com/arthur-debert/dsfixtures/pkg/fixtures"
	"github.com/arthur-debert/dsfixtures/pkg/paths"
	"github.com/arthur-debert/dsfixtures/pkg/platform"
	"github.com/arthur-debert/dsfixtures/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // In-memory dataset store
	EnvIsolated                  // SQLite store in a temp directory
)

// TestEnvironment provides a complete test environment with all dependencies
type TestEnvironment struct {
	// Core dependencies
	Store types.Catalog
	Probe platform.Probe
	Suite *fixtures.Suite

	// Platform is what Probe reports; change it to simulate another host.
	Platform string

	// Set for EnvIsolated only
	DataDir string
	DBPath  string

	Type EnvType

	t       *testing.T
	cleanup []func()
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:        t,
		Type:     envType,
		Platform: "Linux",
	}
	env.Probe = platform.ProbeFunc(func() string { return env.Platform })

	switch envType {
	case EnvMemoryOnly:
		env.Store = datastore.NewMemory(datastore.Options{})
	case EnvIsolated:
		env.setupIsolatedEnvironment()
	default:
		t.Fatalf("unknown environment type %d", envType)
	}

	env.Suite = fixtures.NewSuite(env.Store, env.Probe)
	env.AddCleanup(func() { _ = env.Store.Close() })

	t.Cleanup(env.Cleanup)

	return env
}

// setupIsolatedEnvironment opens a SQLite store under a temp data directory
func (env *TestEnvironment) setupIsolatedEnvironment() {
	env.t.Helper()

	tempDir := env.t.TempDir()
	env.DataDir = filepath.Join(tempDir, "data")
	env.t.Setenv(paths.EnvDataDir, env.DataDir)
	env.t.Setenv(paths.EnvStateDir, filepath.Join(tempDir, "state"))

	env.DBPath = paths.DefaultDatabasePath()
	store, err := sqlite.Open(context.Background(), env.DBPath, datastore.Options{})
	if err != nil {
		env.t.Fatalf("Failed to open sqlite store: %v", err)
	}
	env.Store = store
}

// AddCleanup registers fn to run when the test ends, in LIFO order
func (env *TestEnvironment) AddCleanup(fn func()) {
	env.cleanup = append(env.cleanup, fn)
}

// Cleanup performs environment cleanup
func (env *TestEnvironment) Cleanup() {
	for i := len(env.cleanup) - 1; i >= 0; i-- {
		env.cleanup[i]()
	}
	env.cleanup = nil
}

// Seed creates one dataset per entry in persistent, flagged accordingly,
// and returns them in the same order.
func (env *TestEnvironment) Seed(persistent ...bool) []*types.Dataset {
	env.t.Helper()
	ctx := context.Background()

	out := make([]*types.Dataset, 0, len(persistent))
	for _, p := range persistent {
		ds, err := env.Store.Create(ctx)
		if err != nil {
			env.t.Fatalf("Failed to seed dataset: %v", err)
		}
		if p {
			if err := env.Store.SetPersistent(ctx, ds, true); err != nil {
				env.t.Fatalf("Failed to mark %s persistent: %v", ds.Name, err)
			}
		}
		out = append(out, ds)
	}
	return out
}

// Names lists the names currently in the store.
func (env *TestEnvironment) Names() []string {
	env.t.Helper()

	list, err := env.Store.List(context.Background())
	if err != nil {
		env.t.Fatalf("Failed to list datasets: %v", err)
	}
	names := make([]string, 0, len(list))
	for _, ds := range list {
		names = append(names, ds.Name)
	}
	return names
}

// Exists reports whether a dataset named name is in the store.
func (env *TestEnvironment) Exists(name string) bool {
	env.t.Helper()
	for _, n := range env.Names() {
		if n == name {
			return true
		}
	}
	return false
}
