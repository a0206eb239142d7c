package fixtures

import (
	"context"
	"testing"

	"github.com/arthur-debert/dsfixtures/pkg/platform"
	"github.com/arthur-debert/dsfixtures/pkg/types"
)

// Dataset is re-exported so test files only need this package.
type Dataset = types.Dataset

// Suite binds a store, a platform probe and a skip policy so go tests can
// apply the wrappers without repeating them.
//
//	var suite = fixtures.NewSuite(store, platform.Runtime)
//
//	func TestPurge(t *testing.T) {
//	    t.Run("starts clean", suite.DropDatasets(func(t *testing.T) { ... }))
//	}
type Suite struct {
	Store   types.Store
	Probe   platform.Probe
	Options []Option

	// SkipPlatform is the platform Skip refuses to run on. Empty disables
	// skipping.
	SkipPlatform string
	// SkipReason is carried by Skip's skip signal. Empty means the SkipOn
	// default.
	SkipReason string
}

// NewSuite returns a Suite whose skip policy is SkipWindows'. A nil probe
// means platform.Runtime.
func NewSuite(store types.Store, probe platform.Probe, opts ...Option) *Suite {
	if probe == nil {
		probe = platform.Runtime
	}
	return &Suite{
		Store:        store,
		Probe:        probe,
		Options:      opts,
		SkipPlatform: platform.Windows,
		SkipReason:   WindowsSkipReason,
	}
}

// DropDatasets wraps fn with the isolation purge.
func (s *Suite) DropDatasets(fn func(t *testing.T)) func(*testing.T) {
	wrapped := DropDatasets(s.Store, Test(fn), s.Options...)
	return func(t *testing.T) {
		t.Helper()
		Run(t, wrapped)
	}
}

// DropAsyncDataset wraps fn with a scoped persistent dataset.
func (s *Suite) DropAsyncDataset(fn func(ctx context.Context, t *testing.T, ds *Dataset)) func(*testing.T) {
	wrapped := DropAsyncDataset(s.Store, AsyncTest(fn), s.Options...)
	return func(t *testing.T) {
		t.Helper()
		Run(t, wrapped)
	}
}

// SkipWindows skips fn when the probe reports Windows.
func (s *Suite) SkipWindows(fn func(t *testing.T)) func(*testing.T) {
	wrapped := SkipWindows(s.Probe, Test(fn), s.Options...)
	return func(t *testing.T) {
		t.Helper()
		Run(t, wrapped)
	}
}

// Skip applies the suite's skip policy to fn.
func (s *Suite) Skip(fn func(t *testing.T)) func(*testing.T) {
	wrapped := Test(fn)
	if s.SkipPlatform != "" {
		opts := s.Options
		if s.SkipReason != "" {
			opts = append([]Option{WithReason(s.SkipReason)}, opts...)
		}
		wrapped = SkipOn(s.Probe, s.SkipPlatform, wrapped, opts...)
	}
	return func(t *testing.T) {
		t.Helper()
		Run(t, wrapped)
	}
}

// WouldSkip reports whether Skip skips its body when the probe reports name.
func (s *Suite) WouldSkip(name string) bool {
	return s.SkipPlatform != "" && name == s.SkipPlatform
}
