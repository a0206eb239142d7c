package fixtures

import (
	"context"

	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/types"
)

// DropDatasets returns a body that deletes every non-persistent dataset
// from store before calling fn. fn's error is returned unchanged and a panic
// in fn propagates untouched. A failed purge is returned coded
// FIXTURE_SETUP and fn is not called.
func DropDatasets[T any](store types.Store, fn Func[T], opts ...Option) Func[T] {
	o := buildOptions(opts)
	return func(ctx context.Context, t T) error {
		tr := newTracker(WrapperDropDatasets, o)
		// no-op unless fn panicked
		defer tr.to(DoneError)

		tr.to(Setup)
		if err := store.DeleteNonPersistent(ctx); err != nil {
			return tr.finish(errors.Wrap(err, errors.ErrFixtureSetup, "delete non-persistent datasets"))
		}

		tr.to(Running)
		return tr.finish(fn(ctx, t))
	}
}

// IsolateWith is DropDatasets as a Decorator.
func IsolateWith[T any](store types.Store, opts ...Option) Decorator[T] {
	return func(fn Func[T]) Func[T] {
		return DropDatasets(store, fn, opts...)
	}
}
