package fixtures

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/types"
)

// ErrBodyExited is returned when an async body ends through runtime.Goexit,
// typically t.FailNow called from the body's goroutine.
var ErrBodyExited = errors.New(errors.ErrFixtureBodyExited, "fixture body exited without returning")

// cancelGrace bounds how long a cancelled wrapper still waits for the body.
var cancelGrace = 50 * time.Millisecond

type outcome struct {
	err      error
	panicked bool
	value    any
}

// DropAsyncDataset returns a body that creates a dataset, marks it
// persistent, runs fn with it on a separate goroutine and deletes it once fn
// is over.
//
// Exit paths, all of which delete the dataset first:
//   - fn returns nil: the wrapper returns nil.
//   - fn returns err: the wrapper returns err itself.
//   - fn panics: the wrapper panics with the same value.
//   - fn calls runtime.Goexit: the wrapper returns ErrBodyExited.
//   - ctx is cancelled while fn runs: the wrapper gives fn a short grace
//     period to report, then stops waiting and returns ctx.Err(). A result
//     fn delivers within the grace period is returned as usual.
//
// A failed delete is coded FIXTURE_TEARDOWN. After a body error both are
// returned via errors.Join; after a panic the delete error is logged and the
// panic wins.
func DropAsyncDataset[T any](store types.Store, fn AsyncFunc[T], opts ...Option) Func[T] {
	o := buildOptions(opts)
	return func(ctx context.Context, t T) error {
		tr := newTracker(WrapperDropAsyncDataset, o)

		tr.to(Setup)
		ds, err := store.Create(ctx)
		if err != nil {
			return tr.finish(errors.Wrap(err, errors.ErrFixtureSetup, "create fixture dataset"))
		}
		if err := store.SetPersistent(ctx, ds, true); err != nil {
			setupErr := errors.Wrapf(err, errors.ErrFixtureSetup, "mark %s persistent", ds.Name)
			if delErr := store.Delete(context.WithoutCancel(ctx), ds); delErr != nil {
				setupErr = stderrors.Join(setupErr, errors.Wrapf(delErr, errors.ErrFixtureTeardown, "delete fixture dataset %s", ds.Name))
			}
			return tr.finish(setupErr)
		}
		logger := o.logger.With().Str("dataset", ds.Name).Logger()
		logger.Debug().Msg("Fixture dataset ready")

		tr.to(Running)
		res := await(ctx, t, ds, fn)

		tr.to(Cleanup)
		var teardownErr error
		if err := store.Delete(context.WithoutCancel(ctx), ds); err != nil {
			teardownErr = errors.Wrapf(err, errors.ErrFixtureTeardown, "delete fixture dataset %s", ds.Name)
		} else {
			logger.Debug().Msg("Fixture dataset deleted")
		}

		if res.panicked {
			if teardownErr != nil {
				logger.Error().Err(teardownErr).Msg("Teardown failed while the fixture body panicked")
			}
			tr.to(DoneError)
			panic(res.value)
		}

		switch {
		case teardownErr == nil:
			return tr.finish(res.err)
		case res.err == nil:
			return tr.finish(teardownErr)
		default:
			return tr.finish(stderrors.Join(res.err, teardownErr))
		}
	}
}

// await runs fn on its own goroutine and waits for it or for ctx.
func await[T any](ctx context.Context, t T, ds *types.Dataset, fn AsyncFunc[T]) outcome {
	// buffered so an abandoned body can still deliver and exit
	done := make(chan outcome, 1)
	go func() {
		var (
			res      outcome
			returned bool
		)
		defer func() {
			if r := recover(); r != nil {
				res = outcome{panicked: true, value: r}
			} else if !returned {
				res = outcome{err: ErrBodyExited}
			}
			done <- res
		}()
		res.err = fn(ctx, t, ds)
		returned = true
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		// a body that is already returning still owns the outcome
		grace := time.NewTimer(cancelGrace)
		defer grace.Stop()
		select {
		case res := <-done:
			return res
		case <-grace.C:
			return outcome{err: ctx.Err()}
		}
	}
}
