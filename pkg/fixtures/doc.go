// Package fixtures wraps test bodies with dataset lifecycle policies.
//
// Three wrappers are provided, each a higher-order function returning a
// replacement body of the same shape:
//
//   - DropDatasets purges every non-persistent dataset from the store and
//     then runs the body.
//   - DropAsyncDataset creates a fresh persistent dataset, runs the body on
//     its own goroutine with that dataset, and deletes the dataset on every
//     exit path (return, error, panic, cancellation).
//   - SkipOn / SkipWindows return a *SkipError instead of running the body
//     when the platform probe reports the disallowed platform.
//
// Bodies are Func values, func(ctx, t) error, where t is whatever receiver
// the caller threads through (*testing.T, a suite struct, ...). Run and
// RunCases bridge wrapped bodies into go test:
//
//	func TestExport(t *testing.T) {
//	    store := datastore.NewMemory(datastore.Options{})
//	    fixtures.Run(t, fixtures.DropDatasets(store, func(ctx context.Context, t *testing.T) error {
//	        // store holds no non-persistent datasets here
//	        return nil
//	    }))
//	}
//
// The store-wide purge performed by DropDatasets is not scoped to a test.
// Tests sharing one store must not run in parallel; give each parallel
// worker its own store instead.
package fixtures
