package fixtures

import (
	"context"

	"github.com/arthur-debert/dsfixtures/pkg/types"
)

// Func is a synchronous test body. T is the receiver handed in by the
// runner, usually *testing.T.
type Func[T any] func(ctx context.Context, t T) error

// AsyncFunc is a body that needs a fixture dataset. It runs on its own
// goroutine and receives the dataset after the receiver.
type AsyncFunc[T any] func(ctx context.Context, t T, ds *types.Dataset) error

// Decorator turns one Func into another of the same shape.
type Decorator[T any] func(Func[T]) Func[T]
