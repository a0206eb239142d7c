package fixtures

import (
	"context"
	"testing"

	"github.com/arthur-debert/dsfixtures/pkg/errors"
)

// Case is a named test body. Name and Doc survive wrapping so runner
// reporting and -run filtering keep working.
type Case[T any] struct {
	Name string
	Doc  string
	Func Func[T]
}

// Wrap applies decorators in reading order: Wrap(a, b) yields a(b(Func)).
func (c Case[T]) Wrap(decorators ...Decorator[T]) Case[T] {
	fn := c.Func
	for i := len(decorators) - 1; i >= 0; i-- {
		fn = decorators[i](fn)
	}
	return Case[T]{Name: c.Name, Doc: c.Doc, Func: fn}
}

// Run executes fn with t as receiver and maps its outcome onto t:
// nil passes, a skip signal calls t.Skip, any other error calls t.Fatal.
// fn's context is derived from t.Context and is cancelled when Run returns.
func Run[T testing.TB](t T, fn Func[T]) {
	t.Helper()
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	err := fn(ctx, t)
	switch {
	case err == nil:
	case IsSkip(err):
		t.Skip(SkipReason(err))
	case errors.IsErrorCode(err, errors.ErrFixtureSetup):
		t.Fatalf("fixture setup failed: %v", err)
	default:
		t.Fatal(err)
	}
}

// RunCases runs every case as a subtest named after it.
func RunCases(t *testing.T, cases ...Case[*testing.T]) {
	t.Helper()
	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			if c.Doc != "" {
				t.Log(c.Doc)
			}
			Run(t, c.Func)
		})
	}
}

// Test adapts a plain go test body, which reports through t, into a Func.
func Test(fn func(t *testing.T)) Func[*testing.T] {
	return func(_ context.Context, t *testing.T) error {
		fn(t)
		return nil
	}
}

// AsyncTest adapts a go test body that takes a fixture dataset. The body
// runs off the test goroutine: t.Error and friends are fine, t.FailNow ends
// the body and surfaces as ErrBodyExited.
func AsyncTest(fn func(ctx context.Context, t *testing.T, ds *Dataset)) AsyncFunc[*testing.T] {
	return func(ctx context.Context, t *testing.T, ds *Dataset) error {
		fn(ctx, t, ds)
		return nil
	}
}
