package fixtures

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/arthur-debert/dsfixtures/pkg/platform"
)

// WindowsSkipReason is the reason carried by SkipWindows.
const WindowsSkipReason = "We've been instructed to skip this test on Windows..."

// SkipError is the skip signal. It travels on the error return, like
// fs.SkipDir, and means neither pass nor fail.
type SkipError struct {
	Platform string
	Reason   string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipped on %s: %s", e.Platform, e.Reason)
}

// IsSkip reports whether err is, or wraps, a skip signal.
func IsSkip(err error) bool {
	var skip *SkipError
	return stderrors.As(err, &skip)
}

// SkipReason returns the reason of the skip signal in err, or "".
func SkipReason(err error) string {
	var skip *SkipError
	if stderrors.As(err, &skip) {
		return skip.Reason
	}
	return ""
}

// SkipOn returns a body that asks probe for the platform on every call and,
// when it equals disallowed exactly, returns a *SkipError without calling fn.
// Otherwise fn runs and its result is returned unchanged.
func SkipOn[T any](probe platform.Probe, disallowed string, fn Func[T], opts ...Option) Func[T] {
	o := buildOptions(opts)
	reason := o.reason
	if reason == "" {
		reason = fmt.Sprintf("skipping test on %s", disallowed)
	}
	return func(ctx context.Context, t T) error {
		tr := newTracker(WrapperSkipOn, o)
		// no-op unless fn panicked
		defer tr.to(DoneError)

		if current := probe.Name(); current == disallowed {
			tr.to(Skipped)
			o.logger.Debug().Str("platform", current).Str("reason", reason).Msg("Skipping test body")
			return &SkipError{Platform: current, Reason: reason}
		}

		tr.to(Running)
		return tr.finish(fn(ctx, t))
	}
}

// SkipWindows is SkipOn for platform.Windows with WindowsSkipReason.
func SkipWindows[T any](probe platform.Probe, fn Func[T], opts ...Option) Func[T] {
	opts = append([]Option{WithReason(WindowsSkipReason)}, opts...)
	return SkipOn(probe, platform.Windows, fn, opts...)
}

// SkipOnWith is SkipOn as a Decorator.
func SkipOnWith[T any](probe platform.Probe, disallowed string, opts ...Option) Decorator[T] {
	return func(fn Func[T]) Func[T] {
		return SkipOn(probe, disallowed, fn, opts...)
	}
}

// SkipWindowsWith is SkipWindows as a Decorator.
func SkipWindowsWith[T any](probe platform.Probe, opts ...Option) Decorator[T] {
	return func(fn Func[T]) Func[T] {
		return SkipWindows(probe, fn, opts...)
	}
}
