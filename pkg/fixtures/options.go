package fixtures

import (
	"github.com/arthur-debert/dsfixtures/pkg/logging"
	"github.com/rs/zerolog"
)

// Option configures a wrapper at construction time.
type Option func(*options)

type options struct {
	observer Observer
	logger   zerolog.Logger
	reason   string
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.GetLogger("fixtures")}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithObserver reports every lifecycle transition to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger replaces the default "fixtures" component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithReason sets the reason carried by skip signals. Other wrappers ignore it.
func WithReason(reason string) Option {
	return func(o *options) { o.reason = reason }
}
