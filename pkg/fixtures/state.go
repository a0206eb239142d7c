package fixtures

import (
	"github.com/rs/zerolog"
)

// State is a step in a wrapper's lifecycle.
type State int

const (
	NotStarted State = iota
	Setup
	Running
	Cleanup
	DoneSuccess
	DoneError
	Skipped
)

var stateNames = [...]string{
	NotStarted:  "not_started",
	Setup:       "setup",
	Running:     "running",
	Cleanup:     "cleanup",
	DoneSuccess: "done_success",
	DoneError:   "done_error",
	Skipped:     "skipped",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == DoneSuccess || s == DoneError || s == Skipped
}

// Wrapper names reported in transitions.
const (
	WrapperDropDatasets     = "drop_datasets"
	WrapperDropAsyncDataset = "drop_async_dataset"
	WrapperSkipOn           = "skip_on"
)

// Transition is one state change of one wrapper invocation.
type Transition struct {
	Wrapper string
	From    State
	To      State
}

// Observer receives every transition, synchronously, in order.
type Observer func(Transition)

type tracker struct {
	wrapper string
	state   State
	observe Observer
	log     zerolog.Logger
}

func newTracker(wrapper string, o options) *tracker {
	return &tracker{
		wrapper: wrapper,
		state:   NotStarted,
		observe: o.observer,
		log:     o.logger.With().Str("wrapper", wrapper).Logger(),
	}
}

func (tr *tracker) to(next State) {
	if tr.state.Terminal() {
		return
	}
	prev := tr.state
	tr.state = next
	tr.log.Trace().Stringer("from", prev).Stringer("to", next).Msg("Fixture state changed")
	if tr.observe != nil {
		tr.observe(Transition{Wrapper: tr.wrapper, From: prev, To: next})
	}
}

// finish moves to the terminal state matching err and returns err.
func (tr *tracker) finish(err error) error {
	if err != nil {
		tr.to(DoneError)
	} else {
		tr.to(DoneSuccess)
	}
	return err
}
