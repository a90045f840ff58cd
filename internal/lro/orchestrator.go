package lro

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dictl-dev/dictl/internal/responses"
	"github.com/dictl-dev/dictl/log"
)

// Progress lines written to stderr. Scripts scrape these, keep them stable.
const (
	MsgWaiting     = "Action completed. Waiting until the work request has entered state: "
	MsgTimedOut    = "Failed to wait until the work request entered the specified state. Outputting last known resource state"
	MsgFetchFailed = "Encountered error while waiting for work request to enter the specified state. Outputting last known resource state"
	MsgUnsupported = "Unable to wait for the work request to enter the specified state"
)

// Orchestrator follows a work request until it reaches one of the policy's
// target states, the budget runs out, or polling fails.
//
// An Orchestrator is single use and not safe for concurrent use.
type Orchestrator struct {
	fetcher Fetcher
	policy  Policy
	clock   Clock
	stderr  io.Writer

	snapshot responses.Envelope
	last     Status
	fetches  int
}

// New creates an Orchestrator. fetcher may be nil or NoFetcher, in which case
// Run reports Unsupported.
func New(fetcher Fetcher, policy Policy, clock Clock, stderr io.Writer) *Orchestrator {
	if clock == nil {
		clock = RealClock{}
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &Orchestrator{
		fetcher: fetcher,
		policy:  policy,
		clock:   clock,
		stderr:  stderr,
	}
}

// Run waits on the work request h. initial is the response of the mutating
// call and stays the snapshot until a fetch succeeds.
func (o *Orchestrator) Run(ctx context.Context, h Handle, initial responses.Envelope) Outcome {
	o.snapshot = initial

	l := log.WithCtx(ctx).With("work_request_id", string(h))

	if !Supported(o.fetcher) {
		o.emit(MsgUnsupported)
		return Outcome{Kind: Unsupported}
	}

	o.emit(MsgWaiting + o.policy.String())
	schedule := NewSchedule(o.clock, o.policy.MaxWait(), o.policy.Interval())

	for {
		polled := o.clock.Now()
		status, resp, err := o.fetcher.Fetch(ctx, h)
		o.fetches++

		if err != nil {
			l.Debugw("work request fetch failed", "fetches", o.fetches, "error", err)
			if errors.Is(err, ErrMaxWaitExceeded) {
				return o.timedOut(o.last)
			}
			return o.failed(err)
		}

		o.snapshot = resp
		o.last = status
		l.Debugw("polled work request", "status", status, "fetches", o.fetches, "elapsed", o.clock.Now().Sub(schedule.Start()))

		// A watched state wins even when observed exactly at the deadline.
		if o.policy.Watching(status) {
			return Outcome{Kind: Reached, State: status}
		}
		if schedule.Expired() {
			return o.timedOut(status)
		}

		wake := schedule.NextWake(polled)
		if err := o.clock.Sleep(ctx, wake.Sub(o.clock.Now())); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return o.timedOut(status)
			}
			return o.failed(fmt.Errorf("wait interrupted: %w", err))
		}
	}
}

// Snapshot returns the freshest successful fetch, or the initial response
// when no fetch succeeded.
func (o *Orchestrator) Snapshot() responses.Envelope {
	return o.snapshot
}

// Fetches returns the number of fetch attempts made by Run.
func (o *Orchestrator) Fetches() int {
	return o.fetches
}

func (o *Orchestrator) timedOut(last Status) Outcome {
	o.emit(MsgTimedOut)
	return Outcome{Kind: TimedOut, State: last}
}

func (o *Orchestrator) failed(cause error) Outcome {
	o.emit(MsgFetchFailed)
	return Outcome{Kind: FetchFailed, Cause: cause}
}

func (o *Orchestrator) emit(line string) {
	fmt.Fprintln(o.stderr, line)
}
