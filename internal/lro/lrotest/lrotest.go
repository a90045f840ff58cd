// Package lrotest provides test doubles for the lro package.
package lrotest

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dictl-dev/dictl/internal/lro"
	"github.com/dictl-dev/dictl/internal/responses"
)

// FakeClock is a virtual clock. Sleep advances it instantly.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration

	// SleepErr, when set, is returned by every Sleep call.
	SleepErr error
}

// NewFakeClock returns a FakeClock starting at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the virtual time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep records d and advances the virtual time by it.
func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.SleepErr != nil {
		return c.SleepErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return nil
}

// Advance moves the virtual time forward without recording a sleep.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleeps returns the durations passed to Sleep.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// Step is one scripted fetch result.
type Step struct {
	Status lro.Status
	Err    error
	// Latency advances Clock before the step returns.
	Latency time.Duration
}

// ScriptedFetcher replays Steps in order, repeating the last one when the
// script runs out.
type ScriptedFetcher struct {
	Steps []Step
	Clock *FakeClock

	mu      sync.Mutex
	calls   int
	handles []lro.Handle
}

// Verify interface implementations at compile time
var _ lro.Fetcher = (*ScriptedFetcher)(nil)

// Statuses builds a script returning each status in turn.
func Statuses(statuses ...lro.Status) []Step {
	steps := make([]Step, 0, len(statuses))
	for _, s := range statuses {
		steps = append(steps, Step{Status: s})
	}
	return steps
}

// Fetch returns the next scripted step.
func (f *ScriptedFetcher) Fetch(_ context.Context, h lro.Handle) (lro.Status, responses.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.handles = append(f.handles, h)
	if len(f.Steps) == 0 {
		f.calls++
		return "", responses.Envelope{}, nil
	}

	i := f.calls
	if i >= len(f.Steps) {
		i = len(f.Steps) - 1
	}
	f.calls++
	step := f.Steps[i]

	if step.Latency > 0 && f.Clock != nil {
		f.Clock.Advance(step.Latency)
	}
	if step.Err != nil {
		return "", responses.Envelope{}, step.Err
	}
	return step.Status, WorkRequestEnvelope(h, step.Status, f.calls), nil
}

// Calls returns the number of Fetch calls.
func (f *ScriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Handles returns the handles Fetch was called with.
func (f *ScriptedFetcher) Handles() []lro.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]lro.Handle, len(f.handles))
	copy(out, f.handles)
	return out
}

// WorkRequestEnvelope builds the envelope of a GetWorkRequest response.
func WorkRequestEnvelope(h lro.Handle, status lro.Status, poll int) responses.Envelope {
	data, _ := json.Marshal(map[string]any{
		"id":     string(h),
		"status": string(status),
		"poll":   poll,
	})
	return responses.Envelope{Data: data}
}

// RecordingRenderer records every rendered envelope.
type RecordingRenderer struct {
	Rendered []responses.Envelope
	Err      error
}

// Verify interface implementations at compile time
var _ lro.Renderer = (*RecordingRenderer)(nil)

// Render records e.
func (r *RecordingRenderer) Render(e responses.Envelope) error {
	r.Rendered = append(r.Rendered, e)
	return r.Err
}
