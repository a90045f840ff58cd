package lro

import "time"

// Schedule turns a wait budget and a poll interval into deadlines. All time
// arithmetic of a wait lives here.
type Schedule struct {
	clock    Clock
	start    time.Time
	maxWait  time.Duration
	interval time.Duration
}

// NewSchedule starts a schedule at clock.Now().
func NewSchedule(clock Clock, maxWait, interval time.Duration) *Schedule {
	return &Schedule{
		clock:    clock,
		start:    clock.Now(),
		maxWait:  maxWait,
		interval: interval,
	}
}

// Start returns the instant the schedule was created.
func (s *Schedule) Start() time.Time {
	return s.start
}

// Deadline returns start + maxWait.
func (s *Schedule) Deadline() time.Time {
	return s.start.Add(s.maxWait)
}

// NextWake returns the next poll instant after previous, never later than the
// deadline.
func (s *Schedule) NextWake(previous time.Time) time.Time {
	next := previous.Add(s.interval)
	if deadline := s.Deadline(); next.After(deadline) {
		return deadline
	}
	return next
}

// Expired reports whether the deadline has been reached.
func (s *Schedule) Expired() bool {
	return !s.clock.Now().Before(s.Deadline())
}
