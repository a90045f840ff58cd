package lro

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Defaults applied when the corresponding flags are omitted.
const (
	DefaultMaxWait  = 1200 * time.Second
	DefaultInterval = 30 * time.Second
)

// Policy describes when a wait may stop: the target states, the overall
// budget and the pause between polls. A Policy is immutable once built.
type Policy struct {
	order    []Status
	targets  map[Status]struct{}
	maxWait  time.Duration
	interval time.Duration
}

// NewPolicy validates and builds a Policy. States are matched
// case-insensitively and duplicates collapse. An interval larger than maxWait
// is allowed; the first poll always runs.
func NewPolicy(states []string, maxWait, interval time.Duration) (Policy, error) {
	if len(states) == 0 {
		return Policy{}, errors.New("at least one target state is required")
	}
	if maxWait < 0 {
		return Policy{}, fmt.Errorf("max wait must not be negative, got %s", maxWait)
	}
	if interval <= 0 {
		return Policy{}, fmt.Errorf("wait interval must be positive, got %s", interval)
	}

	p := Policy{
		targets:  make(map[Status]struct{}, len(states)),
		maxWait:  maxWait,
		interval: interval,
	}
	for _, s := range states {
		st, err := ParseStatus(s)
		if err != nil {
			return Policy{}, err
		}
		if _, ok := p.targets[st]; ok {
			continue
		}
		p.targets[st] = struct{}{}
		p.order = append(p.order, st)
	}
	return p, nil
}

// Watching reports whether s is one of the target states.
func (p Policy) Watching(s Status) bool {
	_, ok := p.targets[Status(strings.ToUpper(string(s)))]
	return ok
}

// States returns the target states in the order they were given.
func (p Policy) States() []Status {
	out := make([]Status, len(p.order))
	copy(out, p.order)
	return out
}

// MaxWait returns the overall wait budget.
func (p Policy) MaxWait() time.Duration {
	return p.maxWait
}

// Interval returns the pause between polls.
func (p Policy) Interval() time.Duration {
	return p.interval
}

func (p Policy) String() string {
	names := make([]string, 0, len(p.order))
	for _, st := range p.order {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}
