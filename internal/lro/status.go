package lro

import (
	"fmt"
	"strings"
)

// Status is the lifecycle status of a work request.
type Status string

// Valid Status values.
const (
	StatusAccepted   Status = "ACCEPTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFailed     Status = "FAILED"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusCanceling  Status = "CANCELING"
	StatusCanceled   Status = "CANCELED"
)

// Statuses lists every Status in the order the service documents them.
var Statuses = []Status{
	StatusAccepted,
	StatusInProgress,
	StatusFailed,
	StatusSucceeded,
	StatusCanceling,
	StatusCanceled,
}

// ParseStatus maps s to its canonical Status, ignoring case and surrounding
// whitespace.
func ParseStatus(s string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range Statuses {
		if st == candidate {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid work request status %q, must be one of %s", s, strings.Join(StatusNames(), ", "))
}

// StatusNames returns the canonical identifiers of every Status.
func StatusNames() []string {
	names := make([]string, 0, len(Statuses))
	for _, st := range Statuses {
		names = append(names, string(st))
	}
	return names
}

// Terminal reports whether the service will never move the work request out
// of s.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
