package lro

import "fmt"

// Kind classifies how a wait ended.
type Kind int

// Outcome kinds.
const (
	// Reached means a watched state was observed.
	Reached Kind = iota
	// TimedOut means the budget ran out before a watched state was observed.
	TimedOut
	// Unsupported means the operation cannot be followed.
	Unsupported
	// FetchFailed means polling hit an error it could not interpret.
	FetchFailed
)

func (k Kind) String() string {
	switch k {
	case Reached:
		return "Reached"
	case TimedOut:
		return "TimedOut"
	case Unsupported:
		return "Unsupported"
	case FetchFailed:
		return "FetchFailed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Outcome is the result of a wait. State is set for Reached and TimedOut (it
// may be empty on a timeout before any successful fetch); Cause is set for
// FetchFailed.
type Outcome struct {
	Kind  Kind
	State Status
	Cause error
}

func (o Outcome) String() string {
	switch o.Kind {
	case Reached, TimedOut:
		return fmt.Sprintf("%s{%s}", o.Kind, o.State)
	case FetchFailed:
		return fmt.Sprintf("%s{%v}", o.Kind, o.Cause)
	}
	return o.Kind.String()
}
