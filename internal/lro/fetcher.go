package lro

import (
	"context"
	"errors"

	"github.com/dictl-dev/dictl/internal/responses"
)

var (
	// ErrMaxWaitExceeded signals that a fetch gave up because the wait budget
	// ran out. Fetchers return it wrapped.
	ErrMaxWaitExceeded = errors.New("maximum wait time exceeded")

	// ErrUnsupported is returned by NoFetcher.
	ErrUnsupported = errors.New("work request polling is not supported for this operation")
)

// Handle identifies a work request. It is taken from the
// opc-work-request-id response header.
type Handle string

// Fetcher returns the current status of a work request along with the
// response it was read from.
type Fetcher interface {
	Fetch(ctx context.Context, h Handle) (Status, responses.Envelope, error)
}

type noFetcher struct{}

func (noFetcher) Fetch(context.Context, Handle) (Status, responses.Envelope, error) {
	return "", responses.Envelope{}, ErrUnsupported
}

// NoFetcher is the Fetcher used by operations that do not produce work
// requests.
var NoFetcher Fetcher = noFetcher{}

// Supported reports whether f can actually fetch work requests.
func Supported(f Fetcher) bool {
	if f == nil {
		return false
	}
	_, none := f.(noFetcher)
	return !none
}
