// Package workrequest tracks the work requests the emulator hands out for
// asynchronous workspace operations.
package workrequest

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dictl-dev/dictl/internal/lro"
	"github.com/dictl-dev/dictl/internal/responses"
)

// Operation types.
const (
	CreateWorkspace = "CREATE_WORKSPACE"
	UpdateWorkspace = "UPDATE_WORKSPACE"
	DeleteWorkspace = "DELETE_WORKSPACE"
	StartWorkspace  = "START_WORKSPACE"
	StopWorkspace   = "STOP_WORKSPACE"
)

// Effect is applied once when a work request finishes.
type Effect func(succeeded bool)

type entry struct {
	wr     responses.WorkRequest
	polls  int
	effect Effect
}

// Tracker hands out work requests and advances them one step per read:
// ACCEPTED, then IN_PROGRESS, then SUCCEEDED once read steps times.
// Operations listed as failing end FAILED instead. A Tracker is safe for
// concurrent use.
type Tracker struct {
	mu    sync.Mutex
	steps int
	fail  map[string]bool
	now   func() time.Time
	items map[string]*entry
	order []string
}

// NewTracker creates a Tracker. now defaults to time.Now.
func NewTracker(steps int, failOperations []string, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	if steps < 1 {
		steps = 1
	}
	fail := map[string]bool{}
	for _, op := range failOperations {
		fail[strings.ToUpper(op)] = true
	}
	return &Tracker{
		steps: steps,
		fail:  fail,
		now:   now,
		items: map[string]*entry{},
	}
}

// Start records a new ACCEPTED work request for operation on the resource
// identified by resourceID.
func (t *Tracker) Start(operation, compartmentID, entityType, resourceID string, effect Effect) responses.WorkRequest {
	t.mu.Lock()
	defer t.mu.Unlock()

	accepted := t.now().UTC()
	id := "ocid1.dataintegrationworkrequest.oc1.." + strings.ReplaceAll(uuid.NewString(), "-", "")
	e := &entry{
		wr: responses.WorkRequest{
			ID:            id,
			OperationType: operation,
			Status:        string(lro.StatusAccepted),
			CompartmentID: compartmentID,
			Resources: []responses.WorkRequestResource{{
				EntityType: entityType,
				ActionType: actionType(operation),
				Identifier: resourceID,
			}},
			TimeAccepted: &accepted,
		},
		effect: effect,
	}
	t.items[id] = e
	t.order = append(t.order, id)
	return e.wr
}

func actionType(operation string) string {
	switch operation {
	case CreateWorkspace:
		return "CREATED"
	case DeleteWorkspace:
		return "DELETED"
	}
	return "UPDATED"
}

// Get returns the work request id after advancing it one step.
func (t *Tracker) Get(id string) (responses.WorkRequest, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.items[id]
	if !ok {
		return responses.WorkRequest{}, false
	}
	if lro.Status(e.wr.Status).Terminal() {
		return e.wr, true
	}

	e.polls++
	now := t.now().UTC()
	if e.wr.TimeStarted == nil {
		e.wr.TimeStarted = &now
	}

	if e.polls < t.steps {
		e.wr.Status = string(lro.StatusInProgress)
		e.wr.PercentComplete = float32(100 * e.polls / t.steps)
		return e.wr, true
	}

	succeeded := !t.fail[e.wr.OperationType]
	e.wr.Status = string(lro.StatusSucceeded)
	e.wr.PercentComplete = 100
	if !succeeded {
		e.wr.Status = string(lro.StatusFailed)
	}
	e.wr.TimeFinished = &now
	if e.effect != nil {
		e.effect(succeeded)
	}
	return e.wr, true
}

// Filter selects work requests in List. Empty fields match everything.
type Filter struct {
	CompartmentID string
	ResourceID    string
	Status        string
}

// List returns the work requests matching f, newest first, without
// advancing them.
func (t *Tracker) List(f Filter) []responses.WorkRequest {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := []responses.WorkRequest{}
	for _, id := range t.order {
		wr := t.items[id].wr
		if f.CompartmentID != "" && wr.CompartmentID != f.CompartmentID {
			continue
		}
		if f.Status != "" && !strings.EqualFold(wr.Status, f.Status) {
			continue
		}
		if f.ResourceID != "" && !hasResource(wr, f.ResourceID) {
			continue
		}
		res = append(res, wr)
	}
	return reverse(res)
}

func hasResource(wr responses.WorkRequest, id string) bool {
	for _, r := range wr.Resources {
		if r.Identifier == id {
			return true
		}
	}
	return false
}

func reverse(wrs []responses.WorkRequest) []responses.WorkRequest {
	for i, j := 0, len(wrs)-1; i < j; i, j = i+1, j-1 {
		wrs[i], wrs[j] = wrs[j], wrs[i]
	}
	return wrs
}
