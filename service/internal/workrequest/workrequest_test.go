package workrequest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

func TestProgression(t *testing.T) {
	tests := []struct {
		name          string
		steps         int
		fail          []string
		operation     string
		want          []string
		wantSucceeded bool
	}{
		{
			name:          "two steps",
			steps:         2,
			operation:     CreateWorkspace,
			want:          []string{"IN_PROGRESS", "SUCCEEDED", "SUCCEEDED"},
			wantSucceeded: true,
		},
		{
			name:          "single step",
			steps:         0,
			operation:     StartWorkspace,
			want:          []string{"SUCCEEDED", "SUCCEEDED"},
			wantSucceeded: true,
		},
		{
			name:      "failing operation",
			steps:     3,
			fail:      []string{"stop_workspace"},
			operation: StopWorkspace,
			want:      []string{"IN_PROGRESS", "IN_PROGRESS", "FAILED", "FAILED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(tt.steps, tt.fail, testNow)

			effects := 0
			var succeeded bool
			wr := tr.Start(tt.operation, "ocid1.compartment.oc1..c1", "workspace", "ocid1.disworkspace.oc1..w1", func(ok bool) {
				effects++
				succeeded = ok
			})
			assert.Equal(t, "ACCEPTED", wr.Status)
			assert.Nil(t, wr.TimeStarted)

			var got []string
			for range tt.want {
				polled, ok := tr.Get(wr.ID)
				require.True(t, ok)
				got = append(got, polled.Status)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, effects)
			assert.Equal(t, tt.wantSucceeded, succeeded)
		})
	}
}

func TestPercentComplete(t *testing.T) {
	tr := NewTracker(4, nil, testNow)
	wr := tr.Start(UpdateWorkspace, "c1", "workspace", "w1", nil)

	var got []float32
	for i := 0; i < 4; i++ {
		polled, _ := tr.Get(wr.ID)
		got = append(got, polled.PercentComplete)
	}
	assert.Equal(t, []float32{25, 50, 75, 100}, got)
}

func TestGetUnknown(t *testing.T) {
	_, ok := NewTracker(2, nil, testNow).Get("missing")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	tr := NewTracker(1, nil, testNow)
	first := tr.Start(CreateWorkspace, "c1", "workspace", "w1", nil)
	second := tr.Start(StopWorkspace, "c1", "workspace", "w2", nil)
	third := tr.Start(CreateWorkspace, "c2", "workspace", "w3", nil)
	tr.Get(first.ID)

	ids := func(f Filter) []string {
		var out []string
		for _, wr := range tr.List(f) {
			out = append(out, wr.ID)
		}
		return out
	}

	assert.Equal(t, []string{third.ID, second.ID, first.ID}, ids(Filter{}))
	assert.Equal(t, []string{second.ID, first.ID}, ids(Filter{CompartmentID: "c1"}))
	assert.Equal(t, []string{second.ID}, ids(Filter{ResourceID: "w2"}))
	assert.Equal(t, []string{first.ID}, ids(Filter{Status: "succeeded"}))
	assert.Empty(t, tr.List(Filter{CompartmentID: "c3"}))
}

func TestActionType(t *testing.T) {
	tr := NewTracker(1, nil, testNow)
	assert.Equal(t, "CREATED", tr.Start(CreateWorkspace, "", "workspace", "w", nil).Resources[0].ActionType)
	assert.Equal(t, "DELETED", tr.Start(DeleteWorkspace, "", "workspace", "w", nil).Resources[0].ActionType)
	assert.Equal(t, "UPDATED", tr.Start(StopWorkspace, "", "workspace", "w", nil).Resources[0].ActionType)
}
