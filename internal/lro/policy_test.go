package lro_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dictl-dev/dictl/internal/lro"
	"github.com/dictl-dev/dictl/internal/lro/lrotest"
)

func TestNewPolicy(t *testing.T) {
	tests := []struct {
		name       string
		states     []string
		maxWait    time.Duration
		interval   time.Duration
		wantStates []lro.Status
		wantErr    error
	}{
		{
			name:       "single state",
			states:     []string{"SUCCEEDED"},
			maxWait:    lro.DefaultMaxWait,
			interval:   lro.DefaultInterval,
			wantStates: []lro.Status{lro.StatusSucceeded},
		},
		{
			name:       "duplicates collapse ignoring case",
			states:     []string{"succeeded", "SUCCEEDED", " Failed ", "failed"},
			maxWait:    lro.DefaultMaxWait,
			interval:   lro.DefaultInterval,
			wantStates: []lro.Status{lro.StatusSucceeded, lro.StatusFailed},
		},
		{
			name:       "interval may exceed budget",
			states:     []string{"CANCELED"},
			maxWait:    0,
			interval:   time.Hour,
			wantStates: []lro.Status{lro.StatusCanceled},
		},
		{
			name:     "empty target set",
			maxWait:  lro.DefaultMaxWait,
			interval: lro.DefaultInterval,
			wantErr:  errors.New("at least one target state is required"),
		},
		{
			name:     "unknown state rejected",
			states:   []string{"SUCCEEDED", "DONE"},
			maxWait:  lro.DefaultMaxWait,
			interval: lro.DefaultInterval,
			wantErr:  errors.New(`invalid work request status "DONE", must be one of ACCEPTED, IN_PROGRESS, FAILED, SUCCEEDED, CANCELING, CANCELED`),
		},
		{
			name:     "negative budget",
			states:   []string{"SUCCEEDED"},
			maxWait:  -time.Second,
			interval: lro.DefaultInterval,
			wantErr:  errors.New("max wait must not be negative, got -1s"),
		},
		{
			name:     "zero interval",
			states:   []string{"SUCCEEDED"},
			maxWait:  lro.DefaultMaxWait,
			interval: 0,
			wantErr:  errors.New("wait interval must be positive, got 0s"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := lro.NewPolicy(tt.states, tt.maxWait, tt.interval)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStates, p.States())
			assert.Equal(t, tt.maxWait, p.MaxWait())
			assert.Equal(t, tt.interval, p.Interval())
		})
	}
}

func TestPolicyWatchingIgnoresCase(t *testing.T) {
	p, err := lro.NewPolicy([]string{"SUCCEEDED", "canceling"}, lro.DefaultMaxWait, lro.DefaultInterval)
	assert.NoError(t, err)

	for _, st := range lro.Statuses {
		lower := lro.Status(toLower(string(st)))
		assert.Equal(t, p.Watching(st), p.Watching(lower), st)
	}
	assert.True(t, p.Watching("succeeded"))
	assert.True(t, p.Watching("CANCELING"))
	assert.False(t, p.Watching(lro.StatusFailed))
	assert.False(t, p.Watching("unknown"))
	assert.Equal(t, "SUCCEEDED, CANCELING", p.String())
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    lro.Status
		wantErr bool
	}{
		{in: "ACCEPTED", want: lro.StatusAccepted},
		{in: "in_progress", want: lro.StatusInProgress},
		{in: " Canceled", want: lro.StatusCanceled},
		{in: "IN-PROGRESS", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := lro.ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	want := map[lro.Status]bool{
		lro.StatusAccepted:   false,
		lro.StatusInProgress: false,
		lro.StatusFailed:     true,
		lro.StatusSucceeded:  true,
		lro.StatusCanceling:  false,
		lro.StatusCanceled:   true,
	}
	for st, terminal := range want {
		assert.Equal(t, terminal, st.Terminal(), st)
	}
}

func TestSchedule(t *testing.T) {
	clock := lrotest.NewFakeClock(t0)
	s := lro.NewSchedule(clock, 60*time.Second, 25*time.Second)

	assert.Equal(t, t0, s.Start())
	assert.Equal(t, t0.Add(60*time.Second), s.Deadline())
	assert.Equal(t, t0.Add(25*time.Second), s.NextWake(t0))
	assert.Equal(t, t0.Add(50*time.Second), s.NextWake(t0.Add(25*time.Second)))
	assert.Equal(t, s.Deadline(), s.NextWake(t0.Add(50*time.Second)))
	assert.False(t, s.Expired())

	clock.Advance(59 * time.Second)
	assert.False(t, s.Expired())

	clock.Advance(time.Second)
	assert.True(t, s.Expired())
}

func TestScheduleZeroBudgetIsExpiredImmediately(t *testing.T) {
	clock := lrotest.NewFakeClock(t0)
	s := lro.NewSchedule(clock, 0, lro.DefaultInterval)

	assert.True(t, s.Expired())
	assert.Equal(t, t0, s.NextWake(t0))
}
