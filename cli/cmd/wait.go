package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dictl-dev/dictl/cli/internal/api"
	"github.com/dictl-dev/dictl/internal/lro"
	"github.com/dictl-dev/dictl/internal/requests"
	"github.com/dictl-dev/dictl/log"
)

const (
	flagWaitForState        = "wait-for-state"
	flagMaxWaitSeconds      = "max-wait-seconds"
	flagWaitIntervalSeconds = "wait-interval-seconds"

	// hardDeadlineSlack bounds a final fetch that hangs past the budget.
	hardDeadlineSlack = 30 * time.Second
)

type waitFlags struct {
	states          []string
	maxWaitSeconds  int
	intervalSeconds int
}

func bindWait(fs *pflag.FlagSet) *waitFlags {
	w := &waitFlags{}
	fs.Var(newStateSetValue(&w.states), flagWaitForState,
		fmt.Sprintf("Wait until the work request reaches one of these states, repeatable. One of %s.", joinStatuses()))
	fs.IntVar(&w.maxWaitSeconds, flagMaxWaitSeconds, int(lro.DefaultMaxWait/time.Second),
		"The maximum time to wait for the work request to reach a state given by --wait-for-state.")
	fs.IntVar(&w.intervalSeconds, flagWaitIntervalSeconds, int(lro.DefaultInterval/time.Second),
		"Check every --wait-interval-seconds to see whether the work request has reached a state given by --wait-for-state.")
	return w
}

func joinStatuses() string {
	return strings.Join(lro.StatusNames(), ", ")
}

// policy returns false when no wait was requested.
func (w *waitFlags) policy(fs *pflag.FlagSet) (lro.Policy, bool, error) {
	if len(w.states) == 0 {
		if fs.Changed(flagMaxWaitSeconds) || fs.Changed(flagWaitIntervalSeconds) {
			return lro.Policy{}, false, fmt.Errorf("%s require --%s", joinFlags(flagMaxWaitSeconds, flagWaitIntervalSeconds), flagWaitForState)
		}
		return lro.Policy{}, false, nil
	}

	p, err := lro.NewPolicy(w.states,
		time.Duration(w.maxWaitSeconds)*time.Second,
		time.Duration(w.intervalSeconds)*time.Second)
	if err != nil {
		return lro.Policy{}, false, err
	}
	return p, true, nil
}

// mutation is one state-changing call.
type mutation struct {
	call        api.Call
	body        requests.Body
	validations []func() error
	// async operations answer with a work request that can be followed.
	async bool
	wait  *waitFlags
}

// mutate validates, sends and optionally waits on m. It sets the exit code
// of the command.
func (a *app) mutate(cmd *cobra.Command, m mutation) error {
	var (
		policy  lro.Policy
		waiting bool
		err     error
	)
	if m.wait != nil {
		policy, waiting, err = m.wait.policy(cmd.Flags())
		if err != nil {
			return err
		}
	}

	if m.body != nil {
		if err := m.body.Validate(m.validations...); err != nil {
			return err
		}
		m.call.Body = m.body
	}

	client, renderer, err := a.client()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	resp, err := client.Do(ctx, m.call)
	if err != nil {
		return err
	}

	reporter := lro.NewReporter(renderer)
	if !waiting {
		code, err := reporter.Report(lro.Outcome{Kind: lro.Reached}, resp)
		a.exitCode = code
		return err
	}

	var fetcher lro.Fetcher = lro.NoFetcher
	if m.async && resp.OpcWorkRequestID != "" {
		fetcher = client
	}

	waitCtx, cancel := context.WithTimeout(ctx, policy.MaxWait()+policy.Interval()+hardDeadlineSlack)
	defer cancel()

	orch := lro.New(fetcher, policy, a.clock, a.stderr)
	outcome := orch.Run(waitCtx, lro.Handle(resp.OpcWorkRequestID), resp)
	log.WithCtx(ctx).Debugw("wait finished", "outcome", outcome.String(), "fetches", orch.Fetches())

	code, err := reporter.Report(outcome, orch.Snapshot())
	a.exitCode = code
	return err
}

// show sends a read-only call and renders the answer.
func (a *app) show(cmd *cobra.Command, call api.Call) error {
	client, renderer, err := a.client()
	if err != nil {
		return err
	}

	resp, err := client.Do(cmd.Context(), call)
	if err != nil {
		return err
	}
	if err := renderer.Render(resp); err != nil {
		return fmt.Errorf("unable to render output: %w", err)
	}
	return nil
}
