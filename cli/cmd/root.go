package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dictl-dev/dictl/cli/internal/api"
	"github.com/dictl-dev/dictl/cli/internal/render"
	"github.com/dictl-dev/dictl/internal/config"
	"github.com/dictl-dev/dictl/internal/env"
	"github.com/dictl-dev/dictl/internal/lro"
	"github.com/dictl-dev/dictl/log"
)

// app holds what every command shares: streams, clock, global flags and
// the exit code of the command that ran.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	stdin      io.Reader
	clock      lro.Clock
	isTerminal func() bool
	loadEnv    func() (env.EnvVars, error)
	apiOptions []api.Option

	version  string
	global   config.Flags
	debug    bool
	exitCode int

	resolved *config.Resolved
}

func newApp(version string) *app {
	return &app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		stdin:      os.Stdin,
		clock:      lro.RealClock{},
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		loadEnv:    env.GetEnv,
		version:    version,
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, version string) int {
	return newApp(version).execute(ctx, os.Args[1:])
}

func (a *app) execute(ctx context.Context, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetIn(a.stdin)

	err := root.ExecuteContext(ctx)
	log.Sync(ctx)

	if errors.Is(err, errSkeletonPrinted) {
		return lro.ExitOK
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %s\n", err)
		if a.exitCode == lro.ExitOK {
			return lro.ExitError
		}
	}
	return a.exitCode
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "dictl",
		Short:         "Data Integration Command Line Interface",
		Long:          "Data Integration Command Line Interface",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.preRun(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.global.Endpoint, "endpoint", "", "Data Integration service endpoint, e.g. https://dataintegration.us-ashburn-1.oci.oraclecloud.com/20200430")
	pf.StringVar(&a.global.Token, "token", "", "Bearer token sent with every request")
	pf.StringVar(&a.global.Profile, "profile", "", "Profile to use from the config file")
	pf.StringVar(&a.global.ConfigFile, "config-file", "", "Path to the config file (default ~/.dictl/config.yaml)")
	pf.StringVar(&a.global.Output, "output", "", "Output format, one of json, table (default json)")
	pf.BoolVar(&a.debug, "debug", false, "Log requests and polling at debug level")
	pf.String(flagFromJSON, "", "Provide input to this command as a JSON document, inline or file://path")
	pf.Bool(flagSkeleton, false, "Print a JSON document listing every input of this command and exit")

	root.AddCommand(
		newVersionCmd(a),
		newWorkspaceCmd(a),
		newProjectCmd(a),
		newFolderCmd(a),
		newApplicationCmd(a),
		newDataAssetCmd(a),
		newConnectionCmd(a),
		newSchemaCmd(a),
		newDataEntityCmd(a),
		newDataFlowCmd(a),
		newPipelineCmd(a),
		newTaskCmd(a),
		newTaskRunCmd(a),
		newTaskValidationCmd(a),
		newExternalPublicationCmd(a),
		newReferenceCmd(a),
		newPatchCmd(a),
		newWorkRequestCmd(a),
	)
	return root
}

// preRun applies the log level and the JSON input flags before the command
// runs.
func (a *app) preRun(cmd *cobra.Command) error {
	vars, err := a.loadEnv()
	if err != nil {
		return err
	}

	switch {
	case a.debug:
		log.SetLevel("DEBUG")
	case vars.LogLevel != "":
		log.SetLevel(vars.LogLevel)
	}
	cmd.SetContext(log.AddFields(cmd.Context(), zap.String("command", cmd.CommandPath())))

	skeleton, err := cmd.Flags().GetBool(flagSkeleton)
	if err != nil {
		return err
	}
	if skeleton {
		if err := printSkeleton(a.stdout, cmd); err != nil {
			return err
		}
		return errSkeletonPrinted
	}

	fromJSON, err := cmd.Flags().GetString(flagFromJSON)
	if err != nil {
		return err
	}
	if fromJSON != "" {
		return applyJSONInput(cmd, fromJSON)
	}
	return nil
}

// settings resolves the connection settings once per run.
func (a *app) settings() (config.Resolved, error) {
	if a.resolved != nil {
		return *a.resolved, nil
	}

	vars, err := a.loadEnv()
	if err != nil {
		return config.Resolved{}, err
	}
	r, err := config.Resolve(a.global, vars)
	if err != nil {
		return config.Resolved{}, err
	}
	a.resolved = &r
	return r, nil
}

// client returns the API client and the renderer for the resolved settings.
func (a *app) client() (*api.Client, lro.Renderer, error) {
	s, err := a.settings()
	if err != nil {
		return nil, nil, err
	}
	renderer, err := render.New(a.stdout, s.Output)
	if err != nil {
		return nil, nil, err
	}

	opts := append([]api.Option{api.WithUserAgent("dictl/" + a.version)}, a.apiOptions...)
	return api.NewClient(s.Endpoint, s.Token, opts...), renderer, nil
}

// compartmentID returns id, or the profile's compartment when id is empty.
func (a *app) compartmentID(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	s, err := a.settings()
	if err != nil {
		return "", err
	}
	if s.CompartmentID == "" {
		return "", errors.New("--compartment-id is required (flag or profile compartment-id)")
	}
	return s.CompartmentID, nil
}

// compartmentQuery fills the compartmentId query parameter from the profile
// when it was not given.
func (a *app) compartmentQuery(q url.Values) error {
	id, err := a.compartmentID(q.Get("compartmentId"))
	if err != nil {
		return err
	}
	q.Set("compartmentId", id)
	return nil
}
