package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dictl-dev/dictl/cli/internal/api"
	"github.com/dictl-dev/dictl/internal/requests"
	"github.com/dictl-dev/dictl/internal/types"
)

func newWorkspaceCmd(a *app) *cobra.Command {
	return newResourceCmd("workspace", "Manage Data Integration workspaces",
		newWorkspaceCreateCmd(a),
		newGetCmd(a, types.Workspace, "Gets a workspace"),
		newListCmd(a, listCmd{
			res:     types.Workspace,
			short:   "Lists the workspaces of a compartment",
			filters: []string{"compartmentId", "lifecycleState"},
			prepare: a.compartmentQuery,
		}),
		newWorkspaceUpdateCmd(a),
		newDeleteCmd(a, types.Workspace, "Deletes a workspace"),
		newWorkspaceActionCmd(a, "start", "Starts a stopped workspace", nil, nil),
		newWorkspaceStopCmd(a),
	)
}

func newWorkspaceCreateCmd(a *app) *cobra.Command {
	req := &requests.CreateWorkspace{}
	return newBodyCmd(a, bodyCmd{
		use:   "create",
		short: "Creates a workspace",
		res:   types.Workspace,
		body:  req,
		bind: func(fs *pflag.FlagSet) {
			fs.StringVar(&req.CompartmentID, "compartment-id", "", "The OCID of the compartment holding the workspace. Defaults to the profile compartment-id.")
			fs.StringVar(&req.DisplayName, "display-name", "", "A user-friendly display name for the workspace.")
			fs.StringVar(&req.Description, "description", "", "A user defined description for the workspace.")
			fs.StringVar(&req.DNSServerIP, "dns-server-ip", "", "The IP of the custom DNS.")
			fs.StringVar(&req.DNSServerZone, "dns-server-zone", "", "The DNS zone of the custom DNS to use to resolve names.")
			boolFlag(fs, &req.IsPrivateNetworkEnabled, "is-private-network-enabled", "Whether the workspace uses a private network.")
			fs.StringVar(&req.SubnetID, "subnet-id", "", "The OCID of the subnet for customer connected databases.")
			fs.StringVar(&req.VcnID, "vcn-id", "", "The OCID of the VCN the subnet is in.")
			fs.Var(newMapValue(&req.FreeformTags), "freeform-tags", "Free-form tags as k=v,k2=v2 or a JSON object.")
			fs.Var(newJSONValue(&req.DefinedTags), "defined-tags", "Defined tags, JSON or file://path.")
		},
		required: []string{"display-name"},
		prepare: func(string) error {
			id, err := a.compartmentID(req.CompartmentID)
			if err != nil {
				return err
			}
			req.CompartmentID = id
			return nil
		},
	})
}

func newWorkspaceUpdateCmd(a *app) *cobra.Command {
	req := &requests.UpdateWorkspace{}
	return newBodyCmd(a, bodyCmd{
		use:    "update",
		short:  "Updates a workspace",
		res:    types.Workspace,
		update: true,
		body:   req,
		bind: func(fs *pflag.FlagSet) {
			fs.StringVar(&req.DisplayName, "display-name", "", "A user-friendly display name for the workspace.")
			fs.StringVar(&req.Description, "description", "", "A user defined description for the workspace.")
			fs.Var(newMapValue(&req.FreeformTags), "freeform-tags", "Free-form tags as k=v,k2=v2 or a JSON object.")
			fs.Var(newJSONValue(&req.DefinedTags), "defined-tags", "Defined tags, JSON or file://path.")
		},
	})
}

func newWorkspaceStopCmd(a *app) *cobra.Command {
	req := &requests.StopWorkspace{}
	return newWorkspaceActionCmd(a, "stop", "Stops a running workspace", req, func(fs *pflag.FlagSet) {
		fs.Var(newOptionalInt(&req.QuiesceTimeout), "quiesce-timeout", "Seconds to let running tasks finish before stopping.")
		boolFlag(fs, &req.IsForceOperation, "is-force-operation", "Stop without waiting for running tasks.")
	})
}

// newWorkspaceActionCmd builds a workspace lifecycle action. body may be nil.
func newWorkspaceActionCmd(a *app, action, short string, body requests.Body, bind func(fs *pflag.FlagSet)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   action,
		Short: short,
		Long:  short,
		Args:  cobra.NoArgs,
	}
	fs := cmd.Flags()
	path := bindPath(fs, types.Workspace, true)
	if bind != nil {
		bind(fs)
	}
	w := bindWait(fs)
	markRequired(cmd, path.required()...)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if _, err := path.path(); err != nil {
			return err
		}
		p, err := types.Expand(types.WorkspaceAction(action), map[string]string{types.Workspace.KeyParam: path.key()})
		if err != nil {
			return err
		}
		return a.mutate(cmd, mutation{
			call:  api.Call{Method: http.MethodPost, Path: p},
			body:  body,
			async: true,
			wait:  w,
		})
	}
	return cmd
}
