package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dictl-dev/dictl/internal/requests"
	"github.com/dictl-dev/dictl/internal/types"
)

func verb(update bool) string {
	if update {
		return "update"
	}
	return "create"
}

// objectCmd builds the create or update command of a design-time object.
// key and version point into body.
func objectCmd(a *app, use, short string, res types.Resource, update bool, body requests.Body, key *string, version *int, bind func(fs *pflag.FlagSet)) *cobra.Command {
	spec := bodyCmd{
		use:      use,
		short:    short,
		res:      res,
		update:   update,
		body:     body,
		bind:     bind,
		required: objectRequired(update),
	}
	if update {
		spec.prepare = setKey(key)
		spec.validations = updateValidations(key, version)
	}
	return newBodyCmd(a, spec)
}

func newProjectCmd(a *app) *cobra.Command {
	write := func(update bool) *cobra.Command {
		req := &requests.Project{}
		return objectCmd(a, verb(update), "Creates or updates a project", types.Project, update, req,
			&req.Key, &req.ObjectVersion,
			func(fs *pflag.FlagSet) { objectFlags(fs, &req.Object, update) })
	}

	return newResourceCmd("project", "Manage projects in a workspace",
		write(false),
		newGetCmd(a, types.Project, "Gets a project"),
		newListCmd(a, listCmd{res: types.Project, short: "Lists projects"}),
		write(true),
		newDeleteCmd(a, types.Project, "Deletes a project"),
	)
}

func newFolderCmd(a *app) *cobra.Command {
	write := func(update bool) *cobra.Command {
		req := &requests.Folder{}
		return objectCmd(a, verb(update), "Creates or updates a folder", types.Folder, update, req,
			&req.Key, &req.ObjectVersion,
			func(fs *pflag.FlagSet) {
				objectFlags(fs, &req.Object, update)
				fs.StringVar(&req.CategoryName, "category-name", "", "The category name.")
			})
	}

	return newResourceCmd("folder", "Manage folders in a workspace",
		write(false),
		newGetCmd(a, types.Folder, "Gets a folder"),
		newListCmd(a, listCmd{res: types.Folder, short: "Lists folders", filters: []string{"aggregatorKey"}}),
		write(true),
		newDeleteCmd(a, types.Folder, "Deletes a folder"),
	)
}

func newApplicationCmd(a *app) *cobra.Command {
	write := func(update bool) *cobra.Command {
		req := &requests.Application{}
		return objectCmd(a, verb(update), "Creates or updates an application", types.Application, update, req,
			&req.Key, &req.ObjectVersion,
			func(fs *pflag.FlagSet) {
				objectFlags(fs, &req.Object, update)
				fs.StringVar(&req.DisplayName, "display-name", "", "A user defined name, can be changed.")
				fs.Var(newMapValue(&req.FreeformTags), "freeform-tags", "Free-form tags as k=v,k2=v2 or a JSON object.")
			})
	}

	return newResourceCmd("application", "Manage applications in a workspace",
		write(false),
		newGetCmd(a, types.Application, "Gets an application"),
		newListCmd(a, listCmd{res: types.Application, short: "Lists applications", filters: []string{"identifier"}}),
		write(true),
		newDeleteCmd(a, types.Application, "Deletes an application"),
	)
}

func newDataFlowCmd(a *app) *cobra.Command {
	write := func(update bool) *cobra.Command {
		req := &requests.DataFlow{}
		return objectCmd(a, verb(update), "Creates or updates a data flow", types.DataFlow, update, req,
			&req.Key, &req.ObjectVersion,
			func(fs *pflag.FlagSet) {
				objectFlags(fs, &req.Object, update)
				fs.Var(newJSONValue(&req.Nodes), "nodes", "The operators of the data flow, JSON or file://path.")
				fs.Var(newJSONValue(&req.Parameters), "parameters", "The parameters of the data flow, JSON or file://path.")
				fs.Var(newJSONValue(&req.FlowConfigValues), "flow-config-values", "Configuration values, JSON or file://path.")
			})
	}

	return newResourceCmd("data-flow", "Manage data flows in a workspace",
		write(false),
		newGetCmd(a, types.DataFlow, "Gets a data flow"),
		newListCmd(a, listCmd{res: types.DataFlow, short: "Lists data flows", filters: []string{"folderId", "identifier"}}),
		write(true),
		newDeleteCmd(a, types.DataFlow, "Deletes a data flow"),
	)
}

func newPipelineCmd(a *app) *cobra.Command {
	write := func(update bool) *cobra.Command {
		req := &requests.Pipeline{}
		return objectCmd(a, verb(update), "Creates or updates a pipeline", types.Pipeline, update, req,
			&req.Key, &req.ObjectVersion,
			func(fs *pflag.FlagSet) {
				objectFlags(fs, &req.Object, update)
				fs.Var(newJSONValue(&req.Nodes), "nodes", "The operators of the pipeline, JSON or file://path.")
				fs.Var(newJSONValue(&req.Parameters), "parameters", "The parameters of the pipeline, JSON or file://path.")
				fs.Var(newJSONValue(&req.Variables), "variables", "The variables of the pipeline, JSON or file://path.")
				fs.Var(newJSONValue(&req.FlowConfigValues), "flow-config-values", "Configuration values, JSON or file://path.")
			})
	}

	return newResourceCmd("pipeline", "Manage pipelines in a workspace",
		write(false),
		newGetCmd(a, types.Pipeline, "Gets a pipeline"),
		newListCmd(a, listCmd{res: types.Pipeline, short: "Lists pipelines", filters: []string{"aggregatorKey"}}),
		write(true),
		newDeleteCmd(a, types.Pipeline, "Deletes a pipeline"),
	)
}
