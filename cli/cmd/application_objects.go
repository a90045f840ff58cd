package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dictl-dev/dictl/internal/requests"
	"github.com/dictl-dev/dictl/internal/types"
	"github.com/dictl-dev/dictl/internal/validations"
)

func newTaskRunCmd(a *app) *cobra.Command {
	create := &requests.CreateTaskRun{}
	update := &requests.UpdateTaskRun{}

	return newResourceCmd("task-run", "Run tasks published to an application",
		newBodyCmd(a, bodyCmd{
			use:   "create",
			short: "Runs a published task",
			res:   types.TaskRun,
			body:  create,
			bind: func(fs *pflag.FlagSet) {
				fs.StringVar(&create.Key, "key", "", "The key of the task run.")
				fs.StringVar(&create.ModelVersion, "model-version", "", "The model version of the object.")
				fs.StringVar(&create.Name, "name", "", "Free form text without any restriction on permitted characters.")
				fs.StringVar(&create.Description, "description", "", "Detailed description of the task run.")
				fs.StringVar(&create.Identifier, "identifier", "", "Value can only contain upper case letters, underscore and numbers.")
				fs.Var(newOptionalInt(&create.ObjectStatus), "object-status", "The status of the object.")
				jsonFlag(fs, &create.ConfigProvider, "config-provider", "Configuration values of the run.")
				jsonFlag(fs, &create.ParentRef, "parent-ref", "A reference to the parent of the object.")
				jsonFlag(fs, &create.RegistryMetadata, "registry-metadata", "Registry metadata naming the published task to run.")
			},
			required: []string{"registry-metadata"},
		}),
		newGetCmd(a, types.TaskRun, "Gets a task run"),
		newListCmd(a, listCmd{res: types.TaskRun, short: "Lists task runs", filters: []string{"key", "aggregatorKey", "filter"}}),
		newBodyCmd(a, bodyCmd{
			use:    "update",
			short:  "Updates a task run, e.g. to terminate it",
			res:    types.TaskRun,
			update: true,
			body:   update,
			bind: func(fs *pflag.FlagSet) {
				fs.StringVar(&update.Status, "status", "", "The status of the task run. Set to "+requests.TaskRunTerminating+" to stop it.")
				fs.StringVar(&update.ModelVersion, "model-version", "", "The model version of the object.")
				fs.StringVar(&update.Name, "name", "", "Free form text without any restriction on permitted characters.")
				fs.StringVar(&update.Description, "description", "", "Detailed description of the task run.")
				fs.StringVar(&update.Identifier, "identifier", "", "Value can only contain upper case letters, underscore and numbers.")
				fs.IntVar(&update.ObjectVersion, "object-version", 0, "The version of the object being updated.")
				fs.Var(newOptionalInt(&update.ObjectStatus), "object-status", "The status of the object.")
			},
			prepare: setKey(&update.Key),
			validations: func() []func() error {
				return []func() error{requests.RequireKey(update.Key)}
			},
		}),
		newDeleteCmd(a, types.TaskRun, "Deletes a task run"),
	)
}

func newExternalPublicationCmd(a *app) *cobra.Command {
	write := func(update bool) *cobra.Command {
		req := &requests.ExternalPublication{}
		spec := bodyCmd{
			use:    verb(update),
			short:  "Publishes a task to an external application, or updates the publication",
			res:    types.ExternalPublication,
			update: update,
			body:   req,
			bind: func(fs *pflag.FlagSet) {
				fs.StringVar(&req.ApplicationID, "application-id", "", "The OCID of the application the task is published to.")
				fs.StringVar(&req.ApplicationCompartmentID, "application-compartment-id", "", "The OCID of the compartment of the application.")
				fs.StringVar(&req.DisplayName, "display-name", "", "The name of the publication.")
				fs.StringVar(&req.Description, "description", "", "Detailed description of the publication.")
				jsonFlag(fs, &req.ResourceConfiguration, "resource-configuration", "Resources the task runs with.")
				jsonFlag(fs, &req.ConfigurationDetails, "configuration-details", "Configuration of the published task.")
			},
			required: []string{"application-id", "display-name"},
		}
		if update {
			spec.prepare = setKey(&req.Key)
			spec.validations = func() []func() error {
				return []func() error{requests.RequireKey(req.Key)}
			}
		}
		return newBodyCmd(a, spec)
	}

	return newResourceCmd("external-publication", "Publish tasks to external applications",
		write(false),
		newGetCmd(a, types.ExternalPublication, "Gets an external publication"),
		newListCmd(a, listCmd{res: types.ExternalPublication, short: "Lists external publications"}),
		write(true),
		newDeleteCmd(a, types.ExternalPublication, "Deletes an external publication"),
	)
}

func newReferenceCmd(a *app) *cobra.Command {
	req := &requests.UpdateReference{}

	return newResourceCmd("reference", "Manage references of an application",
		newGetCmd(a, types.Reference, "Gets a reference"),
		newListCmd(a, listCmd{res: types.Reference, short: "Lists references", filters: []string{"type"}}),
		newBodyCmd(a, bodyCmd{
			use:    "update",
			short:  "Updates the target of a reference",
			res:    types.Reference,
			update: true,
			body:   req,
			bind: func(fs *pflag.FlagSet) {
				fs.Var(newMapValue(&req.Options), "options", "Reference options as k=v,k2=v2 or a JSON object.")
				jsonFlag(fs, &req.TargetObject, "target-object", "The new target object of the reference.")
				jsonFlag(fs, &req.ChildReferences, "child-references", "The child references.")
			},
		}),
	)
}

func newPatchCmd(a *app) *cobra.Command {
	create := func(patchType string) *cobra.Command {
		req := &requests.CreatePatch{PatchType: patchType}
		return newBodyCmd(a, bodyCmd{
			use:   "create-" + strings.ToLower(patchType),
			short: "Creates a " + strings.ToLower(patchType) + " patch of an application",
			res:   types.Patch,
			body:  req,
			bind: func(fs *pflag.FlagSet) {
				fs.StringVar(&req.Name, "name", "", "Free form text without any restriction on permitted characters.")
				fs.StringVar(&req.Identifier, "identifier", "", "Value can only contain upper case letters, underscore and numbers.")
				fs.StringVar(&req.Description, "description", "", "Detailed description of the patch.")
				fs.StringVar(&req.Key, "key", "", "The key of the patch.")
				fs.StringVar(&req.ModelVersion, "model-version", "", "The model version of the object.")
				fs.Var(newOptionalInt(&req.ObjectStatus), "object-status", "The status of the object.")
				fs.StringSliceVar(&req.ObjectKeys, "object-keys", nil, "Keys of the objects to patch, repeatable.")
				jsonFlag(fs, &req.RegistryMetadata, "registry-metadata", "Registry metadata of the patch.")
			},
			required: []string{"name", "identifier"},
		})
	}

	cmd := newResourceCmd("patch", "Publish, refresh and unpublish application content",
		newGetCmd(a, types.Patch, "Gets a patch"),
		newListCmd(a, listCmd{res: types.Patch, short: "Lists patches", filters: []string{"identifier"}}),
		newDeleteCmd(a, types.Patch, "Deletes a patch"),
	)
	for _, t := range validations.PatchTypes {
		cmd.AddCommand(create(t))
	}
	return cmd
}
