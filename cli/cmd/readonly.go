package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dictl-dev/dictl/internal/types"
)

func newSchemaCmd(a *app) *cobra.Command {
	return newResourceCmd("schema", "Browse the schemas of a connection",
		newGetCmd(a, types.Schema, "Gets a schema"),
		newListCmd(a, listCmd{res: types.Schema, short: "Lists schemas", filters: []string{"schemaResourceName", "nameList"}}),
	)
}

func newDataEntityCmd(a *app) *cobra.Command {
	return newResourceCmd("data-entity", "Browse the data entities of a schema",
		newGetCmd(a, types.DataEntity, "Gets a data entity"),
		newListCmd(a, listCmd{res: types.DataEntity, short: "Lists data entities", filters: []string{"type", "nameList"}}),
	)
}

func newWorkRequestCmd(a *app) *cobra.Command {
	return newResourceCmd("work-request", "Follow asynchronous workspace operations",
		newGetCmd(a, types.WorkRequest, "Gets a work request"),
		newListCmd(a, listCmd{
			res:     types.WorkRequest,
			short:   "Lists the work requests of a compartment",
			filters: []string{"compartmentId", "workspaceId", "workRequestStatus"},
			prepare: a.compartmentQuery,
		}),
	)
}
