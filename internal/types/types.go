// Package types holds the resource catalog shared by the CLI and the emulator.
package types

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Resource describes one REST collection of the Data Integration service.
type Resource struct {
	// Name is the CLI noun, e.g. "data-asset".
	Name string
	// Collection is the collection path template. Parameters use the
	// {name} syntax understood by gorilla/mux.
	Collection string
	// KeyParam names the item path parameter.
	KeyParam string
	// KeyField is the body field holding the item key.
	KeyField string
	// Async resources answer mutations with a work request.
	Async bool
	// ReadOnly resources only support get and list.
	ReadOnly bool
}

// ItemPath returns the item path template.
func (r Resource) ItemPath() string {
	return r.Collection + "/{" + r.KeyParam + "}"
}

// Params returns the path parameters of the collection, outermost first.
func (r Resource) Params() []string {
	return pathParams(r.Collection)
}

var paramPattern = regexp.MustCompile(`\{([A-Za-z]+)\}`)

func pathParams(template string) []string {
	var out []string
	for _, m := range paramPattern.FindAllStringSubmatch(template, -1) {
		out = append(out, m[1])
	}
	return out
}

// Expand fills template with escaped values. Every parameter must be present
// and not blank.
func Expand(template string, values map[string]string) (string, error) {
	var missing []string
	path := paramPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := values[name]
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("path parameters must not be blank: %s", strings.Join(missing, ", "))
	}
	return path, nil
}

// Catalog entries.
var (
	Workspace = Resource{
		Name:       "workspace",
		Collection: "/workspaces",
		KeyParam:   "workspaceId",
		KeyField:   "id",
		Async:      true,
	}
	Project = Resource{
		Name:       "project",
		Collection: "/workspaces/{workspaceId}/projects",
		KeyParam:   "projectKey",
		KeyField:   "key",
	}
	Folder = Resource{
		Name:       "folder",
		Collection: "/workspaces/{workspaceId}/folders",
		KeyParam:   "folderKey",
		KeyField:   "key",
	}
	Application = Resource{
		Name:       "application",
		Collection: "/workspaces/{workspaceId}/applications",
		KeyParam:   "applicationKey",
		KeyField:   "key",
	}
	DataAsset = Resource{
		Name:       "data-asset",
		Collection: "/workspaces/{workspaceId}/dataAssets",
		KeyParam:   "dataAssetKey",
		KeyField:   "key",
	}
	Connection = Resource{
		Name:       "connection",
		Collection: "/workspaces/{workspaceId}/connections",
		KeyParam:   "connectionKey",
		KeyField:   "key",
	}
	Schema = Resource{
		Name:       "schema",
		Collection: "/workspaces/{workspaceId}/connections/{connectionKey}/schemas",
		KeyParam:   "schemaResourceName",
		KeyField:   "resourceName",
		ReadOnly:   true,
	}
	DataEntity = Resource{
		Name:       "data-entity",
		Collection: "/workspaces/{workspaceId}/connections/{connectionKey}/schemas/{schemaResourceName}/dataEntities",
		KeyParam:   "dataEntityKey",
		KeyField:   "key",
		ReadOnly:   true,
	}
	DataFlow = Resource{
		Name:       "data-flow",
		Collection: "/workspaces/{workspaceId}/dataFlows",
		KeyParam:   "dataFlowKey",
		KeyField:   "key",
	}
	Pipeline = Resource{
		Name:       "pipeline",
		Collection: "/workspaces/{workspaceId}/pipelines",
		KeyParam:   "pipelineKey",
		KeyField:   "key",
	}
	Task = Resource{
		Name:       "task",
		Collection: "/workspaces/{workspaceId}/tasks",
		KeyParam:   "taskKey",
		KeyField:   "key",
	}
	TaskRun = Resource{
		Name:       "task-run",
		Collection: "/workspaces/{workspaceId}/applications/{applicationKey}/taskRuns",
		KeyParam:   "taskRunKey",
		KeyField:   "key",
	}
	TaskValidation = Resource{
		Name:       "task-validation",
		Collection: "/workspaces/{workspaceId}/taskValidations",
		KeyParam:   "taskValidationKey",
		KeyField:   "key",
	}
	ExternalPublication = Resource{
		Name:       "external-publication",
		Collection: "/workspaces/{workspaceId}/tasks/{taskKey}/externalPublications",
		KeyParam:   "externalPublicationsKey",
		KeyField:   "key",
	}
	Reference = Resource{
		Name:       "reference",
		Collection: "/workspaces/{workspaceId}/applications/{applicationKey}/references",
		KeyParam:   "referenceKey",
		KeyField:   "key",
	}
	Patch = Resource{
		Name:       "patch",
		Collection: "/workspaces/{workspaceId}/applications/{applicationKey}/patches",
		KeyParam:   "patchKey",
		KeyField:   "key",
	}
	WorkRequest = Resource{
		Name:       "work-request",
		Collection: "/workRequests",
		KeyParam:   "workRequestId",
		KeyField:   "id",
		ReadOnly:   true,
	}
)

// Catalog lists every resource, parents before children.
var Catalog = []Resource{
	Workspace,
	Project,
	Folder,
	Application,
	DataAsset,
	Connection,
	Schema,
	DataEntity,
	DataFlow,
	Pipeline,
	Task,
	TaskRun,
	TaskValidation,
	ExternalPublication,
	Reference,
	Patch,
	WorkRequest,
}

// Lookup finds a resource by CLI name.
func Lookup(name string) (Resource, bool) {
	for _, r := range Catalog {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// WorkspaceAction is the path of a workspace lifecycle action.
func WorkspaceAction(action string) string {
	return Workspace.ItemPath() + "/actions/" + action
}

// FlagName converts a path parameter to its kebab-case flag name, so
// workspaceId becomes workspace-id.
func FlagName(param string) string {
	var b strings.Builder
	for i, r := range param {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + 'a' - 'A')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
