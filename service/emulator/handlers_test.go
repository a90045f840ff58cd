package emulator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dictl-dev/dictl/internal/responses"
)

const workspaceBody = `{"compartmentId":"ocid1.compartment.oc1..c1","displayName":"ws"}`

func pollStatuses(t *testing.T, router http.Handler, id string, n int) []string {
	t.Helper()
	var got []string
	for i := 0; i < n; i++ {
		res := serve(router, http.MethodGet, "/workRequests/"+id, "")
		require.Equal(t, http.StatusOK, res.Code)
		got = append(got, decode(t, res)["status"].(string))
	}
	return got
}

func lifecycle(t *testing.T, router http.Handler, id string) string {
	t.Helper()
	res := serve(router, http.MethodGet, "/workspaces/"+id, "")
	require.Equal(t, http.StatusOK, res.Code)
	return decode(t, res)["lifecycleState"].(string)
}

func TestWorkspaceLifecycle(t *testing.T) {
	router := newTestRouter(t, Options{WorkRequestSteps: 2})

	// Given a created workspace
	res := serve(router, http.MethodPost, "/workspaces", workspaceBody)
	require.Equal(t, http.StatusAccepted, res.Code, res.Body.String())
	wrID := res.Header().Get(responses.HeaderOpcWorkRequestID)
	require.NotEmpty(t, wrID)
	body := decode(t, res)
	assert.Equal(t, "CREATING", body["lifecycleState"])
	id := body["id"].(string)
	assert.Contains(t, id, "ocid1.disworkspace.oc1..")

	// When its work request is polled to the end
	assert.Equal(t, []string{"IN_PROGRESS", "SUCCEEDED"}, pollStatuses(t, router, wrID, 2))

	// Then it is active
	assert.Equal(t, "ACTIVE", lifecycle(t, router, id))

	// Stop, then start again
	res = serve(router, http.MethodPost, "/workspaces/"+id+"/actions/stop", `{"quiesceTimeout":0}`)
	require.Equal(t, http.StatusAccepted, res.Code, res.Body.String())
	assert.Equal(t, "STOPPING", lifecycle(t, router, id))
	pollStatuses(t, router, res.Header().Get(responses.HeaderOpcWorkRequestID), 2)
	assert.Equal(t, "STOPPED", lifecycle(t, router, id))

	res = serve(router, http.MethodPost, "/workspaces/"+id+"/actions/stop", "")
	assert.Equal(t, http.StatusConflict, res.Code)

	res = serve(router, http.MethodPost, "/workspaces/"+id+"/actions/start", "")
	require.Equal(t, http.StatusAccepted, res.Code, res.Body.String())
	pollStatuses(t, router, res.Header().Get(responses.HeaderOpcWorkRequestID), 2)
	assert.Equal(t, "ACTIVE", lifecycle(t, router, id))

	// Delete
	res = serve(router, http.MethodDelete, "/workspaces/"+id, "")
	require.Equal(t, http.StatusAccepted, res.Code, res.Body.String())
	assert.Equal(t, "DELETING", lifecycle(t, router, id))
	pollStatuses(t, router, res.Header().Get(responses.HeaderOpcWorkRequestID), 2)
	assert.Equal(t, "DELETED", lifecycle(t, router, id))

	res = serve(router, http.MethodPost, "/workspaces/"+id+"/projects", `{"key":"p1","name":"p"}`)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestCreateWorkspaceValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not an object", body: `[1]`},
		{name: "empty body", body: ""},
		{name: "missing compartment", body: `{"displayName":"ws"}`},
		{name: "blank display name", body: `{"compartmentId":"ocid1.compartment.oc1..c1","displayName":"  "}`},
		{name: "bad compartment", body: `{"compartmentId":"compartment","displayName":"ws"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := serve(newTestRouter(t, Options{}), http.MethodPost, "/workspaces", tt.body)

			assert.Equal(t, http.StatusBadRequest, res.Code)
			assert.Equal(t, codeInvalidParameter, serviceError(t, res).Code)
		})
	}
}

func TestFailingOperation(t *testing.T) {
	router := newTestRouter(t, Options{
		WorkRequestSteps: 1,
		Config:           Config{FailOperations: []string{"create_workspace"}},
	})

	res := serve(router, http.MethodPost, "/workspaces", workspaceBody)
	require.Equal(t, http.StatusAccepted, res.Code)
	id := decode(t, res)["id"].(string)

	assert.Equal(t, []string{"FAILED"}, pollStatuses(t, router, res.Header().Get(responses.HeaderOpcWorkRequestID), 1))
	assert.Equal(t, "FAILED", lifecycle(t, router, id))
}

func TestUpdateWorkspace(t *testing.T) {
	router := newTestRouter(t, seededOptions())

	res := serve(router, http.MethodPut, "/workspaces/"+testWorkspace, `{"displayName":"renamed"}`)
	require.Equal(t, http.StatusAccepted, res.Code, res.Body.String())
	body := decode(t, res)
	assert.Equal(t, "renamed", body["displayName"])
	assert.Equal(t, "UPDATING", body["lifecycleState"])
	assert.Equal(t, testWorkspace, body["id"])

	pollStatuses(t, router, res.Header().Get(responses.HeaderOpcWorkRequestID), 2)
	assert.Equal(t, "ACTIVE", lifecycle(t, router, testWorkspace))
}

func TestObjectCrud(t *testing.T) {
	router := newTestRouter(t, seededOptions())
	projects := "/workspaces/" + testWorkspace + "/projects"

	// Create
	res := serve(router, http.MethodPost, projects, `{"key":"p1","name":"first","identifier":"FIRST","modelType":"PROJECT"}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	etag := res.Header().Get(responses.HeaderETag)
	require.NotEmpty(t, etag)
	body := decode(t, res)
	assert.Equal(t, float64(1), body["objectVersion"])
	assert.Equal(t, "2024-05-01T12:00:00Z", body["timeCreated"])

	// Duplicate key
	res = serve(router, http.MethodPost, projects, `{"key":"p1","name":"again"}`)
	assert.Equal(t, http.StatusConflict, res.Code)

	// Update with the current version
	res = serve(router, http.MethodPut, projects+"/p1", `{"key":"p1","name":"second","objectVersion":1}`, "if-match", etag)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	body = decode(t, res)
	assert.Equal(t, "second", body["name"])
	assert.Equal(t, "FIRST", body["identifier"])
	assert.Equal(t, float64(2), body["objectVersion"])
	newETag := res.Header().Get(responses.HeaderETag)
	assert.NotEqual(t, etag, newETag)

	// Stale version
	res = serve(router, http.MethodPut, projects+"/p1", `{"name":"third","objectVersion":1}`)
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, codeConflict, serviceError(t, res).Code)

	// Stale etag
	res = serve(router, http.MethodPut, projects+"/p1", `{"name":"third","objectVersion":2}`, "if-match", etag)
	assert.Equal(t, http.StatusPreconditionFailed, res.Code)
	assert.Equal(t, codePreconditionFailed, serviceError(t, res).Code)

	res = serve(router, http.MethodDelete, projects+"/p1", "", "if-match", etag)
	assert.Equal(t, http.StatusPreconditionFailed, res.Code)

	// Delete
	res = serve(router, http.MethodDelete, projects+"/p1", "", "if-match", newETag)
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = serve(router, http.MethodGet, projects+"/p1", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, codeNotFound, serviceError(t, res).Code)
}

func TestGeneratedKey(t *testing.T) {
	router := newTestRouter(t, seededOptions())

	res := serve(router, http.MethodPost, "/workspaces/"+testWorkspace+"/folders", `{"name":"f"}`)
	require.Equal(t, http.StatusOK, res.Code)
	key := decode(t, res)["key"].(string)
	assert.Len(t, key, 36)

	res = serve(router, http.MethodGet, "/workspaces/"+testWorkspace+"/folders/"+key, "")
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestMissingWorkspace(t *testing.T) {
	router := newTestRouter(t, seededOptions())

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		res := serve(router, method, "/workspaces/ocid1.disworkspace.oc1..missing/projects", `{"key":"p"}`)
		assert.Equal(t, http.StatusNotFound, res.Code, method)
	}
}

func TestList(t *testing.T) {
	router := newTestRouter(t, seededOptions())
	folders := "/workspaces/" + testWorkspace + "/folders"
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		res := serve(router, http.MethodPost, folders, fmt.Sprintf(`{"key":"%s","name":"%s"}`, name, name))
		require.Equal(t, http.StatusOK, res.Code)
	}

	tests := []struct {
		name     string
		query    string
		want     []string
		wantNext string
	}{
		{name: "all in creation order", want: []string{"charlie", "alpha", "bravo"}},
		{name: "first page", query: "?limit=2", want: []string{"charlie", "alpha"}, wantNext: "2"},
		{name: "second page", query: "?limit=2&page=2", want: []string{"bravo"}},
		{name: "filter", query: "?name=alpha", want: []string{"alpha"}},
		{name: "filter without match", query: "?name=delta", want: []string{}},
		{name: "sorted", query: "?sortBy=name", want: []string{"alpha", "bravo", "charlie"}},
		{name: "sorted descending", query: "?sortBy=name&sortOrder=desc", want: []string{"charlie", "bravo", "alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := serve(router, http.MethodGet, folders+tt.query, "")
			require.Equal(t, http.StatusOK, res.Code, res.Body.String())

			var list struct {
				Items []struct {
					Name string `json:"name"`
				} `json:"items"`
			}
			require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
			got := []string{}
			for _, it := range list.Items {
				got = append(got, it.Name)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantNext, res.Header().Get(responses.HeaderOpcNextPage))
		})
	}
}

func TestListInvalidParameters(t *testing.T) {
	router := newTestRouter(t, seededOptions())
	folders := "/workspaces/" + testWorkspace + "/folders"

	for _, query := range []string{"?page=x", "?limit=0", "?sortOrder=up"} {
		res := serve(router, http.MethodGet, folders+query, "")
		assert.Equal(t, http.StatusBadRequest, res.Code, query)
	}
}

func TestWorkRequests(t *testing.T) {
	router := newTestRouter(t, seededOptions())

	res := serve(router, http.MethodPost, "/workspaces/"+testWorkspace+"/actions/stop", "")
	require.Equal(t, http.StatusAccepted, res.Code, res.Body.String())
	wrID := res.Header().Get(responses.HeaderOpcWorkRequestID)

	res = serve(router, http.MethodGet, "/workRequests", "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, codeMissingParameter, serviceError(t, res).Code)

	res = serve(router, http.MethodGet, "/workRequests?compartmentId="+testCompartment+"&workspaceId="+testWorkspace, "")
	require.Equal(t, http.StatusOK, res.Code)
	var list struct {
		Items []responses.WorkRequest `json:"items"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, wrID, list.Items[0].ID)
	assert.Equal(t, "STOP_WORKSPACE", list.Items[0].OperationType)
	assert.Equal(t, "ACCEPTED", list.Items[0].Status)

	res = serve(router, http.MethodGet, "/workRequests?compartmentId="+testCompartment+"&workRequestStatus=SUCCEEDED", "")
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	assert.Empty(t, list.Items)

	res = serve(router, http.MethodGet, "/workRequests/missing", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestStopWorkspaceValidation(t *testing.T) {
	router := newTestRouter(t, seededOptions())

	res := serve(router, http.MethodPost, "/workspaces/"+testWorkspace+"/actions/stop", `{"quiesceTimeout":-1}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = serve(router, http.MethodPost, "/workspaces/"+testWorkspace+"/actions/stop", "", "if-match", "stale")
	assert.Equal(t, http.StatusPreconditionFailed, res.Code)

	res = serve(router, http.MethodPost, "/workspaces/ocid1.disworkspace.oc1..missing/actions/start", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestSeededSchemas(t *testing.T) {
	opts := seededOptions()
	opts.Config.Schemas = []SchemaSeed{{
		WorkspaceID:   testWorkspace,
		ConnectionKey: "conn1",
		Name:          "HR",
		DataEntities:  []string{"EMPLOYEES", "DEPARTMENTS"},
	}}
	router := newTestRouter(t, opts)
	schemas := "/workspaces/" + testWorkspace + "/connections/conn1/schemas"

	res := serve(router, http.MethodGet, schemas+"/HR", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "HR", decode(t, res)["resourceName"])

	res = serve(router, http.MethodGet, schemas+"/HR/dataEntities?limit=1", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "1", res.Header().Get(responses.HeaderOpcNextPage))

	res = serve(router, http.MethodGet, schemas+"/HR/dataEntities/DEPARTMENTS", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "TABLE_ENTITY", decode(t, res)["modelType"])
}

func TestLoadConfig(t *testing.T) {
	write := func(t *testing.T, content string) string {
		path := filepath.Join(t.TempDir(), "emulator.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	tests := []struct {
		name    string
		content string
		want    Config
		wantErr string
	}{
		{
			name: "full",
			content: `fail-operations: [STOP_WORKSPACE]
workspaces:
  - id: ocid1.disworkspace.oc1..w1
    compartment-id: ocid1.compartment.oc1..c1
    display-name: dev
schemas:
  - workspace-id: ocid1.disworkspace.oc1..w1
    connection-key: conn1
    name: HR
    data-entities: [EMPLOYEES]
`,
			want: Config{
				FailOperations: []string{"STOP_WORKSPACE"},
				Workspaces:     []WorkspaceSeed{{ID: "ocid1.disworkspace.oc1..w1", CompartmentID: "ocid1.compartment.oc1..c1", DisplayName: "dev"}},
				Schemas:        []SchemaSeed{{WorkspaceID: "ocid1.disworkspace.oc1..w1", ConnectionKey: "conn1", Name: "HR", DataEntities: []string{"EMPLOYEES"}}},
			},
		},
		{
			name:    "unknown field",
			content: "workspace: []\n",
			wantErr: "unable to parse",
		},
		{
			name:    "workspace without id",
			content: "workspaces:\n  - display-name: dev\n",
			wantErr: "workspace 0 has no id",
		},
		{
			name:    "incomplete schema",
			content: "schemas:\n  - name: HR\n",
			wantErr: "schema 0 needs workspace-id, connection-key and name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig(write(t, tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("empty path", func(t *testing.T) {
		got, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, Config{}, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
