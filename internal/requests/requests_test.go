package requests

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compartment = "ocid1.compartment.oc1..aaaaaaaa4h2dncm7hqk2vzfvutyuq4epqdzg2xt7kx4vlq6yyz3pt3lf5wq"

func TestCreateWorkspaceValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateWorkspace
		wantErr error
	}{
		{
			name: "valid",
			req: CreateWorkspace{
				CompartmentID: compartment,
				DisplayName:   "sales-ws",
			},
		},
		{
			name: "valid private network",
			req: CreateWorkspace{
				CompartmentID:           compartment,
				DisplayName:             "sales-ws",
				IsPrivateNetworkEnabled: boolPtr(true),
				DNSServerIP:             "10.0.0.2",
				SubnetID:                "ocid1.subnet.oc1.iad.aaaaaaaabbbbbbb",
			},
		},
		{
			name:    "compartment is required",
			req:     CreateWorkspace{DisplayName: "sales-ws"},
			wantErr: errors.New("failed validation check for 'required' 'compartmentId'"),
		},
		{
			name:    "compartment must be an ocid",
			req:     CreateWorkspace{CompartmentID: "sales", DisplayName: "sales-ws"},
			wantErr: errors.New("failed validation check for 'ocid', on 'compartmentId', value 'sales' is not a valid ocid"),
		},
		{
			name:    "display name must not be blank",
			req:     CreateWorkspace{CompartmentID: compartment, DisplayName: " "},
			wantErr: errors.New("failed validation check for 'not_blank', 'displayName' must not be blank"),
		},
		{
			name:    "dns server must be an ip",
			req:     CreateWorkspace{CompartmentID: compartment, DisplayName: "ws", DNSServerIP: "dns.local"},
			wantErr: errors.New("failed validation check for 'ip' 'dnsServerIp'"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUpdateOptionalValidations(t *testing.T) {
	tests := []struct {
		name    string
		req     Body
		opts    []func() error
		wantErr error
	}{
		{
			name: "update with key and version",
			req:  Project{Object: Object{Key: "p1", ObjectVersion: 3, Name: "p", Identifier: "P"}},
			opts: []func() error{RequireKey("p1"), RequireObjectVersion(3)},
		},
		{
			name:    "update without key",
			req:     Folder{Object: Object{Name: "f", Identifier: "F"}},
			opts:    []func() error{RequireKey(""), RequireObjectVersion(1)},
			wantErr: errors.New("failed validation check for 'not_blank', 'key' must not be blank"),
		},
		{
			name:    "update without version",
			req:     DataFlow{Object: Object{Key: "df", Name: "f", Identifier: "F"}},
			opts:    []func() error{RequireKey("df"), RequireObjectVersion(0)},
			wantErr: errors.New("failed validation check for 'objectVersion' '1'"),
		},
		{
			name:    "embedded object fields are validated",
			req:     Pipeline{Object: Object{Name: "pl"}},
			wantErr: errors.New("failed validation check for 'not_blank', 'identifier' must not be blank"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(tt.opts...)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreatePatchValidate(t *testing.T) {
	p := CreatePatch{Name: "release", Identifier: "RELEASE", PatchType: "PUBLISH", ObjectKeys: []string{"t1"}}
	assert.NoError(t, p.Validate())

	p.PatchType = "MERGE"
	assert.EqualError(t, p.Validate(), "failed validation check for 'patch_type', value 'MERGE' is invalid, types supported: 'PUBLISH', 'REFRESH', 'UNPUBLISH'")

	p.PatchType = "REFRESH"
	p.ObjectKeys = []string{"t1", ""}
	assert.EqualError(t, p.Validate(), "failed validation check for 'not_blank', 'objectKeys[1]' must not be blank")
}

func TestUpdateTaskRunValidate(t *testing.T) {
	assert.NoError(t, UpdateTaskRun{Key: "run1", Status: TaskRunTerminating}.Validate(RequireKey("run1")))
	assert.EqualError(t, UpdateTaskRun{Key: "run1", Status: "RUNNING"}.Validate(), "failed validation check for 'oneof' 'status'")
}

func TestVariantModelType(t *testing.T) {
	tests := []struct {
		name string
		req  Variant
		want map[string]interface{}
	}{
		{
			name: "atp connection",
			req: OracleATPConnection{
				ConnectionBase: ConnectionBase{Name: "atp", Identifier: "ATP"},
				Username:       "admin",
			},
			want: map[string]interface{}{
				"modelType":  "ORACLE_ATP_CONNECTION",
				"name":       "atp",
				"identifier": "ATP",
				"username":   "admin",
			},
		},
		{
			name: "mysql data asset",
			req: MySQLDataAsset{
				DataAssetBase: DataAssetBase{Name: "mysql", Identifier: "MYSQL"},
				Host:          "db.local",
				Port:          "3306",
			},
			want: map[string]interface{}{
				"modelType":  "MYSQL_DATA_ASSET",
				"name":       "mysql",
				"identifier": "MYSQL",
				"host":       "db.local",
				"port":       "3306",
			},
		},
		{
			name: "integration task",
			req: IntegrationTask{
				TaskBase: TaskBase{
					Name:             "load",
					Identifier:       "LOAD",
					RegistryMetadata: json.RawMessage(`{"aggregatorKey":"f1"}`),
				},
				DataFlow: json.RawMessage(`{"key":"df1"}`),
			},
			want: map[string]interface{}{
				"modelType":        "INTEGRATION_TASK",
				"name":             "load",
				"identifier":       "LOAD",
				"registryMetadata": map[string]interface{}{"aggregatorKey": "f1"},
				"dataFlow":         map[string]interface{}{"key": "df1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.req)
			require.NoError(t, err)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(b, &got))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestVariantModelTypeComesFirst(t *testing.T) {
	b, err := json.Marshal(PipelineTask{TaskBase: TaskBase{Name: "p", Identifier: "P", RegistryMetadata: json.RawMessage(`{}`)}})
	require.NoError(t, err)
	assert.Equal(t, `{"modelType":"PIPELINE_TASK","name":"p","identifier":"P","registryMetadata":{}}`, string(b))
}

func TestVariantsCoverEveryModelType(t *testing.T) {
	variants := []Variant{
		OracleADWCConnection{}, OracleATPConnection{}, OracleObjectStorageConnection{},
		OracleDBConnection{}, MySQLConnection{}, GenericJDBCConnection{},
		OracleDataAsset{}, OracleObjectStorageDataAsset{}, OracleATPDataAsset{},
		OracleADWCDataAsset{}, MySQLDataAsset{}, GenericJDBCDataAsset{},
		IntegrationTask{}, DataLoaderTask{}, PipelineTask{},
	}

	seen := map[string]bool{}
	for _, v := range variants {
		assert.False(t, seen[v.ModelType()], v.ModelType())
		seen[v.ModelType()] = true
	}
	assert.Len(t, seen, 15)
}

func TestTaskRegistryMetadataRequired(t *testing.T) {
	err := DataLoaderTask{TaskBase: TaskBase{Name: "l", Identifier: "L"}}.Validate()
	assert.EqualError(t, err, "failed validation check for 'required' 'registryMetadata'")
}

func boolPtr(b bool) *bool { return &b }
