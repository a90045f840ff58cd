package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dictl-dev/dictl/internal/env"
)

const profileFile = `default-profile: dev
profiles:
  dev:
    endpoint: http://localhost:8080/
    token: dev-token
    compartment-id: ocid1.compartment.oc1..dev
  prod:
    endpoint: https://dataintegration.us-ashburn-1.oci.oraclecloud.com/20200430
    compartment-id: ocid1.compartment.oc1..prod
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	want := &File{
		DefaultProfile: "dev",
		Profiles: map[string]Profile{
			"dev":  {Endpoint: "http://localhost:8080/", Token: "dev-token", CompartmentID: "ocid1.compartment.oc1..dev"},
			"prod": {Endpoint: "https://dataintegration.us-ashburn-1.oci.oraclecloud.com/20200430", CompartmentID: "ocid1.compartment.oc1..prod"},
		},
	}

	loaded, err := Load(writeFile(t, profileFile))
	require.NoError(t, err)
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Fatalf("cfg diff (-want +got)\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, f.DefaultProfile)
	assert.Empty(t, f.Profiles)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	p := writeFile(t, "profiles:\n  dev:\n    endpoint: http://x\n    region: iad\n")
	_, err := Load(p)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	path := writeFile(t, profileFile)

	tests := []struct {
		name    string
		flags   Flags
		vars    env.EnvVars
		want    Resolved
		wantErr error
	}{
		{
			name:  "default profile from file",
			flags: Flags{ConfigFile: path},
			want: Resolved{
				Endpoint:      "http://localhost:8080",
				Token:         "dev-token",
				Profile:       "dev",
				CompartmentID: "ocid1.compartment.oc1..dev",
				Output:        "json",
			},
		},
		{
			name:  "env overrides profile",
			flags: Flags{ConfigFile: path},
			vars:  env.EnvVars{Endpoint: "http://env:9000", Profile: "prod", Output: "TABLE"},
			want: Resolved{
				Endpoint:      "http://env:9000",
				Profile:       "prod",
				CompartmentID: "ocid1.compartment.oc1..prod",
				Output:        "table",
			},
		},
		{
			name:  "flags override env",
			flags: Flags{ConfigFile: path, Endpoint: "http://flag:1", Token: "flag-token", Output: "json"},
			vars:  env.EnvVars{Endpoint: "http://env:9000", Token: "env-token", Output: "table"},
			want: Resolved{
				Endpoint:      "http://flag:1",
				Token:         "flag-token",
				Profile:       "dev",
				CompartmentID: "ocid1.compartment.oc1..dev",
				Output:        "json",
			},
		},
		{
			name:    "unknown profile",
			flags:   Flags{ConfigFile: path, Profile: "qa"},
			wantErr: errors.New(`profile "qa" not found in ` + path),
		},
		{
			name:    "no endpoint anywhere",
			flags:   Flags{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")},
			wantErr: errors.New("endpoint not set (flag/env/config)"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.flags, tt.vars)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
