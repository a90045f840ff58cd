package helpers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEqualsSeparatedCSVToMap(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    map[string]string
		wantErr error
	}{
		{
			name: "pairs",
			in:   "team=etl,env=dev=1",
			want: map[string]string{"team": "etl", "env": "dev=1"},
		},
		{
			name: "empty",
			in:   "",
			want: map[string]string{},
		},
		{
			name:    "missing equals",
			in:      "team=etl,dev",
			wantErr: errors.New("could not parse equals separated value dev"),
		},
		{
			name:    "missing key",
			in:      "=etl",
			wantErr: errors.New("could not parse equals separated value =etl"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEqualsSeparatedCSVToMap(tt.in)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJSON(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "nodes.json")
	require.NoError(t, os.WriteFile(good, []byte("[\n  {\"key\": \"n1\"}\n]\n"), 0o600))

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "inline", in: `{"a": 1}`, want: `{"a":1}`},
		{name: "file", in: "file://" + good, want: `[{"key":"n1"}]`},
		{name: "missing file", in: "file://" + filepath.Join(dir, "absent.json"), wantErr: true},
		{name: "not json", in: "{a}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestCaseConversion(t *testing.T) {
	tests := []struct {
		kebab string
		camel string
	}{
		{kebab: "compartment-id", camel: "compartmentId"},
		{kebab: "wait-for-state", camel: "waitForState"},
		{kebab: "name", camel: "name"},
		{kebab: "dns-server-ip", camel: "dnsServerIp"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.camel, KebabToCamel(tt.kebab))
		assert.Equal(t, tt.kebab, CamelToKebab(tt.camel))
	}
}
