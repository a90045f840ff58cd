package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dictl-dev/dictl/internal/responses"
)

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		want    interface{}
		wantErr error
	}{
		{format: "json", want: &JSON{}},
		{format: "", want: &JSON{}},
		{format: "TABLE", want: &Table{}},
		{format: "yaml", wantErr: errors.New(`unknown output format "yaml", must be one of json, table`)},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := New(&bytes.Buffer{}, tt.format)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestJSONRender(t *testing.T) {
	tests := []struct {
		name string
		env  responses.Envelope
		want string
	}{
		{
			name: "data and headers",
			env: responses.Envelope{
				Data:             json.RawMessage(`{"id":"ws1","lifecycleState":"CREATING"}`),
				ETag:             "e1",
				OpcRequestID:     "not rendered",
				OpcWorkRequestID: "wr1",
			},
			want: `{
  "data": {
    "id": "ws1",
    "lifecycleState": "CREATING"
  },
  "etag": "e1",
  "opc-work-request-id": "wr1"
}
`,
		},
		{
			name: "work request only",
			env:  responses.Envelope{OpcWorkRequestID: "wr1"},
			want: `{
  "opc-work-request-id": "wr1"
}
`,
		},
		{
			name: "empty prints nothing",
			env:  responses.Envelope{OpcRequestID: "R1"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			r, err := New(&out, FormatJSON)
			require.NoError(t, err)

			assert.NoError(t, r.Render(tt.env))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestTableRenderList(t *testing.T) {
	var out bytes.Buffer
	r, err := New(&out, FormatTable)
	require.NoError(t, err)

	env := responses.Envelope{
		Data:        json.RawMessage(`{"items":[{"name":"b","key":"k2","objectVersion":3},{"key":"k1","name":"a","parentRef":{"parent":"p1"}}]}`),
		OpcNextPage: "page-2",
	}
	require.NoError(t, r.Render(env))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Regexp(t, `key\s+\|\s+name\s+\|\s+objectVersion\s+\|\s+parentRef`, lines[1])
	assert.Contains(t, lines[3], "k2")
	assert.Contains(t, lines[3], "3")
	assert.Contains(t, lines[4], "k1")
	assert.Contains(t, lines[4], `{"parent":"p1"}`)
	assert.Equal(t, "next page: page-2", lines[6])
}

func TestTableRenderObject(t *testing.T) {
	var out bytes.Buffer
	r := &Table{w: &out}

	require.NoError(t, r.Render(responses.Envelope{Data: json.RawMessage(`{"status":"SUCCEEDED","id":"wr1","timeFinished":null}`)}))

	s := out.String()
	assert.Regexp(t, `id\s+\|\s+status\s+\|\s+timeFinished`, s)
	assert.Contains(t, s, "wr1")
	assert.Contains(t, s, "SUCCEEDED")
}

func TestTableRenderFallsBackToRawData(t *testing.T) {
	var out bytes.Buffer
	r := &Table{w: &out}

	require.NoError(t, r.Render(responses.Envelope{Data: json.RawMessage(`"plain"`)}))
	assert.Equal(t, "\"plain\"\n", out.String())

	out.Reset()
	require.NoError(t, r.Render(responses.Envelope{OpcWorkRequestID: "wr1"}))
	assert.Empty(t, out.String())
}

func TestColumns(t *testing.T) {
	rows := []map[string]json.RawMessage{
		{"zeta": nil, "status": nil, "key": nil},
		{"alpha": nil, "name": nil},
	}
	assert.Equal(t, []string{"key", "name", "status", "alpha", "zeta"}, columns(rows))
}
