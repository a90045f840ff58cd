// Package render prints service responses as JSON or as a table.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/dictl-dev/dictl/internal/lro"
	"github.com/dictl-dev/dictl/internal/responses"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatTable}

// Verify interface implementations at compile time
var (
	_ lro.Renderer = (*JSON)(nil)
	_ lro.Renderer = (*Table)(nil)
)

// New returns the renderer for format.
func New(w io.Writer, format string) (lro.Renderer, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return &JSON{w: w}, nil
	case FormatTable:
		return &Table{w: w}, nil
	}
	return nil, fmt.Errorf("unknown output format %q, must be one of %s", format, strings.Join(Formats, ", "))
}

// JSON prints the envelope as indented JSON.
type JSON struct {
	w io.Writer
}

// Render prints e. An empty envelope prints nothing.
func (r *JSON) Render(e responses.Envelope) error {
	if e.IsEmpty() {
		return nil
	}

	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to generate output, error: %w", err)
	}
	_, err = fmt.Fprintln(r.w, string(b))
	return err
}

// Table prints the envelope data as a table. Lists get one row per item,
// single objects one row.
type Table struct {
	w io.Writer
}

// Columns shown first when present, in this order.
var leadingColumns = []string{"key", "id", "name", "displayName", "identifier", "modelType", "status", "lifecycleState"}

// Render prints e. An empty envelope prints nothing.
func (r *Table) Render(e responses.Envelope) error {
	if len(e.Data) == 0 {
		return nil
	}

	rows, err := rowsOf(e.Data)
	if err != nil {
		return fmt.Errorf("unable to generate output, error: %w", err)
	}
	if rows == nil {
		_, err := fmt.Fprintln(r.w, string(e.Data))
		return err
	}

	header := columns(rows)
	tw := tablewriter.NewWriter(r.w)
	tw.SetHeader(header)
	tw.SetAutoWrapText(false)
	tw.SetAutoFormatHeaders(false)
	for _, row := range rows {
		line := make([]string, len(header))
		for i, col := range header {
			line[i] = cell(row[col])
		}
		tw.Append(line)
	}
	tw.Render()

	if e.OpcNextPage != "" {
		_, err := fmt.Fprintf(r.w, "next page: %s\n", e.OpcNextPage)
		return err
	}
	return nil
}

// rowsOf returns nil rows when data is not an object, a list of objects, or
// a {"items": [...]} page.
func rowsOf(data json.RawMessage) ([]map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var rows []map[string]json.RawMessage
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, nil
		}
		return nonNil(rows), nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, err
		}
		if items, ok := obj["items"]; ok && len(obj) == 1 {
			var rows []map[string]json.RawMessage
			if err := json.Unmarshal(items, &rows); err == nil {
				return nonNil(rows), nil
			}
		}
		return []map[string]json.RawMessage{obj}, nil
	}
	return nil, nil
}

func nonNil(rows []map[string]json.RawMessage) []map[string]json.RawMessage {
	if rows == nil {
		return []map[string]json.RawMessage{}
	}
	return rows
}

func columns(rows []map[string]json.RawMessage) []string {
	seen := map[string]bool{}
	var rest []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)

	var out []string
	for _, c := range leadingColumns {
		if seen[c] {
			out = append(out, c)
		}
	}
	for _, c := range rest {
		if !contains(leadingColumns, c) {
			out = append(out, c)
		}
	}
	return out
}

func cell(v json.RawMessage) string {
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
