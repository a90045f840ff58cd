package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dictl-dev/dictl/cli/internal/helpers"
)

const (
	flagFromJSON = "from-json"
	flagSkeleton = "generate-full-command-json-input"
	flagForce    = "force"
)

// errSkeletonPrinted stops a command after its skeleton was printed. It is
// not a failure.
var errSkeletonPrinted = errors.New("skeleton printed")

// inputFlags lists the flags of cmd that can be given through --from-json.
func inputFlags(cmd *cobra.Command) []*pflag.Flag {
	var out []*pflag.Flag
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		switch f.Name {
		case "help", flagForce:
			return
		}
		out = append(out, f)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func placeholder(f *pflag.Flag) interface{} {
	switch f.Value.Type() {
	case typeState:
		return []string{"SUCCEEDED"}
	case typeJSON:
		return map[string]interface{}{}
	case typeMap:
		return map[string]string{"key": "value"}
	case "int", "int64":
		return 0
	case "bool":
		return false
	case "stringSlice", "stringArray":
		return []string{"string"}
	}
	return "string"
}

// printSkeleton writes one camelCase key per input flag of cmd.
func printSkeleton(w io.Writer, cmd *cobra.Command) error {
	skeleton := map[string]interface{}{}
	for _, f := range inputFlags(cmd) {
		skeleton[helpers.KebabToCamel(f.Name)] = placeholder(f)
	}

	b, err := json.MarshalIndent(skeleton, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// applyJSONInput sets every flag named in the --from-json document that was
// not given on the command line.
func applyJSONInput(cmd *cobra.Command, input string) error {
	b, err := helpers.ReadValue(input)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("--%s must be a JSON object: %w", flagFromJSON, err)
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fs := cmd.Flags()
	for _, key := range keys {
		name := helpers.CamelToKebab(key)
		f := fs.Lookup(name)
		if f == nil || name == flagFromJSON || name == flagSkeleton {
			return fmt.Errorf("unknown key %q in --%s", key, flagFromJSON)
		}
		if f.Changed {
			continue
		}

		var values []string
		switch f.Value.Type() {
		case typeJSON, typeMap:
			var raw []byte
			raw, err = json.Marshal(doc[key])
			values = []string{string(raw)}
		default:
			values, err = flagValues(doc[key])
		}
		if err != nil {
			return fmt.Errorf("invalid value for %q in --%s: %w", key, flagFromJSON, err)
		}
		for _, v := range values {
			if err := fs.Set(name, v); err != nil {
				return fmt.Errorf("invalid value for %q in --%s: %w", key, flagFromJSON, err)
			}
		}
	}
	return nil
}

// flagValues converts a JSON value to the strings a flag is Set with.
// Arrays of scalars set a repeatable flag once per element.
func flagValues(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{t}, nil
	case json.Number:
		return []string{t.String()}, nil
	case bool:
		if t {
			return []string{"true"}, nil
		}
		return []string{"false"}, nil
	case []interface{}:
		if !scalars(t) {
			b, err := json.Marshal(t)
			if err != nil {
				return nil, err
			}
			return []string{string(b)}, nil
		}
		var out []string
		for _, e := range t {
			s, err := flagValues(e)
			if err != nil {
				return nil, err
			}
			out = append(out, s...)
		}
		return out, nil
	case map[string]interface{}:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return []string{string(b)}, nil
	}
	return nil, fmt.Errorf("unsupported value %v", v)
}

func scalars(vs []interface{}) bool {
	for _, v := range vs {
		switch v.(type) {
		case []interface{}, map[string]interface{}:
			return false
		}
	}
	return true
}

// joinFlags formats flag names for messages.
func joinFlags(names ...string) string {
	for i, n := range names {
		names[i] = "--" + n
	}
	return strings.Join(names, ", ")
}
