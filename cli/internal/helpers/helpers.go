// Package helpers converts flag values into request fields.
package helpers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// FilePrefix marks a flag value that names a file to read.
const FilePrefix = "file://"

// ParseEqualsSeparatedCSVToMap converts a csv of equals separated values into a map of strings.
func ParseEqualsSeparatedCSVToMap(s string) (map[string]string, error) {
	r := make(map[string]string)
	if strings.TrimSpace(s) == "" {
		return r, nil
	}

	l := strings.Split(s, ",")
	for _, e := range l {
		v := strings.SplitN(e, "=", 2)
		if len(v) != 2 || strings.TrimSpace(v[0]) == "" {
			return r, fmt.Errorf("could not parse equals separated value %s", e)
		}
		r[strings.TrimSpace(v[0])] = v[1]
	}
	return r, nil
}

// ReadValue returns s, or the content of the file it names when it starts
// with file://.
func ReadValue(s string) ([]byte, error) {
	if !strings.HasPrefix(s, FilePrefix) {
		return []byte(s), nil
	}

	path := strings.TrimPrefix(s, FilePrefix)
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = home + path[1:]
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return b, nil
}

// ParseJSON reads a flag value as a JSON document.
func ParseJSON(s string) (json.RawMessage, error) {
	b, err := ReadValue(s)
	if err != nil {
		return nil, err
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("value is not valid JSON: %w", err)
	}

	compact, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return compact, nil
}

// KebabToCamel converts a flag name to its JSON key: compartment-id becomes
// compartmentId.
func KebabToCamel(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		r := []rune(parts[i])
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, "")
}

// CamelToKebab converts a JSON key to its flag name.
func CamelToKebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
