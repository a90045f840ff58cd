package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dictl-dev/dictl/cli/internal/helpers"
	"github.com/dictl-dev/dictl/internal/lro"
	"github.com/dictl-dev/dictl/internal/types"
)

// Flag value types, reported by pflag.Value.Type and used for skeletons.
const (
	typeState = "state"
	typeJSON  = "json"
	typeMap   = "map"
	typeInt   = "int"
	typeBool  = "bool"
)

// stateSetValue collects --wait-for-state values. Unknown states are
// rejected while flags are parsed.
type stateSetValue struct {
	states *[]string
}

func newStateSetValue(p *[]string) *stateSetValue {
	return &stateSetValue{states: p}
}

func (v *stateSetValue) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		st, err := lro.ParseStatus(part)
		if err != nil {
			return err
		}
		*v.states = append(*v.states, string(st))
	}
	return nil
}

func (v *stateSetValue) String() string {
	if v.states == nil {
		return ""
	}
	return strings.Join(*v.states, ",")
}

func (v *stateSetValue) Type() string { return typeState }

// jsonValue holds a JSON document given inline or as file://path.
type jsonValue struct {
	doc *json.RawMessage
}

func newJSONValue(p *json.RawMessage) *jsonValue {
	return &jsonValue{doc: p}
}

func (v *jsonValue) Set(s string) error {
	doc, err := helpers.ParseJSON(s)
	if err != nil {
		return err
	}
	*v.doc = doc
	return nil
}

func (v *jsonValue) String() string {
	if v.doc == nil {
		return ""
	}
	return string(*v.doc)
}

func (v *jsonValue) Type() string { return typeJSON }

// mapValue holds string pairs given as k=v,k2=v2 or as a JSON object.
type mapValue struct {
	m *map[string]string
}

func newMapValue(p *map[string]string) *mapValue {
	return &mapValue{m: p}
}

func (v *mapValue) Set(s string) error {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, helpers.FilePrefix) {
		b, err := helpers.ReadValue(trimmed)
		if err != nil {
			return err
		}
		m := map[string]string{}
		if err := json.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("value must be a JSON object of strings: %w", err)
		}
		*v.m = m
		return nil
	}

	m, err := helpers.ParseEqualsSeparatedCSVToMap(s)
	if err != nil {
		return err
	}
	*v.m = m
	return nil
}

func (v *mapValue) String() string {
	if v.m == nil || *v.m == nil {
		return ""
	}
	b, _ := json.Marshal(*v.m)
	return string(b)
}

func (v *mapValue) Type() string { return typeMap }

// optionalIntValue sets an *int only when the flag is given.
type optionalIntValue struct {
	p **int
}

func newOptionalInt(p **int) *optionalIntValue {
	return &optionalIntValue{p: p}
}

func (v *optionalIntValue) Set(s string) error {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("value must be an integer: %w", err)
	}
	*v.p = &i
	return nil
}

func (v *optionalIntValue) String() string {
	if v.p == nil || *v.p == nil {
		return ""
	}
	return strconv.Itoa(**v.p)
}

func (v *optionalIntValue) Type() string { return typeInt }

// optionalBoolValue sets a *bool only when the flag is given.
type optionalBoolValue struct {
	p **bool
}

func newOptionalBool(p **bool) *optionalBoolValue {
	return &optionalBoolValue{p: p}
}

func (v *optionalBoolValue) Set(s string) error {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("value must be a boolean: %w", err)
	}
	*v.p = &b
	return nil
}

func (v *optionalBoolValue) String() string {
	if v.p == nil || *v.p == nil {
		return ""
	}
	return strconv.FormatBool(**v.p)
}

func (v *optionalBoolValue) Type() string { return typeBool }

// boolFlag registers an optional bool that can be given without a value.
func boolFlag(fs *pflag.FlagSet, p **bool, name, usage string) {
	fs.Var(newOptionalBool(p), name, usage)
	fs.Lookup(name).NoOptDefVal = "true"
}

// pathFlags binds one required flag per path parameter of a resource.
type pathFlags struct {
	res    types.Resource
	item   bool
	values map[string]*string
}

func bindPath(fs *pflag.FlagSet, res types.Resource, item bool) *pathFlags {
	p := &pathFlags{res: res, item: item, values: map[string]*string{}}

	params := res.Params()
	if item {
		params = append(params, res.KeyParam)
	}
	for _, param := range params {
		v := new(string)
		p.values[param] = v
		fs.StringVar(v, types.FlagName(param), "", fmt.Sprintf("The %s path parameter. [required]", param))
	}
	return p
}

// required lists the flag names bound by p.
func (p *pathFlags) required() []string {
	var out []string
	for param := range p.values {
		out = append(out, types.FlagName(param))
	}
	return out
}

// key returns the item key given on the command line.
func (p *pathFlags) key() string {
	if v, ok := p.values[p.res.KeyParam]; ok {
		return *v
	}
	return ""
}

// path expands the collection or item path. Blank parameters are a usage
// error.
func (p *pathFlags) path() (string, error) {
	values := map[string]string{}
	for _, param := range append(p.res.Params(), p.res.KeyParam) {
		v, ok := p.values[param]
		if !ok {
			continue
		}
		if strings.TrimSpace(*v) == "" {
			return "", fmt.Errorf("--%s must not be blank", types.FlagName(param))
		}
		values[param] = *v
	}

	template := p.res.Collection
	if p.item {
		template = p.res.ItemPath()
	}
	return types.Expand(template, values)
}
