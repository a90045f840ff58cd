package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dictl-dev/dictl/cli/internal/api"
	"github.com/dictl-dev/dictl/internal/requests"
	"github.com/dictl-dev/dictl/internal/types"
)

const (
	flagIfMatch = "if-match"
	flagLimit   = "limit"
	flagPage    = "page"
)

func markRequired(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		cmd.MarkFlagRequired(n)
	}
}

// newResourceCmd groups the subcommands of one resource.
func newResourceCmd(use, short string, subs ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short,
	}
	cmd.AddCommand(subs...)
	return cmd
}

func newGetCmd(a *app, res types.Resource, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: short,
		Long:  short,
		Args:  cobra.NoArgs,
	}
	path := bindPath(cmd.Flags(), res, true)
	markRequired(cmd, path.required()...)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := path.path()
		if err != nil {
			return err
		}
		return a.show(cmd, api.Call{Method: http.MethodGet, Path: p})
	}
	return cmd
}

// listCmd describes a list command. filters are extra query parameters
// exposed as string flags; prepare may complete the query before the call.
type listCmd struct {
	res     types.Resource
	short   string
	filters []string
	prepare func(q url.Values) error
}

func newListCmd(a *app, spec listCmd) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: spec.short,
		Long:  spec.short,
		Args:  cobra.NoArgs,
	}
	fs := cmd.Flags()
	path := bindPath(fs, spec.res, false)
	markRequired(cmd, path.required()...)

	var (
		limit int
		page  string
	)
	fs.IntVar(&limit, flagLimit, 0, "The maximum number of items to return.")
	fs.StringVar(&page, flagPage, "", "The page token from the opc-next-page header of a previous call.")

	filters := map[string]*string{}
	for _, param := range append([]string{"name", "sortBy", "sortOrder"}, spec.filters...) {
		v := new(string)
		filters[param] = v
		fs.StringVar(v, types.FlagName(param), "", fmt.Sprintf("The %s query parameter.", param))
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := path.path()
		if err != nil {
			return err
		}

		q := url.Values{}
		if fs.Changed(flagLimit) {
			if limit < 1 {
				return fmt.Errorf("--%s must be positive, got %d", flagLimit, limit)
			}
			q.Set(flagLimit, strconv.Itoa(limit))
		}
		if page != "" {
			q.Set(flagPage, page)
		}
		for param, v := range filters {
			if *v != "" {
				q.Set(param, *v)
			}
		}
		if spec.prepare != nil {
			if err := spec.prepare(q); err != nil {
				return err
			}
		}
		return a.show(cmd, api.Call{Method: http.MethodGet, Path: p, Query: q})
	}
	return cmd
}

func newDeleteCmd(a *app, res types.Resource, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: short,
		Long:  short,
		Args:  cobra.NoArgs,
	}
	fs := cmd.Flags()
	path := bindPath(fs, res, true)
	markRequired(cmd, path.required()...)

	var (
		ifMatch string
		force   bool
	)
	fs.StringVar(&ifMatch, flagIfMatch, "", "Only delete when the etag of the resource matches this value.")
	fs.BoolVar(&force, flagForce, false, "Perform the deletion without prompting for confirmation.")
	w := bindWait(fs)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := path.path()
		if err != nil {
			return err
		}
		if err := a.confirm(force, fmt.Sprintf("delete %s %s", res.Name, path.key())); err != nil {
			return err
		}
		return a.mutate(cmd, mutation{
			call:  api.Call{Method: http.MethodDelete, Path: p, IfMatch: ifMatch},
			async: res.Async,
			wait:  w,
		})
	}
	return cmd
}

// bodyCmd describes a create (POST to the collection) or update (PUT to the
// item) command whose flags are bound into body.
type bodyCmd struct {
	use      string
	short    string
	res      types.Resource
	update   bool
	body     requests.Body
	bind     func(fs *pflag.FlagSet)
	required []string
	// prepare completes body from the item key before validation.
	prepare     func(key string) error
	validations func() []func() error
}

func newBodyCmd(a *app, spec bodyCmd) *cobra.Command {
	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		Long:  spec.short,
		Args:  cobra.NoArgs,
	}
	fs := cmd.Flags()
	path := bindPath(fs, spec.res, spec.update)
	spec.bind(fs)

	var (
		ifMatch string
		force   bool
	)
	if spec.update {
		fs.StringVar(&ifMatch, flagIfMatch, "", "Only update when the etag of the resource matches this value.")
		fs.BoolVar(&force, flagForce, false, "Replace JSON document fields without prompting for confirmation.")
	}
	w := bindWait(fs)
	markRequired(cmd, append(path.required(), spec.required...)...)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := path.path()
		if err != nil {
			return err
		}
		if spec.prepare != nil {
			if err := spec.prepare(path.key()); err != nil {
				return err
			}
		}
		if spec.update && documentsChanged(fs) {
			if err := a.confirm(force, fmt.Sprintf("update %s %s and replace its existing JSON document fields", spec.res.Name, path.key())); err != nil {
				return err
			}
		}

		method := http.MethodPost
		if spec.update {
			method = http.MethodPut
		}
		m := mutation{
			call:  api.Call{Method: method, Path: p, IfMatch: ifMatch},
			body:  spec.body,
			async: spec.res.Async,
			wait:  w,
		}
		if spec.validations != nil {
			m.validations = spec.validations()
		}
		return a.mutate(cmd, m)
	}
	return cmd
}

// documentsChanged reports whether a JSON document or map flag was given.
// Those replace the stored value as a whole.
func documentsChanged(fs *pflag.FlagSet) bool {
	changed := false
	fs.Visit(func(f *pflag.Flag) {
		switch f.Value.Type() {
		case typeJSON, typeMap:
			changed = true
		}
	})
	return changed
}

// objectFlags binds the fields every design-time object shares.
func objectFlags(fs *pflag.FlagSet, o *requests.Object, update bool) {
	fs.StringVar(&o.Name, "name", "", "Free form text without any restriction on permitted characters.")
	fs.StringVar(&o.Identifier, "identifier", "", "Value can only contain upper case letters, underscore and numbers.")
	fs.StringVar(&o.Description, "description", "", "Detailed description of the object.")
	fs.StringVar(&o.ModelVersion, "model-version", "", "The model version of the object.")
	fs.Var(newOptionalInt(&o.ObjectStatus), "object-status", "The status of the object, 1 for shallow references across objects.")
	fs.Var(newJSONValue(&o.ParentRef), "parent-ref", "A reference to the parent of the object, JSON or file://path.")
	fs.Var(newJSONValue(&o.RegistryMetadata), "registry-metadata", "Registry metadata of the object, JSON or file://path.")
	if update {
		fs.IntVar(&o.ObjectVersion, "object-version", 0, "The version of the object being updated.")
	}
}

// objectRequired lists the flags an object command cannot run without.
func objectRequired(update bool) []string {
	if update {
		return []string{"name", "identifier", "object-version"}
	}
	return []string{"name", "identifier"}
}

// updateValidations are the checks every object update runs.
func updateValidations(key *string, version *int) func() []func() error {
	return func() []func() error {
		return []func() error{
			requests.RequireKey(*key),
			requests.RequireObjectVersion(*version),
		}
	}
}

// setKey fills the body key from the path when not given.
func setKey(dst *string) func(key string) error {
	return func(key string) error {
		if *dst == "" {
			*dst = key
		}
		return nil
	}
}
