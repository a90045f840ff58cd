// Package config reads the dictl profile file and resolves connection
// settings from flags, environment and profile.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/dictl-dev/dictl/internal/env"
)

// DefaultProfile is used when neither the file nor the caller names one.
const DefaultProfile = "DEFAULT"

// Profile holds the settings of one named profile.
type Profile struct {
	Endpoint      string `yaml:"endpoint"`
	Token         string `yaml:"token"`
	CompartmentID string `yaml:"compartment-id"`
}

// File is the profile file.
type File struct {
	DefaultProfile string             `yaml:"default-profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// DefaultPath returns ~/.dictl/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dictl", "config.yaml"), nil
}

// Load reads the profile file at path. A missing file yields an empty File.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{DefaultProfile: DefaultProfile, Profiles: map[string]Profile{}}, nil
		}
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	var f File
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, fmt.Errorf("unable to parse config file %s: %w", path, err)
	}
	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
	if f.DefaultProfile == "" {
		f.DefaultProfile = DefaultProfile
	}
	return &f, nil
}

// Flags are the connection settings given on the command line.
type Flags struct {
	Endpoint   string
	Token      string
	Profile    string
	ConfigFile string
	Output     string
}

// Resolved are the effective connection settings.
type Resolved struct {
	Endpoint      string
	Token         string
	Profile       string
	CompartmentID string
	Output        string
}

// Resolve picks each setting from flags, then environment, then profile.
func Resolve(flags Flags, vars env.EnvVars) (Resolved, error) {
	path := firstNonEmpty(flags.ConfigFile, vars.ConfigFile)
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Resolved{}, err
		}
		path = p
	}

	f, err := Load(path)
	if err != nil {
		return Resolved{}, err
	}

	name := firstNonEmpty(flags.Profile, vars.Profile, f.DefaultProfile)
	p, ok := f.Profiles[name]
	if !ok && firstNonEmpty(flags.Profile, vars.Profile) != "" {
		return Resolved{}, fmt.Errorf("profile %q not found in %s", name, path)
	}

	r := Resolved{
		Endpoint:      strings.TrimSuffix(firstNonEmpty(flags.Endpoint, vars.Endpoint, p.Endpoint), "/"),
		Token:         firstNonEmpty(flags.Token, vars.Token, p.Token),
		Profile:       name,
		CompartmentID: p.CompartmentID,
		Output:        strings.ToLower(firstNonEmpty(flags.Output, vars.Output, "json")),
	}
	if r.Endpoint == "" {
		return Resolved{}, errors.New("endpoint not set (flag/env/config)")
	}
	return r, nil
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
