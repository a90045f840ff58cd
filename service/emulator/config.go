package emulator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the emulator seed file.
type Config struct {
	// FailOperations lists work request operation types that end FAILED.
	FailOperations []string        `yaml:"fail-operations"`
	Workspaces     []WorkspaceSeed `yaml:"workspaces"`
	Schemas        []SchemaSeed    `yaml:"schemas"`
}

// WorkspaceSeed is a workspace that exists, ACTIVE, at startup.
type WorkspaceSeed struct {
	ID            string `yaml:"id"`
	CompartmentID string `yaml:"compartment-id"`
	DisplayName   string `yaml:"display-name"`
}

// SchemaSeed is a schema, with its data entities, reachable through a
// connection.
type SchemaSeed struct {
	WorkspaceID   string   `yaml:"workspace-id"`
	ConnectionKey string   `yaml:"connection-key"`
	Name          string   `yaml:"name"`
	DataEntities  []string `yaml:"data-entities"`
}

// LoadConfig reads the seed file at path. An empty path is an empty Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}

	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	if err := yaml.UnmarshalStrict(f, &config); err != nil {
		return Config{}, fmt.Errorf("unable to parse %s: %w", path, err)
	}

	for i, ws := range config.Workspaces {
		if ws.ID == "" {
			return Config{}, fmt.Errorf("workspace %d has no id", i)
		}
	}
	for i, s := range config.Schemas {
		if s.WorkspaceID == "" || s.ConnectionKey == "" || s.Name == "" {
			return Config{}, fmt.Errorf("schema %d needs workspace-id, connection-key and name", i)
		}
	}
	return config, nil
}
