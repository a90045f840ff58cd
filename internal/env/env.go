package env

import (
	"fmt"
	"strings"
	"sync"

	"github.com/asaskevich/govalidator"
	"github.com/kelseyhightower/envconfig"
)

// Prefix of every variable read by the CLI.
const Prefix = "DICTL"

// EnvVars are the DICTL_* settings. Flags override them; they override the
// profile file.
type EnvVars struct {
	Endpoint   string
	Token      string
	Profile    string
	ConfigFile string `split_words:"true"`
	Output     string
	LogLevel   string `split_words:"true"`
}

var (
	instance EnvVars
	loadErr  error
	once     sync.Once
)

// GetEnv loads the environment once per process.
func GetEnv() (EnvVars, error) {
	once.Do(func() {
		instance, loadErr = Load()
	})
	return instance, loadErr
}

// Load reads and validates the environment.
func Load() (EnvVars, error) {
	var values EnvVars
	if err := envconfig.Process(Prefix, &values); err != nil {
		return EnvVars{}, err
	}
	if err := values.validate(); err != nil {
		return EnvVars{}, err
	}
	return values, nil
}

func (values EnvVars) validate() error {
	if values.Endpoint != "" && !govalidator.IsURL(values.Endpoint) {
		return fmt.Errorf("%s_ENDPOINT must be a url, got %q", Prefix, values.Endpoint)
	}
	switch strings.ToLower(values.Output) {
	case "", "json", "table":
	default:
		return fmt.Errorf("%s_OUTPUT must be one of json, table, got %q", Prefix, values.Output)
	}
	return nil
}
