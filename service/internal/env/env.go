package env

import (
	"errors"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

const appPrefix = "DICTL_EMULATOR"

type Vars struct {
	Port             int    `default:"8080"`
	LogLevel         string `split_words:"true"`
	ConfigFilePath   string `envconfig:"CONFIG"`
	WorkRequestSteps int    `split_words:"true" default:"2"`
}

var (
	instance Vars
	once     sync.Once
	err      error
)

func GetEnv() (Vars, error) {
	once.Do(func() {
		err = envconfig.Process(appPrefix, &instance)
		if err != nil {
			return
		}
		err = instance.validate()
	})
	return instance, err
}

func (values Vars) validate() error {
	if values.Port < 1 || values.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if values.WorkRequestSteps < 0 {
		return errors.New("work request steps must not be negative")
	}
	switch strings.ToUpper(values.LogLevel) {
	case "", "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return errors.New("log level must be one of DEBUG, INFO, WARN, ERROR")
	}
	return nil
}
