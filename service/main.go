package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/dictl-dev/dictl/service/emulator"
	"github.com/dictl-dev/dictl/service/internal/env"
)

func main() {
	logger := log.With(log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout)), "ts", log.DefaultTimestampUTC)

	envVars, err := env.GetEnv()
	if err != nil {
		panic(fmt.Sprintf("Unable to load environment: %s", err))
	}

	setLogLevel(&logger, envVars.LogLevel)

	level.Info(logger).Log("message", fmt.Sprintf("loading config '%s'", envVars.ConfigFilePath))
	config, err := emulator.LoadConfig(envVars.ConfigFilePath)
	if err != nil {
		panic(fmt.Sprintf("Unable to load config %s", err))
	}
	level.Info(logger).Log("message", fmt.Sprintf("loading config '%s' completed", envVars.ConfigFilePath))

	r := emulator.NewRouter(emulator.Options{
		Logger:           logger,
		Config:           config,
		WorkRequestSteps: envVars.WorkRequestSteps,
	})

	level.Info(logger).Log("message", "starting emulator", "port", envVars.Port, "work-request-steps", envVars.WorkRequestSteps)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", envVars.Port), r); err != nil {
		level.Error(logger).Log("message", "error starting service", "error", err)
		panic("error starting service")
	}
}

func setLogLevel(logger *log.Logger, logLevel string) {
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		*logger = level.NewFilter(*logger, level.AllowDebug())
	case "WARN":
		*logger = level.NewFilter(*logger, level.AllowWarn())
	case "ERROR":
		*logger = level.NewFilter(*logger, level.AllowError())
	default:
		*logger = level.NewFilter(*logger, level.AllowInfo())
	}
}
