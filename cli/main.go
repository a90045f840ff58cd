package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dictl-dev/dictl/cli/cmd"
)

var (
	// Populated during build/release
	commit  string
	date    string
	version string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cmd.Execute(ctx, fmt.Sprintf("%s %s %s", version, commit, date))
	stop()
	os.Exit(code)
}
