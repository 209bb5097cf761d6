// pipecron - Entry Point
//
// pipecron manages a marker-delimited section of the user crontab for one
// project: it translates the project's schedule definitions into cron
// entries pointing at generated wrapper scripts, and installs, lists or
// removes them without touching anything else in the crontab.
//
// Lifecycle of one invocation:
//  1. Parse the command line (cobra)
//  2. Load the project file (pipecron.yml) and configure logging
//  3. Read the current crontab (or start empty for the stdout store)
//  4. Compute the new content as a pure function of the old content
//  5. Write wrapper scripts, persist the new crontab, update the manifest
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pipecron/pipecron/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pipecron: %v\n", err)
		os.Exit(1)
	}
}
