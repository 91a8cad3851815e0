// Package main provides the entry point for the adpilot CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/adpilot/internal/cli"
	"github.com/mrz1836/adpilot/internal/signal"
)

// Set via -ldflags at build time.
//
//nolint:gochecknoglobals // ldflags targets must be package variables
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	h := signal.NewHandler(context.Background())
	defer h.Stop()

	// The first interrupt cancels the context so the task is checkpointed as
	// cancelled; a second one exits without waiting.
	done := make(chan struct{})
	go func() {
		select {
		case <-h.Forced():
			cli.CloseLogFile()
			os.Exit(cli.ExitInterrupted)
		case <-done:
		}
	}()

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	close(done)
	cli.CloseLogFile()
	return cli.ExitCodeForError(err)
}
