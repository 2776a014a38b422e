// Package main is the seolint command line interface
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/foomo/seolint/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// findings were already reported, only the exit code is left
		if !errors.Is(err, ErrLintIssuesFound) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return 1
	}
	return 0
}
