package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vidtools/internal/runner"
	"vidtools/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode propagates ffmpeg's own exit status; other failures map through
// services.ExitStatus.
func exitCode(err error) int {
	if code, ok := runner.ExitCode(err); ok && code > 0 {
		return code
	}
	if errors.Is(err, context.Canceled) {
		return 1
	}
	return services.ExitStatus(err)
}
