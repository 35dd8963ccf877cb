package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/wesleyorama2/sockhttp/internal/cli"
)

// Main runs the CLI and returns the process exit code. Interrupts cancel the
// request in flight.
func Main() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(Main())
}
