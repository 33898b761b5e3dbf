// CLAUDE:SUMMARY fileparser entrypoint — signal-aware context around the CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
