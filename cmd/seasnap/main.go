// Command seasnap prepares working directories and metadata for the SeA-SnaP pipelines and
// launches them locally or on a cluster.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/askiada/seasnap/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.ExitCode(ctx, cli.Run(ctx, os.Args[1:], cli.Env{}))

	stop()
	os.Exit(code)
}
