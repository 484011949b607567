package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/lockgraph/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	err := root.ExecuteContext(ctx)
	code := cli.ExitCode(err)
	if err != nil && code != cli.ExitCanceled {
		cli.PrintError(os.Stderr, "%v", err)
	}
	cancel()
	os.Exit(code)
}
