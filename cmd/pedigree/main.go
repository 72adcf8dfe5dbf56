// Command pedigree computes and draws pedigree layouts from snapshot files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/pedigree/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.Execute(ctx, c.RootCommand())
	stop()

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		// Ctrl-C is the normal way out of watch.
		os.Exit(130)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
