// Command blockscan checks block-style documents for structural
// well-formedness and traces their per-line classification.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/blockscan/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "blockscan: %v\n", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
