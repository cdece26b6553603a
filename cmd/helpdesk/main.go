// Command helpdesk is a retrieval-augmented helpdesk over your own
// documents: crawl websites or load Notion exports, index them in a
// local vector store, and ask questions against them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/helpdesk-labs/helpdesk-cli/internal/adapters/driving/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
