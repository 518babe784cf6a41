package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/yungbote/storefront-admin/internal/cli/heroctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := heroctl.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "heroctl:", err)
		os.Exit(1)
	}
}
