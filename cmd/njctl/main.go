// Command njctl validates, seeds, and queries the county statistics store
// without running the HTTP service.
//
// Usage:
//
//	njctl validate --source Resources
//	njctl seed --dsn nj_db.db
//	njctl query income ESSEX
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
