// Command daybook is a local-first diary with an AI journaling companion.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// Timezones chosen in settings must resolve on systems without zoneinfo.
	_ "time/tzdata"

	"github.com/custodia-labs/daybook/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
