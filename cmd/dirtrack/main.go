package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bashhack/dirtrack/internal/config"
	"github.com/bashhack/dirtrack/internal/errors"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	versionInfo := config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	app := NewDefaultApp(versionInfo)

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-c
		_, _ = fmt.Fprintf(app.Stdout, "\nReceived signal %v, stopping dirtrack...\n", sig)

		// Cancel the context to signal graceful shutdown
		cancel()

		// Give the running check a chance to finish before forcing cleanup
		time.Sleep(5 * time.Second)

		app.CleanupOnSignal()
		app.exit(0)
	}()

	os.Exit(run(ctx, app, os.Args))
}

// run executes the command line in args and returns the process exit code.
func run(ctx context.Context, app *App, args []string) int {
	err := newCommand(app).Run(ctx, args)
	_ = app.Close()

	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}
	// The cause of a failed check is already on stderr.
	if !errors.Is(err, errCheckFailed) {
		_, _ = fmt.Fprintf(app.Stderr, "Error: %v\n", err)
	}
	return 1
}
