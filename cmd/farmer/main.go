package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/farmer/internal/app"
	"github.com/five82/farmer/internal/launch"
	"github.com/five82/farmer/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := launch.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if opts.ShowVersion {
		fmt.Println("farmer", version)
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = app.Run(ctx, app.Options{Launch: opts})
	if err == nil {
		return 0
	}

	var failure *app.Failure
	if errors.As(err, &failure) {
		if !failure.Silent {
			ui.ReportError(os.Stderr, failure)
		}
		return failure.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "farmer: %v\n", err)
	return 1
}
