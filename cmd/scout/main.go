package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/macropower/scout/internal/cli"
	"github.com/macropower/scout/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	info := version.Get()

	err := fang.Execute(ctx, cli.NewRootCmd(),
		fang.WithVersion(info.Version),
		fang.WithCommit(info.Revision),
		fang.WithErrorHandler(cli.ErrorHandler),
	)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
