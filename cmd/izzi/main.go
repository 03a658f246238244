// Command izzi places values around a circle and renders them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bdekoz/izzi/internal/cli"
	izzierrors "github.com/bdekoz/izzi/pkg/errors"
)

// exitInterrupted is what shells report for a process stopped by SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		os.Exit(exitInterrupted)
	default:
		fmt.Fprintln(os.Stderr, "izzi:", izzierrors.UserMessage(err))
		os.Exit(1)
	}
}
