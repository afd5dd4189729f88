package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"project-tracker/internal/cli"
)

func main() {
	// interrupt cancels running commands and stops the server gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(nil, os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
