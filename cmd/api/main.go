package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"coop-lending/internal/commands"
)

// api is the container entrypoint: `loanctl serve` with migration on start.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := commands.NewRootCommand()
	root.SetArgs(append([]string{"serve", "--migrate"}, os.Args[1:]...))
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
