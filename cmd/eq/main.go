package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ecoquest/cmd/eq/root"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(root.Execute(ctx))
}
