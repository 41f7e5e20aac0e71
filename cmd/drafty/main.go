package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/scott-cotton/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.MainContext(ctx, MainCommand(ctx))
}
