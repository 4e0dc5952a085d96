package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/canopy-network/pos-gateway/app/gateway"
	"github.com/canopy-network/pos-gateway/pkg/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	defer cancel()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	app, err := gateway.Initialize(ctx, cfg)
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	serverErr := gateway.NewServer(app)
	if serverErr != nil {
		app.Logger.Fatal("Unable to initialize server", zap.Error(serverErr))
	}

	if err := app.Start(ctx); err != nil {
		app.Logger.Fatal("Gateway stopped with error", zap.Error(err))
	}
}
