package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/weekplan/adapter/cli"
	"github.com/felixgeelhaar/weekplan/internal/app"
	"github.com/felixgeelhaar/weekplan/pkg/config"
	"github.com/felixgeelhaar/weekplan/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development defaults", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// Commands that need storage print a hint instead of failing hard.
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		// Drain the outbox in the background so events reach the bus
		// while a command runs. The worker handles the steady state.
		container.OutboxProcessor.Start(ctx)
		defer container.OutboxProcessor.Stop()
	}

	cli.SetApp(container)
	cli.Execute()
}
