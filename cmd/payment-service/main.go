package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/app"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewAdapter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Infow("application starting",
		"env", cfg.Env,
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"gateway_test_mode", cfg.Gateway.TestMode,
	)

	if err = app.Run(ctx, cfg, log); err != nil {
		log.Errorw("application failed", "error", err)
		_ = log.Sync()
		cancel()
		os.Exit(1)
	}

	log.Infow("application exited normally")
	_ = log.Sync()
}
