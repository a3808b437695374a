package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"cutout/internal/config"
	"cutout/internal/daemon"
	"cutout/internal/logging"
	"cutout/internal/process"
	"cutout/internal/queue"
	"cutout/internal/removal"
	"cutout/internal/workflow"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return
	}

	client := removal.NewClient(removal.Config{
		APIKey:         cfg.Removal.APIKey,
		BaseURL:        cfg.Removal.BaseURL,
		TimeoutSeconds: cfg.Removal.TimeoutSeconds,
	})
	handler := process.NewHandler(cfg, client, logger)
	manager := workflow.NewManager(cfg, store, handler, logger)

	d, err := daemon.New(cfg, store, logger, manager, client)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("cutoutd shutting down")
}
