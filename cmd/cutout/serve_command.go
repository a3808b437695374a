package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/daemon"
	"cutout/internal/logging"
	"cutout/internal/preflight"
	"cutout/internal/process"
	"cutout/internal/queue"
	"cutout/internal/removal"
	"cutout/internal/workflow"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the processing daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runDaemon(cmd, cfg)
		},
	}
}

func runDaemon(cmd *cobra.Command, cfg *config.Config) error {
	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	for _, check := range preflight.RunAll(runCtx, cfg) {
		if !check.Passed {
			logger.Warn("preflight check failed",
				logging.String("check", check.Name),
				logging.String("detail", check.Detail))
		}
	}

	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open queue store: %w", err)
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
		store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(runCtx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "cutout daemon running (api %s); press Ctrl-C to stop\n", d.APIAddr())
	<-runCtx.Done()
	return nil
}
