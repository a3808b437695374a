package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/ingest"
	"cutout/internal/logging"
	"cutout/internal/queue"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <image>...",
		Short: "Add images to the processing queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				result, err := ingest.New(cfg, store, logging.NewNop()).Add(cmd.Context(), args)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, item := range result.Accepted {
					fmt.Fprintf(out, "Added %s (#%d)\n", item.DisplayName, item.ID)
				}
				if result.DroppedUnsupported > 0 {
					fmt.Fprintf(out, "Skipped %d unsupported file(s)\n", result.DroppedUnsupported)
				}
				if result.DroppedOversized > 0 {
					fmt.Fprintf(out, "Skipped %d oversized file(s) (limit %d MB)\n", result.DroppedOversized, cfg.Limits.MaxFileMB)
				}
				if result.DroppedOverflow > 0 {
					fmt.Fprintf(out, "Skipped %d file(s): queue is limited to %d items\n", result.DroppedOverflow, cfg.Limits.MaxItems)
				}
				if len(result.Accepted) == 0 {
					fmt.Fprintln(out, "No items added")
				}
				return nil
			})
		},
	}
}
