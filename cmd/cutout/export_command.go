package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/export"
	"cutout/internal/logging"
	"cutout/internal/queue"
	"cutout/internal/settings"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every ready item and write a zip archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				current, err := store.LoadSettings(cmd.Context(), settings.FromConfig(cfg))
				if err != nil {
					return err
				}
				written, err := export.New(cfg, store, logging.NewNop()).Export(cmd.Context(), current, outputPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported archive to %s\n", written)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination zip path")
	return cmd
}
