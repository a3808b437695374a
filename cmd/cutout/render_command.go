package main

import (
	"bytes"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cutout/internal/compositor"
	"cutout/internal/config"
	"cutout/internal/fileutil"
	"cutout/internal/process"
	"cutout/internal/queue"
	"cutout/internal/settings"
	"cutout/internal/textutil"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Composite one ready item onto the output frame and write a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				id, err := parseItemID(args[0])
				if err != nil {
					return err
				}
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("item %d not found", id)
				}
				if item.CutoutPath == "" {
					return fmt.Errorf("item %d has no cutout yet (status %s)", id, item.Status)
				}

				cutout, err := process.LoadCutout(item)
				if err != nil {
					return err
				}
				current, err := store.LoadSettings(cmd.Context(), settings.FromConfig(cfg))
				if err != nil {
					return err
				}

				rendered, err := compositor.Render(cutout, current, compositor.Overrides{
					Scale:    item.OverrideScale,
					Rotation: item.OverrideRotation,
					OffsetX:  item.OverrideOffsetX,
					OffsetY:  item.OverrideOffsetY,
				})
				if err != nil {
					return err
				}

				target := strings.TrimSpace(outputPath)
				if target == "" {
					name := textutil.SanitizeToken(item.DisplayName)
					if name == "" {
						name = fmt.Sprintf("item-%d", item.ID)
					}
					target = filepath.Join(cfg.Paths.OutputDir, name+".png")
				}

				var buf bytes.Buffer
				if err := png.Encode(&buf, rendered); err != nil {
					return fmt.Errorf("encode render: %w", err)
				}
				if err := fileutil.WriteFileAtomic(target, buf.Bytes(), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rendered item %d to %s\n", item.ID, target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination PNG path")
	return cmd
}
