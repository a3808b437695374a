package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cutout/internal/config"
	"cutout/internal/queue"
	"cutout/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change batch compositing preferences",
	}

	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	settingsCmd.AddCommand(newSettingsResetCommand(ctx))

	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				current, err := store.LoadSettings(cmd.Context(), settings.FromConfig(cfg))
				if err != nil {
					return err
				}

				rows := [][]string{
					{"shape", string(current.Shape)},
					{"frame-size", strconv.Itoa(current.FrameSize)},
					{"corner-radius", formatFloat(current.CornerRadius)},
					{"background.kind", string(current.Background.Kind)},
					{"background.color", current.Background.Color},
					{"background.color-end", current.Background.ColorEnd},
					{"background.angle", formatFloat(current.Background.Angle)},
					{"background.checker-pct", formatFloat(current.Background.CheckerPct)},
					{"batch.scale", formatFloat(current.Batch.Scale)},
					{"batch.rotation", formatFloat(current.Batch.Rotation)},
					{"batch.offset-x", formatFloat(current.Batch.OffsetX)},
					{"batch.offset-y", formatFloat(current.Batch.OffsetY)},
					{"export.format", string(current.Export.Format)},
					{"export.quality", strconv.Itoa(current.Export.Quality)},
					{"export.scale", formatFloat(current.Export.Scale)},
					{"export.naming-pattern", current.Export.NamingPattern},
				}
				table := renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (see `settings show` for keys)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				current, err := store.LoadSettings(cmd.Context(), settings.FromConfig(cfg))
				if err != nil {
					return err
				}
				if err := applySetting(&current, args[0], args[1]); err != nil {
					return err
				}
				if err := store.SaveSettings(cmd.Context(), current); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", strings.ToLower(strings.TrimSpace(args[0])), args[1])
				return nil
			})
		},
	}
}

func newSettingsResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore settings from configuration defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				if err := store.SaveSettings(cmd.Context(), settings.FromConfig(cfg)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Settings reset to configuration defaults")
				return nil
			})
		},
	}
}

func applySetting(current *settings.Settings, key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "shape":
		shape := settings.ParseShape(value)
		if !strings.EqualFold(value, string(shape)) {
			return fmt.Errorf("unknown shape %q (circle, rounded)", value)
		}
		current.Shape = shape
	case "frame-size":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("frame-size must be an integer: %w", err)
		}
		current.FrameSize = size
	case "corner-radius":
		return setFloat(&current.CornerRadius, key, value)
	case "background.kind":
		kind := settings.ParseBackgroundKind(value)
		if !strings.EqualFold(value, string(kind)) {
			return fmt.Errorf("unknown background kind %q (solid, gradient, checker)", value)
		}
		current.Background.Kind = kind
	case "background.color":
		current.Background.Color = value
	case "background.color-end":
		current.Background.ColorEnd = value
	case "background.angle":
		return setFloat(&current.Background.Angle, key, value)
	case "background.checker-pct":
		return setFloat(&current.Background.CheckerPct, key, value)
	case "batch.scale":
		return setFloat(&current.Batch.Scale, key, value)
	case "batch.rotation":
		return setFloat(&current.Batch.Rotation, key, value)
	case "batch.offset-x":
		return setFloat(&current.Batch.OffsetX, key, value)
	case "batch.offset-y":
		return setFloat(&current.Batch.OffsetY, key, value)
	case "export.format":
		format := settings.ParseFormat(value)
		if !strings.EqualFold(value, string(format)) {
			return fmt.Errorf("unknown export format %q (png, webp)", value)
		}
		current.Export.Format = format
	case "export.quality":
		quality, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("export.quality must be an integer: %w", err)
		}
		current.Export.Quality = quality
	case "export.scale":
		return setFloat(&current.Export.Scale, key, value)
	case "export.naming-pattern":
		current.Export.NamingPattern = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func setFloat(target *float64, key, value string) error {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s must be a number: %w", key, err)
	}
	*target = parsed
	return nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
