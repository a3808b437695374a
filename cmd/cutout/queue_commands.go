package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cutout/internal/api"
	"cutout/internal/config"
	"cutout/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the processing queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueSkipCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueSetCommand(ctx))

	return queueCmd
}

func (c *commandContext) withQueueService(cmd *cobra.Command, fn func(*cobra.Command, *api.QueueService) error) error {
	return c.withStore(func(cfg *config.Config, store *queue.Store) error {
		return fn(cmd, api.NewQueueService(cfg, store))
	})
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueService(cmd, func(cmd *cobra.Command, svc *api.QueueService) error {
				statuses := make([]queue.Status, 0, len(listStatuses))
				for _, value := range listStatuses {
					status, ok := queue.ParseStatus(value)
					if !ok {
						return fmt.Errorf("unknown status %q", value)
					}
					statuses = append(statuses, status)
				}

				items, err := svc.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						item.DisplayName,
						item.Status,
						strconv.Itoa(item.RetryCount),
						fmt.Sprintf("%dx%d", item.Width, item.Height),
						item.ErrorMessage,
					})
				}
				table := renderTable(
					[]string{"ID", "Name", "Status", "Retries", "Size", "Error"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Filter by status (queued, processing, ready, error, skipped)")
	return cmd
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue status summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueService(cmd, func(cmd *cobra.Command, svc *api.QueueService) error {
				counts, err := svc.Stats(cmd.Context())
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(counts))
				total := 0
				for _, status := range queue.AllStatuses() {
					count := counts[string(status)]
					if count == 0 {
						continue
					}
					total += count
					rows = append(rows, []string{string(status), strconv.Itoa(count)})
				}
				if total == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				rows = append(rows, []string{"total", strconv.Itoa(total)})
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Requeue a failed or skipped item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueService(cmd, func(cmd *cobra.Command, svc *api.QueueService) error {
				id, err := parseItemID(args[0])
				if err != nil {
					return err
				}
				changed, err := svc.Retry(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !changed {
					return fmt.Errorf("item %d not found or not retryable", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d requeued\n", id)
				return nil
			})
		},
	}
}

func newQueueSkipCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "skip <id>",
		Short: "Mark an errored item skipped so it is excluded from retries and export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueService(cmd, func(cmd *cobra.Command, svc *api.QueueService) error {
				id, err := parseItemID(args[0])
				if err != nil {
					return err
				}
				changed, err := svc.Skip(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !changed {
					return fmt.Errorf("item %d not found or already finished", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d skipped\n", id)
				return nil
			})
		},
	}
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an item and its workspace artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueService(cmd, func(cmd *cobra.Command, svc *api.QueueService) error {
				id, err := parseItemID(args[0])
				if err != nil {
					return err
				}
				removed, err := svc.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("item %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d removed\n", id)
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var finishedOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove queue items and their workspace artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueService(cmd, func(cmd *cobra.Command, svc *api.QueueService) error {
				var removed int64
				var err error
				if finishedOnly {
					removed, err = svc.ClearFinished(cmd.Context())
				} else {
					removed, err = svc.Clear(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d item(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&finishedOnly, "finished", false, "Only remove ready and skipped items")
	return cmd
}

func newQueueSetCommand(ctx *commandContext) *cobra.Command {
	var (
		scale    float64
		rotation float64
		offsetX  float64
		offsetY  float64
	)

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Set per-item transform overrides on top of the batch controls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueService(cmd, func(cmd *cobra.Command, svc *api.QueueService) error {
				id, err := parseItemID(args[0])
				if err != nil {
					return err
				}

				item, err := svc.SetOverrides(cmd.Context(), id,
					flagValue(cmd, "scale", scale),
					flagValue(cmd, "rotation", rotation),
					flagValue(cmd, "offset-x", offsetX),
					flagValue(cmd, "offset-y", offsetY),
				)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("item %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d overrides updated\n", id)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 0, "Scale override")
	cmd.Flags().Float64Var(&rotation, "rotation", 0, "Rotation override in degrees")
	cmd.Flags().Float64Var(&offsetX, "offset-x", 0, "Horizontal offset override in pixels")
	cmd.Flags().Float64Var(&offsetY, "offset-y", 0, "Vertical offset override in pixels")
	return cmd
}

func flagValue(cmd *cobra.Command, name string, value float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}
