package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cutout/internal/api"
	"cutout/internal/config"
	"cutout/internal/preflight"
	"cutout/internal/queue"
)

const (
	ansiBlue  = "\x1b[34m"
	ansiReset = "\x1b[0m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, queue, and environment status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				writeHeading(cmd, "Cutout Status")

				if status, err := fetchDaemonStatus(cfg); err == nil {
					fmt.Fprintf(out, "Daemon: running (pid %d)\n", status.PID)
					fmt.Fprintf(out, "Queue database: %s\n", status.QueueDBPath)
					if status.Workflow.LastError != "" {
						fmt.Fprintf(out, "Last error: %s\n", status.Workflow.LastError)
					}
				} else {
					fmt.Fprintln(out, "Daemon: not running")
				}

				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(stats))
				for _, status := range queue.AllStatuses() {
					if count := stats[status]; count > 0 {
						rows = append(rows, []string{string(status), strconv.Itoa(count)})
					}
				}
				if len(rows) == 0 {
					fmt.Fprintln(out, "Queue is empty")
				} else {
					fmt.Fprintln(out, renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				}

				checkRows := make([][]string, 0, 4)
				for _, check := range preflight.RunAll(cmd.Context(), cfg) {
					checkRows = append(checkRows, []string{check.Name, passFail(check.Passed), check.Detail})
				}
				fmt.Fprintln(out, renderTable([]string{"Check", "Result", "Detail"}, checkRows, []columnAlignment{alignLeft, alignLeft, alignLeft}))
				return nil
			})
		},
	}
}

// fetchDaemonStatus asks a running daemon over its HTTP API; an error just
// means no daemon is listening.
func fetchDaemonStatus(cfg *config.Config) (*api.DaemonStatus, error) {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/api/status", cfg.Server.Bind))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	var status api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}

func writeHeading(cmd *cobra.Command, heading string) {
	out := cmd.OutOrStdout()
	if isTerminal(out) {
		heading = ansiBlue + heading + ansiReset
	}
	fmt.Fprintln(out, heading)
}

func passFail(passed bool) string {
	if passed {
		return "ok"
	}
	return "failed"
}
