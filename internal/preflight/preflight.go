package preflight

import (
	"context"

	"cutout/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Workspace directory", cfg.Paths.WorkspaceDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDiskSpace("Workspace disk space", cfg.Paths.WorkspaceDir, minFreeBytes),
		CheckRemovalConfig(cfg),
	}
	return results
}

// Passed reports whether every check succeeded.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
