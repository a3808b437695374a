package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"cutout/internal/config"
)

// ItemDir returns the per-item workspace directory holding the copied
// source, the preview thumbnail, and the processed cutout.
func ItemDir(cfg *config.Config, itemID int64) string {
	return filepath.Join(cfg.Paths.WorkspaceDir, "items", fmt.Sprintf("%d", itemID))
}

// RemoveArtifacts deletes the per-item workspace directory. Missing
// directories are not an error; removal must be idempotent.
func RemoveArtifacts(cfg *config.Config, itemID int64) error {
	dir := ItemDir(cfg, itemID)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove item artifacts: %w", err)
	}
	return nil
}
