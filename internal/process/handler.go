package process

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"cutout/internal/config"
	"cutout/internal/fileutil"
	"cutout/internal/ingest"
	"cutout/internal/logging"
	"cutout/internal/queue"
	"cutout/internal/removal"
	"cutout/internal/services"
	"cutout/internal/stage"
)

// Handler runs background removal for one queue item: read the workspace
// source, call the removal API, and write the cutout artifact.
type Handler struct {
	cfg    *config.Config
	client *removal.Client
	logger *slog.Logger
}

func NewHandler(cfg *config.Config, client *removal.Client, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		cfg:    cfg,
		client: client,
		logger: logger.With(logging.String(logging.FieldComponent, "process")),
	}
}

// Prepare verifies the source artifact still exists and backfills missing
// dimensions before the stage runs.
func (h *Handler) Prepare(_ context.Context, item *queue.Item) error {
	if item.SourcePath == "" {
		return services.Wrap(services.ErrValidation, "process", "prepare", "item has no source path", nil)
	}
	info, err := os.Stat(item.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "process", "prepare", "source file missing", err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "process", "prepare", "source path is a directory", nil)
	}
	if item.Width == 0 || item.Height == 0 {
		file, err := os.Open(item.SourcePath)
		if err != nil {
			return services.Wrap(services.ErrValidation, "process", "prepare", "open source", err)
		}
		defer file.Close()
		cfg, _, err := image.DecodeConfig(file)
		if err != nil {
			return services.Wrap(services.ErrValidation, "process", "prepare", "decode source bounds", err)
		}
		item.Width = cfg.Width
		item.Height = cfg.Height
	}
	return nil
}

// Execute submits the source to the removal API and writes the resulting
// cutout next to the preview. The item's cutout path is updated in place;
// status transitions belong to the workflow manager.
func (h *Handler) Execute(ctx context.Context, item *queue.Item) error {
	data, err := os.ReadFile(item.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "process", "execute", "read source", err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(item.SourcePath)))
	result, err := h.client.Remove(ctx, data, contentType)
	if err != nil {
		return err
	}

	cutoutPath := filepath.Join(ingest.ItemDir(h.cfg, item.ID), "cutout.png")
	if err := fileutil.WriteFileAtomic(cutoutPath, result, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "process", "execute", "write cutout", err)
	}
	item.CutoutPath = cutoutPath

	h.logger.Info("background removed",
		logging.Int64(logging.FieldItemID, item.ID),
		logging.Int("cutout_bytes", len(result)))
	return nil
}

// HealthCheck reports whether the removal client is ready for live calls.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	if err := h.client.HealthCheck(ctx); err != nil {
		return stage.Unhealthy("removal", err.Error())
	}
	return stage.Healthy("removal")
}

// LoadCutout decodes an item's processed artifact for rendering.
func LoadCutout(item *queue.Item) (image.Image, error) {
	if item.CutoutPath == "" {
		return nil, services.Wrap(services.ErrValidation, "process", "load cutout", fmt.Sprintf("item %d has no cutout", item.ID), nil)
	}
	file, err := os.Open(item.CutoutPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "process", "load cutout", "open cutout", err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "process", "load cutout", "decode cutout", err)
	}
	return img, nil
}
