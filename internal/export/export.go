package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"cutout/internal/compositor"
	"cutout/internal/config"
	"cutout/internal/fileutil"
	"cutout/internal/logging"
	"cutout/internal/process"
	"cutout/internal/queue"
	"cutout/internal/services"
	"cutout/internal/settings"
)

// Exporter renders every ready item through the compositor and assembles the
// results into a single zip archive. Items render one at a time; a failure on
// any item fails the whole export so partial archives never ship.
type Exporter struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Exporter{cfg: cfg, store: store, logger: logger.With(logging.String(logging.FieldComponent, "export"))}
}

// Export writes the batch archive to outPath. When outPath is empty a
// timestamped file under the configured output directory is used. The final
// path is returned.
func (e *Exporter) Export(ctx context.Context, s settings.Settings, outPath string) (string, error) {
	data, count, err := e.buildArchive(ctx, s)
	if err != nil {
		return "", err
	}

	if outPath == "" {
		outPath = filepath.Join(e.cfg.Paths.OutputDir, fmt.Sprintf("cutouts-%s.zip", time.Now().Format("20060102-150405")))
	}
	if err := fileutil.EnsureDir(filepath.Dir(outPath)); err != nil {
		return "", services.Wrap(services.ErrTransient, "export", "write archive", "create output dir", err)
	}
	if err := fileutil.WriteFileAtomic(outPath, data, 0o644); err != nil {
		return "", services.Wrap(services.ErrTransient, "export", "write archive", "write zip", err)
	}

	e.logger.Info("batch exported",
		logging.Int("items", count),
		logging.Int("archive_bytes", len(data)),
		logging.String("path", outPath))
	return outPath, nil
}

// Archive renders the batch and returns the zip bytes without touching disk,
// for streaming over HTTP.
func (e *Exporter) Archive(ctx context.Context, s settings.Settings) ([]byte, error) {
	data, _, err := e.buildArchive(ctx, s)
	return data, err
}

func (e *Exporter) buildArchive(ctx context.Context, s settings.Settings) ([]byte, int, error) {
	items, err := e.store.List(ctx, queue.StatusReady)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrTransient, "export", "build archive", "list ready items", err)
	}
	if len(items) == 0 {
		return nil, 0, services.Wrap(services.ErrValidation, "export", "build archive", "no ready items to export", nil)
	}

	names := newNamer(s.Export.NamingPattern, s.Export.Format, time.Now())
	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		entryName := names.next(i+1, item.DisplayName)
		if err := e.writeEntry(archive, entryName, item, s); err != nil {
			return nil, 0, fmt.Errorf("export item %d (%s): %w", item.ID, item.DisplayName, err)
		}
	}

	if err := archive.Close(); err != nil {
		return nil, 0, services.Wrap(services.ErrTransient, "export", "build archive", "finalize zip", err)
	}
	return buf.Bytes(), len(items), nil
}

func (e *Exporter) writeEntry(archive *zip.Writer, name string, item *queue.Item, s settings.Settings) error {
	cutout, err := process.LoadCutout(item)
	if err != nil {
		return err
	}

	rendered, err := compositor.RenderScaled(cutout, s, overridesFor(item), exportScale(s))
	if err != nil {
		return err
	}

	entry, err := archive.Create(name)
	if err != nil {
		return services.Wrap(services.ErrTransient, "export", "write entry", "create zip entry", err)
	}
	return encodeImage(entry, rendered, s.Export.Format)
}

func encodeImage(w io.Writer, img image.Image, format settings.Format) error {
	switch format {
	case settings.FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return services.Wrap(services.ErrTransient, "export", "encode", "encode webp", err)
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return services.Wrap(services.ErrTransient, "export", "encode", "encode png", err)
		}
	}
	return nil
}

func exportScale(s settings.Settings) float64 {
	if s.Export.Scale <= 0 {
		return 1.0
	}
	return s.Export.Scale
}

func overridesFor(item *queue.Item) compositor.Overrides {
	return compositor.Overrides{
		Scale:    item.OverrideScale,
		Rotation: item.OverrideRotation,
		OffsetX:  item.OverrideOffsetX,
		OffsetY:  item.OverrideOffsetY,
	}
}
