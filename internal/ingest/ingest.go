package ingest

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// imaging registers png/jpeg/gif decoders itself; webp needs this.
	_ "golang.org/x/image/webp"

	"cutout/internal/config"
	"cutout/internal/fileutil"
	"cutout/internal/logging"
	"cutout/internal/queue"
	"cutout/internal/services"
	"cutout/internal/textutil"
)

const previewMaxEdge = 320

var supportedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

// Result summarizes one ingestion pass. Dropped files are counted rather
// than failing the batch.
type Result struct {
	Accepted           []*queue.Item
	DroppedOversized   int
	DroppedUnsupported int
	DroppedOverflow    int
}

// Dropped returns the total number of rejected candidates.
func (r *Result) Dropped() int {
	return r.DroppedOversized + r.DroppedUnsupported + r.DroppedOverflow
}

// Ingestor validates candidate image files and turns them into queue items
// with workspace copies and preview thumbnails.
type Ingestor struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ingestor{cfg: cfg, store: store, logger: logger.With(logging.String(logging.FieldComponent, "ingest"))}
}

// Add validates each candidate path and enqueues the survivors. Oversized and
// unsupported files are dropped silently; files beyond the batch cap are
// dropped as overflow. The pass only fails when the queue itself fails.
func (ing *Ingestor) Add(ctx context.Context, paths []string) (*Result, error) {
	result := &Result{}
	if len(paths) == 0 {
		return result, nil
	}

	existing, err := ing.store.Count(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "ingest", "add", "count queue", err)
	}
	capacity := ing.cfg.Limits.MaxItems - existing
	maxBytes := int64(ing.cfg.Limits.MaxFileMB) << 20

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if capacity <= 0 {
			result.DroppedOverflow++
			ing.logger.Warn("dropping file: queue is full", logging.String("path", path))
			continue
		}
		verdict := ing.inspect(path, maxBytes)
		switch verdict {
		case dropUnsupported:
			result.DroppedUnsupported++
			ing.logger.Warn("dropping unsupported file", logging.String("path", path))
			continue
		case dropOversized:
			result.DroppedOversized++
			ing.logger.Warn("dropping oversized file",
				logging.String("path", path),
				logging.Int("limit_mb", ing.cfg.Limits.MaxFileMB))
			continue
		}

		item, err := ing.enqueue(ctx, path)
		if err != nil {
			return result, err
		}
		result.Accepted = append(result.Accepted, item)
		capacity--
		ing.logger.Info("file queued",
			logging.Int64(logging.FieldItemID, item.ID),
			logging.String("display_name", item.DisplayName),
			logging.Int("width", item.Width),
			logging.Int("height", item.Height))
	}
	return result, nil
}

type verdict int

const (
	accept verdict = iota
	dropUnsupported
	dropOversized
)

func (ing *Ingestor) inspect(path string, maxBytes int64) verdict {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedExtensions[ext]; !ok {
		return dropUnsupported
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return dropUnsupported
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return dropOversized
	}
	return accept
}

func (ing *Ingestor) enqueue(ctx context.Context, path string) (*queue.Item, error) {
	source, err := imaging.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "ingest", "enqueue", fmt.Sprintf("decode %s", path), err)
	}
	bounds := source.Bounds()

	displayName := textutil.DisplayNameFromFile(path)
	item, err := ing.store.NewItem(ctx, path, displayName, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	if err := ing.materialize(item, path, source); err != nil {
		// Roll the record back so a failed copy does not leave a queued
		// item pointing at missing artifacts.
		_, _ = ing.store.Remove(ctx, item.ID)
		return nil, err
	}
	if err := ing.store.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// materialize copies the source into the item workspace and writes the
// preview thumbnail, updating the item's paths in place.
func (ing *Ingestor) materialize(item *queue.Item, path string, source image.Image) error {
	dir := ItemDir(ing.cfg, item.ID)
	if err := fileutil.EnsureDir(dir); err != nil {
		return services.Wrap(services.ErrTransient, "ingest", "materialize", "create item dir", err)
	}

	copied := filepath.Join(dir, "source"+strings.ToLower(filepath.Ext(path)))
	if err := fileutil.CopyFile(path, copied); err != nil {
		return services.Wrap(services.ErrTransient, "ingest", "materialize", "copy source", err)
	}
	item.SourcePath = copied

	preview := imaging.Fit(source, previewMaxEdge, previewMaxEdge, imaging.Lanczos)
	previewPath := filepath.Join(dir, "preview.png")
	out, err := os.Create(previewPath)
	if err != nil {
		return services.Wrap(services.ErrTransient, "ingest", "materialize", "create preview", err)
	}
	defer out.Close()
	if err := png.Encode(out, preview); err != nil {
		return services.Wrap(services.ErrTransient, "ingest", "materialize", "encode preview", err)
	}
	item.PreviewPath = previewPath
	return nil
}
