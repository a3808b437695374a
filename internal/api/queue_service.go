package api

import (
	"context"

	"cutout/internal/config"
	"cutout/internal/ingest"
	"cutout/internal/queue"
)

// QueueStore abstracts queue persistence interactions needed by the service.
type QueueStore interface {
	List(ctx context.Context, statuses ...queue.Status) ([]*queue.Item, error)
	Stats(ctx context.Context) (map[queue.Status]int, error)
	GetByID(ctx context.Context, id int64) (*queue.Item, error)
	Update(ctx context.Context, item *queue.Item) error
	RetryItem(ctx context.Context, id int64) (bool, error)
	SkipItem(ctx context.Context, id int64) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
	Clear(ctx context.Context) (int64, error)
	ClearFinished(ctx context.Context) (int64, error)
}

// QueueService exposes queue operations returning API DTOs. Both the daemon
// HTTP handlers and the CLI commands go through it so item artifact cleanup
// stays in one place.
type QueueService struct {
	cfg   *config.Config
	store QueueStore
}

// NewQueueService constructs a QueueService around the provided store.
func NewQueueService(cfg *config.Config, store QueueStore) *QueueService {
	if store == nil {
		return nil
	}
	return &QueueService{cfg: cfg, store: store}
}

// List returns queue items filtered by status.
func (s *QueueService) List(ctx context.Context, statuses ...queue.Status) ([]QueueItem, error) {
	items, err := s.store.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	return FromQueueItems(items), nil
}

// Stats returns queue summary counts keyed by status string.
func (s *QueueService) Stats(ctx context.Context) (map[string]int, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return MergeQueueStats(stats), nil
}

// Describe fetches a single queue item.
func (s *QueueService) Describe(ctx context.Context, id int64) (*QueueItem, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}
	dto := FromQueueItem(item)
	return &dto, nil
}

// Retry returns an errored or skipped item to the queue with a fresh retry
// allowance.
func (s *QueueService) Retry(ctx context.Context, id int64) (bool, error) {
	return s.store.RetryItem(ctx, id)
}

// Skip marks an errored item as skipped so the queue stops retrying it.
func (s *QueueService) Skip(ctx context.Context, id int64) (bool, error) {
	return s.store.SkipItem(ctx, id)
}

// Remove deletes an item and its workspace artifacts.
func (s *QueueService) Remove(ctx context.Context, id int64) (bool, error) {
	removed, err := s.store.Remove(ctx, id)
	if err != nil || !removed {
		return removed, err
	}
	if s.cfg != nil {
		if err := ingest.RemoveArtifacts(s.cfg, id); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Clear removes every item along with its artifacts.
func (s *QueueService) Clear(ctx context.Context) (int64, error) {
	return s.clearItems(ctx, nil)
}

// ClearFinished removes ready and skipped items along with their artifacts.
func (s *QueueService) ClearFinished(ctx context.Context) (int64, error) {
	return s.clearItems(ctx, []queue.Status{queue.StatusReady, queue.StatusSkipped})
}

// SetOverrides stores per-item transform overrides. Nil values reset a field
// back to the batch default.
func (s *QueueService) SetOverrides(ctx context.Context, id int64, scale, rotation, offsetX, offsetY *float64) (*QueueItem, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}
	item.OverrideScale = scale
	item.OverrideRotation = rotation
	item.OverrideOffsetX = offsetX
	item.OverrideOffsetY = offsetY
	if err := s.store.Update(ctx, item); err != nil {
		return nil, err
	}
	dto := FromQueueItem(item)
	return &dto, nil
}

func (s *QueueService) clearItems(ctx context.Context, statuses []queue.Status) (int64, error) {
	// Capture IDs first so artifact directories can be removed after the
	// rows are gone.
	items, err := s.store.List(ctx, statuses...)
	if err != nil {
		return 0, err
	}

	var removed int64
	if len(statuses) == 0 {
		removed, err = s.store.Clear(ctx)
	} else {
		removed, err = s.store.ClearFinished(ctx)
	}
	if err != nil {
		return removed, err
	}

	if s.cfg != nil {
		for _, item := range items {
			if err := ingest.RemoveArtifacts(s.cfg, item.ID); err != nil {
				return removed, err
			}
		}
	}
	return removed, nil
}
