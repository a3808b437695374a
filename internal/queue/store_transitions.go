package queue

import (
	"context"
	"fmt"
	"time"
)

// ResetStuckProcessing returns items left in processing (for example after a
// crash) back to queued so the workflow can pick them up again.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items
         SET status = ?, error_message = NULL, updated_at = ?
         WHERE status = ?`,
		StatusQueued,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	return res.RowsAffected()
}

// RetryItem resets an errored or skipped item for another pass through the
// queue. The retry counter starts over so the item gets a full allowance.
func (s *Store) RetryItem(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items
         SET status = ?, retry_count = 0, error_message = NULL, updated_at = ?
         WHERE id = ? AND status IN (?, ?)`,
		StatusQueued,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		StatusError,
		StatusSkipped,
	)
	if err != nil {
		return false, fmt.Errorf("retry item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SkipItem marks an errored item as skipped so the queue stops retrying it.
func (s *Store) SkipItem(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items
         SET status = ?, updated_at = ?
         WHERE id = ? AND status = ?`,
		StatusSkipped,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		StatusError,
	)
	if err != nil {
		return false, fmt.Errorf("skip item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
