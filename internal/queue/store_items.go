package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// NewItem inserts a freshly ingested image in the queued state.
func (s *Store) NewItem(ctx context.Context, sourcePath, displayName string, width, height int) (*Item, error) {
	if sourcePath == "" {
		return nil, errors.New("source path is required")
	}
	if displayName == "" {
		return nil, errors.New("display name is required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO queue_items (
            source_path, display_name, status, retry_count, width, height, created_at, updated_at
        ) VALUES (?, ?, ?, 0, ?, ?, ?, ?)`,
		sourcePath,
		displayName,
		StatusQueued,
		nullableInt(width),
		nullableInt(height),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a queue item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing queue item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE queue_items
         SET source_path = ?, display_name = ?, status = ?, retry_count = ?,
             preview_path = ?, cutout_path = ?, width = ?, height = ?,
             error_message = ?, override_scale = ?, override_rotation = ?,
             override_offset_x = ?, override_offset_y = ?, updated_at = ?
         WHERE id = ?`,
		item.SourcePath,
		item.DisplayName,
		item.Status,
		item.RetryCount,
		nullableString(item.PreviewPath),
		nullableString(item.CutoutPath),
		nullableInt(item.Width),
		nullableInt(item.Height),
		nullableString(item.ErrorMessage),
		nullableFloat(item.OverrideScale),
		nullableFloat(item.OverrideRotation),
		nullableFloat(item.OverrideOffsetX),
		nullableFloat(item.OverrideOffsetY),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List returns queue items ordered by creation, optionally filtered by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// NextEligible returns the oldest item the queue may work on: queued, or
// errored with retries below the cap. Returns nil when nothing is eligible.
func (s *Store) NextEligible(ctx context.Context, maxRetries int) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items
         WHERE status = ? OR (status = ? AND retry_count < ?)
         ORDER BY created_at, id LIMIT 1`,
		StatusQueued,
		StatusError,
		maxRetries,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next eligible: %w", err)
	}
	return item, nil
}

// Count returns the total number of items in the queue.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM queue_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// Remove deletes a queue item, returning whether a row was removed.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("remove item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear deletes every queue item and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

// ClearFinished deletes ready and skipped items.
func (s *Store) ClearFinished(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM queue_items WHERE status IN (?, ?)`,
		StatusReady,
		StatusSkipped,
	)
	if err != nil {
		return 0, fmt.Errorf("clear finished items: %w", err)
	}
	return res.RowsAffected()
}
