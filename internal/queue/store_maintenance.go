package queue

import (
	"context"
	"fmt"
)

// Stats returns item counts grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM queue_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}

// Health aggregates queue counts into a summary for status displays.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	summary := HealthSummary{
		Queued:     stats[StatusQueued],
		Processing: stats[StatusProcessing],
		Ready:      stats[StatusReady],
		Errored:    stats[StatusError],
		Skipped:    stats[StatusSkipped],
	}
	for _, count := range stats {
		summary.Total += count
	}
	return summary, nil
}
