package api

import (
	"time"

	"cutout/internal/queue"
	"cutout/internal/workflow"
)

// FromQueueItem converts a queue record to its API representation.
func FromQueueItem(item *queue.Item) QueueItem {
	if item == nil {
		return QueueItem{}
	}

	dto := QueueItem{
		ID:           item.ID,
		DisplayName:  item.DisplayName,
		SourcePath:   item.SourcePath,
		Status:       string(item.Status),
		RetryCount:   item.RetryCount,
		PreviewPath:  item.PreviewPath,
		CutoutPath:   item.CutoutPath,
		Width:        item.Width,
		Height:       item.Height,
		ErrorMessage: item.ErrorMessage,
		Scale:        item.OverrideScale,
		Rotation:     item.OverrideRotation,
		OffsetX:      item.OverrideOffsetX,
		OffsetY:      item.OverrideOffsetY,
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromQueueItems converts a slice of queue records into API DTOs.
func FromQueueItems(items []*queue.Item) []QueueItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]QueueItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromQueueItem(item))
	}
	return out
}

// FromStatusSummary converts a workflow status summary to API payload.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	wf := WorkflowStatus{
		Running:    summary.Running,
		QueueStats: MergeQueueStats(summary.QueueStats),
		StageHealth: StageHealth{
			Name:   summary.StageHealth.Name,
			Ready:  summary.StageHealth.Ready,
			Detail: summary.StageHealth.Detail,
		},
	}
	if summary.LastError != "" {
		wf.LastError = summary.LastError
	}
	if summary.LastItem != nil {
		last := FromQueueItem(summary.LastItem)
		wf.LastItem = &last
	}
	return wf
}

// MergeQueueStats produces a string-keyed representation of queue stats.
func MergeQueueStats(stats map[queue.Status]int) map[string]int {
	out := make(map[string]int, len(stats))
	for status, count := range stats {
		out[string(status)] = count
	}
	return out
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
