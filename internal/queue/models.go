package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
	StatusSkipped    Status = "skipped"
)

var allStatuses = []Status{
	StatusQueued,
	StatusProcessing,
	StatusReady,
	StatusError,
	StatusSkipped,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Item represents a queue item persisted in SQLite.
type Item struct {
	ID           int64
	SourcePath   string
	DisplayName  string
	Status       Status
	RetryCount   int
	PreviewPath  string
	CutoutPath   string
	Width        int
	Height       int
	ErrorMessage string

	// Per-item transform overrides. Nil means "use the batch value".
	OverrideScale    *float64
	OverrideRotation *float64
	OverrideOffsetX  *float64
	OverrideOffsetY  *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Queued     int
	Processing int
	Ready      int
	Errored    int
	Skipped    int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether the queue will never pick the item up again
// without manual intervention.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusReady, StatusSkipped:
		return true
	default:
		return false
	}
}

// IsProcessing returns true when the item holds the single processing slot.
func (i Item) IsProcessing() bool {
	return i.Status == StatusProcessing
}

// Eligible reports whether the queue may start work on the item given the
// retry cap. Queued items are always eligible; errored items only while
// retries remain.
func (i Item) Eligible(maxRetries int) bool {
	switch i.Status {
	case StatusQueued:
		return true
	case StatusError:
		return i.RetryCount < maxRetries
	default:
		return false
	}
}

// SetFailed marks the item as a terminal error with the given message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusError
	i.ErrorMessage = message
}

// SetReady records the cutout artifact and moves the item to ready.
func (i *Item) SetReady(cutoutPath string) {
	i.Status = StatusReady
	i.CutoutPath = cutoutPath
	i.ErrorMessage = ""
}

// Requeue returns the item to the queued state preserving its retry counter.
func (i *Item) Requeue() {
	i.Status = StatusQueued
	i.ErrorMessage = ""
}
