package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// QueueItem describes a queue entry in a transport-friendly format.
type QueueItem struct {
	ID           int64    `json:"id"`
	DisplayName  string   `json:"displayName"`
	SourcePath   string   `json:"sourcePath"`
	Status       string   `json:"status"`
	RetryCount   int      `json:"retryCount"`
	PreviewPath  string   `json:"previewPath,omitempty"`
	CutoutPath   string   `json:"cutoutPath,omitempty"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
	Scale        *float64 `json:"scale,omitempty"`
	Rotation     *float64 `json:"rotation,omitempty"`
	OffsetX      *float64 `json:"offsetX,omitempty"`
	OffsetY      *float64 `json:"offsetY,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	UpdatedAt    string   `json:"updatedAt,omitempty"`
}

// WorkflowStatus summarizes workflow execution state.
type WorkflowStatus struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queueStats"`
	LastError   string         `json:"lastError,omitempty"`
	LastItem    *QueueItem     `json:"lastItem,omitempty"`
	StageHealth StageHealth    `json:"stageHealth"`
}

// StageHealth mirrors readiness reporting for the processing stage.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	QueueDBPath  string         `json:"queueDbPath"`
	LockFilePath string         `json:"lockFilePath"`
	Workflow     WorkflowStatus `json:"workflow"`
}

// QueueListResponse wraps a collection of queue items for API responses.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueItemResponse wraps a single queue item.
type QueueItemResponse struct {
	Item QueueItem `json:"item"`
}

// QueueStatsResponse provides a normalized queue stats payload.
type QueueStatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// RemoveBackgroundRequest carries an inline image for the proxy endpoint.
// Image accepts a data URL or bare base64 payload.
type RemoveBackgroundRequest struct {
	Image  string `json:"image"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// RemoveBackgroundResponse returns the cutout as a data URL plus its
// measured pixel dimensions.
type RemoveBackgroundResponse struct {
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ZipEntry is one named file in a zip assembly request. Data accepts a
// data URL or bare base64 payload.
type ZipEntry struct {
	Name string `json:"name"`
	Data string `json:"data"`
}
