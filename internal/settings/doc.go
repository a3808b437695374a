// Package settings defines the persisted canvas, batch transform, and export
// preference types shared by the compositor, exporter, CLI, and HTTP API.
//
// The Settings document is stored as JSON in the queue database so
// preferences survive restarts; queue.Store owns the persistence.
package settings
