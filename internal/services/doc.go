// Package services defines shared utilities consumed by the workflow stage
// handlers and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp queue item IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (retryable vs terminal) uniform across the pipeline.
//
// Use these helpers when wiring new stage logic so operational behaviour
// stays consistent between the removal stage, the exporter, and the HTTP API.
package services
