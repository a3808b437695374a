// Package api defines wire-format types and converters for the daemon HTTP
// API and the CLI. It translates internal queue models into transport-friendly
// DTOs so consumers never couple to internal types.
//
// DTOs use camelCase JSON tags. Internal enums (queue.Status) are exposed as
// lowercase strings and timestamps use RFC3339 with milliseconds.
package api
