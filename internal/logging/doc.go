// Package logging wires log/slog with the handlers and attribute helpers the
// daemon and CLI share.
//
// It provides console and JSON output formats, config-driven construction,
// standardized field names (component, item_id, stage, correlation_id), and
// context-aware logger derivation so stage handlers automatically carry the
// item and request they are working on.
package logging
