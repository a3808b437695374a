// Package config loads, normalizes, and validates cutout configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CUTOUT_REMOVAL_API_KEY. The Config type centralizes every knob the daemon
// and CLI need: workspace directories, removal API credentials, ingestion
// caps, canvas and export defaults, and server limits.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
