// Package daemon coordinates the long-running cutout process.
//
// It wires configuration, queue storage, the workflow manager, and the HTTP
// API server into a single lifecycle with flock-based locking to prevent
// multiple instances. The API server exposes queue introspection, manual
// retry/skip operations, the background-removal proxy endpoint, and zip
// assembly for client-side downloads.
package daemon
