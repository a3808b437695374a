// Package preflight verifies the daemon's environment before it accepts
// work: directory access, disk headroom, and removal API configuration.
package preflight
