// Package removal wraps the external background-removal API behind a single
// call that accepts image bytes and returns the background-free result.
package removal
