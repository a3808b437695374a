// Package export turns ready queue items into a downloadable zip archive of
// rendered frames.
package export
