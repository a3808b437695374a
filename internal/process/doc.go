// Package process implements the background-removal stage executed by the
// workflow manager for each queue item.
package process
