// Command cutout is the CLI for the batch background-removal studio. It
// queues images, inspects and edits the processing queue, renders single
// items, exports archives, and can run the daemon in the foreground.
package main
