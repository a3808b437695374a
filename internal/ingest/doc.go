// Package ingest validates candidate image files and turns accepted ones
// into queue items: a workspace copy, a preview thumbnail, and measured
// dimensions. Rejected files are dropped and counted, never fatal.
package ingest
