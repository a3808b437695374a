// Package textutil provides small string helpers shared across the ingest
// and export paths: filename sanitization and display-name derivation.
package textutil
