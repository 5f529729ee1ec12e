// Package storage reads and writes the store file as a whole.
//
// WriteFile writes to a temporary file and renames it over the target. ReadFile
// returns nil data for a missing or empty file. Files can be compressed with
// zstd, lz4 or snappy (framed format); ReadFile detects the compression from the
// frame header, so the compression option only affects writes.
package storage
