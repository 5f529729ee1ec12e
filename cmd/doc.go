// Package cmd implements the command-line interface for the jKV embedded
// JSON key-value store. Every command opens the store file given by --path,
// runs one operation and exits.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for record operations (get, set, insert, update, del, filter, etc.)
//   - index: Commands for index management (create, remove, list)
//   - info: Commands for inspecting a store file (info, check)
//   - bench: Backend and compression benchmark
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See jkv -help for a list of all commands.
package cmd
