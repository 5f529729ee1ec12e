// Package pasture implements an embedded JSON record store (db.JSONDB) with
// secondary equality indexes and single-file persistence.
//
// Key Components:
//
//   - pastureImpl: The database structure implementing db.JSONDB. It owns the
//     record store and the index store, applies the commit policy after every
//     successful mutation and exposes per-instance metrics.
//
//   - internal.RecordStore: Maps keys to records. All records handed out by the
//     database are deep copies, so callers can never change stored state.
//
//   - internal.IndexStore: Holds one Index per indexed field. An index maps each
//     distinct field value to the set of keys holding it. Every mutation first
//     retracts the old field values of the affected key and then adds the new
//     ones, so the indexes always equal a full recomputation from the records.
//
// Index Types:
//
//   - default: The index contents are written to the store file and restored
//     from it on load.
//   - lazy: Only the definition is written; the contents are rebuilt from the
//     records on load. An index that receives a non-string value becomes lazy, since
//     the file format can only hold string bucket values. With Options.LazyIndexes
//     every index is lazy.
//
// Filters:
//
// Filter evaluates indexed fields first (bucket lookups) and scans the remaining
// fields over the surviving candidates. Fields are processed in name order inside
// each group and evaluation stops early once no candidate is left. The returned
// db.QueryPlan records every step.
//
// Persistence:
//
// Commit encodes a db.Snapshot with the configured codec (see package codec),
// optionally compresses it and replaces the store file atomically (see package
// storage). The commit policy is one of:
//  1. manual: only explicit Commit calls write the file
//  2. always: every successful mutation commits
//  3. counter: every n-th successful mutation since the last commit commits
//
// A store file that cannot be decoded is reported as a warning and the database
// starts empty; the next commit overwrites the file.
//
// A pastureImpl is not safe for concurrent use. Wrap it with lstore.NewLocalStore
// when it is shared between goroutines.
package pasture
