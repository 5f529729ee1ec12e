// Package db defines the contract of an embedded JSON record store with secondary
// equality indexes.
//
// Key Components:
//
//   - JSONDB Interface: the operations every engine implements. Record access
//     (Get, Exists, All, Len, Keys), mutations (Set, Insert, Update, Delete), index
//     management (CreateIndex, RemoveIndex, Indexes, VerifyIndexes), the equality
//     filter (Filter) and persistence (Commit).
//
//   - Error: all operations return *Error values carrying an ErrCode. The exported
//     sentinels (ErrNotFound, ErrInvalidValue, ...) match any error with the same code
//     through errors.Is.
//
//   - Snapshot: the three sections written to the store file (data, indexes,
//     index_defs). Codecs in the codec package encode and decode it.
//
//   - QueryPlan: every Filter call reports, per criteria field, whether an index
//     lookup or a scan was used and whether the step was skipped because the
//     candidate set was already empty.
//
// Note on Indexes:
//   - Index contents are always consistent with the records once a mutation returns.
//   - An index is either "default" (contents written to the store file) or "lazy"
//     (only the definition is written, the contents are rebuilt when the file is loaded).
//   - Only string values can be written as bucket keys. An index that ever sees a
//     non-string value is switched to lazy for the rest of its life.
//
// Related Packages:
//
// The engines/pasture package (github.com/ValentinKolb/jKV/lib/db/engines/pasture)
// provides the in-memory implementation with file persistence.
//
// The testing package (github.com/ValentinKolb/jKV/lib/db/testing) provides
// standardized tests and benchmarks for implementations of db.JSONDB.
//   - RunJSONDBTests: runs the conformance suite
//   - RunJSONDBBenchmarks: benchmarks for comparing implementations
package db
