// Package lstore implements a local, single-node store based on the
// store.IStore interface. It provides a thin wrapper around any db.JSONDB
// implementation that makes it safe for concurrent use.
//
// Key Features:
//   - Direct integration with db.JSONDB implementations
//   - Shared access for reads, exclusive access for writes and commits
//   - Same semantics as the wrapped database, including persistence
//
// Implementation Details:
//
//   - Locking: The store uses a reader-biased read/write mutex (xsync.RBMutex).
//     Get, Exists, All, Len, Keys, Filter, Indexes, VerifyIndexes, GetInfo and
//     WriteMetrics take the shared lock. All mutations, index changes and Commit
//     take the exclusive lock. Autocommits run inside the mutation that
//     triggered them and therefore under the same exclusive lock.
//
//   - Composition Architecture: The store follows a composition pattern where the
//     store.DBFactory factory function injects the underlying db.JSONDB implementation.
//     This allows the store to work with any db.JSONDB-compatible engine without modification.
//
// Usage Example:
//
//	// Create a store with a pasture database backend
//	factory := func() (db.JSONDB, error) {
//		return pasture.NewPastureDB(&pasture.Options{Path: "people.json"})
//	}
//	s, err := lstore.NewLocalStore(factory)
//
//	// Use it from any number of goroutines
//	key, err := s.Insert(value.Record{"name": value.String("Alice")})
//	people, plan := s.Filter(value.Record{"name": value.String("Alice")})
//
// Performance Considerations:
//
//	Reads scale with the number of cores as long as there are no writers. A
//	commit holds the exclusive lock for the whole encode and write of the store
//	file.
package lstore
