// Package testing provides standardised tests and benchmarks for
// database implementations that satisfy the db.JSONDB interface.
//
// The package contains:
//   - testing: A comprehensive test suite for validating conformance to the JSONDB
//     interface contract (copy semantics, index consistency, filter plans,
//     persistence round trips and commit policies)
//   - benchmark: Performance tests for measuring throughput of common database operations
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func(cfg dbtesting.Config) (db.JSONDB, error) {
//		return NewMyDatabase(cfg.Path)
//	}
//
//	// Running the standard test suite
//	dbtesting.RunJSONDBTests(t, "MyDatabase", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunJSONDBBenchmarks(b, "MyDatabase", factory)
package testing
