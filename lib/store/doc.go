// Package store provides a concurrency-safe interface over the db.JSONDB
// implementations.
//
// The database engines are single-threaded by contract. A store wraps one engine
// instance and serializes access to it, so a database can be shared between
// goroutines (for example by the CLI bench command or an embedding server).
//
// Key Components:
//
//   - IStore Interface: A db.JSONDB with the additional guarantee of being safe for
//     concurrent use. Code written against db.JSONDB works unchanged.
//
//   - DBFactory: A function type that abstracts the creation of the underlying
//     db.JSONDB instance, providing dependency injection and flexible configuration
//     of storage backends.
//
// Implementations:
//
//	- Local Store (lstore): Guards a single db.JSONDB with a reader-biased
//	  read/write mutex. Available in the "github.com/ValentinKolb/jKV/lib/store/lstore"
//	  package.
package store
