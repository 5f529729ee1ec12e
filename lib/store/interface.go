package store

import (
	"github.com/ValentinKolb/jKV/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() (db.JSONDB, error)

// IStore is a db.JSONDB that is safe for concurrent use. Every operation of the
// underlying database is executed under a lock: reads may run in parallel, writes
// (mutations, index changes and commits) are exclusive.
type IStore interface {
	db.JSONDB

	// DB returns the wrapped database. Calls on it bypass the lock.
	DB() db.JSONDB
}
