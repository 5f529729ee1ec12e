package db

import (
	"io"

	"github.com/ValentinKolb/jKV/lib/db/util"
	"github.com/ValentinKolb/jKV/lib/value"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplPasture      Implementation = "pasture"
	ImplSynchronized Implementation = "synchronized"
)

// IndexType is the persistence mode of a secondary index.
type IndexType string

const (
	// IndexTypeDefault indexes are written to the store file with their contents.
	IndexTypeDefault IndexType = "default"
	// IndexTypeLazy indexes only write their definition and are rebuilt on load.
	IndexTypeLazy IndexType = "lazy"
)

// ParseIndexType converts a string into an IndexType. The empty string maps to
// IndexTypeDefault.
func ParseIndexType(s string) (IndexType, error) {
	switch IndexType(s) {
	case "", IndexTypeDefault:
		return IndexTypeDefault, nil
	case IndexTypeLazy:
		return IndexTypeLazy, nil
	default:
		return "", NewError(ErrCInvalidOption, "", "unknown index type "+s)
	}
}

// IndexDef is the persisted definition of an index.
type IndexDef struct {
	Type IndexType `json:"type" yaml:"type"`
}

// IndexInfo describes a live index.
type IndexInfo struct {
	Name    string    `json:"name"`
	Type    IndexType `json:"type"`
	Lazy    bool      `json:"lazy"`    // true if the index is not written with its contents
	Buckets int       `json:"buckets"` // number of distinct values
	Entries int       `json:"entries"` // number of (value, key) pairs

	// BucketSizes describes how the keys are spread over the buckets
	BucketSizes util.DistributionStats `json:"bucket_sizes"`
}

// CommitMode describes when a database writes itself to storage.
type CommitMode string

const (
	CommitManual  CommitMode = "manual"
	CommitAlways  CommitMode = "always"
	CommitCounter CommitMode = "counter"
)

// DatabaseInfo reports the state of a database instance.
type DatabaseInfo struct {
	DbType           Implementation `json:"db_type"`
	Path             string         `json:"path"`
	Backend          string         `json:"backend"`
	Compression      string         `json:"compression"`
	CommitMode       CommitMode     `json:"commit_mode"`
	CommitEvery      int            `json:"commit_every,omitempty"`
	CommitCountdown  int            `json:"commit_countdown,omitempty"` // mutations until the next counter commit
	PendingWrites    int            `json:"pending_writes"` // mutations since the last commit
	LazyIndexes      bool           `json:"lazy_indexes"`
	Records          int            `json:"records"`
	Indexes          []IndexInfo    `json:"indexes"`
	LoadedFromFile   bool           `json:"loaded_from_file"`
	RecoveredCorrupt bool           `json:"recovered_corrupt"`
}

// --------------------------------------------------------------------------
// Query Types
// --------------------------------------------------------------------------

// QueryStep describes how one field of a filter was evaluated.
type QueryStep struct {
	Field     string `json:"field"`
	UsedIndex bool   `json:"used_index"` // bucket lookup instead of a scan
	Skipped   bool   `json:"skipped"`    // not evaluated because the result was already empty
	Matched   int    `json:"matched"`    // candidates left after this step
}

// QueryPlan lists the steps a filter executed, in evaluation order.
type QueryPlan struct {
	Steps []QueryStep `json:"steps"`
}

// UsedIndex reports whether any executed step used an index.
func (p QueryPlan) UsedIndex() bool {
	for _, s := range p.Steps {
		if s.UsedIndex && !s.Skipped {
			return true
		}
	}
	return false
}

// --------------------------------------------------------------------------
// Snapshot
// --------------------------------------------------------------------------

// Snapshot is the unit written to and read from the store file.
//
//   - Data: every record by key
//   - Indexes: contents of the non-lazy indexes (field value -> sorted keys).
//     Only string values can be written here; indexes holding anything else are lazy.
//   - IndexDefs: definitions of all indexes, lazy ones included
type Snapshot struct {
	Data      map[string]value.Record
	Indexes   map[string]map[string][]string
	IndexDefs map[string]IndexDef
}

// NewSnapshot returns a snapshot with all sections initialized and empty.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Data:      map[string]value.Record{},
		Indexes:   map[string]map[string][]string{},
		IndexDefs: map[string]IndexDef{},
	}
}

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// JSONDB is an embedded key-value store whose values are JSON records, with secondary
// equality indexes on record fields.
//
// Implementations are not required to be safe for concurrent use; see the store
// package for a synchronized wrapper.
type JSONDB interface {

	// --------------------------------------------------------------------------
	// Read Operations
	// --------------------------------------------------------------------------

	// Get returns a copy of the record stored under key, or ErrNotFound.
	Get(key string) (value.Record, error)

	// Exists reports whether a record is stored under key.
	Exists(key string) bool

	// All returns a copy of every record by key.
	All() map[string]value.Record

	// Len returns the number of records.
	Len() int

	// Keys returns all record keys in sorted order.
	Keys() []string

	// Filter returns every record whose fields equal all the given criteria (logical AND).
	// Empty criteria match every record. The plan reports how each field was evaluated.
	Filter(criteria value.Record) (map[string]value.Record, QueryPlan)

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set stores a copy of rec under key, replacing any previous record.
	Set(key string, rec value.Record) error

	// Insert stores rec under a newly generated unique key and returns the key.
	Insert(rec value.Record) (key string, err error)

	// Update merges partial into the record stored under key. Fields of partial
	// override existing ones, the others are kept. If key is absent, Update behaves
	// like Set(key, partial).
	Update(key string, partial value.Record) error

	// Delete removes the record stored under key. It returns ErrNotFound if the key is absent.
	Delete(key string) error

	// --------------------------------------------------------------------------
	// Index Operations
	// --------------------------------------------------------------------------

	// CreateIndex builds an index on the named field. An existing index is kept as it
	// is unless recreate is set.
	CreateIndex(name string, recreate bool, typ IndexType) error

	// RemoveIndex drops the index and its definition. Removing an absent index is a no-op.
	RemoveIndex(name string) error

	// Indexes describes all live indexes, sorted by name.
	Indexes() []IndexInfo

	// VerifyIndexes recomputes every index from the records and returns an error
	// describing the first inconsistency found.
	VerifyIndexes() error

	// --------------------------------------------------------------------------
	// Persistence and Introspection
	// --------------------------------------------------------------------------

	// Commit writes the complete state to storage. It is a no-op for in-memory databases.
	Commit() error

	// GetInfo returns information about the database.
	GetInfo() DatabaseInfo

	// WriteMetrics writes the instance metrics in Prometheus text format.
	WriteMetrics(w io.Writer)
}
