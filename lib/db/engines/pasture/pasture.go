package pasture

import (
	"fmt"
	"io"

	"github.com/ValentinKolb/jKV/lib/codec"
	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/db/engines/pasture/internal"
	"github.com/ValentinKolb/jKV/lib/storage"
	"github.com/ValentinKolb/jKV/lib/value"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("pasture")

// --------------------------------------------------------------------------
// Core Pasture database structure
// --------------------------------------------------------------------------

// pastureImpl implements db.JSONDB with in-memory records and indexes that are
// written to a single file on commit
type pastureImpl struct {
	path        string
	codec       codec.ICodec
	compression storage.Compression

	// commit policy
	autoCommit      bool
	autoCommitAfter int
	countdown       int // mutations left until the next counter commit
	pending         int // mutations since the last commit

	records *internal.RecordStore
	indexes *internal.IndexStore
	metrics *engineMetrics

	// load results
	loadedFromFile   bool
	recoveredCorrupt bool
}

// Options configures the pastureImpl behavior during initialization
type Options struct {
	Path            string              // Store file ("" = in-memory only, Commit is a no-op)
	AutoCommit      bool                // Commit after every mutation
	AutoCommitAfter int                 // Commit after every n mutations (0 = disabled)
	LazyIndexes     bool                // Treat every index as lazy
	Backend         string              // Codec name ("" = default, unknown = fall back to json)
	Compression     storage.Compression // Compression of written files ("" = none)
}

// DefaultOptions returns the default pastureImpl options
func DefaultOptions() *Options {
	return &Options{
		Backend:     codec.NameGoJSON,
		Compression: storage.CompressionNone,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewPastureDB creates a new database with the specified options (optional). If
// opts.Path names an existing file, its contents are loaded.
//
// A file that cannot be decoded is logged as a warning and the database starts
// empty. Other errors reading the file are returned.
func NewPastureDB(opts *Options) (db.JSONDB, error) {

	// Generate default options if not provided
	if opts == nil {
		opts = DefaultOptions()
	}

	if opts.AutoCommitAfter < 0 {
		return nil, db.NewError(db.ErrCInvalidOption, "", fmt.Sprintf("autocommit after must not be negative, got %d", opts.AutoCommitAfter))
	}

	compression, err := storage.ParseCompression(string(opts.Compression))
	if err != nil {
		return nil, db.WrapError(db.ErrCInvalidOption, "", err)
	}

	c, err := codec.ByName(opts.Backend)
	if err != nil {
		plog.Warningf("%v, falling back to %s", err, codec.NameJSON)
		c = codec.Baseline()
	}

	newDB := &pastureImpl{
		path:            opts.Path,
		codec:           c,
		compression:     compression,
		autoCommit:      opts.AutoCommit,
		autoCommitAfter: opts.AutoCommitAfter,
		countdown:       opts.AutoCommitAfter,
		records:         internal.NewRecordStore(),
		indexes:         internal.NewIndexStore(opts.LazyIndexes),
		metrics:         newEngineMetrics(),
	}

	if err := newDB.load(); err != nil {
		return nil, err
	}

	return newDB, nil
}

// --------------------------------------------------------------------------
// JSONDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get returns a copy of the record stored under key
func (p *pastureImpl) Get(key string) (value.Record, error) {
	rec, ok := p.records.Get(key)
	if !ok {
		return nil, db.NewError(db.ErrCNotFound, key, "key does not exist")
	}
	return rec.Clone(), nil
}

func (p *pastureImpl) Exists(key string) bool {
	return p.records.Exists(key)
}

// All returns a deep copy of all records
func (p *pastureImpl) All() map[string]value.Record {
	out := make(map[string]value.Record, p.records.Len())
	p.records.Range(func(key string, rec value.Record) bool {
		out[key] = rec.Clone()
		return true
	})
	return out
}

func (p *pastureImpl) Len() int {
	return p.records.Len()
}

func (p *pastureImpl) Keys() []string {
	return p.records.Keys()
}

// --------------------------------------------------------------------------
// JSONDB Interface Methods - Features and Metadata
// --------------------------------------------------------------------------

// Indexes describes all indexes, sorted by name
func (p *pastureImpl) Indexes() []db.IndexInfo {
	infos := make([]db.IndexInfo, 0, p.indexes.Len())
	for _, name := range p.indexes.Names() {
		idx, _ := p.indexes.Get(name)
		infos = append(infos, db.IndexInfo{
			Name:        name,
			Type:        idx.Def.Type,
			Lazy:        p.indexes.IsLazy(name),
			Buckets:     idx.Len(),
			Entries:     idx.Entries(),
			BucketSizes: idx.Stats(),
		})
	}
	return infos
}

// GetInfo returns statistics about the database
func (p *pastureImpl) GetInfo() db.DatabaseInfo {
	mode := db.CommitManual
	switch {
	case p.autoCommit:
		mode = db.CommitAlways
	case p.autoCommitAfter > 0:
		mode = db.CommitCounter
	}

	return db.DatabaseInfo{
		DbType:           db.ImplPasture,
		Path:             p.path,
		Backend:          p.codec.Name(),
		Compression:      string(p.compression),
		CommitMode:       mode,
		CommitEvery:      p.autoCommitAfter,
		CommitCountdown:  p.countdown,
		PendingWrites:    p.pending,
		LazyIndexes:      p.indexes.LazyAll(),
		Records:          p.records.Len(),
		Indexes:          p.Indexes(),
		LoadedFromFile:   p.loadedFromFile,
		RecoveredCorrupt: p.recoveredCorrupt,
	}
}

// VerifyIndexes recomputes every index from the records
func (p *pastureImpl) VerifyIndexes() error {
	if err := p.indexes.Verify(p.records); err != nil {
		return db.WrapError(db.ErrCInternal, "", err)
	}
	return nil
}

// WriteMetrics writes the metrics of this instance in Prometheus text format
func (p *pastureImpl) WriteMetrics(w io.Writer) {
	p.metrics.set.WritePrometheus(w)
}

// newKey generates a key that is not in use
func (p *pastureImpl) newKey() string {
	for {
		key := uuid.NewString()
		if !p.records.Exists(key) {
			return key
		}
	}
}
