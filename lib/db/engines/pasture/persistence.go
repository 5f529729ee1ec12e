package pasture

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/storage"
)

// --------------------------------------------------------------------------
// Persistence Operations
// --------------------------------------------------------------------------

// Commit writes records, the contents of all non-lazy indexes and all index
// definitions to the store file. Without a path Commit does nothing.
func (p *pastureImpl) Commit() error {
	if p.path == "" {
		p.pending = 0
		return nil
	}
	start := time.Now()

	snap, err := p.snapshot()
	if err != nil {
		return db.WrapError(db.ErrCCommitFailed, "", err)
	}

	data, err := p.codec.Encode(snap)
	if err != nil {
		return db.WrapError(db.ErrCCommitFailed, "", fmt.Errorf("encode with %s: %w", p.codec.Name(), err))
	}

	if err := storage.WriteFile(p.path, data, p.compression); err != nil {
		return db.WrapError(db.ErrCCommitFailed, "", err)
	}

	p.pending = 0
	p.metrics.commits.Inc()
	p.metrics.commitDuration.UpdateDuration(start)
	plog.Debugf("committed %d records and %d indexes to %s (%d bytes, %s)",
		len(snap.Data), len(snap.IndexDefs), p.path, len(data), time.Since(start))
	return nil
}

// snapshot collects the state to write. The records are not copied, the snapshot
// must be encoded before the next mutation.
func (p *pastureImpl) snapshot() (*db.Snapshot, error) {
	indexes, err := p.indexes.Materialize()
	if err != nil {
		return nil, err
	}
	return &db.Snapshot{
		Data:      p.records.Raw(),
		Indexes:   indexes,
		IndexDefs: p.indexes.Defs(),
	}, nil
}

// load reads the store file if there is one
func (p *pastureImpl) load() error {
	if p.path == "" {
		return nil
	}

	data, compression, err := storage.ReadFile(p.path)
	if errors.Is(err, storage.ErrDecompress) {
		p.recoverCorrupt(err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", p.path, err)
	}
	if data == nil {
		plog.Debugf("no data in %s, starting empty", p.path)
		return nil
	}

	snap, err := p.codec.Decode(data)
	if err != nil {
		p.recoverCorrupt(fmt.Errorf("decode with %s: %w", p.codec.Name(), err))
		return nil
	}

	rebuilt := p.restore(snap)
	p.loadedFromFile = true
	plog.Infof("loaded %d records and %d indexes (%d rebuilt) from %s (%s, compression %s)",
		p.records.Len(), p.indexes.Len(), rebuilt, p.path, p.codec.Name(), compression)
	return nil
}

// recoverCorrupt keeps the database empty after the store file could not be decoded
func (p *pastureImpl) recoverCorrupt(cause error) {
	p.recoveredCorrupt = true
	plog.Warningf("%v; starting with an empty store, the file will be overwritten on the next commit",
		db.WrapError(db.ErrCCorruptStore, "", fmt.Errorf("%s: %w", p.path, cause)))
}

// restore takes over the records of snap and recreates its indexes. Lazy indexes
// and default indexes without contents in the file are rebuilt from the records.
// It returns the number of rebuilt indexes.
func (p *pastureImpl) restore(snap *db.Snapshot) int {
	p.records.Replace(snap.Data)

	// indexes written without a definition are default indexes
	defs := make(map[string]db.IndexDef, len(snap.IndexDefs))
	for name, def := range snap.IndexDefs {
		defs[name] = def
	}
	for name := range snap.Indexes {
		if _, ok := defs[name]; !ok {
			defs[name] = db.IndexDef{Type: db.IndexTypeDefault}
		}
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	rebuilt := 0
	for _, name := range names {
		typ, err := db.ParseIndexType(string(defs[name].Type))
		if err != nil {
			plog.Warningf("index %q: %v, rebuilding as lazy index", name, err)
			typ = db.IndexTypeLazy
		}

		buckets, written := snap.Indexes[name]
		if typ == db.IndexTypeLazy || p.indexes.LazyAll() || !written {
			idx := p.indexes.Build(name, typ, p.records)
			p.metrics.rebuilt.Inc()
			rebuilt++
			plog.Debugf("rebuilt index %q with %d buckets", name, idx.Len())
			continue
		}
		p.indexes.Restore(name, db.IndexDef{Type: typ}, buckets)
	}
	return rebuilt
}
