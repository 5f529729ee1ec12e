package pasture

import (
	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/db/engines/pasture/internal"
	"github.com/ValentinKolb/jKV/lib/value"
)

// --------------------------------------------------------------------------
// JSONDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set stores a copy of rec under key. The old field values of key are retracted
// from every index before the new ones are added.
func (p *pastureImpl) Set(key string, rec value.Record) error {
	if err := p.set(key, rec); err != nil {
		return err
	}
	return p.afterMutation(internal.MutationTSet)
}

// Insert stores rec under a new random key
func (p *pastureImpl) Insert(rec value.Record) (string, error) {
	key := p.newKey()
	if err := p.set(key, rec); err != nil {
		return "", err
	}
	return key, p.afterMutation(internal.MutationTInsert)
}

// Update merges partial into the record stored under key, or stores partial if
// key is absent
func (p *pastureImpl) Update(key string, partial value.Record) error {
	if err := db.ValidateRecord(key, partial); err != nil {
		return err
	}

	merged := partial
	if old, ok := p.records.Get(key); ok {
		merged = old.Merge(partial)
	}
	if err := p.set(key, merged); err != nil {
		return err
	}
	return p.afterMutation(internal.MutationTUpdate)
}

// Delete removes the record stored under key and retracts it from every index
func (p *pastureImpl) Delete(key string) error {
	old, ok := p.records.Delete(key)
	if !ok {
		return db.NewError(db.ErrCNotFound, key, "key does not exist")
	}
	p.indexes.RemoveRecord(key, old)
	return p.afterMutation(internal.MutationTDelete)
}

// --------------------------------------------------------------------------
// JSONDB Interface Methods - Index Operations
// --------------------------------------------------------------------------

// CreateIndex builds an index on the named field from the current records
func (p *pastureImpl) CreateIndex(name string, recreate bool, typ db.IndexType) error {
	typ, err := db.ParseIndexType(string(typ))
	if err != nil {
		return err
	}

	if !p.indexes.Has(name) || recreate {
		idx := p.indexes.Build(name, typ, p.records)
		plog.Debugf("built index %q (%s) with %d buckets", name, idx.Def.Type, idx.Len())
	}
	return p.afterMutation(internal.MutationTCreateIndex)
}

// RemoveIndex drops the index and its definition
func (p *pastureImpl) RemoveIndex(name string) error {
	if p.indexes.Drop(name) {
		plog.Debugf("removed index %q", name)
	}
	return p.afterMutation(internal.MutationTRemoveIndex)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// set validates rec and stores a copy of it, keeping the indexes in sync
func (p *pastureImpl) set(key string, rec value.Record) error {
	if err := db.ValidateRecord(key, rec); err != nil {
		return err
	}

	stored := rec.Clone()
	old, replaced := p.records.Set(key, stored)
	if replaced {
		p.indexes.RemoveRecord(key, old)
	}
	p.indexes.AddRecord(key, stored)
	return nil
}

// afterMutation is the last step of every successful mutation. It decides
// whether the mutation triggers a commit.
//
// With AutoCommit every mutation commits. Otherwise the countdown drops by one
// per mutation and a commit runs when it reaches zero, after which it starts
// again at autoCommitAfter. Manual commits do not touch the countdown, and a
// failed commit is not retried by the following mutations.
func (p *pastureImpl) afterMutation(op internal.MutationType) error {
	p.metrics.mutations[op].Inc()
	p.pending++

	if p.autoCommit {
		return p.Commit()
	}
	if p.autoCommitAfter == 0 {
		return nil
	}
	p.countdown--
	if p.countdown > 0 {
		return nil
	}
	p.countdown = p.autoCommitAfter
	return p.Commit()
}
