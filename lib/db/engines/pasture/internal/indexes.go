package internal

import (
	"fmt"
	"sort"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/db/util"
	"github.com/ValentinKolb/jKV/lib/value"
)

// --------------------------------------------------------------------------
// Bucket
// --------------------------------------------------------------------------

// Bucket holds the keys of all records whose indexed field equals Value
type Bucket struct {
	Value value.Value
	Keys  map[string]struct{}
}

// SortedKeys returns the keys of the bucket in sorted order
func (b *Bucket) SortedKeys() []string {
	keys := make([]string, 0, len(b.Keys))
	for k := range b.Keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --------------------------------------------------------------------------
// Index
// --------------------------------------------------------------------------

// Index maps the values of one record field to the keys holding them.
// Buckets are addressed by value.Value.Key and removed when they become empty.
type Index struct {
	Name    string
	Def     db.IndexDef
	buckets map[string]*Bucket
	entries int
}

func newIndex(name string, typ db.IndexType) *Index {
	return &Index{
		Name:    name,
		Def:     db.IndexDef{Type: typ},
		buckets: map[string]*Bucket{},
	}
}

// Add puts key into the bucket for v. A value that is not a string switches the
// index to lazy.
func (idx *Index) Add(v value.Value, key string) {
	if !v.IsString() {
		idx.Def.Type = db.IndexTypeLazy
	}
	bk := v.Key()
	b, ok := idx.buckets[bk]
	if !ok {
		b = &Bucket{Value: v.Clone(), Keys: map[string]struct{}{}}
		idx.buckets[bk] = b
	}
	if _, exists := b.Keys[key]; !exists {
		b.Keys[key] = struct{}{}
		idx.entries++
	}
}

// Remove takes key out of the bucket for v and deletes the bucket if it is empty
func (idx *Index) Remove(v value.Value, key string) {
	bk := v.Key()
	b, ok := idx.buckets[bk]
	if !ok {
		return
	}
	if _, exists := b.Keys[key]; exists {
		delete(b.Keys, key)
		idx.entries--
	}
	if len(b.Keys) == 0 {
		delete(idx.buckets, bk)
	}
}

// Lookup returns the keys whose field equals v. The returned set must not be
// modified; an absent value returns nil.
func (idx *Index) Lookup(v value.Value) map[string]struct{} {
	if b, ok := idx.buckets[v.Key()]; ok {
		return b.Keys
	}
	return nil
}

// Len returns the number of buckets
func (idx *Index) Len() int {
	return len(idx.buckets)
}

// Entries returns the number of (value, key) pairs
func (idx *Index) Entries() int {
	return idx.entries
}

// Buckets returns all buckets ordered by bucket key
func (idx *Index) Buckets() []*Bucket {
	keys := make([]string, 0, len(idx.buckets))
	for k := range idx.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Bucket, len(keys))
	for i, k := range keys {
		out[i] = idx.buckets[k]
	}
	return out
}

// Stats describes the bucket size distribution
func (idx *Index) Stats() util.DistributionStats {
	sizes := make([]int, 0, len(idx.buckets))
	for _, b := range idx.buckets {
		sizes = append(sizes, len(b.Keys))
	}
	return util.NewDistributionStats(sizes)
}

// Materialize converts the index to value -> sorted keys. It fails if a bucket
// value is not a string.
func (idx *Index) Materialize() (map[string][]string, error) {
	out := make(map[string][]string, len(idx.buckets))
	for _, b := range idx.buckets {
		s, ok := b.Value.AsString()
		if !ok {
			return nil, fmt.Errorf("index %q holds %s value %s", idx.Name, b.Value.Kind(), b.Value)
		}
		out[s] = b.SortedKeys()
	}
	return out, nil
}

// Equal reports whether both indexes hold the same buckets
func (idx *Index) Equal(o *Index) bool {
	if len(idx.buckets) != len(o.buckets) || idx.entries != o.entries {
		return false
	}
	for bk, b := range idx.buckets {
		ob, ok := o.buckets[bk]
		if !ok || len(b.Keys) != len(ob.Keys) {
			return false
		}
		for k := range b.Keys {
			if _, ok := ob.Keys[k]; !ok {
				return false
			}
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Index Store
// --------------------------------------------------------------------------

// IndexStore holds all secondary indexes of a database
type IndexStore struct {
	indexes map[string]*Index
	lazyAll bool // store-wide lazy mode
}

// NewIndexStore creates an empty index store. If lazyAll is set every index is
// treated as lazy and new definitions are recorded as lazy.
func NewIndexStore(lazyAll bool) *IndexStore {
	return &IndexStore{indexes: map[string]*Index{}, lazyAll: lazyAll}
}

// Get returns the named index
func (s *IndexStore) Get(name string) (*Index, bool) {
	idx, ok := s.indexes[name]
	return idx, ok
}

// Has reports whether the named index exists
func (s *IndexStore) Has(name string) bool {
	_, ok := s.indexes[name]
	return ok
}

// Len returns the number of indexes
func (s *IndexStore) Len() int {
	return len(s.indexes)
}

// Names returns all index names in sorted order
func (s *IndexStore) Names() []string {
	names := make([]string, 0, len(s.indexes))
	for name := range s.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the named index from records, replacing any existing index with
// that name.
func (s *IndexStore) Build(name string, typ db.IndexType, records *RecordStore) *Index {
	s.indexes[name] = s.compute(name, typ, records)
	return s.indexes[name]
}

// compute creates an index from records without registering it
func (s *IndexStore) compute(name string, typ db.IndexType, records *RecordStore) *Index {
	switch {
	case s.lazyAll:
		typ = db.IndexTypeLazy
	case typ == "":
		typ = db.IndexTypeDefault
	}
	idx := newIndex(name, typ)
	records.Range(func(key string, rec value.Record) bool {
		if v, ok := rec[name]; ok {
			idx.Add(v, key)
		}
		return true
	})
	return idx
}

// Restore registers an index loaded from a snapshot. Key lists become sets; the
// bucket values are the strings the index was written with.
func (s *IndexStore) Restore(name string, def db.IndexDef, buckets map[string][]string) *Index {
	idx := newIndex(name, def.Type)
	for val, keys := range buckets {
		v := value.String(val)
		for _, k := range keys {
			idx.Add(v, k)
		}
	}
	s.indexes[name] = idx
	return idx
}

// Drop removes the named index and its definition
func (s *IndexStore) Drop(name string) bool {
	_, ok := s.indexes[name]
	delete(s.indexes, name)
	return ok
}

// IsLazy reports whether the named index is not written with its contents
func (s *IndexStore) IsLazy(name string) bool {
	if s.lazyAll {
		return true
	}
	idx, ok := s.indexes[name]
	return ok && idx.Def.Type == db.IndexTypeLazy
}

// LazyAll reports whether the store-wide lazy mode is on
func (s *IndexStore) LazyAll() bool {
	return s.lazyAll
}

// AddRecord adds the (field value, key) pairs of rec to every index on one of its fields
func (s *IndexStore) AddRecord(key string, rec value.Record) {
	for name, idx := range s.indexes {
		if v, ok := rec[name]; ok {
			idx.Add(v, key)
		}
	}
}

// RemoveRecord retracts the (field value, key) pairs of rec from every index
func (s *IndexStore) RemoveRecord(key string, rec value.Record) {
	for name, idx := range s.indexes {
		if v, ok := rec[name]; ok {
			idx.Remove(v, key)
		}
	}
}

// Defs returns the definitions of all indexes
func (s *IndexStore) Defs() map[string]db.IndexDef {
	defs := make(map[string]db.IndexDef, len(s.indexes))
	for name, idx := range s.indexes {
		defs[name] = idx.Def
	}
	return defs
}

// Materialize returns the contents of every non-lazy index. The result is empty
// in store-wide lazy mode.
func (s *IndexStore) Materialize() (map[string]map[string][]string, error) {
	out := map[string]map[string][]string{}
	if s.lazyAll {
		return out, nil
	}
	for name, idx := range s.indexes {
		if idx.Def.Type == db.IndexTypeLazy {
			continue
		}
		buckets, err := idx.Materialize()
		if err != nil {
			return nil, err
		}
		out[name] = buckets
	}
	return out, nil
}

// Verify recomputes every index from records and returns an error for the first
// index that differs.
func (s *IndexStore) Verify(records *RecordStore) error {
	for _, name := range s.Names() {
		idx := s.indexes[name]
		expected := s.compute(name, idx.Def.Type, records)
		if !idx.Equal(expected) {
			return fmt.Errorf("index %q is inconsistent: %d buckets with %d entries, expected %d buckets with %d entries",
				name, idx.Len(), idx.Entries(), expected.Len(), expected.Entries())
		}
	}
	return nil
}
