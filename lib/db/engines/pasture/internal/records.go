package internal

import (
	"sort"

	"github.com/ValentinKolb/jKV/lib/value"
)

// --------------------------------------------------------------------------
// Record Store
// --------------------------------------------------------------------------

// RecordStore maps record keys to records. It stores whatever it is given;
// copying in and out is the job of the caller.
type RecordStore struct {
	data map[string]value.Record
}

// NewRecordStore creates an empty record store
func NewRecordStore() *RecordStore {
	return &RecordStore{data: map[string]value.Record{}}
}

// Get returns the stored record (not a copy)
func (s *RecordStore) Get(key string) (value.Record, bool) {
	rec, ok := s.data[key]
	return rec, ok
}

// Exists reports whether key holds a record
func (s *RecordStore) Exists(key string) bool {
	_, ok := s.data[key]
	return ok
}

// Set stores rec under key and returns the previous record, if any
func (s *RecordStore) Set(key string, rec value.Record) (old value.Record, replaced bool) {
	old, replaced = s.data[key]
	s.data[key] = rec
	return old, replaced
}

// Delete removes key and returns the removed record
func (s *RecordStore) Delete(key string) (value.Record, bool) {
	rec, ok := s.data[key]
	if ok {
		delete(s.data, key)
	}
	return rec, ok
}

// Len returns the number of records
func (s *RecordStore) Len() int {
	return len(s.data)
}

// Keys returns all keys in sorted order
func (s *RecordStore) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for every record until fn returns false. The records must not be modified.
func (s *RecordStore) Range(fn func(key string, rec value.Record) bool) {
	for k, rec := range s.data {
		if !fn(k, rec) {
			return
		}
	}
}

// Raw returns the live map. It is used to build snapshots and must not be modified.
func (s *RecordStore) Raw() map[string]value.Record {
	return s.data
}

// Replace drops all records and takes ownership of data
func (s *RecordStore) Replace(data map[string]value.Record) {
	if data == nil {
		data = map[string]value.Record{}
	}
	s.data = data
}
