package codec

import (
	"fmt"
	"sort"

	"github.com/ValentinKolb/jKV/lib/db"
)

// wireSnapshot is the document layout shared by the text codecs. Records are
// converted to plain Go values so each library can use its native fast path.
type wireSnapshot struct {
	Data      map[string]map[string]any      `json:"data" yaml:"data"`
	Indexes   map[string]map[string][]string `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	IndexDefs map[string]db.IndexDef         `json:"index_defs" yaml:"index_defs"`
}

func toWire(snap *db.Snapshot) *wireSnapshot {
	w := &wireSnapshot{
		Data:      make(map[string]map[string]any, len(snap.Data)),
		IndexDefs: snap.IndexDefs,
	}
	for key, rec := range snap.Data {
		w.Data[key] = rec.Interface()
	}
	if w.IndexDefs == nil {
		w.IndexDefs = map[string]db.IndexDef{}
	}
	if len(snap.Indexes) > 0 {
		w.Indexes = make(map[string]map[string][]string, len(snap.Indexes))
		for name, buckets := range snap.Indexes {
			sorted := make(map[string][]string, len(buckets))
			for val, keys := range buckets {
				keys = append([]string(nil), keys...)
				sort.Strings(keys)
				sorted[val] = keys
			}
			w.Indexes[name] = sorted
		}
	}
	return w
}

func fromWire(w *wireSnapshot) (*db.Snapshot, error) {
	snap := db.NewSnapshot()
	for key, raw := range w.Data {
		rec, err := db.RecordOf(raw)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", key, err)
		}
		snap.Data[key] = rec
	}
	for name, buckets := range w.Indexes {
		if buckets == nil {
			buckets = map[string][]string{}
		}
		snap.Indexes[name] = buckets
	}
	for name, def := range w.IndexDefs {
		snap.IndexDefs[name] = def
	}
	return snap, nil
}
