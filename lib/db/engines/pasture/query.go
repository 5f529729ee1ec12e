package pasture

import (
	"sort"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/value"
)

// --------------------------------------------------------------------------
// JSONDB Interface Methods - Query Operations
// --------------------------------------------------------------------------

// Filter returns copies of all records matching every criteria field.
//
// Fields with an index are evaluated first, then the remaining fields are scanned,
// each group in field name order. A scan only looks at the candidates left by the
// previous steps. Once no candidate is left the remaining steps are skipped.
func (p *pastureImpl) Filter(criteria value.Record) (map[string]value.Record, db.QueryPlan) {
	plan := db.QueryPlan{Steps: make([]db.QueryStep, 0, len(criteria))}
	if len(criteria) == 0 {
		return p.All(), plan
	}

	var candidates map[string]struct{} // nil means all records
	for _, field := range p.evaluationOrder(criteria) {
		idx, indexed := p.indexes.Get(field)
		step := db.QueryStep{Field: field, UsedIndex: indexed}

		if candidates != nil && len(candidates) == 0 {
			step.Skipped = true
			plan.Steps = append(plan.Steps, step)
			continue
		}

		want := criteria[field]
		if indexed {
			candidates = intersect(candidates, idx.Lookup(want))
			p.metrics.indexSteps.Inc()
		} else {
			candidates = p.scan(candidates, field, want)
			p.metrics.scanSteps.Inc()
		}
		step.Matched = len(candidates)
		plan.Steps = append(plan.Steps, step)
	}

	result := make(map[string]value.Record, len(candidates))
	for key := range candidates {
		rec, _ := p.records.Get(key)
		result[key] = rec.Clone()
	}
	return result, plan
}

// evaluationOrder returns the indexed criteria fields followed by the others,
// both sorted by name
func (p *pastureImpl) evaluationOrder(criteria value.Record) []string {
	var indexed, scanned []string
	for field := range criteria {
		if p.indexes.Has(field) {
			indexed = append(indexed, field)
		} else {
			scanned = append(scanned, field)
		}
	}
	sort.Strings(indexed)
	sort.Strings(scanned)
	return append(indexed, scanned...)
}

// scan returns the keys of candidates (or of all records if candidates is nil)
// whose record holds field with a value equal to want
func (p *pastureImpl) scan(candidates map[string]struct{}, field string, want value.Value) map[string]struct{} {
	matches := map[string]struct{}{}
	check := func(key string, rec value.Record) {
		if v, ok := rec[field]; ok && v.Equal(want) {
			matches[key] = struct{}{}
		}
	}

	if candidates == nil {
		p.records.Range(func(key string, rec value.Record) bool {
			check(key, rec)
			return true
		})
		return matches
	}

	for key := range candidates {
		if rec, ok := p.records.Get(key); ok {
			check(key, rec)
		}
	}
	return matches
}

// intersect returns the keys present in both sets as a new set. A nil candidates
// set stands for all records, in which case bucket is copied.
func intersect(candidates, bucket map[string]struct{}) map[string]struct{} {
	if candidates == nil {
		out := make(map[string]struct{}, len(bucket))
		for k := range bucket {
			out[k] = struct{}{}
		}
		return out
	}

	small, large := candidates, bucket
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(map[string]struct{}, len(small))
	for k := range small {
		if _, ok := large[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}
