package pasture

import (
	"fmt"

	"github.com/ValentinKolb/jKV/lib/db/engines/pasture/internal"
	"github.com/VictoriaMetrics/metrics"
)

// engineMetrics holds the metrics of one database instance. Every instance has
// its own set, so several databases can be open in one process.
type engineMetrics struct {
	set            *metrics.Set
	mutations      map[internal.MutationType]*metrics.Counter
	indexSteps     *metrics.Counter
	scanSteps      *metrics.Counter
	commits        *metrics.Counter
	commitDuration *metrics.Histogram
	rebuilt        *metrics.Counter
}

func newEngineMetrics() *engineMetrics {
	set := metrics.NewSet()
	m := &engineMetrics{
		set:            set,
		mutations:      make(map[internal.MutationType]*metrics.Counter, len(internal.MutationTypes)),
		indexSteps:     set.NewCounter(`jkv_filter_steps_total{kind="index"}`),
		scanSteps:      set.NewCounter(`jkv_filter_steps_total{kind="scan"}`),
		commits:        set.NewCounter("jkv_commits_total"),
		commitDuration: set.NewHistogram("jkv_commit_duration_seconds"),
		rebuilt:        set.NewCounter("jkv_indexes_rebuilt_total"),
	}
	for _, op := range internal.MutationTypes {
		m.mutations[op] = set.NewCounter(fmt.Sprintf(`jkv_mutations_total{op=%q}`, op))
	}
	return m
}
