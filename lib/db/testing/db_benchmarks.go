package testing

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/value"
)

// RunJSONDBBenchmarks runs all benchmarks for a JSONDB implementation
func RunJSONDBBenchmarks(b *testing.B, name string, factory DBFactory) {

	b.Run("Set", func(b *testing.B) {
		benchmarkSet(b, openB(b, factory, Config{}), false)
	})

	b.Run("SetIndexed", func(b *testing.B) {
		benchmarkSet(b, openB(b, factory, Config{}), true)
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, openB(b, factory, Config{}))
	})

	b.Run("FilterIndex", func(b *testing.B) {
		benchmarkFilter(b, openB(b, factory, Config{}), true)
	})

	b.Run("FilterScan", func(b *testing.B) {
		benchmarkFilter(b, openB(b, factory, Config{}), false)
	})

	b.Run("CommitLoad", func(b *testing.B) {
		benchmarkCommitLoad(b, factory, false)
	})

	b.Run("CommitLoadLazy", func(b *testing.B) {
		benchmarkCommitLoad(b, factory, true)
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, openB(b, factory, Config{}))
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func openB(b *testing.B, factory DBFactory, cfg Config) db.JSONDB {
	database, err := factory(cfg)
	if err != nil {
		b.Fatal(err)
	}
	return database
}

// benchRecord returns a small record with a string field taking one of 100 values
func benchRecord(i int) value.Record {
	return value.Record{
		"name":  value.String(fmt.Sprintf("user-%d", i)),
		"group": value.String(fmt.Sprintf("group-%d", i%100)),
		"age":   value.Int(int64(i % 90)),
		"tags":  value.Array(value.String("a"), value.String("b")),
	}
}

// fill stores n records and indexes the group field if indexed is set
func fill(b *testing.B, database db.JSONDB, n int, indexed bool) {
	if indexed {
		if err := database.CreateIndex("group", false, db.IndexTypeDefault); err != nil {
			b.Fatal(err)
		}
	}
	for i := 0; i < n; i++ {
		if err := database.Set(fmt.Sprintf("key-%d", i), benchRecord(i)); err != nil {
			b.Fatal(err)
		}
	}
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Set operation, optionally maintaining an index
func benchmarkSet(b *testing.B, database db.JSONDB, indexed bool) {
	if indexed {
		if err := database.CreateIndex("group", false, db.IndexTypeDefault); err != nil {
			b.Fatal(err)
		}
	}
	records := make([]value.Record, 1000)
	for i := range records {
		records[i] = benchRecord(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = database.Set(fmt.Sprintf("key-%d", i%10000), records[i%len(records)])
	}
}

// Benchmark for Get operation
func benchmarkGet(b *testing.B, database db.JSONDB) {
	fill(b, database, 10000, false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = database.Get(fmt.Sprintf("key-%d", i%10000))
	}
}

// Benchmark for Filter on one field, with or without an index
func benchmarkFilter(b *testing.B, database db.JSONDB, indexed bool) {
	fill(b, database, 10000, indexed)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.Filter(value.Record{"group": value.String(fmt.Sprintf("group-%d", i%100))})
	}
}

// Benchmark for Commit and loading the committed file
func benchmarkCommitLoad(b *testing.B, factory DBFactory, lazy bool) {
	cfg := Config{Path: filepath.Join(b.TempDir(), "bench.db"), LazyIndexes: lazy}
	database := openB(b, factory, cfg)
	fill(b, database, 10000, true)

	b.Run("Commit", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if err := database.Commit(); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Load", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			loaded := openB(b, factory, cfg)
			if loaded.Len() != 10000 {
				b.Fatalf("expected 10000 records, got %d", loaded.Len())
			}
		}
	})
}

// Benchmark for a mix of reads, writes and filters on an indexed database
func benchmarkMixedUsage(b *testing.B, database db.JSONDB) {
	fill(b, database, 10000, true)
	rnd := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%d", rnd.Intn(10000))
		switch op := rnd.Intn(10); {
		case op < 5:
			_, _ = database.Get(key)
		case op < 8:
			_ = database.Update(key, value.Record{"group": value.String(fmt.Sprintf("group-%d", rnd.Intn(100)))})
		default:
			database.Filter(value.Record{"group": value.String(fmt.Sprintf("group-%d", rnd.Intn(100)))})
		}
	}
}
