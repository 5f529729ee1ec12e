package testing

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/db/util"
	"github.com/ValentinKolb/jKV/lib/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Config holds the construction options the suite needs to vary
type Config struct {
	Path            string
	AutoCommit      bool
	AutoCommitAfter int
	LazyIndexes     bool
}

// DBFactory is a function that creates a new instance of a JSONDB implementation.
// Opening the same path twice must load what the first instance committed.
type DBFactory func(cfg Config) (db.JSONDB, error)

// RunJSONDBTests runs a comprehensive test suite for a JSONDB implementation.
func RunJSONDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, open(t, factory, Config{}))
		})

		t.Run("InvalidValue", func(t *testing.T) {
			testInvalidValue(t, open(t, factory, Config{}))
		})

		t.Run("Insert", func(t *testing.T) {
			testInsert(t, open(t, factory, Config{}))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, open(t, factory, Config{}))
		})

		t.Run("Update", func(t *testing.T) {
			testUpdate(t, open(t, factory, Config{}))
		})

		t.Run("AllKeysLen", func(t *testing.T) {
			testAllKeysLen(t, open(t, factory, Config{}))
		})

		t.Run("FilterScenario", func(t *testing.T) {
			testFilterScenario(t, open(t, factory, Config{}))
		})

		t.Run("FilterPlan", func(t *testing.T) {
			testFilterPlan(t, open(t, factory, Config{}))
		})

		t.Run("FilterValueKinds", func(t *testing.T) {
			testFilterValueKinds(t, open(t, factory, Config{}))
		})

		t.Run("IndexManagement", func(t *testing.T) {
			testIndexManagement(t, open(t, factory, Config{}))
		})

		t.Run("ForcedLazy", func(t *testing.T) {
			testForcedLazy(t, open(t, factory, Config{}))
		})

		t.Run("IndexConsistency", func(t *testing.T) {
			testIndexConsistency(t, open(t, factory, Config{}))
		})

		t.Run("CommitReopen", func(t *testing.T) {
			testCommitReopen(t, factory, false)
		})

		t.Run("CommitReopenLazy", func(t *testing.T) {
			testCommitReopen(t, factory, true)
		})

		t.Run("InMemoryCommit", func(t *testing.T) {
			testInMemoryCommit(t, open(t, factory, Config{}))
		})

		t.Run("AutoCommit", func(t *testing.T) {
			testAutoCommit(t, factory)
		})

		t.Run("AutoCommitAfter", func(t *testing.T) {
			testAutoCommitAfter(t, factory)
		})

		t.Run("AutoCommitOverridesCounter", func(t *testing.T) {
			testAutoCommitOverridesCounter(t, factory)
		})

		t.Run("InvalidOption", func(t *testing.T) {
			_, err := factory(Config{AutoCommitAfter: -1})
			assert.ErrorIs(t, err, db.ErrInvalidOption)
		})

		t.Run("LoadEdgeCases", func(t *testing.T) {
			testLoadEdgeCases(t, factory)
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// open creates a database and fails the test on error
func open(t testing.TB, factory DBFactory, cfg Config) db.JSONDB {
	t.Helper()
	database, err := factory(cfg)
	require.NoError(t, err)
	return database
}

// mustSet stores rec under key and fails the test on error
func mustSet(t testing.TB, database db.JSONDB, key string, rec value.Record) {
	t.Helper()
	require.NoError(t, database.Set(key, rec))
}

// keysOf returns the sorted keys of a filter result
func keysOf(records map[string]value.Record) []string {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// scanKeys computes the expected filter result from All without using any index
func scanKeys(database db.JSONDB, field string, want value.Value) []string {
	keys := []string{}
	for k, rec := range database.All() {
		if v, ok := rec[field]; ok && v.Equal(want) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// indexShapes returns the index infos without the floating point bucket statistics
func indexShapes(database db.JSONDB) []db.IndexInfo {
	infos := database.Indexes()
	for i := range infos {
		infos[i].BucketSizes = util.DistributionStats{}
	}
	return infos
}

// people returns the records of the filter scenario
func people() map[string]value.Record {
	return map[string]value.Record{
		"one":   {"name": value.String("Alice"), "good": value.Bool(true)},
		"two":   {"name": value.String("Bob"), "good": value.Bool(true)},
		"three": {"name": value.String("Carl"), "good": value.Bool(false)},
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.JSONDB) {
	rec := value.Record{
		"name": value.String("Alice"),
		"tags": value.Array(value.String("a")),
		"addr": value.Object(value.Record{"city": value.String("Paris")}),
	}
	mustSet(t, database, "k", rec)

	got, err := database.Get("k")
	require.NoError(t, err)
	assert.True(t, rec.Equal(got))

	// mutating the stored input must not change the database
	rec["name"] = value.String("Mallory")
	tags, _ := rec["tags"].AsArray()
	tags[0] = value.String("changed")
	addr, _ := rec["addr"].AsObject()
	addr["city"] = value.String("Berlin")

	got, err = database.Get("k")
	require.NoError(t, err)
	assert.Equal(t, value.String("Alice"), got["name"])
	gotTags, _ := got["tags"].AsArray()
	assert.Equal(t, value.String("a"), gotTags[0])

	// mutating a retrieved record must not change the database either
	got["name"] = value.String("Eve")
	again, _ := database.Get("k")
	assert.Equal(t, value.String("Alice"), again["name"])

	// overwrite
	mustSet(t, database, "k", value.Record{"other": value.Int(1)})
	got, _ = database.Get("k")
	assert.True(t, got.Equal(value.Record{"other": value.Int(1)}))

	_, err = database.Get("nonexistent-key")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func testInvalidValue(t *testing.T, database db.JSONDB) {
	assert.ErrorIs(t, database.Set("k", nil), db.ErrInvalidValue)
	assert.ErrorIs(t, database.Set("k", value.Record{"bad": {}}), db.ErrInvalidValue)
	assert.ErrorIs(t, database.Update("k", nil), db.ErrInvalidValue)
	_, err := database.Insert(value.Record{"nested": value.Array(value.Value{})})
	assert.ErrorIs(t, err, db.ErrInvalidValue)
	// strings must be valid UTF-8 or they would not survive a commit unchanged
	assert.ErrorIs(t, database.Set("k", value.Record{"name": value.String("\xff")}), db.ErrInvalidValue)

	assert.False(t, database.Exists("k"))
	assert.Equal(t, 0, database.Len())

	// the empty record is a valid record
	require.NoError(t, database.Set("empty", value.Record{}))
	assert.True(t, database.Exists("empty"))
}

func testInsert(t *testing.T, database db.JSONDB) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key, err := database.Insert(value.Record{"i": value.Int(int64(i))})
		require.NoError(t, err)
		require.NotEmpty(t, key)
		require.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true

		got, err := database.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value.Int(int64(i)), got["i"])
	}
	assert.Equal(t, 100, database.Len())
}

func testDelete(t *testing.T, database db.JSONDB) {
	require.NoError(t, database.CreateIndex("name", false, db.IndexTypeDefault))
	mustSet(t, database, "k", value.Record{"name": value.String("Alice")})

	require.NoError(t, database.Delete("k"))
	assert.False(t, database.Exists("k"))
	_, err := database.Get("k")
	assert.ErrorIs(t, err, db.ErrNotFound)

	// the index no longer knows the key
	result, plan := database.Filter(value.Record{"name": value.String("Alice")})
	assert.Empty(t, result)
	assert.True(t, plan.UsedIndex())

	// deleting an absent key fails
	err = database.Delete("k")
	assert.ErrorIs(t, err, db.ErrNotFound)
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, "k", dbErr.Key)

	require.NoError(t, database.VerifyIndexes())
}

func testUpdate(t *testing.T, database db.JSONDB) {
	mustSet(t, database, "k", value.Record{"name": value.String("me"), "age": value.Int(3)})

	require.NoError(t, database.Update("k", value.Record{"age": value.Int(4), "thing": value.String("stuff")}))
	got, err := database.Get("k")
	require.NoError(t, err)
	assert.True(t, got.Equal(value.Record{"name": value.String("me"), "age": value.Int(4), "thing": value.String("stuff")}), "got %v", got)

	// update on an absent key behaves like set
	partial := value.Record{"a": value.Int(1)}
	require.NoError(t, database.Update("new", partial))
	got, err = database.Get("new")
	require.NoError(t, err)
	assert.True(t, got.Equal(partial))

	// the partial record is copied
	partial["a"] = value.Int(2)
	got, _ = database.Get("new")
	assert.Equal(t, value.Int(1), got["a"])
}

func testAllKeysLen(t *testing.T, database db.JSONDB) {
	assert.Empty(t, database.All())
	assert.Empty(t, database.Keys())

	for key, rec := range people() {
		mustSet(t, database, key, rec)
	}

	assert.Equal(t, 3, database.Len())
	assert.Equal(t, []string{"one", "three", "two"}, database.Keys())

	all := database.All()
	require.Len(t, all, 3)
	all["one"]["name"] = value.String("Zed")
	delete(all, "two")

	got, _ := database.Get("one")
	assert.Equal(t, value.String("Alice"), got["name"])
	assert.True(t, database.Exists("two"))
}

func testFilterScenario(t *testing.T, database db.JSONDB) {
	for key, rec := range people() {
		mustSet(t, database, key, rec)
	}

	result, plan := database.Filter(value.Record{"good": value.Bool(true)})
	assert.Equal(t, []string{"one", "two"}, keysOf(result))
	assert.False(t, plan.UsedIndex())
	assert.True(t, result["one"].Equal(people()["one"]))

	require.NoError(t, database.CreateIndex("good", false, db.IndexTypeDefault))

	result, plan = database.Filter(value.Record{"good": value.Bool(false)})
	assert.Equal(t, []string{"three"}, keysOf(result))
	assert.True(t, plan.UsedIndex())

	result, plan = database.Filter(value.Record{"good": value.Bool(true), "name": value.String("Bob")})
	assert.Equal(t, []string{"two"}, keysOf(result))
	assert.True(t, plan.UsedIndex())

	// empty criteria return every record
	result, plan = database.Filter(value.Record{})
	assert.Equal(t, []string{"one", "three", "two"}, keysOf(result))
	assert.Empty(t, plan.Steps)
	result, _ = database.Filter(nil)
	assert.Len(t, result, 3)

	// filter results are copies
	result, _ = database.Filter(value.Record{"name": value.String("Alice")})
	result["one"]["name"] = value.String("changed")
	got, _ := database.Get("one")
	assert.Equal(t, value.String("Alice"), got["name"])
}

func testFilterPlan(t *testing.T, database db.JSONDB) {
	for key, rec := range people() {
		mustSet(t, database, key, rec)
	}
	require.NoError(t, database.CreateIndex("name", false, db.IndexTypeDefault))

	// indexed fields come first, then scans, each sorted by name
	result, plan := database.Filter(value.Record{"good": value.Bool(true), "name": value.String("Alice")})
	assert.Equal(t, []string{"one"}, keysOf(result))
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, db.QueryStep{Field: "name", UsedIndex: true, Matched: 1}, plan.Steps[0])
	assert.Equal(t, db.QueryStep{Field: "good", UsedIndex: false, Matched: 1}, plan.Steps[1])

	// a value missing from the index short-circuits the remaining steps
	result, plan = database.Filter(value.Record{"name": value.String("Nobody"), "good": value.Bool(true), "zzz": value.Null()})
	assert.Empty(t, result)
	require.Len(t, plan.Steps, 3)
	assert.True(t, plan.Steps[0].UsedIndex)
	assert.False(t, plan.Steps[0].Skipped)
	assert.Equal(t, 0, plan.Steps[0].Matched)
	assert.True(t, plan.Steps[1].Skipped)
	assert.True(t, plan.Steps[2].Skipped)
	assert.True(t, plan.UsedIndex())

	// a scan that matches nothing skips the rest as well
	result, plan = database.Filter(value.Record{"missing": value.String("x"), "other": value.String("y")})
	assert.Empty(t, result)
	require.Len(t, plan.Steps, 2)
	assert.False(t, plan.Steps[0].Skipped)
	assert.True(t, plan.Steps[1].Skipped)
	assert.False(t, plan.UsedIndex())
}

func testFilterValueKinds(t *testing.T, database db.JSONDB) {
	mustSet(t, database, "int", value.Record{"n": value.Int(1), "obj": value.Object(value.Record{"a": value.Int(1)})})
	mustSet(t, database, "float", value.Record{"n": value.Float(1.0)})
	mustSet(t, database, "frac", value.Record{"n": value.Float(1.5)})
	mustSet(t, database, "null", value.Record{"n": value.Null()})
	mustSet(t, database, "bool", value.Record{"n": value.Bool(true)})
	mustSet(t, database, "string", value.Record{"n": value.String("1")})
	mustSet(t, database, "missing", value.Record{"other": value.Int(1)})

	check := func() {
		result, _ := database.Filter(value.Record{"n": value.Int(1)})
		assert.Equal(t, []string{"float", "int"}, keysOf(result), "numbers compare numerically")

		result, _ = database.Filter(value.Record{"n": value.Null()})
		assert.Equal(t, []string{"null"}, keysOf(result), "records lacking the field never match")

		result, _ = database.Filter(value.Record{"n": value.String("1")})
		assert.Equal(t, []string{"string"}, keysOf(result))

		result, _ = database.Filter(value.Record{"obj": value.Object(value.Record{"a": value.Float(1)})})
		assert.Equal(t, []string{"int"}, keysOf(result))
	}

	check()
	require.NoError(t, database.CreateIndex("n", false, db.IndexTypeDefault))
	require.NoError(t, database.CreateIndex("obj", false, db.IndexTypeDefault))
	check()
	require.NoError(t, database.VerifyIndexes())
}

func testIndexManagement(t *testing.T, database db.JSONDB) {
	for key, rec := range people() {
		mustSet(t, database, key, rec)
	}

	require.NoError(t, database.CreateIndex("name", false, ""))
	infos := database.Indexes()
	require.Len(t, infos, 1)
	assert.Equal(t, "name", infos[0].Name)
	assert.Equal(t, db.IndexTypeDefault, infos[0].Type)
	assert.False(t, infos[0].Lazy)
	assert.Equal(t, 3, infos[0].Buckets)
	assert.Equal(t, 3, infos[0].Entries)

	// creating an existing index without recreate keeps it as it is
	require.NoError(t, database.CreateIndex("name", false, db.IndexTypeLazy))
	assert.Equal(t, db.IndexTypeDefault, database.Indexes()[0].Type)

	// recreate builds a new definition
	require.NoError(t, database.CreateIndex("name", true, db.IndexTypeLazy))
	assert.Equal(t, db.IndexTypeLazy, database.Indexes()[0].Type)
	assert.True(t, database.Indexes()[0].Lazy)

	assert.ErrorIs(t, database.CreateIndex("good", false, "sometimes"), db.ErrInvalidOption)

	require.NoError(t, database.RemoveIndex("name"))
	assert.Empty(t, database.Indexes())
	_, plan := database.Filter(value.Record{"name": value.String("Alice")})
	assert.False(t, plan.UsedIndex())

	// removing an absent index is a no-op
	require.NoError(t, database.RemoveIndex("name"))
	require.NoError(t, database.RemoveIndex("never-existed"))

	// an index on a field no record has is empty but used
	require.NoError(t, database.CreateIndex("unknown", false, db.IndexTypeDefault))
	result, plan := database.Filter(value.Record{"unknown": value.String("x")})
	assert.Empty(t, result)
	assert.True(t, plan.UsedIndex())
	assert.Equal(t, 0, database.Indexes()[0].Buckets)
}

func testForcedLazy(t *testing.T, database db.JSONDB) {
	require.NoError(t, database.CreateIndex("name", false, db.IndexTypeDefault))
	require.NoError(t, database.CreateIndex("good", false, db.IndexTypeDefault))
	for key, rec := range people() {
		mustSet(t, database, key, rec)
	}

	byName := map[string]db.IndexInfo{}
	for _, info := range database.Indexes() {
		byName[info.Name] = info
	}
	assert.Equal(t, db.IndexTypeDefault, byName["name"].Type, "string values keep the index default")
	assert.Equal(t, db.IndexTypeLazy, byName["good"].Type, "a bool value forces the index lazy")
	assert.True(t, byName["good"].Lazy)

	// the promotion is permanent for the definition
	for key := range people() {
		require.NoError(t, database.Delete(key))
	}
	for _, info := range database.Indexes() {
		if info.Name == "good" {
			assert.Equal(t, db.IndexTypeLazy, info.Type)
			assert.Equal(t, 0, info.Buckets, "empty buckets are removed")
		}
	}

	// building over existing non-string values forces lazy as well
	mustSet(t, database, "n", value.Record{"count": value.Int(1)})
	require.NoError(t, database.CreateIndex("count", false, db.IndexTypeDefault))
	for _, info := range database.Indexes() {
		if info.Name == "count" {
			assert.Equal(t, db.IndexTypeLazy, info.Type)
		}
	}
}

func testIndexConsistency(t *testing.T, database db.JSONDB) {
	require.NoError(t, database.CreateIndex("color", false, db.IndexTypeDefault))
	require.NoError(t, database.CreateIndex("size", false, db.IndexTypeDefault))

	colors := []value.Value{value.String("red"), value.String("green"), value.String("blue")}
	sizes := []value.Value{value.Int(1), value.Int(2), value.Float(2.0), value.Null()}
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		key := fmt.Sprintf("key-%d", rnd.Intn(50))
		rec := value.Record{}
		if rnd.Intn(4) > 0 {
			rec["color"] = colors[rnd.Intn(len(colors))]
		}
		if rnd.Intn(4) > 0 {
			rec["size"] = sizes[rnd.Intn(len(sizes))]
		}

		switch rnd.Intn(4) {
		case 0:
			require.NoError(t, database.Set(key, rec))
		case 1:
			require.NoError(t, database.Update(key, rec))
		case 2:
			if database.Exists(key) {
				require.NoError(t, database.Delete(key))
			} else {
				assert.ErrorIs(t, database.Delete(key), db.ErrNotFound)
			}
		case 3:
			_, err := database.Insert(rec)
			require.NoError(t, err)
		}
	}

	require.NoError(t, database.VerifyIndexes())

	// every indexed lookup equals a scan over all records
	for _, c := range colors {
		result, plan := database.Filter(value.Record{"color": c})
		assert.True(t, plan.UsedIndex())
		assert.Equal(t, scanKeys(database, "color", c), keysOf(result), "color %s", c)
	}
	for _, s := range sizes {
		result, _ := database.Filter(value.Record{"size": s})
		assert.Equal(t, scanKeys(database, "size", s), keysOf(result), "size %s", s)
	}
}

func testCommitReopen(t *testing.T, factory DBFactory, lazy bool) {
	path := filepath.Join(t.TempDir(), "store.db")
	cfg := Config{Path: path, LazyIndexes: lazy}

	database := open(t, factory, cfg)
	require.NoError(t, database.CreateIndex("name", false, db.IndexTypeDefault))
	require.NoError(t, database.CreateIndex("good", false, db.IndexTypeDefault))
	require.NoError(t, database.CreateIndex("city", false, db.IndexTypeLazy))
	for key, rec := range people() {
		mustSet(t, database, key, rec)
	}
	require.NoError(t, database.Update("one", value.Record{"city": value.String("Paris")}))
	for i := 0; i < 100; i++ {
		mustSet(t, database, fmt.Sprintf("bulk-%03d", i), value.Record{
			"name":  value.String(fmt.Sprintf("user %d", i%10)),
			"score": value.Float(float64(i) / 4),
			"tags":  value.Array(value.String("x"), value.Int(int64(i))),
		})
	}
	require.NoError(t, database.Commit())

	reopened := open(t, factory, cfg)
	require.Equal(t, database.Len(), reopened.Len())
	for key, rec := range database.All() {
		got, err := reopened.Get(key)
		require.NoError(t, err)
		assert.True(t, rec.Equal(got), "record %s: expected %v, got %v", key, rec, got)
	}

	// indexes come back with the same definitions and contents
	assert.Equal(t, indexShapes(database), indexShapes(reopened))
	require.NoError(t, reopened.VerifyIndexes())

	for _, criteria := range []value.Record{
		{"name": value.String("Alice")},
		{"name": value.String("user 3")},
		{"good": value.Bool(true)},
		{"good": value.Bool(false), "name": value.String("Carl")},
		{"city": value.String("Paris")},
	} {
		expected, _ := database.Filter(criteria)
		got, plan := reopened.Filter(criteria)
		assert.Equal(t, keysOf(expected), keysOf(got), "criteria %v", criteria)
		assert.True(t, plan.UsedIndex())
	}

	// the reopened database keeps working
	require.NoError(t, reopened.Delete("one"))
	result, _ := reopened.Filter(value.Record{"city": value.String("Paris")})
	assert.Empty(t, result)
	require.NoError(t, reopened.VerifyIndexes())
}

func testInMemoryCommit(t *testing.T, database db.JSONDB) {
	mustSet(t, database, "k", value.Record{"a": value.Int(1)})
	require.NoError(t, database.Commit())
	assert.True(t, database.Exists("k"))
}

func testAutoCommit(t *testing.T, factory DBFactory) {
	path := filepath.Join(t.TempDir(), "store.db")
	database := open(t, factory, Config{Path: path, AutoCommit: true})

	mustSet(t, database, "k", value.Record{"a": value.Int(1)})
	reopened := open(t, factory, Config{Path: path})
	assert.True(t, reopened.Exists("k"))

	require.NoError(t, database.CreateIndex("a", false, db.IndexTypeDefault))
	reopened = open(t, factory, Config{Path: path})
	require.Len(t, reopened.Indexes(), 1)

	require.NoError(t, database.Delete("k"))
	reopened = open(t, factory, Config{Path: path})
	assert.False(t, reopened.Exists("k"))
}

func testAutoCommitAfter(t *testing.T, factory DBFactory) {
	path := filepath.Join(t.TempDir(), "store.db")
	database := open(t, factory, Config{Path: path, AutoCommitAfter: 3})

	mustSet(t, database, "a", value.Record{})
	mustSet(t, database, "b", value.Record{})
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no commit before the third mutation")

	mustSet(t, database, "c", value.Record{})
	reopened := open(t, factory, Config{Path: path})
	assert.Equal(t, 3, reopened.Len())

	// the counter starts again after the commit
	mustSet(t, database, "d", value.Record{})
	mustSet(t, database, "e", value.Record{})
	reopened = open(t, factory, Config{Path: path})
	assert.Equal(t, 3, reopened.Len())

	require.NoError(t, database.RemoveIndex("none"))
	reopened = open(t, factory, Config{Path: path})
	assert.Equal(t, 5, reopened.Len(), "index operations count as mutations")

	// failing mutations do not count
	assert.Error(t, database.Set("bad", nil))
	assert.Error(t, database.Set("bad", nil))
	assert.Error(t, database.Delete("missing"))
	mustSet(t, database, "f", value.Record{})
	mustSet(t, database, "g", value.Record{})
	reopened = open(t, factory, Config{Path: path})
	assert.Equal(t, 5, reopened.Len())

	// a manual commit does not restart the counter: h is the third mutation
	require.NoError(t, database.Commit())
	mustSet(t, database, "h", value.Record{})
	reopened = open(t, factory, Config{Path: path})
	assert.True(t, reopened.Exists("h"), "the third mutation commits even after a manual commit")
	assert.Equal(t, 8, reopened.Len())
}

func testAutoCommitOverridesCounter(t *testing.T, factory DBFactory) {
	path := filepath.Join(t.TempDir(), "store.db")
	database := open(t, factory, Config{Path: path, AutoCommit: true, AutoCommitAfter: 10})

	mustSet(t, database, "a", value.Record{"n": value.Int(1)})
	reopened := open(t, factory, Config{Path: path})
	assert.True(t, reopened.Exists("a"), "the first mutation is written when autocommit is on")

	require.NoError(t, database.Update("a", value.Record{"n": value.Int(2)}))
	reopened = open(t, factory, Config{Path: path})
	got, err := reopened.Get("a")
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), got["n"])
}

func testLoadEdgeCases(t *testing.T, factory DBFactory) {
	dir := t.TempDir()

	// missing file
	database := open(t, factory, Config{Path: filepath.Join(dir, "missing.db")})
	assert.Equal(t, 0, database.Len())

	// empty file
	empty := filepath.Join(dir, "empty.db")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	database = open(t, factory, Config{Path: empty})
	assert.Equal(t, 0, database.Len())

	// undecodable file starts empty and is replaced on commit
	corrupt := filepath.Join(dir, "corrupt.db")
	require.NoError(t, os.WriteFile(corrupt, []byte("\x00{this is not a store"), 0o644))
	database = open(t, factory, Config{Path: corrupt})
	assert.Equal(t, 0, database.Len())
	assert.True(t, database.GetInfo().RecoveredCorrupt)

	mustSet(t, database, "k", value.Record{"a": value.Int(1)})
	require.NoError(t, database.Commit())
	database = open(t, factory, Config{Path: corrupt})
	assert.True(t, database.Exists("k"))
	assert.False(t, database.GetInfo().RecoveredCorrupt)

	// a directory cannot be read
	_, err := factory(Config{Path: dir})
	assert.Error(t, err)
}
