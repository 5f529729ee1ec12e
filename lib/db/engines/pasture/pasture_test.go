package pasture

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/jKV/lib/codec"
	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/storage"
	"github.com/ValentinKolb/jKV/lib/value"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newDB(t *testing.T, opts *Options) db.JSONDB {
	t.Helper()
	database, err := NewPastureDB(opts)
	require.NoError(t, err)
	return database
}

func fillPeople(t *testing.T, database db.JSONDB) {
	t.Helper()
	require.NoError(t, database.Set("a", value.Record{"name": value.String("Alice"), "age": value.Int(31)}))
	require.NoError(t, database.Set("b", value.Record{"name": value.String("Bob"), "age": value.Int(25), "tags": value.Array(value.String("x"))}))
	require.NoError(t, database.CreateIndex("name", false, db.IndexTypeDefault))
	require.NoError(t, database.CreateIndex("age", false, db.IndexTypeDefault))
}

func TestCommitFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	database := newDB(t, &Options{Path: path, Backend: codec.NameJSON})
	fillPeople(t, database)
	require.NoError(t, database.Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "commit_json", data)
}

func TestNonStringValuesMakeIndexLazy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	database := newDB(t, &Options{Path: path})
	fillPeople(t, database)
	require.NoError(t, database.Commit())

	infos := database.Indexes()
	require.Len(t, infos, 2)
	assert.Equal(t, "age", infos[0].Name)
	assert.True(t, infos[0].Lazy)
	assert.Equal(t, db.IndexTypeLazy, infos[0].Type)
	assert.Equal(t, "name", infos[1].Name)
	assert.False(t, infos[1].Lazy)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(data, "indexes.age").Exists(), "lazy index contents must not be written")
	assert.Equal(t, "lazy", gjson.GetBytes(data, "index_defs.age.type").String())
	assert.Equal(t, "a", gjson.GetBytes(data, "indexes.name.Alice.0").String())

	// the lazy index is rebuilt and answers numeric lookups after a reload
	reopened := newDB(t, &Options{Path: path})
	result, plan := reopened.Filter(value.Record{"age": value.Float(25)})
	assert.Len(t, result, 1)
	assert.Contains(t, result, "b")
	assert.True(t, plan.UsedIndex())
	assert.NoError(t, reopened.VerifyIndexes())
}

func TestStoreWideLazyMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	database := newDB(t, &Options{Path: path, LazyIndexes: true})
	fillPeople(t, database)
	require.NoError(t, database.Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(data, "indexes").Exists())
	assert.Equal(t, "lazy", gjson.GetBytes(data, "index_defs.name.type").String())

	info := database.GetInfo()
	assert.True(t, info.LazyIndexes)
	for _, idx := range info.Indexes {
		assert.True(t, idx.Lazy, idx.Name)
	}
}

func TestBackendsAndCompressions(t *testing.T) {
	for _, backend := range codec.Names() {
		for _, compression := range storage.Compressions() {
			t.Run(backend+"/"+string(compression), func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "store.db")
				database := newDB(t, &Options{Path: path, Backend: backend, Compression: compression})
				fillPeople(t, database)
				require.NoError(t, database.Commit())

				raw, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, compression, storage.Detect(raw))

				// the compression of an existing file is detected on load
				reopened := newDB(t, &Options{Path: path, Backend: backend})
				info := reopened.GetInfo()
				assert.True(t, info.LoadedFromFile)
				assert.Equal(t, backend, info.Backend)
				assert.Equal(t, 2, reopened.Len())

				rec, err := reopened.Get("b")
				require.NoError(t, err)
				assert.True(t, rec.Equal(value.Record{"name": value.String("Bob"), "age": value.Int(25), "tags": value.Array(value.String("x"))}))
				assert.NoError(t, reopened.VerifyIndexes())
			})
		}
	}
}

func TestUnknownBackendFallsBack(t *testing.T) {
	database := newDB(t, &Options{Backend: "does-not-exist"})
	assert.Equal(t, codec.NameJSON, database.GetInfo().Backend)

	// the default backend is used without options
	assert.Equal(t, codec.NameGoJSON, newDB(t, nil).GetInfo().Backend)
	assert.Equal(t, codec.NameGoJSON, newDB(t, &Options{}).GetInfo().Backend)
}

func TestInvalidCompression(t *testing.T) {
	_, err := NewPastureDB(&Options{Compression: "brotli"})
	assert.ErrorIs(t, err, db.ErrInvalidOption)
}

func TestCorruptStoreFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"broken json", []byte(`{"data": {"a": `)},
		{"not a record", []byte(`{"data": {"a": 1}, "index_defs": {}}`)},
		{"broken zstd frame", []byte{0x28, 0xb5, 0x2f, 0xfd, 0x00, 0x01, 0x02}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store.json")
			require.NoError(t, os.WriteFile(path, tc.data, 0o644))

			database := newDB(t, &Options{Path: path})
			info := database.GetInfo()
			assert.True(t, info.RecoveredCorrupt)
			assert.False(t, info.LoadedFromFile)
			assert.Equal(t, 0, database.Len())

			// the next commit replaces the broken file
			require.NoError(t, database.Set("k", value.Record{"v": value.Int(1)}))
			require.NoError(t, database.Commit())
			reopened := newDB(t, &Options{Path: path})
			assert.False(t, reopened.GetInfo().RecoveredCorrupt)
			assert.Equal(t, 1, reopened.Len())
		})
	}
}

func TestUnreadableStorePath(t *testing.T) {
	// a directory cannot be read as store file
	_, err := NewPastureDB(&Options{Path: t.TempDir()})
	assert.Error(t, err)
}

func TestCommitFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")
	database := newDB(t, &Options{Path: path})
	require.NoError(t, database.Set("a", value.Record{"v": value.Int(1)}))

	// a directory in place of the store file cannot be replaced
	require.NoError(t, os.Mkdir(path, 0o755))
	err := database.Commit()
	assert.ErrorIs(t, err, db.ErrCommitFailed)
	assert.Equal(t, 1, database.GetInfo().PendingWrites, "a failed commit keeps the pending writes")

	// with autocommit the mutation itself is applied but reports the commit failure
	autoPath := filepath.Join(dir, "auto.json")
	auto := newDB(t, &Options{Path: autoPath, AutoCommit: true})
	require.NoError(t, os.Mkdir(autoPath, 0o755))
	err = auto.Set("a", value.Record{"v": value.Int(1)})
	assert.ErrorIs(t, err, db.ErrCommitFailed)
	assert.True(t, auto.Exists("a"))
}

func TestCounterCommitIgnoresManualCommits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	database := newDB(t, &Options{Path: path, AutoCommitAfter: 3})

	require.NoError(t, database.Set("a", value.Record{}))
	require.NoError(t, database.Set("b", value.Record{}))
	require.NoError(t, database.Commit())
	info := database.GetInfo()
	assert.Equal(t, 0, info.PendingWrites)
	assert.Equal(t, 1, info.CommitCountdown, "a manual commit keeps the countdown")

	require.NoError(t, database.Set("c", value.Record{}))
	assert.True(t, newDB(t, &Options{Path: path}).Exists("c"))
	assert.Equal(t, 3, database.GetInfo().CommitCountdown)
}

func TestFailedCounterCommitIsNotRetried(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	database := newDB(t, &Options{Path: path, AutoCommitAfter: 2})
	require.NoError(t, os.Mkdir(path, 0o755))

	require.NoError(t, database.Set("a", value.Record{}))
	assert.ErrorIs(t, database.Set("b", value.Record{}), db.ErrCommitFailed)

	// the countdown starts again, so the next mutation does not commit
	require.NoError(t, database.Set("c", value.Record{}))
	info := database.GetInfo()
	assert.Equal(t, 3, info.PendingWrites)
	assert.Equal(t, 1, info.CommitCountdown)
	assert.ErrorIs(t, database.Set("d", value.Record{}), db.ErrCommitFailed)
}

func TestIndexWithoutDefinitionIsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	content := `{"data":{"a":{"name":"Alice"},"b":{"name":"Bob"}},"indexes":{"name":{"Alice":["a"],"Bob":["b"]}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	database := newDB(t, &Options{Path: path})
	infos := database.Indexes()
	require.Len(t, infos, 1)
	assert.Equal(t, db.IndexTypeDefault, infos[0].Type)
	assert.Equal(t, 2, infos[0].Buckets)

	result, plan := database.Filter(value.Record{"name": value.String("Bob")})
	assert.Len(t, result, 1)
	assert.True(t, plan.UsedIndex())
}

func TestUnknownIndexTypeIsRebuilt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	content := `{"data":{"a":{"name":"Alice"}},"index_defs":{"name":{"type":"fancy"}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	database := newDB(t, &Options{Path: path})
	infos := database.Indexes()
	require.Len(t, infos, 1)
	assert.Equal(t, db.IndexTypeLazy, infos[0].Type)
	assert.Equal(t, 1, infos[0].Entries)
	assert.NoError(t, database.VerifyIndexes())
}

func TestDefaultIndexWithoutContentsIsRebuilt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	content := `{"data":{"a":{"name":"Alice"},"b":{"name":"Alice"}},"index_defs":{"name":{"type":"default"}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	database := newDB(t, &Options{Path: path})
	result, _ := database.Filter(value.Record{"name": value.String("Alice")})
	assert.Len(t, result, 2)
	assert.NoError(t, database.VerifyIndexes())
}

func TestGetInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	database := newDB(t, &Options{Path: path, AutoCommitAfter: 5, Compression: storage.CompressionLZ4})
	fillPeople(t, database)

	info := database.GetInfo()
	assert.Equal(t, db.ImplPasture, info.DbType)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, db.CommitCounter, info.CommitMode)
	assert.Equal(t, 5, info.CommitEvery)
	assert.Equal(t, 1, info.CommitCountdown)
	assert.Equal(t, 4, info.PendingWrites)
	assert.Equal(t, "lz4", info.Compression)
	assert.Equal(t, 2, info.Records)
	assert.Len(t, info.Indexes, 2)
	assert.False(t, info.LoadedFromFile)

	assert.Equal(t, db.CommitAlways, newDB(t, &Options{AutoCommit: true}).GetInfo().CommitMode)
	assert.Equal(t, db.CommitManual, newDB(t, nil).GetInfo().CommitMode)
}

func TestMetrics(t *testing.T) {
	database := newDB(t, &Options{Path: filepath.Join(t.TempDir(), "store.json")})
	fillPeople(t, database)
	_, err := database.Insert(value.Record{"name": value.String("Carol")})
	require.NoError(t, err)
	require.NoError(t, database.Delete("a"))
	database.Filter(value.Record{"name": value.String("Bob"), "tags": value.Array(value.String("x"))})
	require.NoError(t, database.Commit())

	var buf bytes.Buffer
	database.WriteMetrics(&buf)
	out := buf.String()

	assert.Contains(t, out, `jkv_mutations_total{op="set"} 2`)
	assert.Contains(t, out, `jkv_mutations_total{op="insert"} 1`)
	assert.Contains(t, out, `jkv_mutations_total{op="delete"} 1`)
	assert.Contains(t, out, `jkv_mutations_total{op="create_index"} 2`)
	assert.Contains(t, out, `jkv_filter_steps_total{kind="index"} 1`)
	assert.Contains(t, out, `jkv_filter_steps_total{kind="scan"} 1`)
	assert.Contains(t, out, "jkv_commits_total 1")
	assert.Contains(t, out, "jkv_commit_duration_seconds")

	// metrics are per instance
	var other bytes.Buffer
	newDB(t, nil).WriteMetrics(&other)
	assert.Contains(t, other.String(), `jkv_mutations_total{op="set"} 0`)
}

func TestFailedMutationsDoNotCount(t *testing.T) {
	database := newDB(t, &Options{Path: filepath.Join(t.TempDir(), "store.json"), AutoCommitAfter: 2})

	assert.ErrorIs(t, database.Set("a", nil), db.ErrInvalidValue)
	assert.ErrorIs(t, database.Delete("missing"), db.ErrNotFound)
	assert.ErrorIs(t, database.CreateIndex("x", false, "other"), db.ErrInvalidOption)
	assert.Equal(t, 0, database.GetInfo().PendingWrites)
}
