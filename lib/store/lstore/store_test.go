package lstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/db/engines/pasture"
	dbtesting "github.com/ValentinKolb/jKV/lib/db/testing"
	"github.com/ValentinKolb/jKV/lib/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factory(cfg dbtesting.Config) (db.JSONDB, error) {
	return NewLocalStore(func() (db.JSONDB, error) {
		return pasture.NewPastureDB(&pasture.Options{
			Path:            cfg.Path,
			AutoCommit:      cfg.AutoCommit,
			AutoCommitAfter: cfg.AutoCommitAfter,
			LazyIndexes:     cfg.LazyIndexes,
		})
	})
}

func Test(t *testing.T) {
	dbtesting.RunJSONDBTests(t, "LocalStore", factory)
}

func Benchmark(b *testing.B) {
	dbtesting.RunJSONDBBenchmarks(b, "LocalStore", factory)
}

func TestFactoryError(t *testing.T) {
	want := errors.New("boom")
	_, err := NewLocalStore(func() (db.JSONDB, error) { return nil, want })
	assert.ErrorIs(t, err, want)
}

func TestInfoReportsSynchronized(t *testing.T) {
	s, err := factory(dbtesting.Config{})
	require.NoError(t, err)
	assert.Equal(t, db.ImplSynchronized, s.GetInfo().DbType)
	assert.Equal(t, db.ImplPasture, s.(*storeImpl).DB().GetInfo().DbType)
}

func TestConcurrentAccess(t *testing.T) {
	s, err := factory(dbtesting.Config{Path: filepath.Join(t.TempDir(), "store.json"), AutoCommitAfter: 50})
	require.NoError(t, err)
	require.NoError(t, s.CreateIndex("group", false, db.IndexTypeDefault))

	const writers, readers, perWorker = 8, 8, 200
	var wg sync.WaitGroup

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("w%d-%d", w, i)
				rec := value.Record{"group": value.String(fmt.Sprintf("g%d", i%5)), "writer": value.Int(int64(w))}
				assert.NoError(t, s.Set(key, rec))
				if i%3 == 0 {
					assert.NoError(t, s.Update(key, value.Record{"group": value.String("moved")}))
				}
				if i%7 == 0 {
					assert.NoError(t, s.Delete(key))
				}
			}
		}(w)
	}

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				result, _ := s.Filter(value.Record{"group": value.String("moved")})
				for key, rec := range result {
					assert.Equal(t, value.String("moved"), rec["group"], key)
				}
				_ = s.Len()
				_ = s.GetInfo()
			}
		}()
	}

	wg.Wait()

	require.NoError(t, s.VerifyIndexes())
	require.NoError(t, s.Commit())

	deleted := 0
	for i := 0; i < perWorker; i++ {
		if i%7 == 0 {
			deleted++
		}
	}
	assert.Equal(t, writers*(perWorker-deleted), s.Len())

	// the committed file holds the same state
	reopened, err := factory(dbtesting.Config{Path: s.GetInfo().Path})
	require.NoError(t, err)
	assert.Equal(t, s.Len(), reopened.Len())
	assert.NoError(t, reopened.VerifyIndexes())
}
