package lstore

import (
	"io"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/store"
	"github.com/ValentinKolb/jKV/lib/value"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var plog = logger.GetLogger("store")

type storeImpl struct {
	db db.JSONDB
	mu *xsync.RBMutex
}

// NewLocalStore creates a new local store instance around the database returned
// by factory. Errors of the factory are returned unchanged.
func NewLocalStore(factory store.DBFactory) (store.IStore, error) {
	database, err := factory()
	if err != nil {
		return nil, err
	}
	info := database.GetInfo()
	plog.Debugf("created local store around %s database (path %q)", info.DbType, info.Path)
	return &storeImpl{
		db: database,
		mu: xsync.NewRBMutex(),
	}, nil
}

// read executes fn under the shared lock
func (s *storeImpl) read(fn func()) {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	fn()
}

// write executes fn under the exclusive lock
func (s *storeImpl) write(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see db/db.go)
// --------------------------------------------------------------------------

func (s *storeImpl) DB() db.JSONDB { return s.db }

func (s *storeImpl) Get(key string) (rec value.Record, err error) {
	s.read(func() { rec, err = s.db.Get(key) })
	return
}

func (s *storeImpl) Exists(key string) (ok bool) {
	s.read(func() { ok = s.db.Exists(key) })
	return
}

func (s *storeImpl) All() (all map[string]value.Record) {
	s.read(func() { all = s.db.All() })
	return
}

func (s *storeImpl) Len() (n int) {
	s.read(func() { n = s.db.Len() })
	return
}

func (s *storeImpl) Keys() (keys []string) {
	s.read(func() { keys = s.db.Keys() })
	return
}

func (s *storeImpl) Filter(criteria value.Record) (result map[string]value.Record, plan db.QueryPlan) {
	s.read(func() { result, plan = s.db.Filter(criteria) })
	return
}

func (s *storeImpl) Set(key string, rec value.Record) (err error) {
	s.write(func() { err = s.db.Set(key, rec) })
	return
}

func (s *storeImpl) Insert(rec value.Record) (key string, err error) {
	s.write(func() { key, err = s.db.Insert(rec) })
	return
}

func (s *storeImpl) Update(key string, partial value.Record) (err error) {
	s.write(func() { err = s.db.Update(key, partial) })
	return
}

func (s *storeImpl) Delete(key string) (err error) {
	s.write(func() { err = s.db.Delete(key) })
	return
}

func (s *storeImpl) CreateIndex(name string, recreate bool, typ db.IndexType) (err error) {
	s.write(func() { err = s.db.CreateIndex(name, recreate, typ) })
	return
}

func (s *storeImpl) RemoveIndex(name string) (err error) {
	s.write(func() { err = s.db.RemoveIndex(name) })
	return
}

func (s *storeImpl) Indexes() (infos []db.IndexInfo) {
	s.read(func() { infos = s.db.Indexes() })
	return
}

func (s *storeImpl) VerifyIndexes() (err error) {
	s.read(func() { err = s.db.VerifyIndexes() })
	return
}

func (s *storeImpl) Commit() (err error) {
	s.write(func() { err = s.db.Commit() })
	return
}

// GetInfo returns the info of the wrapped database with DbType set to
// db.ImplSynchronized
func (s *storeImpl) GetInfo() (info db.DatabaseInfo) {
	s.read(func() { info = s.db.GetInfo() })
	info.DbType = db.ImplSynchronized
	return
}

func (s *storeImpl) WriteMetrics(w io.Writer) {
	s.read(func() { s.db.WriteMetrics(w) })
}
