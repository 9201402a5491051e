/*
Package iavl exposes a merkelized, versioned kv store as our
CommitKVStore. Every Commit writes one more version of the tree to
disk, the root hash authenticates the full committed state.
*/
package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/store"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore holds the versioned iavl tree of the committed state.
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore opens a disk backed store below path. The name decides
// what the leveldb directory is called.
func NewCommitStore(path, name string) CommitStore {
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, path)
	tree := iavl.NewMutableTree(db, DefaultCacheSize)
	return CommitStore{tree: tree}
}

// MockCommitStore returns a commit store backed by memory,
// for tests and one-off tooling
func MockCommitStore() CommitStore {
	db := dbm.NewMemDB()
	tree := iavl.NewMutableTree(db, DefaultCacheSize)
	return CommitStore{tree: tree}
}

// Adapter returns the working tree as a CacheableKVStore, so generic
// store tests and tooling can layer caches over it.
func (s CommitStore) Adapter() store.CacheableKVStore {
	return store.BTreeCacheable{KVStore: adapter{tree: s.tree}}
}

// Get reads from the last committed version of the tree. A missing key
// loads as nil.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	version := s.tree.Version()
	_, value := s.tree.GetVersioned(key, version)
	return value, nil
}

// LoadLatestVersion restores the newest tree version found on disk.
// A commit interrupted by a crash leaves the previous version in place,
// so the restored state is always consistent.
func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion describes the newest tree version on disk.
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// Commit writes the working tree to disk as the next version.
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// CacheWrap opens a savepoint over the working tree. Writes reach the
// tree when the wrap is written, and reach disk only on the next
// Commit.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	kv := adapter{tree: s.tree}
	return store.NewBTreeCacheWrap(kv, kv.NewBatch(), nil)
}

// adapter exposes the mutable working tree as a KVStore
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = adapter{}

func (a adapter) Get(key []byte) ([]byte, error) {
	_, value := a.tree.Get(key)
	return value, nil
}

func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a adapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

// Iterator feeds tree entries of [start, end) through a channel, so the
// walk happens concurrently with consumption.
func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	iter := newLazyIterator()
	go func() {
		a.tree.IterateRange(start, end, true, iter.add)
		iter.end()
	}()
	return iter, nil
}

// ReverseIterator is Iterator walking the range in descending order.
func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	iter := newLazyIterator()
	go func() {
		a.tree.IterateRange(start, end, false, iter.add)
		iter.end()
	}()
	return iter, nil
}
