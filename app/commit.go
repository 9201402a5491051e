package app

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// CommitStore wraps a CommitKVStore with two independent cache layers, one
// for delivery and one for checks. Deliver writes become visible to checks
// only after a Commit.
type CommitStore struct {
	committed abacus.CommitKVStore
	deliver   abacus.KVCacheWrap
	check     abacus.KVCacheWrap
}

// NewCommitStore loads the latest persisted state and prepares both cache
// layers. It panics when the state cannot be loaded, an engine without its
// database has nothing sensible to do.
func NewCommitStore(store abacus.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}
}

// CommitInfo returns the version and hash of the latest commit.
func (cs *CommitStore) CommitInfo() (abacus.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes the delivery cache to the backing store, persists it and
// starts both caches fresh. Anything pending in the check cache is thrown
// away.
func (cs *CommitStore) Commit() (abacus.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return abacus.CommitID{}, err
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return id, nil
}

// CheckStore returns the store the checking phase must run against.
func (cs *CommitStore) CheckStore() abacus.CacheableKVStore {
	return cs.check
}

// DeliverStore returns the store the delivery phase must run against.
func (cs *CommitStore) DeliverStore() abacus.CacheableKVStore {
	return cs.deliver
}

// The _ab: prefix marks engine internal data.
const chainIDKey = "_ab:chainID"

// mustLoadChainID returns the stored chain id, or an empty string when none
// was saved yet. It panics on a database error.
func mustLoadChainID(kv abacus.KVStore) string {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(v)
}

// saveChainID stores the chain id. The id is written exactly once, at
// genesis, and is immutable afterwards.
func saveChainID(kv abacus.KVStore, chainID string) error {
	if !abacus.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}
	key := []byte(chainIDKey)
	switch exists, err := kv.Has(key); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrCannotBeModified, "chain id already stored")
	}
	if err := kv.Set(key, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
