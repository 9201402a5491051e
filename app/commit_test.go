package app

import (
	"testing"

	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/store"
	"github.com/abacuslab/abacus/store/iavl"
)

func TestCommitStoreIsolation(t *testing.T) {
	cs := NewCommitStore(iavl.MockCommitStore())

	k, v := []byte("city"), []byte("castle")
	if err := cs.DeliverStore().Set(k, v); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	// a delivery write is not visible in the check cache
	if got, err := cs.CheckStore().Get(k); err != nil || got != nil {
		t.Fatalf("check store leaked: %q %+v", got, err)
	}
	// nor in the committed state
	if got, err := cs.committed.Get(k); err != nil || got != nil {
		t.Fatalf("committed state leaked: %q %+v", got, err)
	}

	if _, err := cs.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}

	// after the commit, both fresh caches observe the write
	got, err := cs.CheckStore().Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)
	got, err = cs.DeliverStore().Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)
	got, err = cs.committed.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)
}

func TestCommitDropsCheckState(t *testing.T) {
	cs := NewCommitStore(iavl.MockCommitStore())

	if err := cs.CheckStore().Set([]byte("tentative"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if _, err := cs.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}

	got, err := cs.CheckStore().Get([]byte("tentative"))
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestCommitAdvancesVersion(t *testing.T) {
	cs := NewCommitStore(iavl.MockCommitStore())

	if err := cs.DeliverStore().Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	first, err := cs.Commit()
	assert.Nil(t, err)

	if err := cs.DeliverStore().Set([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	second, err := cs.Commit()
	assert.Nil(t, err)

	if second.Version != first.Version+1 {
		t.Fatalf("want version %d, got %d", first.Version+1, second.Version)
	}
	if len(second.Hash) == 0 {
		t.Fatal("commit produced an empty hash")
	}

	info, err := cs.CommitInfo()
	assert.Nil(t, err)
	assert.Equal(t, second, info)
}

func TestChainIDStoredOnce(t *testing.T) {
	kv := store.MemStore()

	assert.Equal(t, "", mustLoadChainID(kv))

	if err := saveChainID(kv, "test-ledger-51"); err != nil {
		t.Fatalf("cannot save: %+v", err)
	}
	assert.Equal(t, "test-ledger-51", mustLoadChainID(kv))

	err := saveChainID(kv, "replacement-chain")
	assert.IsErr(t, errors.ErrCannotBeModified, err)
	assert.Equal(t, "test-ledger-51", mustLoadChainID(kv))
}

func TestChainIDValidated(t *testing.T) {
	cases := map[string]struct {
		chainID string
		wantErr *errors.Error
	}{
		"proper name":       {chainID: "test-ledger-51", wantErr: nil},
		"too short":         {chainID: "abc", wantErr: errors.ErrInvalidInput},
		"invalid character": {chainID: "my ledger chain", wantErr: errors.ErrInvalidInput},
		"empty":             {chainID: "", wantErr: errors.ErrInvalidInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := saveChainID(store.MemStore(), tc.chainID)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}
