package store

import (
	"testing"

	"github.com/abacuslab/abacus/abacustest/assert"
)

func memSuite() *TestSuite {
	return NewTestSuite(func() (CacheableKVStore, func()) {
		return MemStore(), func() {}
	})
}

func TestBTreeGetSet(t *testing.T) {
	memSuite().GetSet(t)
}

func TestBTreeCacheConflicts(t *testing.T) {
	memSuite().CacheConflicts(t)
}

func TestBTreeFuzzIterator(t *testing.T) {
	memSuite().FuzzIterator(t)
}

func TestBTreeIteratorWithConflicts(t *testing.T) {
	memSuite().IteratorWithConflicts(t)
}

func TestBTreeOverwrite(t *testing.T) {
	db := MemStore()
	k := []byte("stone")

	assert.Nil(t, db.Set(k, []byte("first")))
	assert.Nil(t, db.Set(k, []byte("second")))
	v, err := db.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, []byte("second"), v)

	// a delete in a cache hides the parent value until discarded
	cache := db.CacheWrap()
	assert.Nil(t, cache.Delete(k))
	v, err = cache.Get(k)
	assert.Nil(t, err)
	assert.Nil(t, v)
	cache.Discard()

	v, err = db.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, []byte("second"), v)
}

func TestLogableStoreShowOps(t *testing.T) {
	db, log := LogableStore()

	assert.Nil(t, db.Set([]byte("a"), []byte("1")))
	assert.Nil(t, db.Set([]byte("b"), []byte("2")))
	assert.Nil(t, db.Delete([]byte("a")))

	ops := log.ShowOps()
	assert.Equal(t, 3, len(ops))
	assert.Equal(t, true, ops[0].IsSetOp())
	assert.Equal(t, true, ops[1].IsSetOp())
	assert.Equal(t, false, ops[2].IsSetOp())
	assert.Equal(t, []byte("a"), ops[0].Key())
	assert.Equal(t, []byte("a"), ops[2].Key())
}
