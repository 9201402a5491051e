package store

import (
	"github.com/abacuslab/abacus/errors"
	"github.com/google/btree"
)

// DefaultFreeListSize is how many spare btree nodes a cache layer keeps
// around between uses.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable upgrades any KVStore to a CacheableKVStore by layering
// a btree overlay on top of it.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a BTreeCacheWrap that collects writes until they are
// either written to the underlying store or rolled back.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in-memory store useful for tests. Nothing is ever
// persisted.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// ShowOpser exposes an ordered list of all operations performed on a store.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in-memory store together with a recorder of
// every operation that was run on it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}

// BTreeCacheWrap is a btree overlay over a KVStore. Reads consult the
// overlay first and fall through to the backing store, writes stay in the
// overlay and its batch until Write is called.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap builds an overlay around the given store. The backing
// store is a ReadOnlyKVStore on purpose, all writes must flow through the
// batch. Pass an existing free list to reuse btree nodes across wraps, or
// nil to allocate a fresh one.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another overlay on top of this one, sharing the free
// list. The nested layer is backed by a NonAtomicBatch since it only ever
// writes to memory.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch whose operations land in this overlay, without
// any atomicity guarantee.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the batch to the underlying store and resets the overlay.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached writes and returns the btree nodes to the
// free list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

// Set records the write in the overlay and in the batch.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(newSetItem(key, value))
	return b.batch.Set(key, value)
}

// Delete records the removal in the overlay and in the batch.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(newDeletedItem(key))
	return b.batch.Delete(key)
}

// Get returns the overlay value if the key was touched, otherwise the
// value from the backing store.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	res := b.bt.Get(bkey{key})
	if res == nil {
		return b.back.Get(key)
	}
	switch t := res.(type) {
	case setItem:
		return t.value, nil
	case deletedItem:
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", res)
	}
}

// Has reports key presence, with overlay writes and deletes shadowing the
// backing store.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	res := b.bt.Get(bkey{key})
	if res == nil {
		return b.back.Has(key)
	}
	switch res.(type) {
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", res)
	}
}

// Iterator merges overlay entries with the backing store over a domain of
// keys, in ascending order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}

	var buf itemBuffer
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(buf.insert)
	case start == nil:
		b.bt.AscendLessThan(bkey{end}, buf.insert)
	case end == nil:
		b.bt.AscendGreaterOrEqual(bkey{start}, buf.insert)
	default:
		b.bt.AscendRange(bkey{start}, bkey{end}, buf.insert)
	}

	return newCacheIterator(buf.items, parentIter, false), nil
}

// ReverseIterator merges overlay entries with the backing store over a
// domain of keys, in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}

	// bkeyLess sorts just below its exact key, shifting the btree
	// bounds so the walk covers [start, end) like the forward one.
	var buf itemBuffer
	switch {
	case start == nil && end == nil:
		b.bt.Descend(buf.insert)
	case start == nil:
		b.bt.DescendLessOrEqual(bkeyLess{end}, buf.insert)
	case end == nil:
		b.bt.DescendGreaterThan(bkeyLess{start}, buf.insert)
	default:
		b.bt.DescendRange(bkeyLess{end}, bkeyLess{start}, buf.insert)
	}

	return newCacheIterator(buf.items, parentIter, true), nil
}
