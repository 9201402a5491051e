package abacus

// ReadOnlyKVStore is the read half of a key value store.
type ReadOnlyKVStore interface {
	// Get loads the value stored under the key, or nil when not set.
	// A nil key is an error.
	Get(key []byte) ([]byte, error)

	// Has reports whether the key is set. A nil key is an error.
	Has(key []byte) (bool, error)

	// Iterator walks the keys of [start, end) in ascending order.
	// The covered range must not be written while the iterator is open.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks the same kind of range in descending order,
	// so here start must sort after end. The no-write rule applies as
	// well.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// KVStore extends the read half with writes. Every backing store
// implements at least this much.
type KVStore interface {
	ReadOnlyKVStore

	// Set stores the value under the key. A nil key is an error.
	Set(key, value []byte) error

	// Delete removes the key. A nil key is an error.
	Delete(key []byte) error

	// NewBatch starts a batch whose writes apply together.
	NewBatch() Batch
}

// Iterator hands out the key value pairs of a range one at a time.
//
//	it, err := db.Iterator(start, end)
//	if err != nil {
//		return err
//	}
//	defer it.Release()
//	for {
//		k, v, err := it.Next()
//		if err != nil {
//			break // errors.ErrIteratorDone once exhausted
//		}
//		...
//	}
type Iterator interface {
	// Next returns the following key value pair. Once the range is
	// exhausted every call returns errors.ErrIteratorDone.
	Next() (key, value []byte, err error)

	// Release frees the iterator. It must not be used afterwards.
	Release()
}

// SetDeleter is the write surface shared by KVStore and Batch.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Batch buffers writes and applies them all at once on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// CacheableKVStore is a KVStore that can spawn savepoints. A savepoint
// is flushed with Write rather than committed, which is why CacheWrap
// does not return a Committer.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch layer over another store. Reads observe the
// buffered writes. Write pushes the buffer down one level and Discard
// throws it away, much like SAVEPOINT and ROLLBACK TO SAVEPOINT in
// a sql database.
type KVCacheWrap interface {
	// A savepoint can be wrapped again.
	CacheableKVStore

	// Write flushes buffered changes into the wrapped store.
	Write() error

	// Discard drops buffered changes. The wrap must not be used again.
	Discard()
}

// CommitKVStore persists versions of the state to disk and restores
// the newest one on startup.
type CommitKVStore interface {
	// Get reads from the last committed version. A missing key loads
	// as nil.
	Get(key []byte) ([]byte, error)

	// LoadLatestVersion restores the newest version found on disk.
	// After a crash in the middle of a commit an older but consistent
	// version may be the one restored.
	LoadLatestVersion() error

	// LatestVersion describes the newest version on disk without
	// loading it.
	LatestVersion() (CommitID, error)

	// Commit writes the next version to disk and describes it.
	Commit() (CommitID, error)

	// CacheWrap opens a savepoint on top of the committed state.
	CacheWrap() KVCacheWrap
}

// CommitID identifies a committed version by sequence number and
// merkle root hash.
type CommitID struct {
	Version int64
	Hash    []byte
}
