package store

import "github.com/abacuslab/abacus/errors"

// SliceIterator walks a fixed slice of models in order.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates an iterator over exactly this slice.
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

// Next returns the next key value pair, or ErrIteratorDone when the
// slice is exhausted.
func (s *SliceIterator) Next() ([]byte, []byte, error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice iterator")
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

// Release drops the remaining data. The iterator is exhausted afterwards.
func (s *SliceIterator) Release() {
	s.data = nil
	s.idx = 0
}

// EmptyKVStore reads as empty and swallows all writes. It serves as the
// base layer under a cache wrap in tests.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (e EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }

func (e EmptyKVStore) Has([]byte) (bool, error) { return false, nil }

func (e EmptyKVStore) Set([]byte, []byte) error { return nil }

func (e EmptyKVStore) Delete([]byte) error { return nil }

func (e EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// NewBatch returns a batch feeding writes back into the empty store.
func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}
