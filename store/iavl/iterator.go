package iavl

import (
	"sync"

	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/store"
)

// lazyIterator streams key/value pairs from a producing goroutine
// walking the tree. The producer must call add for every pair and end
// once the walk is over. Releasing the iterator stops the producer.
type lazyIterator struct {
	read chan store.Model
	stop chan struct{}
	once sync.Once
}

var _ store.Iterator = (*lazyIterator)(nil)

func newLazyIterator() *lazyIterator {
	return &lazyIterator{
		read: make(chan store.Model),
		stop: make(chan struct{}),
	}
}

// add hands one pair to the consumer. The returned value reports
// whether the walk must stop, matching the iavl IterateRange callback.
func (i *lazyIterator) add(key, value []byte) (stop bool) {
	m := store.Model{Key: key, Value: value}
	select {
	case i.read <- m:
		return false
	case <-i.stop:
		return true
	}
}

// end marks the end of the stream, only the producer may call it
func (i *lazyIterator) end() {
	close(i.read)
}

// Next returns the next pair, or ErrIteratorDone after end
func (i *lazyIterator) Next() ([]byte, []byte, error) {
	data, hasMore := <-i.read
	if !hasMore {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "lazy iterator")
	}
	return data.Key, data.Value, nil
}

// Release stops the producing goroutine. It is safe to call it
// multiple times.
func (i *lazyIterator) Release() {
	i.once.Do(func() {
		close(i.stop)
	})
}
