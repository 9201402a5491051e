package store

import (
	"bytes"

	"github.com/abacuslab/abacus/errors"
	"github.com/google/btree"
)

// source names which side of the merge holds the next item.
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemBuffer collects btree entries during an Ascend/Descend walk.
// Taking a snapshot up front keeps Release synchronous and means the
// overlay can be modified while an iterator is open on it.
type itemBuffer struct {
	items []keyer
}

func (buf *itemBuffer) insert(item btree.Item) bool {
	buf.items = append(buf.items, item.(keyer))
	return true
}

// cacheIterator merges the snapshot of a cache layer with the iterator
// of the backing store. Set items shadow parent values for the same
// key, deleted items hide them.
type cacheIterator struct {
	items   []keyer
	parent  Iterator
	reverse bool

	// one model of parent lookahead, parentKey == nil means exhausted
	parentKey   []byte
	parentValue []byte
	primed      bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []keyer, parent Iterator, reverse bool) *cacheIterator {
	return &cacheIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// Next returns the next key/value pair in iteration order, skipping
// over any keys deleted in the cache layer. It returns ErrIteratorDone
// when both sources are exhausted.
func (c *cacheIterator) Next() ([]byte, []byte, error) {
	if !c.primed {
		c.primed = true
		if err := c.advanceParent(); err != nil {
			return nil, nil, err
		}
	}

	for {
		switch c.firstKey() {
		case none:
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
		case parent:
			key, value := c.parentKey, c.parentValue
			if err := c.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		case both:
			// same key on both sides, ours wins
			if err := c.advanceParent(); err != nil {
				return nil, nil, err
			}
			fallthrough
		case us:
			item := c.items[0]
			c.items = c.items[1:]
			if set, ok := item.(setItem); ok {
				return set.Key(), set.value, nil
			}
			// a delete marker, keep walking
		}
	}
}

// Release frees both sources. No other method may be called afterwards.
func (c *cacheIterator) Release() {
	c.items = nil
	c.parent.Release()
}

func (c *cacheIterator) advanceParent() error {
	key, value, err := c.parent.Next()
	switch {
	case err == nil:
		c.parentKey, c.parentValue = key, value
	case errors.ErrIteratorDone.Is(err):
		c.parentKey, c.parentValue = nil, nil
	default:
		return err
	}
	return nil
}

// firstKey selects the source holding the next key in iteration order
func (c *cacheIterator) firstKey() source {
	mine := len(c.items) > 0
	par := c.parentKey != nil

	switch {
	case mine && par:
		cmp := bytes.Compare(c.items[0].Key(), c.parentKey)
		if c.reverse {
			cmp = -cmp
		}
		switch {
		case cmp < 0:
			return us
		case cmp > 0:
			return parent
		default:
			return both
		}
	case mine:
		return us
	case par:
		return parent
	default:
		return none
	}
}
