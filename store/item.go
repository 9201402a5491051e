package store

import (
	"bytes"

	"github.com/google/btree"
)

// Everything stored in the overlay btree implements keyer, so entries can
// be ordered and shadowed by key alone.
type keyer interface {
	Key() []byte
}

// bkey is the plain btree entry. It serves both as a lookup probe and as
// the embedded key of stored items.
type bkey struct {
	key []byte
}

var (
	_ keyer      = bkey{}
	_ btree.Item = bkey{}
)

func (k bkey) Key() []byte { return k.key }

// Less orders entries by bytewise key comparison. The compared item must
// implement keyer or this panics.
func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

// setItem is a pending write recorded in the overlay.
type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey: bkey{key}, value: value}
}

// deletedItem shadows any value the backing store may hold for its key.
type deletedItem struct {
	bkey
}

func newDeletedItem(key []byte) deletedItem {
	return deletedItem{bkey{key}}
}

// bkeyLess is a probe that sorts immediately below its exact key. Range
// walks use it to flip the inclusivity of a bound.
type bkeyLess struct {
	key []byte
}

var (
	_ keyer      = bkeyLess{}
	_ btree.Item = bkeyLess{}
)

func (k bkeyLess) Key() []byte { return k.key }

// Less matches equal keys as well, unlike bkey.
func (k bkeyLess) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) <= 0
}
