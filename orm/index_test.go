package orm

import (
	"testing"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/store"
)

func TestIndexQueryThroughRouter(t *testing.T) {
	parity := func(obj Object) ([]byte, error) {
		c := obj.Value().(*counter)
		if c.Count%2 == 0 {
			return []byte("even"), nil
		}
		return []byte("odd"), nil
	}

	db := store.MemStore()
	b := counterBucket().WithIndex("parity", parity, false)

	assert.Nil(t, b.Save(db, mustObj([]byte("a"), 2)))
	assert.Nil(t, b.Save(db, mustObj([]byte("b"), 4)))
	assert.Nil(t, b.Save(db, mustObj([]byte("c"), 5)))

	qr := abacus.NewQueryRouter()
	b.Register("counters", qr)

	h := qr.Handler("/counters/parity")
	if h == nil {
		t.Fatal("index not registered for queries")
	}

	res, err := h.Query(db, abacus.KeyQueryMod, []byte("even"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	// results carry absolute db keys and raw model bytes
	assert.Equal(t, b.DBKey([]byte("a")), res[0].Key)
	var c counter
	assert.Nil(t, c.Unmarshal(res[0].Value))
	assert.Equal(t, int64(2), c.Count)

	res, err = h.Query(db, abacus.KeyQueryMod, []byte("none"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))
}

func TestIndexSkipsNilKeys(t *testing.T) {
	// only index counters above the threshold
	big := func(obj Object) ([]byte, error) {
		c := obj.Value().(*counter)
		if c.Count >= 100 {
			return []byte("big"), nil
		}
		return nil, nil
	}

	db := store.MemStore()
	b := counterBucket().WithIndex("big", big, false)

	assert.Nil(t, b.Save(db, mustObj([]byte("small"), 7)))
	assert.Nil(t, b.Save(db, mustObj([]byte("large"), 700)))

	hits, err := b.GetIndexed(db, "big", []byte("big"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(hits))
	assert.Equal(t, []byte("large"), hits[0].Key())

	// dropping below the threshold unindexes the entry
	assert.Nil(t, b.Save(db, mustObj([]byte("large"), 7)))
	hits, err = b.GetIndexed(db, "big", []byte("big"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(hits))
}
