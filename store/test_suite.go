package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/errors"
)

// TestSuite runs a generic set of checks against any CacheableKVStore
// implementation. Implementation packages construct a suite with their own
// store constructor and call the exported methods from their tests, so the
// btree cache and the iavl adapter share one battery of cases.
type TestSuite struct {
	newStore TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a cleanup callback.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		newStore: constructor,
	}
}

// GetSet covers the basic read/write contract of the store and one cache
// layer on top of it, including write back and discard.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.newStore()
	defer cleanup()

	// A fresh store is empty until written to.
	k, v := []byte("ledger"), []byte("open")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// A cache wrap sees the base data.
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// Data written to the cache is invisible to the base.
	k2, v2 := []byte("round"), []byte("two")
	s.AssertGetHas(t, cache, k2, nil, false)
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	// Until the cache is written back.
	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// A discarded wrap leaves no trace.
	k3, v3 := []byte("loose"), []byte("end")
	c2 := base.CacheWrap()
	s.AssertGetHas(t, c2, k, v, true)
	s.AssertGetHas(t, c2, k2, v2, true)
	assert.Nil(t, c2.Set(k3, v3))
	c2.Discard()

	// While a written wrap commits, deletes included.
	c3 := base.CacheWrap()
	s.AssertGetHas(t, c3, k, v, true)
	s.AssertGetHas(t, c3, k2, v2, true)
	assert.Nil(t, c3.Delete(k))
	assert.Nil(t, c3.Write())

	s.AssertGetHas(t, c2, k, nil, false)
	s.AssertGetHas(t, c2, k2, v2, true)
	s.AssertGetHas(t, c2, k3, nil, false)
}

// CacheConflicts layers conflicting writes and deletes over a parent and
// checks both layers observe their own truth until written back.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	ks := randBlobs(10, 16)
	vs := randBlobs(20, 40)

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model // Key is what we query, Value is what we expect
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(ks[0], vs[0]), SetOp(ks[5], vs[5])},
			childOps:      []Op{SetOp(ks[0], vs[12]), SetOp(ks[6], vs[8]), DelOp(ks[5])},
			parentQueries: []Model{Pair(ks[0], vs[0]), Pair(ks[5], vs[5]), Pair(ks[6], nil)},
			childQueries:  []Model{Pair(ks[0], vs[12]), Pair(ks[5], nil), Pair(ks[6], vs[8])},
		},
		"delete and recreate under a different value": {
			parentOps:     []Op{SetOp(ks[7], vs[3])},
			childOps:      []Op{DelOp(ks[7]), SetOp(ks[7], vs[16])},
			parentQueries: []Model{Pair(ks[7], vs[3])},
			childQueries:  []Model{Pair(ks[7], vs[16])},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.newStore()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}

			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			// After write back the parent adopts the child view.
			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// FuzzIterator iterates over random data written to the child layer, with
// random deletes mixed in.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const count = 50
	const deleted = 20

	toSet := randModels(count, 8, 40)
	toDel := randModels(deleted, 8, 40)
	expect := sortedByKey(toSet)
	ops := append(
		setOps(toSet...),
		delOps(toDel...)...)

	parentSet := randModels(count, 8, 40)
	parentDel := randModels(deleted, 8, 40)
	parentOps := append(
		setOps(parentSet...),
		delOps(parentDel...)...)

	both := sortedByKey(append(toSet, parentSet...))

	cases := map[string]iterCase{
		"just write to a child with empty parent": {
			pre:   nil,
			child: ops,
			queries: []rangeQuery{
				// forward: unbounded, lower, upper, both bounds
				{nil, nil, false, expect},
				{expect[12].Key, nil, false, expect[12:]},
				{nil, expect[count-5].Key, false, expect[:count-5]},
				{expect[15].Key, expect[31].Key, false, expect[15:31]},

				// reverse: unbounded, lower, upper, both bounds
				{nil, nil, true, reversed(expect)},
				{expect[30].Key, nil, true, reversed(expect[30:])},
				{nil, expect[21].Key, true, reversed(expect[:21])},
				{expect[4].Key, expect[24].Key, true, reversed(expect[4:24])},
			},
		},
		"iterator combines child and parent": {
			pre:   parentOps,
			child: ops,
			queries: []rangeQuery{
				// forward: unbounded, lower, upper, both bounds
				{nil, nil, false, both},
				{both[12].Key, nil, false, both[12:]},
				{nil, both[count-5].Key, false, both[:count-5]},
				{both[15].Key, both[31].Key, false, both[15:31]},

				// reverse: unbounded, lower, upper, both bounds
				{nil, nil, true, reversed(both)},
				{both[30].Key, nil, true, reversed(both[30:])},
				{nil, both[21].Key, true, reversed(both[:21])},
				{both[4].Key, both[24].Key, true, reversed(both[4:24])},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.newStore()
			defer cleanup()

			tc.verify(t, base)
		})
	}
}

// IteratorWithConflicts pins down cases that once fell out of the fuzzer:
// shadowed keys, deletes hiding parent values, ranges cut short.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	ms := randModels(6, 20, 100)
	a, a2, b, b2, c, d := ms[0], ms[1], ms[2], ms[3], ms[4], ms[5]
	// a2, b2 shadow a and b under different values
	a2.Key = a.Key
	b2.Key = b.Key

	expect0 := sortedByKey([]Model{a, b, c})
	expect1 := sortedByKey([]Model{a2, b2, c, d})
	expect2 := []Model{c}

	cases := map[string]iterCase{
		"iterate in child only": {
			child: setOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, expect0},
				{expect0[1].Key, expect0[2].Key, false, expect0[1:2]},
				{nil, nil, true, reversed(expect0)},
			},
		},
		"iterate over parent only": {
			pre: setOps(a, b, c),
			queries: []rangeQuery{
				{nil, nil, false, expect0},
				{expect0[1].Key, expect0[2].Key, false, expect0[1:2]},
				{nil, nil, true, reversed(expect0)},
			},
		},
		"simple combination": {
			pre:   setOps(a, b),
			child: setOps(c),
			queries: []rangeQuery{
				{nil, nil, false, expect0},
				{expect0[1].Key, expect0[2].Key, false, expect0[1:2]},
				{nil, nil, true, reversed(expect0)},
			},
		},
		"overwritten keys show child values": {
			pre:   setOps(a, b, c),
			child: setOps(a2, b2, d),
			queries: []rangeQuery{
				{nil, nil, false, expect1},
				{expect1[1].Key, expect1[3].Key, false, expect1[1:3]},
				{nil, nil, true, reversed(expect1)},
			},
		},
		"child deletes hide parent values": {
			pre:   setOps(a, c, d),
			child: delOps(a, b, d),
			queries: []rangeQuery{
				{nil, nil, false, expect2},
				// the range ends before the only survivor
				{nil, c.Key, false, nil},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.newStore()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

// AssertGetHas checks that Get and Has agree on the presence and value of a
// key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	rand.Read(res)
	return res
}

func randBlobs(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := 0; i < count; i++ {
		res[i] = randBytes(size)
	}
	return res
}

func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := 0; i < count; i++ {
		models[i].Key = randBytes(keySize)
		models[i].Value = randBytes(valueSize)
	}
	return models
}

// iterCase writes two layers of data and checks a series of range queries
// against the child layer.
type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

func (ic iterCase) verify(t testing.TB, base CacheableKVStore) {
	for _, op := range ic.pre {
		assert.Nil(t, op.Apply(base))
	}

	child := base.CacheWrap()
	for _, op := range ic.child {
		assert.Nil(t, op.Apply(child))
	}

	for _, q := range ic.queries {
		var iter Iterator
		var err error
		if q.reverse {
			iter, err = child.ReverseIterator(q.start, q.end)
		} else {
			iter, err = child.Iterator(q.start, q.end)
		}
		assert.Nil(t, err)

		for i := 0; i < len(q.expected); i++ {
			key, value, err := iter.Next()
			assert.Nil(t, err)
			if !bytes.Equal(q.expected[i].Key, key) {
				t.Fatalf("expected key: %X\ngot key %d = %X", q.expected[i].Key, i, key)
			}
			assert.Equal(t, q.expected[i].Value, value)
		}
		if _, _, err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
			t.Fatalf("expected the iterator to be exhausted, got %+v", err)
		}
		iter.Release()
	}
}

// rangeQuery describes one iteration and the models it must visit in order.
type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortedByKey(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func setOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func delOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
