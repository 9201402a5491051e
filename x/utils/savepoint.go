package utils

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// Savepoint runs the wrapped handler against a cache of the store. The cache
// is written out only when the handler succeeds, so a failed call leaves no
// partial writes behind.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ abacus.Decorator = Savepoint{}

// NewSavepoint creates an inactive Savepoint decorator. Enable it with
// OnCheck or OnDeliver, or both.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for check processing.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for deliver processing.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check isolates the checker inside a cache when check savepoints are
// enabled. A store that cannot cache wrap is handed through unprotected.
func (s Savepoint) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx, next abacus.Checker) (*abacus.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	cstore, ok := store.(abacus.CacheableKVStore)
	if !ok {
		return next.Check(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}

// Deliver isolates the deliverer inside a cache when deliver savepoints are
// enabled. A store that cannot cache wrap is handed through unprotected.
func (s Savepoint) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx, next abacus.Deliverer) (*abacus.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	cstore, ok := store.(abacus.CacheableKVStore)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}
