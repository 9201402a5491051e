package utils

import "github.com/abacuslab/abacus"

// TestHelpers bundles the fake handlers and decorators that the decorator
// tests are built from, so other packages can import them as one object.
type TestHelpers struct{}

// PanicHandler returns a handler that panics with the given value on every
// call.
func (TestHelpers) PanicHandler(err error) abacus.Handler {
	return explodingHandler{err: err}
}

// WriteHandler returns a handler that stores the key value pair on every
// call and then returns err, which may be nil.
func (TestHelpers) WriteHandler(key, value []byte, err error) abacus.Handler {
	return setKVHandler{key: key, value: value, err: err}
}

// WriteDecorator returns a decorator that stores the key value pair, before
// or after calling down the stack. The result of the next handler is passed
// through untouched.
func (TestHelpers) WriteDecorator(key, value []byte, after bool) abacus.Decorator {
	return setKVDecorator{key: key, value: value, after: after}
}

type explodingHandler struct {
	err error
}

var _ abacus.Handler = explodingHandler{}

func (h explodingHandler) Check(abacus.Context, abacus.KVStore, abacus.Tx) (*abacus.CheckResult, error) {
	panic(h.err)
}

func (h explodingHandler) Deliver(abacus.Context, abacus.KVStore, abacus.Tx) (*abacus.DeliverResult, error) {
	panic(h.err)
}

type setKVHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ abacus.Handler = setKVHandler{}

func (h setKVHandler) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{}, h.err
}

func (h setKVHandler) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{}, h.err
}

type setKVDecorator struct {
	key   []byte
	value []byte
	after bool
}

var _ abacus.Decorator = setKVDecorator{}

func (d setKVDecorator) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx, next abacus.Checker) (*abacus.CheckResult, error) {
	if !d.after {
		if err := store.Set(d.key, d.value); err != nil {
			return nil, err
		}
	}
	res, err := next.Check(ctx, store, tx)
	if d.after {
		if err := store.Set(d.key, d.value); err != nil {
			return nil, err
		}
	}
	return res, err
}

func (d setKVDecorator) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx, next abacus.Deliverer) (*abacus.DeliverResult, error) {
	if !d.after {
		if err := store.Set(d.key, d.value); err != nil {
			return nil, err
		}
	}
	res, err := next.Deliver(ctx, store, tx)
	if d.after {
		if err := store.Set(d.key, d.value); err != nil {
			return nil, err
		}
	}
	return res, err
}
