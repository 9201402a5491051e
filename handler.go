package abacus

// Handler is the innermost element of a processing stack. It implements
// the actual state transition for the messages it was registered for,
// for example moving cash between wallets.
type Handler interface {
	Checker
	Deliverer
}

// Checker inspects a transaction without applying it. It is split out of
// Handler so that a Decorator can demand only the check half of the next
// element in the stack.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer applies a transaction to the state. It is split out of
// Handler so that a Decorator can demand only the deliver half of the
// next element in the stack.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator sits in front of a Handler and provides functionality shared
// by many handlers, for example authentication or savepoints. It forwards
// to next to continue the stack.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is the write side of a Router. Extensions register their
// handlers under a message path during application setup.
type Registry interface {
	Handle(path string, h Handler)
}
