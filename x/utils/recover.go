package utils

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// Recovery catches panics raised anywhere below it in the decorator stack
// and converts them into regular errors. Place it at the top of the stack
// so a single broken transaction cannot take down the process.
type Recovery struct{}

var _ abacus.Decorator = Recovery{}

// NewRecovery returns the decorator. It carries no state.
func NewRecovery() Recovery {
	return Recovery{}
}

// Check runs the wrapped checker, converting a panic into an error result.
func (Recovery) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx, next abacus.Checker) (_ *abacus.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver runs the wrapped deliverer, converting a panic into an error
// result.
func (Recovery) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx, next abacus.Deliverer) (_ *abacus.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
