package abacustest

import "github.com/abacuslab/abacus"

// Decorator is a configurable abacus.Decorator mock.
//
// With CheckErr or DeliverErr set the corresponding method fails right away
// without consulting the next element of the stack, otherwise the call is
// forwarded. Calls are counted either way.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checks   int
	delivers int
}

var _ abacus.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx, next abacus.Checker) (*abacus.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return &abacus.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx, next abacus.Deliverer) (*abacus.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return &abacus.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// CheckCallCount returns the number of times Check was called.
func (d *Decorator) CheckCallCount() int {
	return d.checks
}

// DeliverCallCount returns the number of times Deliver was called.
func (d *Decorator) DeliverCallCount() int {
	return d.delivers
}

// CallCount returns the number of times Check or Deliver was called.
func (d *Decorator) CallCount() int {
	return d.checks + d.delivers
}
