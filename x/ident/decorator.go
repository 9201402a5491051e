/*
Package ident injects the calling principals into the request Context.

The engine processes calls on behalf of principals that were authenticated
before the transaction got here. A transaction envelope declares them through
the abacus.PrincipalDeclarer interface and this decorator makes them
available to every downstream handler via the Authenticate authenticator.
*/
package ident

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// Decorator copies the declared principals from the transaction envelope
// into the context
type Decorator struct {
	allowMissingPrincipals bool
}

var _ abacus.Decorator = Decorator{}

// NewDecorator returns a decorator that rejects any transaction declaring
// no principal at all.
func NewDecorator() Decorator {
	return Decorator{
		allowMissingPrincipals: false,
	}
}

// AllowMissingPrincipals returns a copy of the decorator that lets
// transactions without a declared principal through.
func (d Decorator) AllowMissingPrincipals() Decorator {
	d.allowMissingPrincipals = true
	return d
}

// Check declares principals before calling down the stack.
func (d Decorator) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx, next abacus.Checker) (*abacus.CheckResult, error) {
	dtx, ok := tx.(abacus.PrincipalDeclarer)
	if !ok {
		return next.Check(ctx, store, tx)
	}

	principals, err := declaredPrincipals(dtx)
	if err != nil {
		return nil, err
	}
	if len(principals) == 0 && !d.allowMissingPrincipals {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing principal")
	}

	ctx = withPrincipals(ctx, principals)
	return next.Check(ctx, store, tx)
}

// Deliver declares principals before calling down the stack.
func (d Decorator) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx, next abacus.Deliverer) (*abacus.DeliverResult, error) {
	dtx, ok := tx.(abacus.PrincipalDeclarer)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	principals, err := declaredPrincipals(dtx)
	if err != nil {
		return nil, err
	}
	if len(principals) == 0 && !d.allowMissingPrincipals {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing principal")
	}

	ctx = withPrincipals(ctx, principals)
	return next.Deliver(ctx, store, tx)
}

// declaredPrincipals returns the validated principal conditions of the
// envelope. A malformed declaration fails the whole transaction.
func declaredPrincipals(tx abacus.PrincipalDeclarer) ([]abacus.Condition, error) {
	principals := tx.GetPrincipals()
	for i, p := range principals {
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "principal %d", i)
		}
	}
	return principals, nil
}
