package ident

import (
	"context"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/x"
)

type contextKey int // local to the ident module

const (
	contextKeyPrincipals contextKey = iota
)

// withPrincipals stays private so that no other package can smuggle
// principals into a context.
func withPrincipals(ctx abacus.Context, principals []abacus.Condition) abacus.Context {
	return context.WithValue(ctx, contextKeyPrincipals, principals)
}

// Authenticate implements x.Authenticator backed by the principals that the
// Decorator copied into the Context.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the principals calling in the current Context,
// possibly none.
func (a Authenticate) GetConditions(ctx abacus.Context) []abacus.Condition {
	// The two value form keeps an unset context from panicking.
	val, _ := ctx.Value(contextKeyPrincipals).([]abacus.Condition)
	return val
}

// HasAddress reports whether some calling principal matches the address.
func (a Authenticate) HasAddress(ctx abacus.Context, addr abacus.Address) bool {
	for _, p := range a.GetConditions(ctx) {
		if addr.Equals(p.Address()) {
			return true
		}
	}
	return false
}
