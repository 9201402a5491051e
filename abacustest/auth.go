package abacustest

import (
	"context"
	"fmt"

	"github.com/abacuslab/abacus"
)

// Auth is an x.Authenticator mock that authenticates a fixed set of
// conditions, ignoring the context.
//
// Signer and Signers can be combined. All referenced conditions count, with
// the Signers list coming first.
type Auth struct {
	// Signer is a shortcut for declaring a single condition.
	Signer abacus.Condition

	// Signers declares any number of conditions.
	Signers []abacus.Condition
}

func (a *Auth) GetConditions(abacus.Context) []abacus.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	// The full slice expression forces a copy, appending must not leak
	// into the Signers backing array.
	return append(a.Signers[:len(a.Signers):len(a.Signers)], a.Signer)
}

func (a *Auth) HasAddress(ctx abacus.Context, addr abacus.Address) bool {
	for _, cond := range a.GetConditions(ctx) {
		if addr.Equals(cond.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is an x.Authenticator mock that carries conditions in the context
// itself. Use SetConditions to produce a context that authenticates them.
type CtxAuth struct {
	// Key addresses the conditions within the context. Only string keys
	// are supported.
	Key string
}

func (a *CtxAuth) SetConditions(ctx abacus.Context, conds ...abacus.Condition) abacus.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx abacus.Context) []abacus.Condition {
	switch conds := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []abacus.Condition:
		return conds
	default:
		panic(fmt.Sprintf("conditions stored under %q are of type %T", a.Key, conds))
	}
}

func (a *CtxAuth) HasAddress(ctx abacus.Context, addr abacus.Address) bool {
	for _, cond := range a.GetConditions(ctx) {
		if addr.Equals(cond.Address()) {
			return true
		}
	}
	return false
}
