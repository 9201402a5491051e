package x

import (
	"github.com/abacuslab/abacus"
)

// Authenticator answers who stands behind the currently processed
// transaction. Handlers take one in their constructor instead of reading the
// context themselves, so the authentication scheme can be swapped without
// touching any extension code.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled in this context, in
	// the order they were declared.
	GetConditions(abacus.Context) []abacus.Condition
	// HasAddress reports whether any fulfilled condition resolves to the
	// given address.
	HasAddress(abacus.Context, abacus.Address) bool
}

// MainSigner returns the first fulfilled condition, or nil when the context
// carries none. Extensions treat it as the acting party of a transaction.
func MainSigner(ctx abacus.Context, auth Authenticator) abacus.Condition {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	return conds[0]
}
