package token

import (
	"github.com/abacuslab/abacus/errors"
)

// Error codes 1300 to 1319 are reserved for this package.

var (
	// ErrUnknownToken is returned when no token was issued under the
	// requested ticker.
	ErrUnknownToken = errors.Register(1300, "unknown token")

	// ErrDuplicateTicker is returned when issuing a token under a ticker
	// that is already taken.
	ErrDuplicateTicker = errors.Register(1301, "duplicate ticker")

	// ErrInsufficientBalance is returned when a transfer asks for more
	// than the source holds.
	ErrInsufficientBalance = errors.Register(1302, "insufficient balance")

	// ErrInsufficientAllowance is returned when a spender asks for more
	// than the remaining allowance covers.
	ErrInsufficientAllowance = errors.Register(1303, "insufficient allowance")

	// ErrInvalidTokenName is returned for a malformed human readable
	// token name.
	ErrInvalidTokenName = errors.Register(1304, "invalid token name")
)
