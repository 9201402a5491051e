package coin

import (
	"github.com/abacuslab/abacus/errors"
)

var (
	// ErrInvalidCurrency is returned on a malformed or mismatched ticker.
	ErrInvalidCurrency = errors.Register(130, "invalid currency code")

	// ErrInvalidCoin is returned when a coin value is out of range or
	// inconsistent.
	ErrInvalidCoin = errors.Register(131, "invalid coin")
)
