package vault

import (
	"github.com/abacuslab/abacus/errors"
)

// Error codes 1400 to 1419 are reserved for this package.

var (
	// ErrNotReleased is returned when a withdrawal is attempted before
	// the release time has passed.
	ErrNotReleased = errors.Register(1400, "vault not released")

	// ErrNotBeneficiary is returned when anyone but the beneficiary
	// attempts a withdrawal.
	ErrNotBeneficiary = errors.Register(1401, "not the beneficiary")

	// ErrInsufficientVault is returned when a withdrawal asks for more
	// than the vault holds.
	ErrInsufficientVault = errors.Register(1402, "insufficient vault balance")

	// ErrUnknownVault is returned for an unknown vault id.
	ErrUnknownVault = errors.Register(1403, "unknown vault")
)
