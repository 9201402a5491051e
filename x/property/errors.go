package property

import (
	"github.com/abacuslab/abacus/errors"
)

// Error codes 1500 to 1519 are reserved for this package.

var (
	// ErrUnknownDeed is returned for an unknown deed id.
	ErrUnknownDeed = errors.Register(1500, "unknown deed")

	// ErrDuplicateParcel is returned when registering a parcel that is
	// already deeded.
	ErrDuplicateParcel = errors.Register(1501, "duplicate parcel")

	// ErrNotDeedOwner is returned when anyone but the deed owner attempts
	// to offer or transfer the deed.
	ErrNotDeedOwner = errors.Register(1502, "not the deed owner")

	// ErrNotForSale is returned when buying a deed without an open offer.
	ErrNotForSale = errors.Register(1503, "deed not for sale")

	// ErrOwnDeed is returned when the owner attempts to buy an own deed.
	ErrOwnDeed = errors.Register(1504, "cannot buy an own deed")

	// ErrInvalidParcel is returned for a malformed parcel reference.
	ErrInvalidParcel = errors.Register(1505, "invalid parcel")
)
