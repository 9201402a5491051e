package multisig

import (
	"github.com/abacuslab/abacus/errors"
)

// Error codes 1200 to 1219 are reserved for this package.

var (
	// ErrNotOwner is returned when the calling principal has no voting
	// rights in the wallet.
	ErrNotOwner = errors.Register(1200, "not an owner")

	// ErrNotContractOwner is returned when an owner management operation
	// is attempted by anyone but the controlling owner.
	ErrNotContractOwner = errors.Register(1201, "not the controlling owner")

	// ErrInvalidOwner is returned for a malformed owner address.
	ErrInvalidOwner = errors.Register(1202, "invalid owner")

	// ErrInvalidAddress is returned for a malformed destination address.
	ErrInvalidAddress = errors.Register(1203, "invalid address")

	// ErrInvalidTransaction is returned for an unknown transaction id.
	ErrInvalidTransaction = errors.Register(1204, "invalid transaction")

	// ErrInvalidConfiguration is returned when the wallet cannot be
	// established with the requested owners and threshold.
	ErrInvalidConfiguration = errors.Register(1205, "invalid configuration")

	// ErrAlreadyInitialized is returned on a second initialization attempt.
	ErrAlreadyInitialized = errors.Register(1206, "already initialized")

	// ErrAlreadyOwner guards against duplicate owner registration.
	ErrAlreadyOwner = errors.Register(1207, "already an owner")

	// ErrAlreadyApproved guards against a duplicate approval vote.
	ErrAlreadyApproved = errors.Register(1208, "already approved")

	// ErrAlreadyRejected guards against a duplicate rejection vote.
	ErrAlreadyRejected = errors.Register(1209, "already rejected")

	// ErrAlreadyExecuted guards against a second execution.
	ErrAlreadyExecuted = errors.Register(1210, "already executed")

	// ErrNotApprover is returned when withdrawing an approval that was
	// never cast.
	ErrNotApprover = errors.Register(1211, "not an approver")

	// ErrNotRejector is returned when withdrawing a rejection that was
	// never cast.
	ErrNotRejector = errors.Register(1212, "not a rejector")

	// ErrNotPending is returned when voting on a settled transaction.
	ErrNotPending = errors.Register(1213, "transaction not pending")

	// ErrOperationUnauthorized is returned for operations that are never
	// allowed for the caller in this state: voting on an own transaction,
	// removing the controlling owner, voting once the threshold is reached.
	ErrOperationUnauthorized = errors.Register(1214, "operation unauthorized")

	// ErrAtLeastOneOwner is returned when a removal would empty the wallet.
	ErrAtLeastOneOwner = errors.Register(1215, "at least one owner required")

	// ErrMaxOwnersReached is returned when the owner list is full.
	ErrMaxOwnersReached = errors.Register(1216, "maximum owners count reached")

	// ErrBadThreshold is returned when a removal would leave fewer owners
	// than the approval threshold requires.
	ErrBadThreshold = errors.Register(1217, "bad threshold")

	// ErrTxNotApproved is returned when executing a transaction that did
	// not settle as approved.
	ErrTxNotApproved = errors.Register(1218, "transaction not approved")
)
