package multisig

import (
	"strconv"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/orm"
)

// Event types emitted by this package. Together with their attributes they
// are the audit surface of the wallet, delivered to every subscribed sink
// after a successful commit.
const (
	EventOwnerAdded   = "OwnerAdded"
	EventOwnerRemoved = "OwnerRemoved"

	EventTransactionSubmitted            = "TransactionSubmitted"
	EventTransactionSigned               = "TransactionSigned"
	EventTransactionApproved             = "TransactionApproved"
	EventTransactionUnsigned             = "TransactionUnsigned"
	EventTransactionIndividuallyRejected = "TransactionIndividuallyRejected"
	EventTransactionRejected             = "TransactionRejected"
	EventTransactionUnrejected           = "TransactionUnrejected"
	EventTransactionExecuted             = "TransactionExecuted"
	EventDepositMade                     = "DepositMade"

	attrOwner     = "owner"
	attrCaller    = "caller"
	attrID        = "id"
	attrTimestamp = "timestamp"
	attrAmount    = "amount"
)

func ownerEvent(typ string, owner abacus.Address) abacus.Event {
	return abacus.NewEvent(typ, attrOwner, owner.String())
}

func voteEvent(typ string, caller abacus.Address, id []byte) abacus.Event {
	return abacus.NewEvent(typ,
		attrCaller, caller.String(),
		attrID, txIDValue(id),
	)
}

// txIDValue renders a transaction id the way it was issued, as a decimal
// counter starting with zero.
func txIDValue(id []byte) string {
	return strconv.FormatInt(orm.DecodeSequence(id), 10)
}
