package multisig

import (
	"strconv"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/x"
)

// RegisterRoutes attaches all message handlers of this package to the
// given registry.
func RegisterRoutes(r abacus.Registry, auth x.Authenticator, control *Controller) {
	r = migration.SchemaMigratingRegistry(packageName, r)

	r.Handle(pathInitializeMsg, InitializeHandler{auth, control})
	r.Handle(pathAddOwnerMsg, AddOwnerHandler{auth, control})
	r.Handle(pathRemoveOwnerMsg, RemoveOwnerHandler{auth, control})
	r.Handle(pathReplaceOwnerMsg, ReplaceOwnerHandler{auth, control})
	r.Handle(pathSubmitTransactionMsg, SubmitTransactionHandler{auth, control})
	r.Handle(pathSignTransactionMsg, SignTransactionHandler{auth, control})
	r.Handle(pathUnsignTransactionMsg, UnsignTransactionHandler{auth, control})
	r.Handle(pathRejectTransactionMsg, RejectTransactionHandler{auth, control})
	r.Handle(pathUnrejectTransactionMsg, UnrejectTransactionHandler{auth, control})
	r.Handle(pathExecuteTransactionMsg, ExecuteTransactionHandler{auth, control})
	r.Handle(pathDepositMsg, DepositHandler{auth, control})
}

// Note that there is no RegisterQuery for this package. Raw bucket queries
// would leak wallet state to anyone, while every read must pass the owner
// gate of the Controller.

// mainSigner resolves the address this call is attributed to.
func mainSigner(ctx abacus.Context, auth x.Authenticator) (abacus.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

// InitializeHandler establishes the wallet registry.
type InitializeHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = InitializeHandler{}

func (h InitializeHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: initializeCost}, nil
}

func (h InitializeHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Initialize(db, msg.Owners, msg.Threshold); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{}, nil
}

func (h InitializeHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*InitializeMsg, abacus.Address, error) {
	var msg InitializeMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// AddOwnerHandler grants voting rights to a new owner.
type AddOwnerHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = AddOwnerHandler{}

func (h AddOwnerHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: updateOwnersCost}, nil
}

func (h AddOwnerHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.AddOwner(db, signer, msg.Owner); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Events: []abacus.Event{ownerEvent(EventOwnerAdded, msg.Owner)},
	}, nil
}

func (h AddOwnerHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*AddOwnerMsg, abacus.Address, error) {
	var msg AddOwnerMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// RemoveOwnerHandler revokes the voting rights of an owner.
type RemoveOwnerHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = RemoveOwnerHandler{}

func (h RemoveOwnerHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: updateOwnersCost}, nil
}

func (h RemoveOwnerHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.RemoveOwner(db, signer, msg.Owner); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Events: []abacus.Event{ownerEvent(EventOwnerRemoved, msg.Owner)},
	}, nil
}

func (h RemoveOwnerHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*RemoveOwnerMsg, abacus.Address, error) {
	var msg RemoveOwnerMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// ReplaceOwnerHandler substitutes one owner for another.
type ReplaceOwnerHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = ReplaceOwnerHandler{}

func (h ReplaceOwnerHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: updateOwnersCost}, nil
}

func (h ReplaceOwnerHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.ReplaceOwner(db, signer, msg.OldOwner, msg.NewOwner); err != nil {
		return nil, err
	}
	// A replacement is observable as a removal followed by an addition.
	return &abacus.DeliverResult{
		Events: []abacus.Event{
			ownerEvent(EventOwnerRemoved, msg.OldOwner),
			ownerEvent(EventOwnerAdded, msg.NewOwner),
		},
	}, nil
}

func (h ReplaceOwnerHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*ReplaceOwnerMsg, abacus.Address, error) {
	var msg ReplaceOwnerMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// SubmitTransactionHandler proposes a new transfer out of the wallet.
type SubmitTransactionHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = SubmitTransactionHandler{}

func (h SubmitTransactionHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: submitTxCost}, nil
}

func (h SubmitTransactionHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	id, proposal, err := h.control.SubmitTransaction(ctx, db, signer, msg.Destination, *msg.Amount, msg.Payload)
	if err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data: id,
		Events: []abacus.Event{
			abacus.NewEvent(EventTransactionSubmitted,
				attrCaller, signer.String(),
				attrID, txIDValue(id),
				attrTimestamp, strconv.FormatInt(int64(proposal.CreatedAt), 10),
			),
		},
	}, nil
}

func (h SubmitTransactionHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*SubmitTransactionMsg, abacus.Address, error) {
	var msg SubmitTransactionMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// SignTransactionHandler casts an approval vote. The vote that reaches the
// threshold also settles the transaction, so a single delivery can emit
// both the vote event and the approval event.
type SignTransactionHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = SignTransactionHandler{}

func (h SignTransactionHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: voteTxCost}, nil
}

func (h SignTransactionHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	proposal, err := h.control.SignTransaction(db, signer, msg.TransactionID)
	if err != nil {
		return nil, err
	}
	events := []abacus.Event{voteEvent(EventTransactionSigned, signer, msg.TransactionID)}
	if proposal.Status == TransactionApproved {
		events = append(events, voteEvent(EventTransactionApproved, signer, msg.TransactionID))
	}
	return &abacus.DeliverResult{Events: events}, nil
}

func (h SignTransactionHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*SignTransactionMsg, abacus.Address, error) {
	var msg SignTransactionMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// UnsignTransactionHandler withdraws an approval vote.
type UnsignTransactionHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = UnsignTransactionHandler{}

func (h UnsignTransactionHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: voteTxCost}, nil
}

func (h UnsignTransactionHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.control.UnsignTransaction(db, signer, msg.TransactionID); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Events: []abacus.Event{voteEvent(EventTransactionUnsigned, signer, msg.TransactionID)},
	}, nil
}

func (h UnsignTransactionHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*UnsignTransactionMsg, abacus.Address, error) {
	var msg UnsignTransactionMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// RejectTransactionHandler casts a rejection vote. Like an approval, the
// crossing vote settles the transaction and emits a second event.
type RejectTransactionHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = RejectTransactionHandler{}

func (h RejectTransactionHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: voteTxCost}, nil
}

func (h RejectTransactionHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	proposal, err := h.control.RejectTransaction(db, signer, msg.TransactionID)
	if err != nil {
		return nil, err
	}
	events := []abacus.Event{voteEvent(EventTransactionIndividuallyRejected, signer, msg.TransactionID)}
	if proposal.Status == TransactionRejected {
		events = append(events, voteEvent(EventTransactionRejected, signer, msg.TransactionID))
	}
	return &abacus.DeliverResult{Events: events}, nil
}

func (h RejectTransactionHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*RejectTransactionMsg, abacus.Address, error) {
	var msg RejectTransactionMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// UnrejectTransactionHandler withdraws a rejection vote.
type UnrejectTransactionHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = UnrejectTransactionHandler{}

func (h UnrejectTransactionHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: voteTxCost}, nil
}

func (h UnrejectTransactionHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.control.UnrejectTransaction(db, signer, msg.TransactionID); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Events: []abacus.Event{voteEvent(EventTransactionUnrejected, signer, msg.TransactionID)},
	}, nil
}

func (h UnrejectTransactionHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*UnrejectTransactionMsg, abacus.Address, error) {
	var msg UnrejectTransactionMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// ExecuteTransactionHandler pays out an approved transaction.
type ExecuteTransactionHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = ExecuteTransactionHandler{}

func (h ExecuteTransactionHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: executeTxCost}, nil
}

func (h ExecuteTransactionHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.control.ExecuteTransaction(ctx, db, signer, msg.TransactionID); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Events: []abacus.Event{
			abacus.NewEvent(EventTransactionExecuted, attrID, txIDValue(msg.TransactionID)),
		},
	}, nil
}

func (h ExecuteTransactionHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*ExecuteTransactionMsg, abacus.Address, error) {
	var msg ExecuteTransactionMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// DepositHandler credits the wallet holding account from the signer
// account.
type DepositHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: depositTxCost}, nil
}

func (h DepositHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.control.Deposit(ctx, db, signer, *msg.Amount); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Events: []abacus.Event{
			abacus.NewEvent(EventDepositMade,
				attrCaller, signer.String(),
				attrAmount, msg.Amount.String(),
			),
		},
	}, nil
}

func (h DepositHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*DepositMsg, abacus.Address, error) {
	var msg DepositMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}
