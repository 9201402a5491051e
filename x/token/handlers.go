package token

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/x"
)

// RegisterRoutes attaches all message handlers of this package to the
// given registry.
func RegisterRoutes(r abacus.Registry, auth x.Authenticator, control *Controller) {
	r = migration.SchemaMigratingRegistry(packageName, r)

	r.Handle(pathCreateTokenMsg, CreateTokenHandler{auth, control})
	r.Handle(pathTransferMsg, TransferHandler{auth, control})
	r.Handle(pathApproveMsg, ApproveHandler{auth, control})
	r.Handle(pathTransferFromMsg, TransferFromHandler{auth, control})
}

// RegisterQuery makes tokens, balances and allowances available under
// their bucket names.
func RegisterQuery(qr abacus.QueryRouter) {
	NewTokenBucket().Register("tokens", qr)
	NewBalanceBucket().Register("tokenbalances", qr)
	NewAllowanceBucket().Register("tokenallowances", qr)
}

// mainSigner resolves the address this call is attributed to.
func mainSigner(ctx abacus.Context, auth x.Authenticator) (abacus.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

// CreateTokenHandler issues a new token to the main signer.
type CreateTokenHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = CreateTokenHandler{}

func (h CreateTokenHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: createTokenCost}, nil
}

func (h CreateTokenHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	t, err := h.control.CreateToken(db, signer, msg.Ticker, msg.Name, *msg.TotalSupply)
	if err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data:   []byte(t.Ticker),
		Events: []abacus.Event{tokenCreatedEvent(t.Ticker, signer, *t.TotalSupply)},
	}, nil
}

func (h CreateTokenHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*CreateTokenMsg, abacus.Address, error) {
	var msg CreateTokenMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// TransferHandler moves tokens out of the main signer balance.
type TransferHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: transferCost}, nil
}

func (h TransferHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(db, signer, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Events: []abacus.Event{tokenTransferredEvent(signer, msg.Destination, *msg.Amount)},
	}, nil
}

func (h TransferHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*TransferMsg, abacus.Address, error) {
	var msg TransferMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// ApproveHandler sets the allowance of a spender over the main signer
// balance.
type ApproveHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = ApproveHandler{}

func (h ApproveHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: approveCost}, nil
}

func (h ApproveHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Approve(db, signer, msg.Spender, *msg.Amount); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Events: []abacus.Event{tokenApprovedEvent(signer, msg.Spender, *msg.Amount)},
	}, nil
}

func (h ApproveHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*ApproveMsg, abacus.Address, error) {
	var msg ApproveMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// TransferFromHandler moves tokens out of another balance within the
// allowance granted to the main signer.
type TransferFromHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = TransferFromHandler{}

func (h TransferFromHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: transferFromCost}, nil
}

func (h TransferFromHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.TransferFrom(db, signer, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Events: []abacus.Event{tokenTransferredEvent(msg.Source, msg.Destination, *msg.Amount)},
	}, nil
}

func (h TransferFromHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*TransferFromMsg, abacus.Address, error) {
	var msg TransferFromMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}
