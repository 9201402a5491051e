package cash

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/x"
)

// RegisterRoutes attaches all handlers of this package to the registry.
func RegisterRoutes(r abacus.Registry, auth x.Authenticator, control Controller) {
	r = migration.SchemaMigratingRegistry("cash", r)

	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// RegisterQuery makes the wallets available under "/wallets".
func RegisterQuery(qr abacus.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler processes coin transfers between two accounts.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ abacus.Handler = SendHandler{}

// NewSendHandler builds the handler processing SendMsg transactions.
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

// validate loads the message and ensures the source authorized the
// transfer.
func (h SendHandler) validate(ctx abacus.Context, tx abacus.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source approval missing")
	}
	return &msg, nil
}

// Check verifies that the transfer is well formed and authorized, and
// prices its execution. Funds are not checked until delivery.
func (h SendHandler) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the coins from source to destination.
func (h SendHandler) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{}, nil
}
