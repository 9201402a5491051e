package vault

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

	r.Handle(pathCreateVaultMsg, CreateVaultHandler{auth, control})
	r.Handle(pathDepositMsg, DepositHandler{auth, control})
	r.Handle(pathWithdrawMsg, WithdrawHandler{auth, control})
}

// RegisterQuery makes the vaults available under "/vaults".
func RegisterQuery(qr abacus.QueryRouter) {
	NewVaultBucket().Register("vaults", qr)
}

// mainSigner resolves the address this call is attributed to.
func mainSigner(ctx abacus.Context, auth x.Authenticator) (abacus.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

// CreateVaultHandler locks funds of the main signer in a new vault.
type CreateVaultHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = CreateVaultHandler{}

func (h CreateVaultHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: createVaultCost}, nil
}

func (h CreateVaultHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	id, v, err := h.control.Create(ctx, db, signer, msg.Beneficiary, *msg.Amount, msg.ReleaseAt, msg.Memo)
	if err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data:   id,
		Events: []abacus.Event{vaultCreatedEvent(id, v, *msg.Amount)},
	}, nil
}

func (h CreateVaultHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*CreateVaultMsg, abacus.Address, error) {
	var msg CreateVaultMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// DepositHandler tops up an existing vault from the main signer account.
type DepositHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: depositCost}, nil
}

func (h DepositHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.control.Deposit(db, signer, msg.VaultID, *msg.Amount); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Events: []abacus.Event{vaultDepositedEvent(msg.VaultID, signer, *msg.Amount)},
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

// WithdrawHandler pays a released vault out to the beneficiary.
type WithdrawHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = WithdrawHandler{}

func (h WithdrawHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: withdrawCost}, nil
}

func (h WithdrawHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	withdrawn, err := h.control.Withdraw(ctx, db, signer, msg.VaultID, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data:   msg.VaultID,
		Events: []abacus.Event{vaultWithdrawnEvent(msg.VaultID, signer, withdrawn)},
	}, nil
}

func (h WithdrawHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*WithdrawMsg, abacus.Address, error) {
	var msg WithdrawMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}
