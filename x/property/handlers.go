package property

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

	r.Handle(pathRegisterDeedMsg, RegisterDeedHandler{auth, control})
	r.Handle(pathOfferDeedMsg, OfferDeedHandler{auth, control})
	r.Handle(pathTransferDeedMsg, TransferDeedHandler{auth, control})
	r.Handle(pathBuyDeedMsg, BuyDeedHandler{auth, control})
}

// RegisterQuery makes the deeds available under "/deeds" and their parcel
// index under "/deeds/parcel".
func RegisterQuery(qr abacus.QueryRouter) {
	NewDeedBucket().Register("deeds", qr)
}

// mainSigner resolves the address this call is attributed to.
func mainSigner(ctx abacus.Context, auth x.Authenticator) (abacus.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

// RegisterDeedHandler deeds an unclaimed parcel to the main signer.
type RegisterDeedHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = RegisterDeedHandler{}

func (h RegisterDeedHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: registerDeedCost}, nil
}

func (h RegisterDeedHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	id, d, err := h.control.Register(db, signer, msg.Parcel)
	if err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data:   id,
		Events: []abacus.Event{deedRegisteredEvent(id, d)},
	}, nil
}

func (h RegisterDeedHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*RegisterDeedMsg, abacus.Address, error) {
	var msg RegisterDeedMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// OfferDeedHandler sets or revokes the asked price of a deed.
type OfferDeedHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = OfferDeedHandler{}

func (h OfferDeedHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: offerDeedCost}, nil
}

func (h OfferDeedHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	d, err := h.control.Offer(db, signer, msg.DeedID, msg.Price)
	if err != nil {
		return nil, err
	}
	event := deedOfferRevokedEvent(msg.DeedID, d)
	if msg.Price != nil {
		event = deedOfferedEvent(msg.DeedID, d, *msg.Price)
	}
	return &abacus.DeliverResult{
		Data:   msg.DeedID,
		Events: []abacus.Event{event},
	}, nil
}

func (h OfferDeedHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*OfferDeedMsg, abacus.Address, error) {
	var msg OfferDeedMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// TransferDeedHandler gives a deed away to the recipient.
type TransferDeedHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = TransferDeedHandler{}

func (h TransferDeedHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: transferDeedCost}, nil
}

func (h TransferDeedHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	d, err := h.control.Transfer(db, signer, msg.DeedID, msg.Recipient)
	if err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data:   msg.DeedID,
		Events: []abacus.Event{deedTransferredEvent(msg.DeedID, d, signer)},
	}, nil
}

func (h TransferDeedHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*TransferDeedMsg, abacus.Address, error) {
	var msg TransferDeedMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// BuyDeedHandler buys an offered deed for the main signer.
type BuyDeedHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = BuyDeedHandler{}

func (h BuyDeedHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: buyDeedCost}, nil
}

func (h BuyDeedHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	d, seller, price, err := h.control.Buy(db, signer, msg.DeedID)
	if err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data:   msg.DeedID,
		Events: []abacus.Event{deedSoldEvent(msg.DeedID, d, seller, price)},
	}, nil
}

func (h BuyDeedHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*BuyDeedMsg, abacus.Address, error) {
	var msg BuyDeedMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}
