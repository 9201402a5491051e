package property

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/orm"
	"github.com/abacuslab/abacus/x/cash"
)

const packageName = "property"

// Controller is the single entry point to the deed registry. It owns the
// deed records and settles purchases through the cash controller.
type Controller struct {
	deeds DeedBucket
	mover cash.Controller
}

// NewController returns a controller settling purchases through the given
// cash controller.
func NewController(mover cash.Controller) *Controller {
	return &Controller{
		deeds: NewDeedBucket(),
		mover: mover,
	}
}

// Register deeds an unclaimed parcel to the owner. Every parcel can be
// deeded once, a freed parcel never exists because deeds are not deleted.
func (c *Controller) Register(db abacus.KVStore, owner abacus.Address, parcel string) ([]byte, *Deed, error) {
	switch _, _, err := c.deeds.GetByParcel(db, parcel); {
	case err == nil:
		return nil, nil, errors.Wrapf(ErrDuplicateParcel, "%q", parcel)
	case ErrUnknownDeed.Is(err):
		// Unclaimed parcel, proceed.
	default:
		return nil, nil, err
	}
	d := &Deed{
		Metadata: &abacus.Metadata{Schema: 1},
		Parcel:   parcel,
		Owner:    owner,
	}
	id, err := c.deeds.Create(db, d)
	if err != nil {
		return nil, nil, err
	}
	return id, d, nil
}

// Offer sets the asked price of the deed, or revokes an open offer when
// called without a price. Only the deed owner can do either.
func (c *Controller) Offer(db abacus.KVStore, caller abacus.Address, id []byte, price *coin.Coin) (*Deed, error) {
	d, err := c.deeds.GetDeed(db, id)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(d.Owner) {
		return nil, errors.Wrapf(ErrNotDeedOwner, "%s", caller)
	}
	if price != nil && !price.IsPositive() {
		return nil, errors.Wrapf(errors.ErrInvalidAmount, "non-positive price: %#v", price)
	}
	d.Price = price
	if err := c.deeds.Save(db, orm.NewSimpleObj(id, d)); err != nil {
		return nil, err
	}
	return d, nil
}

// Transfer gives the deed away to the recipient. No payment is involved
// and an open offer is revoked.
func (c *Controller) Transfer(db abacus.KVStore, caller abacus.Address, id []byte, recipient abacus.Address) (*Deed, error) {
	d, err := c.deeds.GetDeed(db, id)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(d.Owner) {
		return nil, errors.Wrapf(ErrNotDeedOwner, "%s", caller)
	}
	if recipient.Equals(d.Owner) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "recipient %s holds the deed already", recipient)
	}
	d.Owner = recipient
	d.Price = nil
	if err := c.deeds.Save(db, orm.NewSimpleObj(id, d)); err != nil {
		return nil, err
	}
	return d, nil
}

// Buy moves the asked price from the buyer to the deed owner and the
// title the other way. The offer closes with the purchase. The paid
// seller and price are returned next to the updated deed.
func (c *Controller) Buy(db abacus.KVStore, buyer abacus.Address, id []byte) (*Deed, abacus.Address, coin.Coin, error) {
	d, err := c.deeds.GetDeed(db, id)
	if err != nil {
		return nil, nil, coin.Coin{}, err
	}
	if d.Price == nil {
		return nil, nil, coin.Coin{}, errors.Wrapf(ErrNotForSale, "deed %d", orm.DecodeSequence(id))
	}
	if buyer.Equals(d.Owner) {
		return nil, nil, coin.Coin{}, errors.Wrapf(ErrOwnDeed, "%s", buyer)
	}
	seller, price := d.Owner, *d.Price
	if err := c.mover.MoveCoins(db, buyer, seller, price); err != nil {
		return nil, nil, coin.Coin{}, errors.Wrap(err, "payment")
	}
	d.Owner = buyer
	d.Price = nil
	if err := c.deeds.Save(db, orm.NewSimpleObj(id, d)); err != nil {
		return nil, nil, coin.Coin{}, err
	}
	return d, seller, price, nil
}

// GetDeed returns the deed stored under the given id.
func (c *Controller) GetDeed(db abacus.ReadOnlyKVStore, id []byte) (*Deed, error) {
	return c.deeds.GetDeed(db, id)
}

// GetByParcel returns the id and deed registered for the parcel.
func (c *Controller) GetByParcel(db abacus.ReadOnlyKVStore, parcel string) ([]byte, *Deed, error) {
	return c.deeds.GetByParcel(db, parcel)
}
