package property

import (
	"strconv"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/orm"
)

// Event types emitted by the property handlers.
const (
	EventDeedRegistered   = "DeedRegistered"
	EventDeedOffered      = "DeedOffered"
	EventDeedOfferRevoked = "DeedOfferRevoked"
	EventDeedTransferred  = "DeedTransferred"
	EventDeedSold         = "DeedSold"

	attrID        = "id"
	attrParcel    = "parcel"
	attrOwner     = "owner"
	attrRecipient = "recipient"
	attrBuyer     = "buyer"
	attrSeller    = "seller"
	attrPrice     = "price"
)

func deedRegisteredEvent(id []byte, d *Deed) abacus.Event {
	return abacus.NewEvent(EventDeedRegistered,
		attrID, deedIDValue(id),
		attrParcel, d.Parcel,
		attrOwner, d.Owner.String(),
	)
}

func deedOfferedEvent(id []byte, d *Deed, price coin.Coin) abacus.Event {
	return abacus.NewEvent(EventDeedOffered,
		attrID, deedIDValue(id),
		attrParcel, d.Parcel,
		attrPrice, price.String(),
	)
}

func deedOfferRevokedEvent(id []byte, d *Deed) abacus.Event {
	return abacus.NewEvent(EventDeedOfferRevoked,
		attrID, deedIDValue(id),
		attrParcel, d.Parcel,
	)
}

func deedTransferredEvent(id []byte, d *Deed, previous abacus.Address) abacus.Event {
	return abacus.NewEvent(EventDeedTransferred,
		attrID, deedIDValue(id),
		attrParcel, d.Parcel,
		attrOwner, previous.String(),
		attrRecipient, d.Owner.String(),
	)
}

func deedSoldEvent(id []byte, d *Deed, seller abacus.Address, price coin.Coin) abacus.Event {
	return abacus.NewEvent(EventDeedSold,
		attrID, deedIDValue(id),
		attrParcel, d.Parcel,
		attrSeller, seller.String(),
		attrBuyer, d.Owner.String(),
		attrPrice, price.String(),
	)
}

// deedIDValue renders a deed id the way it was issued, as a decimal
// counter starting with zero.
func deedIDValue(id []byte) string {
	return strconv.FormatInt(orm.DecodeSequence(id), 10)
}
