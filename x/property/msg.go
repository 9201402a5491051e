package property

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
)

func init() {
	migration.MustRegister(1, &RegisterDeedMsg{}, migration.NoModification)
	migration.MustRegister(1, &OfferDeedMsg{}, migration.NoModification)
	migration.MustRegister(1, &TransferDeedMsg{}, migration.NoModification)
	migration.MustRegister(1, &BuyDeedMsg{}, migration.NoModification)
}

const (
	pathRegisterDeedMsg = "property/register"
	pathOfferDeedMsg    = "property/offer"
	pathTransferDeedMsg = "property/transfer"
	pathBuyDeedMsg      = "property/buy"

	registerDeedCost int64 = 150
	offerDeedCost    int64 = 50
	transferDeedCost int64 = 100
	buyDeedCost      int64 = 200
)

var (
	_ abacus.Msg = (*RegisterDeedMsg)(nil)
	_ abacus.Msg = (*OfferDeedMsg)(nil)
	_ abacus.Msg = (*TransferDeedMsg)(nil)
	_ abacus.Msg = (*BuyDeedMsg)(nil)
)

// RegisterDeedMsg deeds an unclaimed parcel to the main signer.
type RegisterDeedMsg struct {
	Metadata *abacus.Metadata `json:"metadata"`
	Parcel   string           `json:"parcel"`
}

func (m *RegisterDeedMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (RegisterDeedMsg) Path() string {
	return pathRegisterDeedMsg
}

func (m *RegisterDeedMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !isParcel(m.Parcel) {
		errs = errors.Append(errs,
			errors.Field("Parcel", ErrInvalidParcel, "%q", m.Parcel))
	}
	return errs
}

func (m *RegisterDeedMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RegisterDeedMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// OfferDeedMsg sets the asked price of a deed, or revokes an open offer
// when sent without a price. Only the deed owner can do either.
type OfferDeedMsg struct {
	Metadata *abacus.Metadata `json:"metadata"`
	DeedID   []byte           `json:"deed_id"`
	Price    *coin.Coin       `json:"price,omitempty"`
}

func (m *OfferDeedMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (OfferDeedMsg) Path() string {
	return pathOfferDeedMsg
}

func (m *OfferDeedMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, validateDeedID(m.DeedID))
	if m.Price != nil {
		errs = errors.Append(errs, validatePrice("Price", m.Price))
	}
	return errs
}

func (m *OfferDeedMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *OfferDeedMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// TransferDeedMsg gives the deed away to the recipient with no payment
// involved. An open offer is revoked, the new owner decides the terms.
type TransferDeedMsg struct {
	Metadata  *abacus.Metadata `json:"metadata"`
	DeedID    []byte           `json:"deed_id"`
	Recipient abacus.Address   `json:"recipient"`
}

func (m *TransferDeedMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (TransferDeedMsg) Path() string {
	return pathTransferDeedMsg
}

func (m *TransferDeedMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, validateDeedID(m.DeedID))
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	return errs
}

func (m *TransferDeedMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *TransferDeedMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// BuyDeedMsg buys an offered deed for the main signer. The asked price
// moves from the buyer to the current owner and the offer closes.
type BuyDeedMsg struct {
	Metadata *abacus.Metadata `json:"metadata"`
	DeedID   []byte           `json:"deed_id"`
}

func (m *BuyDeedMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (BuyDeedMsg) Path() string {
	return pathBuyDeedMsg
}

func (m *BuyDeedMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, validateDeedID(m.DeedID))
	return errs
}

func (m *BuyDeedMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *BuyDeedMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

func validatePrice(fieldName string, price *coin.Coin) error {
	if price == nil || !price.IsPositive() {
		return errors.Field(fieldName, errors.ErrInvalidAmount, "non-positive price")
	}
	if err := price.Validate(); err != nil {
		return errors.Field(fieldName, err, "")
	}
	return nil
}

func validateDeedID(id []byte) error {
	if len(id) != 8 {
		return errors.Field("DeedID", errors.ErrInvalidInput, "id %X", id)
	}
	return nil
}
