package token

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
)

func init() {
	migration.MustRegister(1, &CreateTokenMsg{}, migration.NoModification)
	migration.MustRegister(1, &TransferMsg{}, migration.NoModification)
	migration.MustRegister(1, &ApproveMsg{}, migration.NoModification)
	migration.MustRegister(1, &TransferFromMsg{}, migration.NoModification)
}

const (
	pathCreateTokenMsg  = "token/create"
	pathTransferMsg     = "token/transfer"
	pathApproveMsg      = "token/approve"
	pathTransferFromMsg = "token/transfer_from"

	createTokenCost  int64 = 250
	transferCost     int64 = 100 // same as a plain send
	approveCost      int64 = 100
	transferFromCost int64 = 150 // touches the allowance on top of both balances
)

var (
	_ abacus.Msg = (*CreateTokenMsg)(nil)
	_ abacus.Msg = (*TransferMsg)(nil)
	_ abacus.Msg = (*ApproveMsg)(nil)
	_ abacus.Msg = (*TransferFromMsg)(nil)
)

// CreateTokenMsg issues a new token under a free ticker. The whole supply
// is minted to the main signer.
type CreateTokenMsg struct {
	Metadata    *abacus.Metadata `json:"metadata"`
	Ticker      string           `json:"ticker"`
	Name        string           `json:"name"`
	TotalSupply *coin.Coin       `json:"total_supply"`
}

func (m *CreateTokenMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (CreateTokenMsg) Path() string {
	return pathCreateTokenMsg
}

func (m *CreateTokenMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !coin.IsCC(m.Ticker) {
		errs = errors.Append(errs,
			errors.Field("Ticker", coin.ErrInvalidCurrency, "invalid ticker"))
	}
	if !isTokenName(m.Name) {
		errs = errors.Append(errs,
			errors.Field("Name", ErrInvalidTokenName, "invalid name"))
	}
	switch {
	case m.TotalSupply == nil:
		errs = errors.Append(errs,
			errors.Field("TotalSupply", errors.ErrEmpty, "no supply"))
	case m.TotalSupply.Ticker != m.Ticker:
		errs = errors.Append(errs,
			errors.Field("TotalSupply", coin.ErrInvalidCurrency, "supply ticker mismatch"))
	case !m.TotalSupply.IsNonNegative():
		errs = errors.Append(errs,
			errors.Field("TotalSupply", errors.ErrInvalidAmount, "negative supply"))
	}
	return errs
}

func (m *CreateTokenMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateTokenMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// TransferMsg moves tokens from the main signer to the destination. The
// amount ticker names the token.
type TransferMsg struct {
	Metadata    *abacus.Metadata `json:"metadata"`
	Destination abacus.Address   `json:"destination"`
	Amount      *coin.Coin       `json:"amount"`
}

func (m *TransferMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == nil || !m.Amount.IsPositive() {
		errs = errors.Append(errs,
			errors.Field("Amount", errors.ErrInvalidAmount, "non-positive transfer"))
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	return errs
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *TransferMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// ApproveMsg grants the spender an allowance over the main signer balance.
// A new approval overwrites any previous one, a zero amount withdraws it.
type ApproveMsg struct {
	Metadata *abacus.Metadata `json:"metadata"`
	Spender  abacus.Address   `json:"spender"`
	Amount   *coin.Coin       `json:"amount"`
}

func (m *ApproveMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (ApproveMsg) Path() string {
	return pathApproveMsg
}

func (m *ApproveMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Spender", m.Spender.Validate())
	if m.Amount == nil || !m.Amount.IsNonNegative() {
		errs = errors.Append(errs,
			errors.Field("Amount", errors.ErrInvalidAmount, "negative allowance"))
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	return errs
}

func (m *ApproveMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ApproveMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// TransferFromMsg lets the main signer move tokens out of the source
// balance, within the allowance the source granted.
type TransferFromMsg struct {
	Metadata    *abacus.Metadata `json:"metadata"`
	Source      abacus.Address   `json:"source"`
	Destination abacus.Address   `json:"destination"`
	Amount      *coin.Coin       `json:"amount"`
}

func (m *TransferFromMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (TransferFromMsg) Path() string {
	return pathTransferFromMsg
}

func (m *TransferFromMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == nil || !m.Amount.IsPositive() {
		errs = errors.Append(errs,
			errors.Field("Amount", errors.ErrInvalidAmount, "non-positive transfer"))
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	return errs
}

func (m *TransferFromMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *TransferFromMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}
