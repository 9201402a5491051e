package cash

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
)

const pathSendMsg = "cash/send"

func init() {
	migration.MustRegister(1, &SendMsg{}, migration.NoModification)
}

var _ abacus.Msg = (*SendMsg)(nil)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
	maxRefSize  int = 64
)

// SendMsg requests a transfer of funds between two accounts.
type SendMsg struct {
	Metadata    *abacus.Metadata
	Source      abacus.Address
	Destination abacus.Address
	Amount      *coin.Coin
	// Memo is a max 128 character comment.
	Memo string
	// Ref is a max 64 byte reference to another transaction.
	Ref []byte
}

func (s *SendMsg) GetMetadata() *abacus.Metadata {
	return s.Metadata
}

// Path returns the route of this message.
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate checks the message without touching any state.
func (s *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	if coin.IsEmpty(s.Amount) || !s.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount",
			errors.Wrapf(errors.ErrInvalidAmount, "non-positive SendMsg: %#v", s.Amount))
	} else {
		errs = errors.AppendField(errs, "Amount", s.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Source", s.Source.Validate())
	errs = errors.AppendField(errs, "Destination", s.Destination.Validate())
	if len(s.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo",
			errors.Wrap(errors.ErrInvalidState, "memo too long"))
	}
	if len(s.Ref) > maxRefSize {
		errs = errors.AppendField(errs, "Ref",
			errors.Wrap(errors.ErrInvalidState, "ref too long"))
	}
	return errs
}

// Marshal encodes the message for transport.
func (s *SendMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

// Unmarshal restores the message from wire bytes.
func (s *SendMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, s)
}
