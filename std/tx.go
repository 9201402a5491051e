package std

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// Tx is the standard transaction envelope. It carries exactly one message
// and declares the principals the message is processed on behalf of. The
// declaration is trusted, authentication happened before the bytes got
// here.
type Tx struct {
	Msg        abacus.Msg         `json:"msg"`
	Principals []abacus.Condition `json:"principals"`
}

var _ abacus.Tx = (*Tx)(nil)
var _ abacus.PrincipalDeclarer = (*Tx)(nil)

// GetMsg returns the message this transaction wraps.
func (tx *Tx) GetMsg() (abacus.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return tx.Msg, nil
}

// GetPrincipals returns the conditions this transaction is processed on
// behalf of.
func (tx *Tx) GetPrincipals() []abacus.Condition {
	return tx.Principals
}

func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

func (tx *Tx) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, tx)
}

// TxDecoder parses raw bytes into a standard transaction envelope. It is
// handed to the ledger, every incoming transaction passes through here.
func TxDecoder(bz []byte) (abacus.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "cannot decode transaction: %s", err)
	}
	return tx, nil
}
