package vault

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
)

func init() {
	migration.MustRegister(1, &CreateVaultMsg{}, migration.NoModification)
	migration.MustRegister(1, &DepositMsg{}, migration.NoModification)
	migration.MustRegister(1, &WithdrawMsg{}, migration.NoModification)
}

const (
	pathCreateVaultMsg = "vault/create"
	pathDepositMsg     = "vault/deposit"
	pathWithdrawMsg    = "vault/withdraw"

	createVaultCost int64 = 300 // pay the vault cost up front
	depositCost     int64 = 100
	withdrawCost    int64 = 0
)

var (
	_ abacus.Msg = (*CreateVaultMsg)(nil)
	_ abacus.Msg = (*DepositMsg)(nil)
	_ abacus.Msg = (*WithdrawMsg)(nil)
)

// CreateVaultMsg locks funds of the main signer for the beneficiary until
// the release time.
type CreateVaultMsg struct {
	Metadata    *abacus.Metadata `json:"metadata"`
	Beneficiary abacus.Address   `json:"beneficiary"`
	Amount      *coin.Coin       `json:"amount"`
	ReleaseAt   abacus.UnixTime  `json:"release_at"`
	Memo        string           `json:"memo"`
}

func (m *CreateVaultMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (CreateVaultMsg) Path() string {
	return pathCreateVaultMsg
}

func (m *CreateVaultMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	errs = errors.Append(errs, validateAmount("Amount", m.Amount))
	if m.ReleaseAt == 0 {
		errs = errors.Append(errs,
			errors.Field("ReleaseAt", errors.ErrInvalidInput, "release time is required"))
	} else {
		errs = errors.AppendField(errs, "ReleaseAt", m.ReleaseAt.Validate())
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs,
			errors.Field("Memo", errors.ErrInvalidInput, "longer than %d", maxMemoSize))
	}
	return errs
}

func (m *CreateVaultMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateVaultMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// DepositMsg tops up an existing vault with funds of the main signer.
type DepositMsg struct {
	Metadata *abacus.Metadata `json:"metadata"`
	VaultID  []byte           `json:"vault_id"`
	Amount   *coin.Coin       `json:"amount"`
}

func (m *DepositMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, validateVaultID(m.VaultID))
	errs = errors.Append(errs, validateAmount("Amount", m.Amount))
	return errs
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *DepositMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// WithdrawMsg moves funds out of a released vault to the beneficiary. A
// message without an amount withdraws the whole balance.
type WithdrawMsg struct {
	Metadata *abacus.Metadata `json:"metadata"`
	VaultID  []byte           `json:"vault_id"`
	Amount   *coin.Coin       `json:"amount"`
}

func (m *WithdrawMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

func (m *WithdrawMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, validateVaultID(m.VaultID))
	if m.Amount != nil {
		errs = errors.Append(errs, validateAmount("Amount", m.Amount))
	}
	return errs
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *WithdrawMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

func validateAmount(fieldName string, amount *coin.Coin) error {
	if amount == nil || !amount.IsPositive() {
		return errors.Field(fieldName, errors.ErrInvalidAmount, "non-positive amount")
	}
	if err := amount.Validate(); err != nil {
		return errors.Field(fieldName, err, "")
	}
	return nil
}

func validateVaultID(id []byte) error {
	if len(id) != 8 {
		return errors.Field("VaultID", errors.ErrInvalidInput, "id %X", id)
	}
	return nil
}
