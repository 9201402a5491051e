package multisig

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/orm"
)

func init() {
	migration.MustRegister(1, &InitializeMsg{}, migration.NoModification)
	migration.MustRegister(1, &AddOwnerMsg{}, migration.NoModification)
	migration.MustRegister(1, &RemoveOwnerMsg{}, migration.NoModification)
	migration.MustRegister(1, &ReplaceOwnerMsg{}, migration.NoModification)
	migration.MustRegister(1, &SubmitTransactionMsg{}, migration.NoModification)
	migration.MustRegister(1, &SignTransactionMsg{}, migration.NoModification)
	migration.MustRegister(1, &UnsignTransactionMsg{}, migration.NoModification)
	migration.MustRegister(1, &RejectTransactionMsg{}, migration.NoModification)
	migration.MustRegister(1, &UnrejectTransactionMsg{}, migration.NoModification)
	migration.MustRegister(1, &ExecuteTransactionMsg{}, migration.NoModification)
	migration.MustRegister(1, &DepositMsg{}, migration.NoModification)
}

const (
	pathInitializeMsg          = "multisig/initialize"
	pathAddOwnerMsg            = "multisig/add_owner"
	pathRemoveOwnerMsg         = "multisig/remove_owner"
	pathReplaceOwnerMsg        = "multisig/replace_owner"
	pathSubmitTransactionMsg   = "multisig/submit"
	pathSignTransactionMsg     = "multisig/sign"
	pathUnsignTransactionMsg   = "multisig/unsign"
	pathRejectTransactionMsg   = "multisig/reject"
	pathUnrejectTransactionMsg = "multisig/unreject"
	pathExecuteTransactionMsg  = "multisig/execute"
	pathDepositMsg             = "multisig/deposit"

	initializeCost   int64 = 300 // 3x more expensive than a plain send
	updateOwnersCost int64 = 150 // half the initialization cost
	submitTxCost     int64 = 150
	voteTxCost       int64 = 50
	executeTxCost    int64 = 200 // bookkeeping on top of the transfer itself
	depositTxCost    int64 = 100 // same as a plain send

	// Transactions carry an opaque payload for the destination. It is not
	// interpreted here but it must not blow up the stored record.
	maxPayloadSize int = 1024
)

var (
	_ abacus.Msg = (*InitializeMsg)(nil)
	_ abacus.Msg = (*AddOwnerMsg)(nil)
	_ abacus.Msg = (*RemoveOwnerMsg)(nil)
	_ abacus.Msg = (*ReplaceOwnerMsg)(nil)
	_ abacus.Msg = (*SubmitTransactionMsg)(nil)
	_ abacus.Msg = (*SignTransactionMsg)(nil)
	_ abacus.Msg = (*UnsignTransactionMsg)(nil)
	_ abacus.Msg = (*RejectTransactionMsg)(nil)
	_ abacus.Msg = (*UnrejectTransactionMsg)(nil)
	_ abacus.Msg = (*ExecuteTransactionMsg)(nil)
	_ abacus.Msg = (*DepositMsg)(nil)
)

// InitializeMsg establishes the wallet with an owner list and an approval
// threshold. It can succeed only once, on a ledger that was not given a
// wallet through the genesis file.
type InitializeMsg struct {
	Metadata  *abacus.Metadata
	Owners    []abacus.Address
	Threshold uint32
}

func (m *InitializeMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

// Validate enforces owner list and threshold boundaries
func (m *InitializeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateOwners(m.Owners, m.Threshold)
}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *InitializeMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// AddOwnerMsg grants voting rights to a new owner. Only the controlling
// owner can issue it.
type AddOwnerMsg struct {
	Metadata *abacus.Metadata
	Owner    abacus.Address
}

func (m *AddOwnerMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (AddOwnerMsg) Path() string {
	return pathAddOwnerMsg
}

func (m *AddOwnerMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(ErrInvalidOwner, err.Error())
	}
	return nil
}

func (m *AddOwnerMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *AddOwnerMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// RemoveOwnerMsg revokes the voting rights of an owner. Only the
// controlling owner can issue it and the controlling owner itself can
// never be the target.
type RemoveOwnerMsg struct {
	Metadata *abacus.Metadata
	Owner    abacus.Address
}

func (m *RemoveOwnerMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (RemoveOwnerMsg) Path() string {
	return pathRemoveOwnerMsg
}

// Validate checks the metadata only. The owner is matched against the
// registry during processing, a malformed address is simply not an owner.
func (m *RemoveOwnerMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return nil
}

func (m *RemoveOwnerMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RemoveOwnerMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// ReplaceOwnerMsg substitutes one owner for another, keeping the replaced
// owner position. Replacing the controlling owner hands over control.
type ReplaceOwnerMsg struct {
	Metadata *abacus.Metadata
	OldOwner abacus.Address
	NewOwner abacus.Address
}

func (m *ReplaceOwnerMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (ReplaceOwnerMsg) Path() string {
	return pathReplaceOwnerMsg
}

func (m *ReplaceOwnerMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.OldOwner.Validate(); err != nil {
		return errors.Wrap(ErrInvalidOwner, err.Error())
	}
	if err := m.NewOwner.Validate(); err != nil {
		return errors.Wrap(ErrInvalidOwner, err.Error())
	}
	if m.OldOwner.Equals(m.NewOwner) {
		return errors.Wrap(ErrInvalidOwner, "old and new owner are the same")
	}
	return nil
}

func (m *ReplaceOwnerMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ReplaceOwnerMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// SubmitTransactionMsg proposes a transfer of funds out of the wallet
// holding account. The signer becomes the transaction creator.
type SubmitTransactionMsg struct {
	Metadata    *abacus.Metadata
	Destination abacus.Address
	Amount      *coin.Coin
	// Payload is opaque data handed to the destination, max 1024 bytes.
	Payload []byte
}

func (m *SubmitTransactionMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (SubmitTransactionMsg) Path() string {
	return pathSubmitTransactionMsg
}

// Validate checks the proposal fields. A zero amount is allowed, a
// transaction can carry only a payload.
func (m *SubmitTransactionMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if err := m.Destination.Validate(); err != nil {
		errs = errors.AppendField(errs, "Destination",
			errors.Wrap(ErrInvalidAddress, err.Error()))
	}
	if m.Amount == nil || !m.Amount.IsNonNegative() {
		errs = errors.AppendField(errs, "Amount",
			errors.Wrapf(errors.ErrInvalidAmount, "negative or missing amount: %#v", m.Amount))
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	if len(m.Payload) > maxPayloadSize {
		errs = errors.AppendField(errs, "Payload",
			errors.Wrap(errors.ErrInvalidState, "payload too long"))
	}
	return errs
}

func (m *SubmitTransactionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SubmitTransactionMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// SignTransactionMsg casts an approval vote on a pending transaction.
type SignTransactionMsg struct {
	Metadata      *abacus.Metadata
	TransactionID []byte
}

func (m *SignTransactionMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (SignTransactionMsg) Path() string {
	return pathSignTransactionMsg
}

func (m *SignTransactionMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateTransactionID(m.TransactionID)
}

func (m *SignTransactionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SignTransactionMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// UnsignTransactionMsg withdraws an approval vote previously cast by the
// signer.
type UnsignTransactionMsg struct {
	Metadata      *abacus.Metadata
	TransactionID []byte
}

func (m *UnsignTransactionMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (UnsignTransactionMsg) Path() string {
	return pathUnsignTransactionMsg
}

func (m *UnsignTransactionMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateTransactionID(m.TransactionID)
}

func (m *UnsignTransactionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *UnsignTransactionMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// RejectTransactionMsg casts a rejection vote on a pending transaction.
type RejectTransactionMsg struct {
	Metadata      *abacus.Metadata
	TransactionID []byte
}

func (m *RejectTransactionMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (RejectTransactionMsg) Path() string {
	return pathRejectTransactionMsg
}

func (m *RejectTransactionMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateTransactionID(m.TransactionID)
}

func (m *RejectTransactionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RejectTransactionMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// UnrejectTransactionMsg withdraws a rejection vote previously cast by the
// signer.
type UnrejectTransactionMsg struct {
	Metadata      *abacus.Metadata
	TransactionID []byte
}

func (m *UnrejectTransactionMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (UnrejectTransactionMsg) Path() string {
	return pathUnrejectTransactionMsg
}

func (m *UnrejectTransactionMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateTransactionID(m.TransactionID)
}

func (m *UnrejectTransactionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *UnrejectTransactionMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// ExecuteTransactionMsg pays out an approved transaction. Only the creator
// of the transaction can execute it, exactly once.
type ExecuteTransactionMsg struct {
	Metadata      *abacus.Metadata
	TransactionID []byte
}

func (m *ExecuteTransactionMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (ExecuteTransactionMsg) Path() string {
	return pathExecuteTransactionMsg
}

func (m *ExecuteTransactionMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateTransactionID(m.TransactionID)
}

func (m *ExecuteTransactionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ExecuteTransactionMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// DepositMsg moves funds from the signer account into the wallet holding
// account.
type DepositMsg struct {
	Metadata *abacus.Metadata
	Amount   *coin.Coin
}

func (m *DepositMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

// Path returns the route of this message.
func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Amount == nil || !m.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive deposit: %#v", m.Amount)
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	return nil
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *DepositMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// validateOwners returns an error if the given owner list and threshold
// cannot form a valid wallet. The check is shared by the model and the
// initialization message.
func validateOwners(owners []abacus.Address, threshold uint32) error {
	switch n := len(owners); {
	case n < MinOwners:
		return errors.Wrap(ErrInvalidConfiguration, "no owners")
	case n > MaxOwners:
		return errors.Wrapf(ErrInvalidConfiguration,
			"%d owners exceed the limit of %d", n, MaxOwners)
	}
	index := make(map[string]struct{}, len(owners))
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidConfiguration, "owner #%d: %s", i, err)
		}
		if _, ok := index[string(o)]; ok {
			return errors.Wrapf(ErrInvalidConfiguration, "owner #%d: duplicate", i)
		}
		index[string(o)] = struct{}{}
	}
	if threshold < 1 || int(threshold) > len(owners) {
		return errors.Wrapf(ErrInvalidConfiguration,
			"threshold %d outside of [1, %d]", threshold, len(owners))
	}
	return nil
}

// validateTransactionID returns an error if the given id cannot have been
// issued by the transaction sequence.
func validateTransactionID(id []byte) error {
	if err := orm.ValidateSequence(id); err != nil {
		return errors.Wrap(ErrInvalidTransaction, err.Error())
	}
	return nil
}
