package multisig

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/gconf"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/orm"
)

func init() {
	migration.MustRegister(1, &Wallet{}, migration.NoModification)
	migration.MustRegister(1, &Transaction{}, migration.NoModification)
	migration.MustRegister(1, &Deposit{}, migration.NoModification)
}

const (
	// TransactionBucketName is where we store proposed transactions.
	TransactionBucketName = "mstxs"
	// DepositBucketName is where we store the last deposit of each owner.
	DepositBucketName = "deposits"
	// SequenceName is the counter behind new transaction ids.
	SequenceName = "id"

	// MinOwners is the lowest owner count the wallet may shrink to.
	MinOwners = 1
	// MaxOwners is the highest owner count the wallet may grow to.
	MaxOwners = 5
)

var _ gconf.Configuration = (*Wallet)(nil)

// Wallet is the singleton owner registry of this package. It is established
// once, either from the genesis file or by an initialization message, and
// holds the ordered owner list together with the approval threshold. The
// owner under index zero is the controlling owner.
type Wallet struct {
	Metadata  *abacus.Metadata `json:"metadata"`
	Owners    []abacus.Address `json:"owners"`
	Threshold uint32           `json:"threshold"`
}

func (w *Wallet) GetMetadata() *abacus.Metadata {
	return w.Metadata
}

func (w *Wallet) Validate() error {
	if err := w.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateOwners(w.Owners, w.Threshold)
}

// IsOwner returns true if the given address holds voting rights.
func (w *Wallet) IsOwner(a abacus.Address) bool {
	for _, o := range w.Owners {
		if o.Equals(a) {
			return true
		}
	}
	return false
}

// ControllingOwner returns the owner with exclusive rights to manage the
// owner set.
func (w *Wallet) ControllingOwner() abacus.Address {
	return w.Owners[0]
}

func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, w)
}

// TransactionStatus is the lifecycle state of a proposed transaction.
// A transaction starts as pending and settles exactly once, into approved
// or rejected, when enough votes of one kind are collected.
type TransactionStatus int32

const (
	TransactionPending  TransactionStatus = 0
	TransactionApproved TransactionStatus = 1
	TransactionRejected TransactionStatus = 2
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionPending:
		return "pending"
	case TransactionApproved:
		return "approved"
	case TransactionRejected:
		return "rejected"
	default:
		return "invalid"
	}
}

var _ orm.CloneableData = (*Transaction)(nil)
var _ migration.Migratable = (*Transaction)(nil)

// Transaction is one proposed transfer of funds out of the wallet holding
// account. Approvals and Rejections keep the voters in order of arrival.
type Transaction struct {
	Metadata    *abacus.Metadata  `json:"metadata"`
	Destination abacus.Address    `json:"destination"`
	Amount      *coin.Coin        `json:"amount"`
	Payload     []byte            `json:"payload,omitempty"`
	Creator     abacus.Address    `json:"creator"`
	Status      TransactionStatus `json:"status"`
	Executed    bool              `json:"executed"`
	Approvals   []abacus.Address  `json:"approvals,omitempty"`
	Rejections  []abacus.Address  `json:"rejections,omitempty"`
	CreatedAt   abacus.UnixTime   `json:"created_at"`
	ExecutedAt  abacus.UnixTime   `json:"executed_at,omitempty"`
}

func (t *Transaction) GetMetadata() *abacus.Metadata {
	return t.Metadata
}

func (t *Transaction) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	errs = errors.AppendField(errs, "Destination", t.Destination.Validate())
	if t.Amount == nil {
		errs = errors.Append(errs,
			errors.Field("Amount", errors.ErrEmpty, "no amount"))
	} else {
		errs = errors.AppendField(errs, "Amount", t.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Creator", t.Creator.Validate())
	if t.Status < TransactionPending || t.Status > TransactionRejected {
		errs = errors.Append(errs,
			errors.Field("Status", errors.ErrInvalidState, "invalid status"))
	}
	errs = errors.AppendField(errs, "CreatedAt", t.CreatedAt.Validate())
	errs = errors.AppendField(errs, "ExecutedAt", t.ExecutedAt.Validate())
	return errs
}

func (t *Transaction) Copy() orm.CloneableData {
	return &Transaction{
		Metadata:    t.Metadata.Copy(),
		Destination: copyAddr(t.Destination),
		Amount:      t.Amount.Clone(),
		Payload:     append([]byte(nil), t.Payload...),
		Creator:     copyAddr(t.Creator),
		Status:      t.Status,
		Executed:    t.Executed,
		Approvals:   copyAddrs(t.Approvals),
		Rejections:  copyAddrs(t.Rejections),
		CreatedAt:   t.CreatedAt,
		ExecutedAt:  t.ExecutedAt,
	}
}

// HasApproval returns true if the given owner already approved.
func (t *Transaction) HasApproval(a abacus.Address) bool {
	return containsAddr(t.Approvals, a)
}

// HasRejection returns true if the given owner already rejected.
func (t *Transaction) HasRejection(a abacus.Address) bool {
	return containsAddr(t.Rejections, a)
}

func (t *Transaction) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *Transaction) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, t)
}

var _ orm.CloneableData = (*Deposit)(nil)
var _ migration.Migratable = (*Deposit)(nil)

// Deposit is the last deposit made by an owner, stored under the owner
// address. It is a read model only. Every new deposit overwrites the
// previous record while the holding account balance keeps accumulating.
type Deposit struct {
	Metadata  *abacus.Metadata `json:"metadata"`
	Depositor abacus.Address   `json:"depositor"`
	Amount    *coin.Coin       `json:"amount"`
	CreatedAt abacus.UnixTime  `json:"created_at"`
}

func (d *Deposit) GetMetadata() *abacus.Metadata {
	return d.Metadata
}

func (d *Deposit) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", d.Metadata.Validate())
	errs = errors.AppendField(errs, "Depositor", d.Depositor.Validate())
	if d.Amount == nil || !d.Amount.IsPositive() {
		errs = errors.Append(errs,
			errors.Field("Amount", errors.ErrInvalidAmount, "non-positive deposit"))
	} else {
		errs = errors.AppendField(errs, "Amount", d.Amount.Validate())
	}
	errs = errors.AppendField(errs, "CreatedAt", d.CreatedAt.Validate())
	return errs
}

func (d *Deposit) Copy() orm.CloneableData {
	return &Deposit{
		Metadata:  d.Metadata.Copy(),
		Depositor: copyAddr(d.Depositor),
		Amount:    d.Amount.Clone(),
		CreatedAt: d.CreatedAt,
	}
}

func (d *Deposit) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(d)
}

func (d *Deposit) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, d)
}

func copyAddr(a abacus.Address) abacus.Address {
	if a == nil {
		return nil
	}
	cpy := make(abacus.Address, len(a))
	copy(cpy, a)
	return cpy
}

func copyAddrs(as []abacus.Address) []abacus.Address {
	if as == nil {
		return nil
	}
	cpy := make([]abacus.Address, 0, len(as))
	for _, a := range as {
		cpy = append(cpy, copyAddr(a))
	}
	return cpy
}

func containsAddr(as []abacus.Address, a abacus.Address) bool {
	for _, o := range as {
		if o.Equals(a) {
			return true
		}
	}
	return false
}

// TransactionBucket stores transactions under ids handed out by an
// auto-increment sequence, so ids double as creation order.
type TransactionBucket struct {
	migration.Bucket
	idSeq orm.Sequence
}

// NewTransactionBucket initializes a TransactionBucket with default name.
func NewTransactionBucket() TransactionBucket {
	b := migration.NewBucket("multisig", TransactionBucketName,
		orm.NewSimpleObj(nil, &Transaction{}))
	return TransactionBucket{
		Bucket: b,
		idSeq:  b.Sequence(SequenceName),
	}
}

// Create allocates the next sequential id and stores the transaction
// under it. The first issued id is zero.
func (b TransactionBucket) Create(db abacus.KVStore, t *Transaction) ([]byte, error) {
	id, err := b.idSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "id sequence")
	}
	if err := b.Save(db, orm.NewSimpleObj(id, t)); err != nil {
		return nil, err
	}
	return id, nil
}

// GetTransaction returns the transaction with the given id.
func (b TransactionBucket) GetTransaction(db abacus.ReadOnlyKVStore, id []byte) (*Transaction, error) {
	obj, err := b.Get(db, id)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(ErrInvalidTransaction, "id %d", orm.DecodeSequence(id))
	}
	t, ok := obj.Value().(*Transaction)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return t, nil
}

// Issued returns how many transaction ids were handed out so far.
func (b TransactionBucket) Issued(db abacus.ReadOnlyKVStore) (int64, error) {
	return b.idSeq.Issued(db)
}

// DepositBucket stores the last deposit of each owner under the owner
// address.
type DepositBucket struct {
	migration.Bucket
}

// NewDepositBucket initializes a DepositBucket with default name.
func NewDepositBucket() DepositBucket {
	return DepositBucket{
		Bucket: migration.NewBucket("multisig", DepositBucketName,
			orm.NewSimpleObj(nil, &Deposit{})),
	}
}

// GetDeposit returns the last deposit of the given owner.
func (b DepositBucket) GetDeposit(db abacus.ReadOnlyKVStore, owner abacus.Address) (*Deposit, error) {
	obj, err := b.Get(db, owner)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no deposit from %s", owner)
	}
	d, ok := obj.Value().(*Deposit)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return d, nil
}
