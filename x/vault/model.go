package vault

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/orm"
)

func init() {
	migration.MustRegister(1, &Vault{}, migration.NoModification)
}

const (
	// VaultBucketName is where vault records live, keyed by sequence id.
	VaultBucketName = "vaults"
	// SequenceName is the counter behind new vault ids.
	SequenceName = "id"

	maxMemoSize = 128
)

// VaultCondition is the condition guarding the funds locked in the vault
// with the given id.
func VaultCondition(id []byte) abacus.Condition {
	return abacus.NewCondition(packageName, "seq", id)
}

var _ orm.CloneableData = (*Vault)(nil)
var _ migration.Migratable = (*Vault)(nil)

// Vault is one time-locked deposit. The locked funds are not part of the
// record, they live on the cash account of the vault condition address.
type Vault struct {
	Metadata    *abacus.Metadata `json:"metadata"`
	Source      abacus.Address   `json:"source"`
	Beneficiary abacus.Address   `json:"beneficiary"`
	ReleaseAt   abacus.UnixTime  `json:"release_at"`
	Memo        string           `json:"memo"`
	Address     abacus.Address   `json:"address"`
}

func (v *Vault) GetMetadata() *abacus.Metadata {
	return v.Metadata
}

func (v *Vault) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", v.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", v.Source.Validate())
	errs = errors.AppendField(errs, "Beneficiary", v.Beneficiary.Validate())
	if v.ReleaseAt == 0 {
		// A zero release time dates to 1970-01-01 and can only mean the
		// value was never provided.
		errs = errors.Append(errs,
			errors.Field("ReleaseAt", errors.ErrInvalidInput, "release time is required"))
	} else {
		errs = errors.AppendField(errs, "ReleaseAt", v.ReleaseAt.Validate())
	}
	if len(v.Memo) > maxMemoSize {
		errs = errors.Append(errs,
			errors.Field("Memo", errors.ErrInvalidInput, "longer than %d", maxMemoSize))
	}
	errs = errors.AppendField(errs, "Address", v.Address.Validate())
	return errs
}

func (v *Vault) Copy() orm.CloneableData {
	return &Vault{
		Metadata:    v.Metadata.Copy(),
		Source:      v.Source.Clone(),
		Beneficiary: v.Beneficiary.Clone(),
		ReleaseAt:   v.ReleaseAt,
		Memo:        v.Memo,
		Address:     v.Address.Clone(),
	}
}

func (v *Vault) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(v)
}

func (v *Vault) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, v)
}

// VaultBucket stores vault records under ids handed out by an
// auto-increment sequence.
type VaultBucket struct {
	migration.Bucket
	idSeq orm.Sequence
}

// NewVaultBucket initializes a VaultBucket with default name.
func NewVaultBucket() VaultBucket {
	b := migration.NewBucket(packageName, VaultBucketName,
		orm.NewSimpleObj(nil, &Vault{}))
	return VaultBucket{
		Bucket: b,
		idSeq:  b.Sequence(SequenceName),
	}
}

// Create allocates the next sequential id, derives the vault condition
// address from it and stores the vault. The first issued id is zero.
func (b VaultBucket) Create(db abacus.KVStore, v *Vault) ([]byte, error) {
	id, err := b.idSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "id sequence")
	}
	v.Address = VaultCondition(id).Address()
	if err := b.Save(db, orm.NewSimpleObj(id, v)); err != nil {
		return nil, err
	}
	return id, nil
}

// GetVault returns the vault with the given id.
func (b VaultBucket) GetVault(db abacus.ReadOnlyKVStore, id []byte) (*Vault, error) {
	obj, err := b.Get(db, id)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(ErrUnknownVault, "id %d", orm.DecodeSequence(id))
	}
	v, ok := obj.Value().(*Vault)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return v, nil
}
