package property

import (
	"regexp"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/orm"
)

func init() {
	migration.MustRegister(1, &Deed{}, migration.NoModification)
}

const (
	// DeedBucketName is where deed records live, keyed by sequence id.
	DeedBucketName = "deeds"
	// SequenceName is the counter behind new deed ids.
	SequenceName = "id"
	// ParcelIndexName guarantees one deed per parcel reference.
	ParcelIndexName = "parcel"
)

// isParcel matches cadastral references like "NW4/031-A". Lower case is
// not accepted, normalize before submitting.
var isParcel = regexp.MustCompile(`^[A-Z0-9][A-Z0-9/\-]{2,31}$`).MatchString

var _ orm.CloneableData = (*Deed)(nil)
var _ migration.Migratable = (*Deed)(nil)

// Deed ties one parcel to its owner. A non-nil price is an open offer to
// sell at that price, nil means the deed is not for sale.
type Deed struct {
	Metadata *abacus.Metadata `json:"metadata"`
	Parcel   string           `json:"parcel"`
	Owner    abacus.Address   `json:"owner"`
	Price    *coin.Coin       `json:"price,omitempty"`
}

func (d *Deed) GetMetadata() *abacus.Metadata {
	return d.Metadata
}

func (d *Deed) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", d.Metadata.Validate())
	if !isParcel(d.Parcel) {
		errs = errors.Append(errs,
			errors.Field("Parcel", ErrInvalidParcel, "%q", d.Parcel))
	}
	errs = errors.AppendField(errs, "Owner", d.Owner.Validate())
	if d.Price != nil {
		errs = errors.AppendField(errs, "Price", d.Price.Validate())
		if !d.Price.IsPositive() {
			errs = errors.Append(errs,
				errors.Field("Price", errors.ErrInvalidAmount, "non-positive price"))
		}
	}
	return errs
}

func (d *Deed) Copy() orm.CloneableData {
	return &Deed{
		Metadata: d.Metadata.Copy(),
		Parcel:   d.Parcel,
		Owner:    d.Owner.Clone(),
		Price:    d.Price.Clone(),
	}
}

func (d *Deed) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(d)
}

func (d *Deed) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, d)
}

// DeedBucket stores deed records under ids handed out by an
// auto-increment sequence. A unique secondary index keeps every parcel
// deeded at most once.
type DeedBucket struct {
	migration.Bucket
	idSeq orm.Sequence
}

// NewDeedBucket initializes a DeedBucket with default name.
func NewDeedBucket() DeedBucket {
	b := migration.WithMigration(
		orm.NewBucket(DeedBucketName, orm.NewSimpleObj(nil, &Deed{})).
			WithIndex(ParcelIndexName, parcelIndexer, true),
		packageName)
	return DeedBucket{
		Bucket: b,
		idSeq:  b.Sequence(SequenceName),
	}
}

func parcelIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	d, ok := obj.Value().(*Deed)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return []byte(d.Parcel), nil
}

// Create allocates the next sequential id and stores the deed. The first
// issued id is zero.
func (b DeedBucket) Create(db abacus.KVStore, d *Deed) ([]byte, error) {
	id, err := b.idSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "id sequence")
	}
	if err := b.Save(db, orm.NewSimpleObj(id, d)); err != nil {
		return nil, err
	}
	return id, nil
}

// GetDeed returns the deed with the given id.
func (b DeedBucket) GetDeed(db abacus.ReadOnlyKVStore, id []byte) (*Deed, error) {
	obj, err := b.Get(db, id)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(ErrUnknownDeed, "id %d", orm.DecodeSequence(id))
	}
	d, ok := obj.Value().(*Deed)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return d, nil
}

// GetByParcel returns the id and deed registered for the parcel, or
// ErrUnknownDeed if the parcel is not deeded.
func (b DeedBucket) GetByParcel(db abacus.ReadOnlyKVStore, parcel string) ([]byte, *Deed, error) {
	objs, err := b.GetIndexed(db, ParcelIndexName, []byte(parcel))
	if err != nil {
		return nil, nil, errors.Wrap(err, "index lookup")
	}
	if len(objs) == 0 || objs[0] == nil || objs[0].Value() == nil {
		return nil, nil, errors.Wrapf(ErrUnknownDeed, "parcel %q", parcel)
	}
	d, ok := objs[0].Value().(*Deed)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", objs[0].Value())
	}
	return objs[0].Key(), d, nil
}
