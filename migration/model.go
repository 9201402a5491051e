package migration

import (
	"encoding/binary"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/orm"
)

// Schema tracks the highest schema version activated for a package.
type Schema struct {
	Metadata *abacus.Metadata
	Pkg      string
	Version  uint32
}

var _ orm.CloneableData = (*Schema)(nil)
var _ Migratable = (*Schema)(nil)

func init() {
	MustRegister(1, &Schema{}, NoModification)
}

func (s *Schema) GetMetadata() *abacus.Metadata {
	return s.Metadata
}

func (s *Schema) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if s.Pkg == "" {
		return errors.Wrap(errors.ErrInvalidModel, "pkg is required")
	}
	if s.Version < 1 {
		return errors.Wrap(errors.ErrInvalidModel, "version must be greater than zero")
	}
	return nil
}

func (s *Schema) Copy() orm.CloneableData {
	return &Schema{
		Metadata: s.Metadata.Copy(),
		Pkg:      s.Pkg,
		Version:  s.Version,
	}
}

// Marshal encodes the schema for storage.
func (s *Schema) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

// Unmarshal restores the schema from storage bytes.
func (s *Schema) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, s)
}

// schemaID builds the storage key of one schema version entity. The keys
// of a package sort lexicographically from the lowest to the highest
// version.
func schemaID(pkg string, version uint32) []byte {
	id := make([]byte, len(pkg)+4)
	n := copy(id, pkg)
	binary.BigEndian.PutUint32(id[n:], version)
	return id
}

type SchemaBucket struct {
	orm.Bucket
}

func NewSchemaBucket() *SchemaBucket {
	// This bucket builds on plain orm.Bucket. Using the schema aware
	// bucket implementation would make the schema versioning depend on
	// itself.
	b := orm.NewBucket("schema", orm.NewSimpleObj(nil, &Schema{}))
	return &SchemaBucket{Bucket: b}
}

// InitPkg activates schema versioning for the given packages, registering
// a version one schema for each. Packages that are already initialized are
// left untouched, calling this twice is not an error.
func InitPkg(db abacus.KVStore, packageNames ...string) error {
	b := NewSchemaBucket()
	for _, name := range packageNames {
		_, err := b.Create(db, &Schema{
			Metadata: &abacus.Metadata{Schema: 1},
			Pkg:      name,
			Version:  1,
		})
		if err != nil && !errors.ErrDuplicate.Is(err) {
			return errors.Wrap(err, name)
		}
	}
	return nil
}

// MustInitPkg is InitPkg that panics on failure.
func MustInitPkg(db abacus.KVStore, packageNames ...string) {
	if err := InitPkg(db, packageNames...); err != nil {
		panic(err)
	}
}

// CurrentSchema returns the active schema version of a package, at least 1.
// It returns ErrNotFound if the package was never initialized.
func (b *SchemaBucket) CurrentSchema(db abacus.ReadOnlyKVStore, packageName string) (uint32, error) {
	var current uint32
	for ver := uint32(1); ver < 10000; ver++ {
		obj, err := b.Bucket.Get(db, schemaID(packageName, ver))
		if err != nil {
			return 0, errors.Wrap(err, "bucket get")
		}
		if obj == nil {
			if current == 0 {
				return 0, errors.Wrap(errors.ErrNotFound, "not initialized")
			}
			return current, nil
		}
		current = ver
	}
	return 0, errors.Wrap(errors.ErrInvalidState, "version too high")
}

// Get is blocked. Read the schema version through CurrentSchema instead.
func (b *SchemaBucket) Get(db abacus.KVStore, key []byte) error {
	return errors.Wrap(errors.ErrHuman, "this bucket does not allow for a direct value access")
}

// Save stores the schema entity, refusing any version that is not the
// next one for its package.
func (b *SchemaBucket) Save(db abacus.KVStore, obj orm.Object) error {
	s, ok := obj.Value().(*Schema)
	if !ok {
		return errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	if err := b.validateNextSchema(db, s); err != nil {
		return err
	}
	return b.Bucket.Save(db, obj)
}

// Create inserts the schema instance and returns the stored entity.
func (b *SchemaBucket) Create(db abacus.KVStore, s *Schema) (orm.Object, error) {
	if err := b.validateNextSchema(db, s); err != nil {
		return nil, err
	}
	obj := orm.NewSimpleObj(schemaID(s.Pkg, s.Version), s)
	return obj, b.Bucket.Save(db, obj)
}

// validateNextSchema ensures the given instance declares the next valid
// schema version of its package.
func (b *SchemaBucket) validateNextSchema(db abacus.KVStore, next *Schema) error {
	current, err := b.CurrentSchema(db, next.Pkg)
	switch {
	case errors.ErrNotFound.Is(err):
		// A package joins schema versioning at version one.
		if next.Version != 1 {
			return errors.Wrap(errors.ErrInvalidInput, "schema not initialized with version 1")
		}
		current = 0
	case err != nil:
		return errors.Wrap(err, "current schema")
	}
	if next.Version != current+1 {
		// Versions grow one at a time, without gaps.
		return errors.Wrapf(errors.ErrDuplicate, "previous schema is %d", current)
	}
	return nil
}

// RegisterQuery makes the schema versions available under "/schemas".
func RegisterQuery(qr abacus.QueryRouter) {
	NewSchemaBucket().Register("schemas", qr)
}
