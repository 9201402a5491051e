package migration

import (
	"reflect"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/orm"
)

// Bucket is a schema aware bucket. Every stored model must carry its schema
// version and objects in an outdated format are upgraded before they reach
// the caller.
//
// Query results are the exception. Register and Query come from the plain orm
// bucket and return entities exactly as stored, since query responses must
// never be modified.
type Bucket struct {
	orm.Bucket
	pkg        string
	schemas    *SchemaBucket
	migrations *register
}

// NewBucket returns a schema aware bucket. The package name selects which
// schema version sequence applies, the bucket name is the namespace of the
// stored entities and the model describes their type.
func NewBucket(packageName string, bucketName string, model orm.Cloneable) Bucket {
	return WithMigration(orm.NewBucket(bucketName, model), packageName)
}

// WithMigration upgrades an existing bucket to a schema aware one.
func WithMigration(bucket orm.Bucket, packageName string) Bucket {
	return Bucket{
		Bucket:     bucket,
		pkg:        packageName,
		schemas:    NewSchemaBucket(),
		migrations: reg,
	}
}

// useRegister replaces the global migration register with a local one. Only
// tests need this.
func (b Bucket) useRegister(r *register) Bucket {
	b.migrations = r
	return b
}

func (b Bucket) Get(db abacus.ReadOnlyKVStore, key []byte) (orm.Object, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil || obj == nil {
		return obj, err
	}
	return obj, errors.Wrap(b.migrate(db, obj), "migrate")
}

func (b Bucket) Save(db abacus.KVStore, obj orm.Object) error {
	if err := b.migrate(db, obj); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return b.Bucket.Save(db, obj)
}

func (b Bucket) migrate(db abacus.ReadOnlyKVStore, obj orm.Object) error {
	return migrate(b.migrations, b.schemas, b.pkg, db, obj.Value())
}

// ModelBucket wraps an orm.ModelBucket with model schema migration applied on
// both reads and writes.
type ModelBucket struct {
	orm.ModelBucket
	pkg        string
	schemas    *SchemaBucket
	migrations *register
}

var _ orm.ModelBucket = (*ModelBucket)(nil)

func NewModelBucket(packageName string, b orm.ModelBucket) *ModelBucket {
	return &ModelBucket{
		ModelBucket: b,
		pkg:         packageName,
		schemas:     NewSchemaBucket(),
		migrations:  reg,
	}
}

// useRegister replaces the global migration register with a local one. Only
// tests need this.
func (m *ModelBucket) useRegister(r *register) {
	m.migrations = r
}

func (m *ModelBucket) One(db abacus.ReadOnlyKVStore, key []byte, dest orm.Model) error {
	if err := m.ModelBucket.One(db, key, dest); err != nil {
		return err
	}
	return errors.Wrap(m.migrate(db, dest), "migrate")
}

func (m *ModelBucket) ByIndex(db abacus.ReadOnlyKVStore, indexName string, key []byte, dest orm.ModelSlicePtr) ([][]byte, error) {
	keys, err := m.ModelBucket.ByIndex(db, indexName, key, dest)
	if err != nil {
		return nil, err
	}

	// The wrapped bucket already rejected anything that is not a slice of
	// models, so dest can be walked without further type checks. Elements
	// may be values or pointers.
	slice := reflect.ValueOf(dest).Elem()
	for i := 0; i < slice.Len(); i++ {
		item := slice.Index(i)
		model, ok := item.Interface().(orm.Model)
		if !ok {
			model = item.Addr().Interface().(orm.Model)
		}
		if err := m.migrate(db, model); err != nil {
			return nil, errors.Wrapf(err, "migrate %d element", i)
		}
	}
	return keys, nil
}

func (m *ModelBucket) Put(db abacus.KVStore, key []byte, model orm.Model) ([]byte, error) {
	if err := m.migrate(db, model); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return m.ModelBucket.Put(db, key, model)
}

func (m *ModelBucket) migrate(db abacus.ReadOnlyKVStore, model orm.Model) error {
	return migrate(m.migrations, m.schemas, m.pkg, db, model)
}

func migrate(
	migrations *register,
	schemas *SchemaBucket,
	pkg string,
	db abacus.ReadOnlyKVStore,
	value interface{},
) error {
	m, ok := value.(Migratable)
	if !ok {
		return errors.Wrap(errors.ErrInvalidModel, "model cannot be migrated")
	}
	current, err := schemas.CurrentSchema(db, pkg)
	if err != nil {
		return errors.Wrapf(err, "current schema version of package %q", pkg)
	}

	meta := m.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrEmpty, "%T metadata", m)
	}
	switch {
	case meta.Schema == 0:
		// An unset schema means the value was produced by code that
		// works with the current version.
		meta.Schema = current
		return nil
	case meta.Schema > current:
		return errors.Wrapf(errors.ErrSchema, "model schema higher than %d", current)
	}

	// Apply modifies the value in place.
	if err := migrations.Apply(db, m, current); err != nil {
		return errors.Wrap(err, "schema migration")
	}
	return nil
}

// Migrate upgrades the given value to the currently active schema version of
// the named package. On success the value is safe to use with code written
// for the current schema.
//
// The value must implement Migratable, carry metadata and have all required
// migrations registered, otherwise an error is returned. A schema from the
// future fails as well.
func Migrate(
	db abacus.ReadOnlyKVStore,
	packageName string,
	value interface{},
) error {
	return migrate(reg, NewSchemaBucket(), packageName, db, value)
}
