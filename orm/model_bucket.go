package orm

import (
	"reflect"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// ModelSlicePtr is a stand in for a pointer to a slice of models,
// *[]MyModel. The type system cannot express that generically, so the
// shape is verified at runtime instead.
type ModelSlicePtr interface{}

// ModelBucket is the bucket variant whose API deals in Models directly,
// with no Object wrapper in between.
type ModelBucket interface {
	// One loads the model stored under the primary key into dest. A
	// missing entity is reported as ErrNotFound, a dest that cannot
	// hold the stored entity as ErrInvalidType.
	One(db abacus.ReadOnlyKVStore, key []byte, dest Model) error

	// ByIndex appends to dest every entity that the named secondary
	// index holds under the given key and returns their primary keys.
	// Unlike the primary index, a secondary index may hold many
	// entities under one key. No match leaves dest untouched and is
	// not an error.
	ByIndex(db abacus.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error)

	// Put validates the model and stores it under the given key,
	// overwriting any previous value. An empty key draws a fresh one
	// from the id sequence. The key used is returned.
	Put(db abacus.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes the entity stored under the given primary key,
	// reporting ErrNotFound when there is none.
	Delete(db abacus.KVStore, key []byte) error

	// Has reports through its error value whether an entity is stored
	// under the given primary key, ErrNotFound when not. The entity
	// itself is never loaded.
	Has(db abacus.KVStore, key []byte) error

	// Register exposes the bucket content for query requests under the
	// given name.
	Register(name string, r abacus.QueryRouter)
}

// ModelBucketOption configures a model bucket during setup.
type ModelBucketOption func(mb *modelBucket)

// WithIndex adds a secondary index. Every stored entity is indexed
// under the value that the indexer derives from it. A unique index
// admits a single entity per index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.b = mb.b.WithIndex(name, indexer, unique)
	}
}

// NewModelBucket builds a ModelBucket around a plain bucket, wiring in
// the sequence that allocates primary keys.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	b := NewBucket(name, NewSimpleObj(nil, m))

	tp := reflect.TypeOf(m)
	if tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}

	mb := &modelBucket{
		b:     b,
		idSeq: b.Sequence(SeqID),
		model: tp,
	}

	for _, fn := range opts {
		fn(mb)
	}

	return mb
}

type modelBucket struct {
	b     Bucket
	idSeq Sequence

	// model holds the bare struct type, even when the bucket operates
	// on pointers.
	model reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) Register(name string, r abacus.QueryRouter) {
	mb.b.Register(name, r)
}

func (mb *modelBucket) One(db abacus.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	res := obj.Value()

	if !reflect.TypeOf(res).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be represented as %T", res, dest)
	}

	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(res).Elem())
	return nil
}

func (mb *modelBucket) ByIndex(db abacus.ReadOnlyKVStore, indexName string, key []byte, destination ModelSlicePtr) ([][]byte, error) {
	objs, err := mb.b.GetIndexed(db, indexName, key)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, nil
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr {
		return nil, errors.Wrap(errors.ErrInvalidType, "destination must be a pointer to slice of models")
	}
	if dest.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrInvalidType, "destination must be a pointer to slice of models")
	}

	// the destination can be either slice of values or slice of pointers
	sliceOfPointers := dest.Elem().Type().Elem().Kind() == reflect.Ptr

	allowed := dest.Elem().Type().Elem()
	if sliceOfPointers {
		allowed = allowed.Elem()
	}
	if mb.model != allowed {
		return nil, errors.Wrapf(errors.ErrInvalidType, "this bucket operates on %s model and cannot return %s", mb.model, allowed)
	}

	keys := make([][]byte, 0, len(objs))
	for _, obj := range objs {
		if obj == nil || obj.Value() == nil {
			continue
		}
		keys = append(keys, obj.Key())
		val := reflect.ValueOf(obj.Value())
		if !sliceOfPointers {
			val = val.Elem()
		}
		dest.Elem().Set(reflect.Append(dest.Elem(), val))
	}
	return keys, nil
}

func (mb *modelBucket) Put(db abacus.KVStore, key []byte, m Model) ([]byte, error) {
	mTp := reflect.TypeOf(m)
	if mTp.Kind() != reflect.Ptr {
		return nil, errors.Wrap(errors.ErrInvalidType, "model destination must be a pointer")
	}
	if mb.model != mTp.Elem() {
		return nil, errors.Wrapf(errors.ErrInvalidType, "cannot store %T type in this bucket", m)
	}

	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if len(key) == 0 {
		var err error
		key, err = mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "id sequence")
		}
	}

	obj := NewSimpleObj(key, m)
	if err := mb.b.Save(db, obj); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db abacus.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) Has(db abacus.KVStore, key []byte) error {
	if key == nil {
		// A nil key would make the store API panic.
		return errors.ErrNotFound
	}

	ok, err := db.Has(mb.b.DBKey(key))
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}
