package orm

import (
	"fmt"
	"regexp"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// SeqID is the name of the default ID sequence of a bucket.
const SeqID = "id"

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Indexed is the read and update interface every secondary index
// implements.
type Indexed interface {
	abacus.QueryHandler
	Update(db abacus.KVStore, prev Object, save Object) error
	GetAt(db abacus.ReadOnlyKVStore, index []byte) ([][]byte, error)
}

// Bucket claims a prefixed subspace of the database for one type of
// object, together with its secondary indexes and sequences. The proto
// object is cloned whenever stored data must be parsed.
//
// Embed it in a type safe wrapper so all stored data is of one type.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Indexed
}

var _ abacus.QueryHandler = Bucket{}

// NewBucket sets up a namespace for entities of the proto type. The name
// must be a short lowercase word, it becomes part of every database key.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// Register attaches this bucket and all its indexes to the query router.
// The registration name is independent from the bucket name and defaults
// to it when empty.
func (b Bucket) Register(name string, r abacus.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for name, idx := range b.indexes {
		r.Register(root+"/"+name, idx)
	}
}

// Query implements the QueryHandler interface, serving exact key and
// prefix lookups over the raw stored models.
func (b Bucket) Query(db abacus.ReadOnlyKVStore, mod string, data []byte) ([]abacus.Model, error) {
	switch mod {
	case abacus.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			// A miss is an empty result, not an error.
			return nil, nil
		}
		return []abacus.Model{{Key: key, Value: value}}, nil
	case abacus.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "unknown query mod: %s", mod)
	}
}

// DBKey prepends the bucket prefix to the key. The result is always a
// fresh array, sharing the prefix backing array across calls would let
// them overwrite each other.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	n := copy(out, b.prefix)
	copy(out[n:], key)
	return out
}

// Get fetches one object, or nil when the key holds nothing.
func (b Bucket) Get(db abacus.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return b.Parse(key, raw)
}

// Parse reconstructs the object this bucket would return for the given
// key and raw stored value. Get uses it internally, it is exported for
// tests and for code that reads models through queries.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "parsing %s", b.name)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates and writes the object. It must be of the same type as
// the bucket proto.
func (b Bucket) Save(db abacus.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return err
	}

	raw, err := model.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.updateIndexes(db, model.Key(), model); err != nil {
		return err
	}
	return db.Set(b.DBKey(model.Key()), raw)
}

// Delete removes the value at a key, keeping all indexes in sync.
func (b Bucket) Delete(db abacus.KVStore, key []byte) error {
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// updateIndexes moves every index entry of the object stored under key to
// point at model. A nil model clears the entries.
func (b Bucket) updateIndexes(db abacus.KVStore, key []byte, model Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, model); err != nil {
			return err
		}
	}
	return nil
}

// Sequence returns a named sequence scoped to this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex derives a bucket that additionally maintains the named index.
// A name collision panics, indexes are declared once, at setup time.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	return b.WithMultiKeyIndex(name, func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		if err != nil {
			return nil, err
		}
		if key == nil {
			return nil, nil
		}
		return [][]byte{key}, nil
	}, unique)
}

// WithMultiKeyIndex is WithIndex for indexers that may produce several
// index keys for one object.
func (b Bucket) WithMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("index %s registered twice", name))
	}

	// The index map is copied, buckets derived from one another must
	// not share it.
	indexes := make(map[string]Indexed, len(b.indexes)+1)
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	indexes[name] = NewMultiKeyIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = indexes
	return b
}

// GetIndexed returns all objects the named index stores under the index
// key.
func (b Bucket) GetIndexed(db abacus.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, name)
	}
	refs, err := idx.GetAt(db, key)
	if err != nil {
		return nil, err
	}
	return b.readRefs(db, refs)
}

// readRefs resolves a list of primary keys into objects.
func (b Bucket) readRefs(db abacus.ReadOnlyKVStore, refs [][]byte) ([]Object, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	objs := make([]Object, 0, len(refs))
	for _, key := range refs {
		obj, err := b.Get(db, key)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
