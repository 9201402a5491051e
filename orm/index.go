package orm

import (
	"bytes"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

const indexPrefix = "_i."

// Indexer computes the secondary index key of an object. Returning nil
// excludes the object from the index.
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer computes every secondary index key of an object. An
// object can appear in the index under any number of keys.
type MultiKeyIndexer func(Object) ([][]byte, error)

// index maintains a secondary index over bucket objects. Under every
// index key it stores either a single primary key (unique index) or a
// MultiRef with all primary keys sharing that index value.
//
// All references for one index value live under a single db key, so an
// index value should only ever map to a small set of objects.
type index struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
	refKey func([]byte) []byte
}

var _ Indexed = index{}

// NewMultiKeyIndex returns a named index fed by the given indexer. With
// unique set, writing a second object under an already taken index key
// fails. refKey maps a primary key to the absolute db key of the bucket
// being indexed.
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Indexed {
	return index{
		name:   name,
		id:     append([]byte(indexPrefix), []byte(name+":")...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

// IndexKey prefixes an index value with the index namespace. The result
// is always a fresh allocation, callers may retain it.
func (i index) IndexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update reflects an object change in the index. A nil prev declares an
// insert, a nil save a removal and two non nil objects with the same
// primary key a modification. At least one object must be given.
func (i index) Update(db abacus.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		keys, err := i.index(save)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.insert(db, key, save.Key()); err != nil {
				return err
			}
		}
		return nil
	case save == nil:
		keys, err := i.index(prev)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.remove(db, key, prev.Key()); err != nil {
				return err
			}
		}
		return nil
	default:
		return i.move(db, prev, save)
	}
}

// GetAt returns the primary keys stored under the given index value. An
// unused index value yields an empty result, not an error.
func (i index) GetAt(db abacus.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	key := i.IndexKey(index)
	val, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	var data MultiRef
	if err := data.Unmarshal(val); err != nil {
		return nil, err
	}
	return data.GetRefs(), nil
}

// Query resolves an index query into the referenced bucket models.
func (i index) Query(db abacus.ReadOnlyKVStore, mod string, data []byte) ([]abacus.Model, error) {
	switch mod {
	case abacus.KeyQueryMod:
		refs, err := i.GetAt(db, data)
		if err != nil {
			return nil, err
		}
		return i.loadRefs(db, refs)
	case abacus.PrefixQueryMod:
		dbPrefix := i.IndexKey(data)
		models, err := queryPrefix(db, dbPrefix)
		if err != nil {
			return nil, err
		}
		var refs [][]byte
		for _, m := range models {
			if i.unique {
				refs = append(refs, m.Value)
				continue
			}
			var tmp MultiRef
			if err := tmp.Unmarshal(m.Value); err != nil {
				return nil, err
			}
			refs = append(refs, tmp.GetRefs()...)
		}
		return i.loadRefs(db, refs)
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "unknown query mod: %s", mod)
	}
}

// loadRefs takes a set of primary keys and loads the models in the
// raw form the query interface returns them
func (i index) loadRefs(db abacus.ReadOnlyKVStore, refs [][]byte) ([]abacus.Model, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]abacus.Model, len(refs))
	for j, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res[j] = abacus.Model{
			Key:   key,
			Value: value,
		}
	}
	return res, nil
}

// move transfers the references of a modified object. The primary key
// must not change over a modification.
func (i index) move(db abacus.KVStore, prev Object, save Object) error {
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrHuman, "cannot rewrite the primary key")
	}

	oldKeys, err := i.index(prev)
	if err != nil {
		return err
	}
	newKeys, err := i.index(save)
	if err != nil {
		return err
	}

	for _, old := range oldKeys {
		if containsKey(newKeys, old) {
			continue
		}
		if err := i.remove(db, old, prev.Key()); err != nil {
			return err
		}
	}
	for _, next := range newKeys {
		if containsKey(oldKeys, next) {
			continue
		}
		if err := i.insert(db, next, save.Key()); err != nil {
			return err
		}
	}
	return nil
}

func containsKey(haystack [][]byte, needle []byte) bool {
	for _, k := range haystack {
		if bytes.Equal(k, needle) {
			return true
		}
	}
	return false
}

// insert adds this reference under the named index key
func (i index) insert(db abacus.KVStore, index []byte, ref []byte) error {
	if index == nil {
		return nil
	}
	key := i.IndexKey(index)
	val, err := db.Get(key)
	if err != nil {
		return err
	}

	if i.unique {
		if val != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(key, ref)
	}

	refs := new(MultiRef)
	if val != nil {
		if err := refs.Unmarshal(val); err != nil {
			return err
		}
	}
	if err := refs.Add(ref); err != nil {
		return err
	}
	bz, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, bz)
}

// remove drops this reference from the named index key
func (i index) remove(db abacus.KVStore, index []byte, ref []byte) error {
	if index == nil {
		return nil
	}
	key := i.IndexKey(index)
	val, err := db.Get(key)
	if err != nil {
		return err
	}
	if val == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s", i.name)
	}

	if i.unique {
		return db.Delete(key)
	}

	refs := new(MultiRef)
	if err := refs.Unmarshal(val); err != nil {
		return err
	}
	if err := refs.Remove(ref); err != nil {
		return err
	}
	if len(refs.GetRefs()) == 0 {
		return db.Delete(key)
	}
	bz, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, bz)
}
