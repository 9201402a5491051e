package orm

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/x"
)

// Keyed is a value that knows the database key it is stored under.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable creates a fresh instance that data can be loaded into.
type Cloneable interface {
	Clone() Object
}

// Object is a single bucket entry. The key is joined with the bucket
// prefix to form the full database key, the value holds the data.
type Object interface {
	Keyed
	Cloneable
	// Validate returns an error if the object cannot be saved in its
	// current state (missing fields, values out of range).
	x.Validater
	Value() abacus.Persistent
}

// Reader can look up objects by key.
type Reader interface {
	Get(db abacus.ReadOnlyKVStore, key []byte) (Object, error)
}

// CloneableData is a value that can be embedded in a SimpleObj, which
// then takes care of the Object mechanics.
type CloneableData interface {
	x.Validater
	abacus.Persistent
	Copy() CloneableData
}

// Model is implemented by any entity that a ModelBucket can store. It is
// the same contract as CloneableData under a name that reads better in
// the ModelBucket API.
type Model interface {
	abacus.Persistent
	Validate() error
	Copy() CloneableData
}
