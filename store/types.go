package store

import "github.com/abacuslab/abacus"

// The storage interfaces are declared in the root package. They are aliased
// here so that store implementations and their consumers can use the short
// names.
type (
	ReadOnlyKVStore  = abacus.ReadOnlyKVStore
	KVStore          = abacus.KVStore
	SetDeleter       = abacus.SetDeleter
	Batch            = abacus.Batch
	Iterator         = abacus.Iterator
	CacheableKVStore = abacus.CacheableKVStore
	KVCacheWrap      = abacus.KVCacheWrap
	CommitKVStore    = abacus.CommitKVStore
	CommitID         = abacus.CommitID
	Model            = abacus.Model
)

// Pair builds a Model, mirroring the parent package helper.
var Pair = abacus.Pair
