package abacus

import (
	"encoding/json"
)

// Options holds the raw genesis declarations, keyed by extension. Every
// extension picks its own entries and decodes them on its own.
type Options map[string]json.RawMessage

// ReadOptions decodes the value stored under the key into obj. A missing
// key leaves obj untouched and is no error.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw := o[key]
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer implementations seed their extension state from the genesis
// declarations.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
