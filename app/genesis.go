package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// Genesis is the file format a full genesis document is expected to be in.
// The app state is what InitGenesis consumes.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// LoadGenesis reads a genesis document from the given file.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(err, "cannot read genesis file")
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrap(err, "cannot parse genesis file")
	}
	return gen, nil
}

// ChainInitializers bundles the initializers of many extensions into a
// single one.
func ChainInitializers(inits ...abacus.Initializer) abacus.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []abacus.Initializer
}

// FromGenesis feeds opts to every bundled initializer in order. The
// first failure stops the run.
func (c chainInitializer) FromGenesis(opts abacus.Options, kv abacus.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
