package multisig

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// Initializer loads the package state declared in the genesis file.
type Initializer struct{}

var _ abacus.Initializer = Initializer{}

// FromGenesis establishes the wallet from the "conf" section of the genesis
// file. A genesis without a multisig entry leaves the ledger without a
// wallet, it can still be established later by an initialization message.
func (Initializer) FromGenesis(opts abacus.Options, kv abacus.KVStore) error {
	var conf abacus.Options
	if err := opts.ReadOptions("conf", &conf); err != nil {
		return errors.Wrap(err, "read genesis conf")
	}
	if conf[packageName] == nil {
		return nil
	}
	var w struct {
		Owners    []abacus.Address `json:"owners"`
		Threshold uint32           `json:"threshold"`
	}
	if err := conf.ReadOptions(packageName, &w); err != nil {
		return errors.Wrapf(err, "parse %q configuration", packageName)
	}
	return initializeWallet(kv, w.Owners, w.Threshold)
}
