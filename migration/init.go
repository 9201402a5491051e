package migration

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/gconf"
)

// Initializer loads the package state declared in the genesis file.
type Initializer struct{}

var _ abacus.Initializer = Initializer{}

// FromGenesis stores the migration configuration and bumps the schema
// version of every package the genesis file lists, so that their handlers
// accept messages from the start.
func (Initializer) FromGenesis(opts abacus.Options, kv abacus.KVStore) error {
	if err := gconf.InitConfig(kv, opts, "migration", &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var pkgNames []string
	if err := opts.ReadOptions("initialize_schema", &pkgNames); err != nil {
		return errors.Wrap(err, "initialize schema")
	}
	// The migration package must always have its schema registered as
	// otherwise no message processing is possible.
	pkgNames = append(pkgNames, "migration")
	if err := InitPkg(kv, pkgNames...); err != nil {
		return errors.Wrap(err, "initialize")
	}
	return nil
}
