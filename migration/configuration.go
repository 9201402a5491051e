package migration

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/gconf"
)

// Configuration is the migration package state. Admin is the only address
// allowed to activate new schema versions.
type Configuration struct {
	Metadata *abacus.Metadata
	Admin    abacus.Address
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Admin.Validate(); err != nil {
		return errors.Wrap(err, "admin")
	}
	return nil
}

// Marshal encodes the configuration for storage.
func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

// Unmarshal restores the configuration from storage bytes.
func (c *Configuration) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, c)
}

func mustLoadConf(db gconf.ReadStore) Configuration {
	var conf Configuration
	if err := gconf.Load(db, "migration", &conf); err != nil {
		err = errors.Wrap(err, "load configuration")
		panic(err)
	}
	return conf
}

// CurrentAdmin returns the address currently authorized to manage schema
// versions. It can be used as the initial admin source for other package
// configurations.
func CurrentAdmin(db abacus.ReadOnlyKVStore) (abacus.Address, error) {
	var conf Configuration
	if err := gconf.Load(db, "migration", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return conf.Admin, nil
}
