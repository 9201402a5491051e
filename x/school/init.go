package school

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/gconf"
)

const optKey = "students"

// Initializer loads the package state declared in the genesis file.
type Initializer struct{}

var _ abacus.Initializer = Initializer{}

// FromGenesis stores the school configuration from the "conf" section
// and enrolls any students listed in the genesis file. A genesis without
// a school entry leaves the package unconfigured, the configuration can
// still be established later by the schema admin through a configuration
// update message.
func (Initializer) FromGenesis(opts abacus.Options, kv abacus.KVStore) error {
	var conf abacus.Options
	if err := opts.ReadOptions("conf", &conf); err != nil {
		return errors.Wrap(err, "read genesis conf")
	}
	if conf[packageName] != nil {
		var c Configuration
		if err := conf.ReadOptions(packageName, &c); err != nil {
			return errors.Wrapf(err, "parse %q configuration", packageName)
		}
		if c.Metadata == nil {
			c.Metadata = &abacus.Metadata{Schema: 1}
		}
		if err := gconf.Save(kv, packageName, &c); err != nil {
			return errors.Wrapf(err, "store %q configuration", packageName)
		}
	}

	var students []struct {
		Name  string         `json:"name"`
		Owner abacus.Address `json:"owner"`
	}
	if err := opts.ReadOptions(optKey, &students); err != nil {
		return err
	}
	bucket := NewStudentBucket()
	for i, decl := range students {
		s := Student{
			Metadata: &abacus.Metadata{Schema: 1},
			Name:     decl.Name,
			Owner:    decl.Owner,
		}
		if _, err := bucket.Create(kv, &s); err != nil {
			return errors.Wrapf(err, "student at position %d", i)
		}
	}
	return nil
}
