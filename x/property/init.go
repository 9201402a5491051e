package property

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

const optKey = "deeds"

// Initializer loads the package state declared in the genesis file.
type Initializer struct{}

var _ abacus.Initializer = Initializer{}

// FromGenesis registers the deeds listed in the genesis file. They pass
// through the regular create path, so duplicate parcels in genesis abort
// the initialization.
func (Initializer) FromGenesis(opts abacus.Options, db abacus.KVStore) error {
	var deeds []struct {
		Parcel string         `json:"parcel"`
		Owner  abacus.Address `json:"owner"`
	}
	if err := opts.ReadOptions(optKey, &deeds); err != nil {
		return err
	}
	bucket := NewDeedBucket()
	for i, decl := range deeds {
		d := Deed{
			Metadata: &abacus.Metadata{Schema: 1},
			Parcel:   decl.Parcel,
			Owner:    decl.Owner,
		}
		if _, err := bucket.Create(db, &d); err != nil {
			return errors.Wrapf(err, "deed at position %d", i)
		}
	}
	return nil
}
