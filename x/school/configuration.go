package school

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/gconf"
)

// Configuration is the school package state. The owner is the school
// authority that records grades and updates this configuration. Tuition
// payments land on the treasury wallet.
type Configuration struct {
	Metadata *abacus.Metadata `json:"metadata"`
	Owner    abacus.Address   `json:"owner"`
	Treasury abacus.Address   `json:"treasury"`
	Tuition  *coin.Coin       `json:"tuition"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// GetOwner satisfies gconf.OwnedConfig. Only the owner can patch the
// configuration.
func (c *Configuration) GetOwner() abacus.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "Treasury", c.Treasury.Validate())
	if c.Tuition == nil || !c.Tuition.IsPositive() {
		errs = errors.Append(errs,
			errors.Field("Tuition", errors.ErrInvalidAmount, "non-positive tuition"))
	} else {
		errs = errors.AppendField(errs, "Tuition", c.Tuition.Validate())
	}
	return errs
}

// Marshal encodes the configuration for storage.
func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

// Unmarshal restores the configuration from storage bytes.
func (c *Configuration) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, c)
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
