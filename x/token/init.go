package token

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
)

const optKey = "tokens"

// GenesisToken is used to parse one token declaration from the genesis
// file.
type GenesisToken struct {
	Ticker      string         `json:"ticker"`
	Name        string         `json:"name"`
	Owner       abacus.Address `json:"owner"`
	TotalSupply *coin.Coin     `json:"total_supply"`
}

// Initializer loads the package state declared in the genesis file.
type Initializer struct{}

var _ abacus.Initializer = Initializer{}

// FromGenesis issues the tokens declared in genesis, crediting each owner
// with the whole supply.
func (Initializer) FromGenesis(opts abacus.Options, kv abacus.KVStore) error {
	var tokens []GenesisToken
	if err := opts.ReadOptions(optKey, &tokens); err != nil {
		return err
	}
	control := NewController()
	for _, t := range tokens {
		if err := t.Owner.Validate(); err != nil {
			return errors.Wrapf(err, "token %s owner", t.Ticker)
		}
		if t.TotalSupply == nil {
			return errors.Wrapf(errors.ErrEmpty, "token %s supply", t.Ticker)
		}
		if _, err := control.CreateToken(kv, t.Owner, t.Ticker, t.Name, *t.TotalSupply); err != nil {
			return errors.Wrapf(err, "token %s", t.Ticker)
		}
	}
	return nil
}
