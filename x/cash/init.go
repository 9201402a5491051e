package cash

import (
	"github.com/abacuslab/abacus"
)

const optKey = "cash"

// GenesisAccount is a single funded account declared in the genesis file.
// The address is hex encoded, the embedded Set carries the initial balance.
type GenesisAccount struct {
	Address abacus.Address `json:"address"`
	Set
}

// Initializer loads the initial account balances from the genesis file.
type Initializer struct{}

var _ abacus.Initializer = Initializer{}

// FromGenesis creates a wallet for every account listed under the "cash"
// genesis option.
func (Initializer) FromGenesis(opts abacus.Options, kv abacus.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accounts); err != nil {
		return err
	}
	bucket := NewBucket()
	for _, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return err
		}
		wallet, err := WalletWith(a.Address, a.Set.Coins...)
		if err != nil {
			return err
		}
		if err := bucket.Save(kv, wallet); err != nil {
			return err
		}
	}
	return nil
}
