package vault

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/orm"
	"github.com/abacuslab/abacus/x/cash"
)

const optKey = "vaults"

// Initializer loads the package state declared in the genesis file.
type Initializer struct {
	Minter cash.Controller
}

var _ abacus.Initializer = (*Initializer)(nil)

// FromGenesis creates a vault for every entry listed in the genesis file.
// The funds of a genesis vault are minted straight into the vault account,
// no source wallet is debited.
func (i *Initializer) FromGenesis(opts abacus.Options, db abacus.KVStore) error {
	var vaults []struct {
		Source      abacus.Address  `json:"source"`
		Beneficiary abacus.Address  `json:"beneficiary"`
		ReleaseAt   abacus.UnixTime `json:"release_at"`
		Memo        string          `json:"memo"`
		Amount      []*coin.Coin    `json:"amount"`
	}
	if err := opts.ReadOptions(optKey, &vaults); err != nil {
		return err
	}
	bucket := NewVaultBucket()
	for j, decl := range vaults {
		v := Vault{
			Metadata:    &abacus.Metadata{Schema: 1},
			Source:      decl.Source,
			Beneficiary: decl.Beneficiary,
			ReleaseAt:   decl.ReleaseAt,
			Memo:        decl.Memo,
		}
		id, err := bucket.Create(db, &v)
		if err != nil {
			return errors.Wrapf(err, "vault at position %d", j)
		}
		for _, c := range decl.Amount {
			if err := i.Minter.IssueCoins(db, v.Address, *c); err != nil {
				return errors.Wrapf(err, "fund vault %d", orm.DecodeSequence(id))
			}
		}
	}
	return nil
}
