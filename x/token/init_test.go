package token

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/abacustest"
	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/store"
)

func TestGenesisTokens(t *testing.T) {
	alice := abacustest.NewCondition().Address()
	bob := abacustest.NewCondition().Address()

	genesis := fmt.Sprintf(`
		{
			"tokens": [
				{
					"ticker": "DGC",
					"name": "Dragon Coin",
					"owner": %q,
					"total_supply": {"whole": 1000, "ticker": "DGC"}
				},
				{
					"ticker": "ELF",
					"name": "Elven Gold",
					"owner": %q,
					"total_supply": {"whole": 500, "ticker": "ELF"}
				}
			]
		}
	`, alice, bob)

	var opts abacus.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	migration.MustInitPkg(db, packageName)
	var ini Initializer
	if err := ini.FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot load genesis: %s", err)
	}

	ctrl := NewController()
	tok, err := ctrl.GetToken(db, "DGC")
	assert.Nil(t, err)
	assert.Equal(t, "Dragon Coin", tok.Name)

	balance, err := ctrl.Balance(db, "DGC", alice)
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(1000, 0, "DGC"), balance)

	balance, err = ctrl.Balance(db, "ELF", bob)
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(500, 0, "ELF"), balance)
}

func TestGenesisWithoutTokens(t *testing.T) {
	var opts abacus.Options
	if err := json.Unmarshal([]byte(`{}`), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	migration.MustInitPkg(db, packageName)
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(opts, db))
}

func TestGenesisDuplicateTicker(t *testing.T) {
	alice := abacustest.NewCondition().Address()

	genesis := fmt.Sprintf(`
		{
			"tokens": [
				{
					"ticker": "DGC",
					"name": "Dragon Coin",
					"owner": %q,
					"total_supply": {"whole": 1000, "ticker": "DGC"}
				},
				{
					"ticker": "DGC",
					"name": "Copycat",
					"owner": %q,
					"total_supply": {"whole": 1, "ticker": "DGC"}
				}
			]
		}
	`, alice, alice)

	var opts abacus.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	migration.MustInitPkg(db, packageName)
	var ini Initializer
	if err := ini.FromGenesis(opts, db); !ErrDuplicateTicker.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
