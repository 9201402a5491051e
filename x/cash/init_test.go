package cash

import (
	"testing"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/store"
)

func TestGenesisAccounts(t *testing.T) {
	cases := map[string]struct {
		opts       abacus.Options
		wantErr    bool
		acct       abacus.Address
		wantWallet coin.Coins
	}{
		"no accounts declared": {
			opts: abacus.Options{},
		},
		"unrelated options are ignored": {
			opts: abacus.Options{"foo": []byte(`"bar"`)},
		},
		"account funded with a structured coin": {
			opts: abacus.Options{
				"cash": []byte(`[{
					"address": "0102030405060708090021222324252627282930",
					"coins": [{"whole": 50, "fractional": 1234567, "ticker": "FOO"}]
				}]`),
			},
			acct:       fromHex(t, "0102030405060708090021222324252627282930"),
			wantWallet: mustCombineCoins(coin.NewCoin(50, 1234567, "FOO")),
		},
		"account funded with a human readable coin": {
			opts: abacus.Options{
				"cash": []byte(`[{
					"address": "0102030405060708090021222324252627282930",
					"coins": ["100.005 ATM"]
				}]`),
			},
			acct:       fromHex(t, "0102030405060708090021222324252627282930"),
			wantWallet: mustCombineCoins(coin.NewCoin(100, 5000000, "ATM")),
		},
		"invalid address is rejected": {
			opts: abacus.Options{
				"cash": []byte(`[{"address": "1234", "coins": ["1 FOO"]}]`),
			},
			wantErr: true,
		},
		"malformed coin declaration is rejected": {
			opts: abacus.Options{
				"cash": []byte(`[{"coins": 123}]`),
			},
			wantErr: true,
		},
	}

	init := Initializer{}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			migration.MustInitPkg(kv, "cash")
			err := init.FromGenesis(tc.opts, kv)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("cannot load genesis: %+v", err)
			}

			if tc.acct != nil {
				wallet := getWallet(t, kv, tc.acct)
				assert.Equal(t, tc.wantWallet, wallet)
			}
		})
	}
}

func fromHex(t testing.TB, s string) abacus.Address {
	t.Helper()
	addr, err := abacus.ParseAddress(s)
	if err != nil {
		t.Fatalf("cannot parse address %q: %s", s, err)
	}
	return addr
}

// mustCombineCoins builds a normalized set, panicking instead of
// returning an error so cases read as one liners.
func mustCombineCoins(cs ...coin.Coin) coin.Coins {
	s, err := coin.CombineCoins(cs...)
	if err != nil {
		panic(err)
	}
	return s
}
