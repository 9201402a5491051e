package property

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/abacustest"
	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/store"
)

func TestGenesisDeeds(t *testing.T) {
	alice := abacustest.NewCondition().Address()
	bob := abacustest.NewCondition().Address()

	genesis := fmt.Sprintf(`
		{
			"deeds": [
				{"parcel": "NW4/031-A", "owner": %q},
				{"parcel": "NW4/031-B", "owner": %q}
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

	bucket := NewDeedBucket()
	d, err := bucket.GetDeed(db, abacustest.SequenceID(0))
	assert.Nil(t, err)
	assert.Equal(t, "NW4/031-A", d.Parcel)
	assert.Equal(t, alice, d.Owner)
	if d.Price != nil {
		t.Fatalf("a genesis deed must not be for sale: %v", d.Price)
	}

	_, d, err = bucket.GetByParcel(db, "NW4/031-B")
	assert.Nil(t, err)
	assert.Equal(t, bob, d.Owner)
}

func TestGenesisWithoutDeeds(t *testing.T) {
	var opts abacus.Options
	if err := json.Unmarshal([]byte(`{}`), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	migration.MustInitPkg(db, packageName)
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(opts, db))
}

func TestGenesisDuplicateParcel(t *testing.T) {
	alice := abacustest.NewCondition().Address()
	bob := abacustest.NewCondition().Address()

	genesis := fmt.Sprintf(`
		{
			"deeds": [
				{"parcel": "NW4/031-A", "owner": %q},
				{"parcel": "NW4/031-A", "owner": %q}
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
	if err := ini.FromGenesis(opts, db); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
