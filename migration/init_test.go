package migration

import (
	"encoding/json"
	"testing"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/store"
)

func genesisState(t testing.TB, genesis string) abacus.KVStore {
	t.Helper()

	var opts abacus.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	var ini Initializer
	if err := ini.FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot load genesis: %s", err)
	}
	return db
}

func TestGenesisInitializeSchemaVersions(t *testing.T) {
	db := genesisState(t, `
	{
		"conf": {
			"migration": {
				"admin": "d3b1c8e0a92f4711209c8877665544332211ffee"
			}
		},
		"initialize_schema": ["multisig", "cash", "token"]
	}
	`)

	// Every listed package plus migration itself must be at version one.
	for _, pkg := range []string{"cash", "migration", "multisig", "token"} {
		ver, err := NewSchemaBucket().CurrentSchema(db, pkg)
		if err != nil {
			t.Fatalf("current schema of %q: %s", pkg, err)
		}
		if ver != 1 {
			t.Fatalf("schema of %q: want version 1, got %d", pkg, ver)
		}
	}
}

func TestGenesisWithoutSchemaList(t *testing.T) {
	db := genesisState(t, `
	{
		"conf": {
			"migration": {
				"admin": "d3b1c8e0a92f4711209c8877665544332211ffee"
			}
		}
	}
	`)

	// The migration schema is registered even when the list is missing.
	ver, err := NewSchemaBucket().CurrentSchema(db, "migration")
	if err != nil {
		t.Fatalf("current schema: %s", err)
	}
	if ver != 1 {
		t.Fatalf("want version 1, got %d", ver)
	}
}
