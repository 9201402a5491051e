package std

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/app"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/store/iavl"
	"github.com/abacuslab/abacus/x"
	"github.com/abacuslab/abacus/x/cash"
	"github.com/abacuslab/abacus/x/ident"
	"github.com/abacuslab/abacus/x/multisig"
	"github.com/abacuslab/abacus/x/property"
	"github.com/abacuslab/abacus/x/school"
	"github.com/abacuslab/abacus/x/token"
	"github.com/abacuslab/abacus/x/utils"
	"github.com/abacuslab/abacus/x/vault"
)

// Authenticator returns the standard authentication, backed by the
// principals the envelope declares.
func Authenticator() x.Authenticator {
	return ident.Authenticate{}
}

// Chain returns the standard chain of decorators, to handle logging,
// recovery and principal declaration.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// A failed check must leave the check cache untouched.
		utils.NewSavepoint().OnCheck(),
		ident.NewDecorator(),
		// A failed delivery must leave no partial writes behind.
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns the standard router with every module route registered.
// All modules that settle value share one cash controller.
func Router(auth x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController(cash.NewBucket())

	migration.RegisterRoutes(r, auth)
	cash.RegisterRoutes(r, auth, bank)
	multisig.RegisterRoutes(r, auth, multisig.NewController(bank))
	token.RegisterRoutes(r, auth, token.NewController())
	vault.RegisterRoutes(r, auth, vault.NewController(bank))
	property.RegisterRoutes(r, auth, property.NewController(bank))
	school.RegisterRoutes(r, auth, school.NewController(bank))
	return r
}

// QueryRouter returns the standard query router with every module query
// registered.
func QueryRouter() abacus.QueryRouter {
	qr := abacus.NewQueryRouter()
	migration.RegisterQuery(qr)
	cash.RegisterQuery(qr)
	token.RegisterQuery(qr)
	vault.RegisterQuery(qr)
	property.RegisterQuery(qr)
	school.RegisterQuery(qr)
	return qr
}

// Stack wires the standard router under the standard decorator chain. The
// result serves as the handler of a ledger.
func Stack() abacus.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Application assembles a ready ledger with the standard stack, persisting
// under the given database path. An empty path keeps all state in memory,
// which is how tests run.
func Application(name string, dbPath string) (*app.Ledger, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	l := app.NewLedger(name, kv, TxDecoder, Stack(), QueryRouter(), context.Background())
	return l.WithInit(Initializer()), nil
}

// CommitKVStore opens the database holding the application state. State is
// kept below dbPath, or only in memory when the path is empty.
func CommitKVStore(dbPath string) (abacus.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid database path: %s", dbPath)
	}
	// Some callers accidently add a ".db" suffix, the backend appends its
	// own.
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
