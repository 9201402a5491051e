package std

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/app"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/x/cash"
	"github.com/abacuslab/abacus/x/multisig"
	"github.com/abacuslab/abacus/x/property"
	"github.com/abacuslab/abacus/x/school"
	"github.com/abacuslab/abacus/x/token"
	"github.com/abacuslab/abacus/x/vault"
)

// Initializer returns the combined genesis initializer of all modules.
// Migration runs first so that every other module writes records under an
// initialized schema, cash second so that later modules can mint against
// existing wallets.
func Initializer() abacus.Initializer {
	return app.ChainInitializers(
		migration.Initializer{},
		cash.Initializer{},
		multisig.Initializer{},
		token.Initializer{},
		&vault.Initializer{Minter: cash.NewController(cash.NewBucket())},
		property.Initializer{},
		school.Initializer{},
	)
}
