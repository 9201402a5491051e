package std

import (
	amino "github.com/tendermint/go-amino"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/x/cash"
	"github.com/abacuslab/abacus/x/multisig"
	"github.com/abacuslab/abacus/x/property"
	"github.com/abacuslab/abacus/x/school"
	"github.com/abacuslab/abacus/x/token"
	"github.com/abacuslab/abacus/x/vault"
)

// cdc knows the standard envelope and every module message.
var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// RegisterCodec registers the transaction envelope and the messages of every
// module on the given codec.
func RegisterCodec(c *amino.Codec) {
	c.RegisterInterface((*abacus.Msg)(nil), nil)
	c.RegisterConcrete(&Tx{}, "std/tx", nil)

	cash.RegisterCodec(c)
	migration.RegisterCodec(c)
	multisig.RegisterCodec(c)
	property.RegisterCodec(c)
	school.RegisterCodec(c)
	token.RegisterCodec(c)
	vault.RegisterCodec(c)
}
