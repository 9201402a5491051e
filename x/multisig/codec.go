package multisig

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterCodec registers this package's message types on the given codec so
// they can travel as the payload of a transaction envelope.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&InitializeMsg{}, pathInitializeMsg, nil)
	c.RegisterConcrete(&AddOwnerMsg{}, pathAddOwnerMsg, nil)
	c.RegisterConcrete(&RemoveOwnerMsg{}, pathRemoveOwnerMsg, nil)
	c.RegisterConcrete(&ReplaceOwnerMsg{}, pathReplaceOwnerMsg, nil)
	c.RegisterConcrete(&SubmitTransactionMsg{}, pathSubmitTransactionMsg, nil)
	c.RegisterConcrete(&SignTransactionMsg{}, pathSignTransactionMsg, nil)
	c.RegisterConcrete(&UnsignTransactionMsg{}, pathUnsignTransactionMsg, nil)
	c.RegisterConcrete(&RejectTransactionMsg{}, pathRejectTransactionMsg, nil)
	c.RegisterConcrete(&UnrejectTransactionMsg{}, pathUnrejectTransactionMsg, nil)
	c.RegisterConcrete(&ExecuteTransactionMsg{}, pathExecuteTransactionMsg, nil)
	c.RegisterConcrete(&DepositMsg{}, pathDepositMsg, nil)
}
