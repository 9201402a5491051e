package vault

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterCodec registers this package's message types on the given codec so
// they can travel as the payload of a transaction envelope.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&CreateVaultMsg{}, pathCreateVaultMsg, nil)
	c.RegisterConcrete(&DepositMsg{}, pathDepositMsg, nil)
	c.RegisterConcrete(&WithdrawMsg{}, pathWithdrawMsg, nil)
}
