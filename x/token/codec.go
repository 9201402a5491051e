package token

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterCodec registers this package's message types on the given codec so
// they can travel as the payload of a transaction envelope.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&CreateTokenMsg{}, pathCreateTokenMsg, nil)
	c.RegisterConcrete(&TransferMsg{}, pathTransferMsg, nil)
	c.RegisterConcrete(&ApproveMsg{}, pathApproveMsg, nil)
	c.RegisterConcrete(&TransferFromMsg{}, pathTransferFromMsg, nil)
}
