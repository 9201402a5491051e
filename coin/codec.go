package coin

import (
	"github.com/tendermint/go-amino"
)

// cdc serializes coins embedded in application models.
var cdc = amino.NewCodec()

// Marshal encodes the coin for storage.
func (c *Coin) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

// Unmarshal restores the coin from storage bytes.
func (c *Coin) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, c)
}
