package orm

import (
	"github.com/tendermint/go-amino"
)

// cdc serializes the orm bookkeeping types. Application level types
// register their own codecs.
var cdc = amino.NewCodec()
