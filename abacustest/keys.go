package abacustest

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/crypto"
)

// NewCondition returns the signature condition of a freshly generated
// Ed25519 key pair.
func NewCondition() abacus.Condition {
	return crypto.GenPrivKeyEd25519().PublicKey().Condition()
}
