package crypto

import (
	"github.com/abacuslab/abacus"
)

// ExtensionName prefixes every condition derived from a public key.
const ExtensionName = "sigs"

// PubKey can verify message signatures and map itself to a condition.
type PubKey interface {
	Verify(msg []byte, sig *Signature) bool
	Condition() abacus.Condition
}

// Signer produces signatures. There is no serialization requirement, so a
// hardware backed implementation is possible as well.
type Signer interface {
	Sign(msg []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var (
	_ PubKey = (*PublicKey)(nil)
	_ Signer = (*PrivateKey)(nil)
)
