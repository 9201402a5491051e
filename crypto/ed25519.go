package crypto

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is a raw ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519,omitempty"`
}

// PrivateKey is a raw ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519,omitempty"`
}

// Signature is a raw ed25519 signature.
type Signature struct {
	Ed25519 []byte `json:"ed25519,omitempty"`
}

// GetEd25519 returns the raw key material, nil when the key is not set.
func (p *PrivateKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

// Verify reports whether sig is a valid signature of msg under this key.
// Keys and signatures of the wrong size verify as false.
func (p *PublicKey) Verify(msg []byte, sig *Signature) bool {
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if sig == nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	publicKey := ed25519.PublicKey(p.Ed25519)
	return ed25519.Verify(publicKey, msg, sig.Ed25519)
}

// Condition wraps the key as a signature condition under the package
// extension. An empty key has no condition.
func (p *PublicKey) Condition() abacus.Condition {
	if len(p.Ed25519) == 0 {
		return nil
	}
	return abacus.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the ledger address of the key condition.
func (p *PublicKey) Address() abacus.Address {
	return p.Condition().Address()
}

// Sign signs msg with this key. A key of the wrong size cannot sign
// anything.
func (p *PrivateKey) Sign(msg []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.ErrInvalidInput.Newf("private key size: %d", len(p.Ed25519))
	}
	privateKey := ed25519.PrivateKey(p.Ed25519)
	bz := ed25519.Sign(privateKey, msg)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey derives the public half of this key.
func (p *PrivateKey) PublicKey() *PublicKey {
	privateKey := ed25519.PrivateKey(p.Ed25519)
	pub := privateKey.Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 draws a fresh private key from crypto/rand.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed derives the private key from a 32 byte seed and
// panics on any other seed length. Fixed seeds give tests deterministic
// keys.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}
