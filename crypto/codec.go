package crypto

import (
	"github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Marshal encodes the public key for storage.
func (p *PublicKey) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

// Unmarshal restores the public key from storage bytes.
func (p *PublicKey) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, p)
}

// Marshal encodes the private key for storage.
func (p *PrivateKey) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

// Unmarshal restores the private key from storage bytes.
func (p *PrivateKey) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, p)
}

// Marshal encodes the signature for storage.
func (s *Signature) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

// Unmarshal restores the signature from storage bytes.
func (s *Signature) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, s)
}
