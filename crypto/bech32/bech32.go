// Package bech32 converts between raw address payloads and their bech32
// text representation, used in genesis files and operator tooling.
package bech32

import (
	"github.com/abacuslab/abacus/errors"
	"github.com/btcsuite/btcutil/bech32"
)

// Decode parses bech32 text into its human readable part and the raw payload
// bytes.
func Decode(enc string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(enc)
	if err != nil {
		return "", nil, errors.Wrap(err, "bech32 decode")
	}
	// The wire format carries 5 bit groups, the payload uses full bytes.
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(err, "convert bits")
	}
	return hrp, payload, nil
}

// Encode renders the payload as bech32 text under the given human readable
// part.
func Encode(hrp string, payload []byte) ([]byte, error) {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return nil, errors.Wrap(err, "convert bits")
	}
	enc, err := bech32.Encode(hrp, data)
	if err != nil {
		return nil, errors.Wrap(err, "bech32 encode")
	}
	return []byte(enc), nil
}
