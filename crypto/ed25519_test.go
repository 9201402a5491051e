package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/abacuslab/abacus/abacustest/assert"
)

func TestEd25519SignAndVerify(t *testing.T) {
	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()

	letter := []byte("an arbitrary payload")
	receipt := []byte("a different payload")

	letterSig, err := priv.Sign(letter)
	assert.Nil(t, err)
	receiptSig, err := priv.Sign(receipt)
	assert.Nil(t, err)

	cases := map[string]struct {
		msg   []byte
		sig   *Signature
		valid bool
	}{
		"first message, own signature":  {letter, letterSig, true},
		"second message, own signature": {receipt, receiptSig, true},
		"signatures swapped":            {letter, receiptSig, false},
		"messages swapped":              {receipt, letterSig, false},
		"empty signature":               {letter, &Signature{}, false},
		"nil signature":                 {letter, nil, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if pub.Verify(tc.msg, tc.sig) != tc.valid {
				t.Fatalf("want valid=%v", tc.valid)
			}
		})
	}

	raw, err := letterSig.Marshal()
	assert.Nil(t, err)
	raw2, err := receiptSig.Marshal()
	assert.Nil(t, err)
	if bytes.Equal(raw, raw2) {
		t.Fatal("signatures of different messages serialize the same")
	}
}

func TestEd25519Condition(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	other := GenPrivKeyEd25519().PublicKey()

	assert.Nil(t, pub.Condition().Validate())
	assert.Nil(t, other.Condition().Validate())
	if bytes.Equal(pub.Condition(), other.Condition()) {
		t.Fatal("two freshly generated keys share a condition")
	}

	// An unset key has no identity.
	var empty PublicKey
	assert.Nil(t, empty.Condition())
	assert.Nil(t, empty.Address())

	raw, err := pub.Marshal()
	assert.Nil(t, err)
	var restored PublicKey
	assert.Nil(t, restored.Unmarshal(raw))
	assert.Equal(t, pub.Condition(), restored.Condition())
}

func TestPrivKeyEd25519FromSeed(t *testing.T) {
	// An ed25519 private key is the seed followed by the derived public
	// key. The public keys below were computed using the reference
	// implementation.
	zeros := make([]byte, 32)
	grays := bytes.Repeat([]byte{0x1f}, 32)

	cases := map[string]struct {
		seed   []byte
		pubHex string
	}{
		"zero seed": {
			seed:   zeros,
			pubHex: "3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29",
		},
		"0x1f seed": {
			seed:   grays,
			pubHex: "43046bfe4092b3e94994eada15dcc20d8aaa07b658fd3954eb8e0efb8bdca5de",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			pub, err := hex.DecodeString(tc.pubHex)
			assert.Nil(t, err)
			want := append(append([]byte{}, tc.seed...), pub...)
			priv := PrivKeyEd25519FromSeed(tc.seed)
			assert.Equal(t, want, priv.GetEd25519())
		})
	}
}

func TestPrivKeyEd25519FromSeedBadSize(t *testing.T) {
	for _, seed := range [][]byte{nil, make([]byte, 1), make([]byte, 31), make([]byte, 33)} {
		assert.Panics(t, func() { PrivKeyEd25519FromSeed(seed) })
	}
}
