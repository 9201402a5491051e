package abacus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	b := []byte("foo")
	addr := Address(b)

	assert.NotEqual(t, string(b), addr.String())

	cond := NewCondition("sig", "native", []byte{0xAB})
	assert.NotEqual(t, string(cond), cond.String())
}

func TestAddressUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json     string
		wantErr  bool
		wantAddr Address
	}{
		"default decoding": {
			json:     `"6161616161616161616161616161616161616161"`,
			wantAddr: Address("aaaaaaaaaaaaaaaaaaaa"),
		},
		"hex decoding": {
			json:     `"hex:6161616161616161616161616161616161616161"`,
			wantAddr: Address("aaaaaaaaaaaaaaaaaaaa"),
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: NewCondition("foo", "bar", []byte("conditiondata")).Address(),
		},
		"seq decoding": {
			json:     `"seq:multisig/usage/1"`,
			wantAddr: NewCondition("multisig", "usage", []byte{0, 0, 0, 0, 0, 0, 0, 1}).Address(),
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: true,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: true,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: true,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"address too short": {
			json:    `"6161"`,
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, a.Equals(tc.wantAddr), "got %s", a)
		})
	}
}

func TestConditionRoundtrip(t *testing.T) {
	c := NewCondition("wallet", "treasury", []byte{1, 2, 3, 4})
	ext, typ, data, err := c.Parse()
	require.NoError(t, err)
	assert.Equal(t, "wallet", ext)
	assert.Equal(t, "treasury", typ)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
	require.NoError(t, c.Validate())
	require.NoError(t, c.Address().Validate())
}

func TestConditionValidate(t *testing.T) {
	assert.Error(t, Condition("").Validate())
	assert.Error(t, Condition("fo/ba/1").Validate())
	assert.NoError(t, NewCondition("foo", "bar", []byte{1}).Validate())
}

func TestConditionJSON(t *testing.T) {
	c := NewCondition("foo", "bar", []byte{1, 2})
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"foo/bar/0102"`, string(raw))

	var got Condition
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, c.Equals(got))
}

func TestAddressClone(t *testing.T) {
	a := NewCondition("foo", "bar", []byte{1}).Address()
	b := a.Clone()
	require.True(t, a.Equals(b))
	b[0]++
	assert.False(t, a.Equals(b), "clone must not share state")
}

func TestBech32Roundtrip(t *testing.T) {
	a := NewCondition("foo", "bar", []byte{1, 2}).Address()
	enc, err := a.Bech32("abacus")
	require.NoError(t, err)

	got, err := ParseAddress("bech32:" + enc)
	require.NoError(t, err)
	assert.True(t, a.Equals(got))
}
