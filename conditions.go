package abacus

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abacuslab/abacus/crypto/bech32"
	"github.com/abacuslab/abacus/errors"
)

var (
	// AddressLength is the size of every address. It can be changed in an
	// init function before the first address is computed, never while the
	// database is live.
	AddressLength = 20

	// The (?s) flag lets the data section contain any byte, including
	// newline.
	perm = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)
)

// Condition names an authorization requirement. It is a byte string of the
// form
//
//   extension/type/data
//
// and is what extensions declare when asked who may perform an action.
type Condition []byte

func NewCondition(ext, typ string, data []byte) Condition {
	out := make([]byte, 0, len(ext)+len(typ)+len(data)+2)
	out = append(out, ext...)
	out = append(out, '/')
	out = append(out, typ...)
	out = append(out, '/')
	return append(out, data...)
}

// Parse splits the condition into its three sections. A malformed condition
// is an error.
func (c Condition) Parse() (string, string, []byte, error) {
	parts := perm.FindSubmatch(c)
	if len(parts) == 0 {
		return "", "", nil, errors.ErrInvalidInput.Newf("condition: %X", []byte(c))
	}
	return string(parts[1]), string(parts[2]), parts[3], nil
}

// Address is the one way digest of this condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals compares two conditions byte for byte.
func (c Condition) Equals(other Condition) bool {
	return bytes.Equal(c, other)
}

// String keeps the extension and type sections readable and hex encodes only
// the data section.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the condition is not well formed.
func (c Condition) Validate() error {
	if !perm.Match(c) {
		return errors.ErrInvalidInput.Newf("condition: %X", []byte(c))
	}
	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	var serialized string
	if c != nil {
		serialized = c.String()
	}
	return json.Marshal(serialized)
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	return c.deserialize(enc)
}

// deserialize parses the human readable form produced by String.
func (c *Condition) deserialize(source string) error {
	if len(source) == 0 {
		*c = nil
		return nil
	}

	args := strings.Split(source, "/")
	if len(args) != 3 {
		return errors.ErrInvalidInput.Newf("invalid condition format")
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return errors.ErrInvalidInput.Newf("malformed condition data: %s", err)
	}
	*c = NewCondition(args[0], args[1], data)
	return nil
}

// Address is a collision free one way digest of a condition, always
// AddressLength bytes long.
type Address []byte

// Equals compares two addresses byte for byte.
func (a Address) Equals(other Address) bool {
	return bytes.Equal(a, other)
}

// Clone returns a copy of this address that shares no state with the
// original.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	cpy := make(Address, len(a))
	copy(cpy, a)
	return cpy
}

// MarshalJSON writes the address as an uppercase hex string instead of the
// default base64 byte encoding.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("%X", []byte(a)))
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes a human readable address representation. Accepted
// formats are raw hex and, selected by a prefix, "hex:", "cond:", "seq:" and
// "bech32:". An empty string decodes into a nil address.
func ParseAddress(enc string) (Address, error) {
	format, value := "hex", enc
	if i := strings.Index(enc, ":"); i != -1 {
		format, value = enc[:i], enc[i+1:]
	}

	// No value means no address.
	if len(value) == 0 {
		return nil, nil
	}

	switch format {
	case "hex":
		raw, err := hex.DecodeString(value)
		if err != nil {
			return nil, errors.Wrap(err, "cannot decode hex")
		}
		addr := Address(raw)
		if err := addr.Validate(); err != nil {
			return nil, err
		}
		return addr, nil
	case "cond":
		var c Condition
		if err := c.deserialize(value); err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c.Address(), nil
	case "seq":
		args := strings.Split(value, "/")
		if len(args) != 3 {
			return nil, errors.ErrInvalidInput.New("invalid condition format")
		}
		n, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "malformed sequence counter")
		}
		data := make([]byte, 8)
		binary.BigEndian.PutUint64(data, n)
		return NewCondition(args[0], args[1], data).Address(), nil
	case "bech32":
		_, payload, err := bech32.Decode(value)
		if err != nil {
			return nil, errors.Wrap(err, "decode bech32")
		}
		addr := Address(payload)
		if err := addr.Validate(); err != nil {
			return nil, err
		}
		return addr, nil
	default:
		return nil, errors.ErrInvalidType.Newf("unknown format %q", format)
	}
}

// Bech32 encodes the address with the given human readable prefix.
func (a Address) Bech32(hrp string) (string, error) {
	raw, err := bech32.Encode(hrp, a)
	if err != nil {
		return "", errors.Wrap(err, "encode bech32")
	}
	return string(raw), nil
}

// String returns the uppercase hex form of the address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return fmt.Sprintf("%X", []byte(a))
}

// Validate returns an error if the address is not the expected size.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInvalidInput.Newf("address: %v", a)
	}
	return nil
}

// NewAddress hashes the data and truncates the digest to AddressLength.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}
