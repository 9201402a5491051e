package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abacuslab/abacus/errors"
)

// IsCC reports whether a string is a well formed currency code.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// MaxInt is the upper bound of the whole part of a coin.
	MaxInt int64 = 999999999999999 // 10^15 - 1
	// MinInt is the lower bound of the whole part of a coin.
	MinInt = -MaxInt

	// FracUnit is the number of fractional units making up one whole.
	FracUnit int64 = 1000000000 // 10^9
	// MaxFrac is the upper bound of the fractional part of a coin.
	MaxFrac = FracUnit - 1
	// MinFrac is the lower bound of the fractional part of a coin.
	MinFrac = -MaxFrac
)

// Coin is an amount of a single currency, split into a whole part and a
// fractional part expressed in 10^-9 units of the whole. Both parts must
// carry the same sign.
type Coin struct {
	// Whole coins, -10^15 < whole < 10^15
	Whole int64 `json:"whole,omitempty"`
	// Fractional fragment of a coin, -10^9 < fractional < 10^9
	Fractional int64 `json:"fractional,omitempty"`
	// Ticker is a 3-4 letter currency code
	Ticker string `json:"ticker,omitempty"`
}

// NewCoin returns a coin of the given currency and value.
func NewCoin(whole, fractional int64, ticker string) Coin {
	return Coin{Whole: whole, Fractional: fractional, Ticker: ticker}
}

// NewCoinp returns the coin as a pointer, handy when filling message fields.
func NewCoinp(whole, fractional int64, ticker string) *Coin {
	c := Coin{Whole: whole, Fractional: fractional, Ticker: ticker}
	return &c
}

// ID returns the currency code this coin counts.
func (c Coin) ID() string {
	return c.Ticker
}

// Add combines two coin values. It fails when the currencies differ or when
// the sum leaves the allowed range.
func (c Coin) Add(o Coin) (Coin, error) {
	// A zero value without a ticker is the neutral element, it adopts
	// the currency of the other operand.
	if c.IsZero() && c.Ticker == "" {
		return o, nil
	}
	if o.IsZero() && o.Ticker == "" {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, ErrInvalidCurrency.Newf("adding %s to %s", c.Ticker, o.Ticker)
	}
	sum := Coin{
		Ticker:     c.Ticker,
		Whole:      c.Whole + o.Whole,
		Fractional: c.Fractional + o.Fractional,
	}
	return sum.normalize()
}

// Subtract returns the value of this coin lowered by the given amount.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(amount.Negative())
}

// Negative returns the coin with the sign of both parts flipped, so that
// c.Add(c.Negative()) is zero.
func (c Coin) Negative() Coin {
	return Coin{Ticker: c.Ticker, Whole: -c.Whole, Fractional: -c.Fractional}
}

// Compare orders two normalized coin values, ignoring the currency. It
// returns 1 when c is greater, -1 when o is greater and 0 when equal.
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Whole > o.Whole:
		return 1
	case c.Whole < o.Whole:
		return -1
	case c.Fractional > o.Fractional:
		return 1
	case c.Fractional < o.Fractional:
		return -1
	}
	return 0
}

// Equals reports whether both coins carry the same currency and value.
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Whole == o.Whole && c.Fractional == o.Fractional
}

// IsEmpty reports whether the coin is nil or of zero value.
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero reports whether both parts are zero.
func (c Coin) IsZero() bool {
	return c.Whole == 0 && c.Fractional == 0
}

// IsPositive reports whether the value is strictly greater than zero.
func (c Coin) IsPositive() bool {
	return c.Whole > 0 || (c.Whole == 0 && c.Fractional > 0)
}

// IsNonNegative reports whether the value is zero or greater.
func (c Coin) IsNonNegative() bool {
	return c.Whole >= 0 && c.Fractional >= 0
}

// IsGTE reports whether c is of the same currency and at least as large as o.
// Both values must be normalized.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Compare(o) >= 0
}

// SameType reports whether both coins count the same currency.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone returns an independent copy of a coin pointer.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate checks the currency code, the value range and that the signs of
// both parts agree. Negative values pass, business logic that needs a
// positive amount must check on its own.
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, ErrInvalidCurrency.Newf("invalid currency: %s", c.Ticker))
	}
	if c.Whole > MaxInt || c.Whole < MinInt {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "whole"))
	}
	if c.Fractional > MaxFrac || c.Fractional < MinFrac {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "fractional"))
	}
	if (c.Whole > 0 && c.Fractional < 0) || (c.Whole < 0 && c.Fractional > 0) {
		err = errors.Append(err, ErrInvalidCoin.New("mismatched sign"))
	}
	return err
}

// normalize moves overflow of the fractional part into the whole part and
// aligns the signs of both. It fails when the whole part ends up outside the
// allowed range.
func (c Coin) normalize() (Coin, error) {
	c.Whole += c.Fractional / FracUnit
	c.Fractional %= FracUnit

	switch {
	case c.Whole > 0 && c.Fractional < 0:
		c.Whole--
		c.Fractional += FracUnit
	case c.Whole < 0 && c.Fractional > 0:
		c.Whole++
		c.Fractional -= FracUnit
	}

	if c.Whole > MaxInt || c.Whole < MinInt {
		return Coin{}, errors.ErrOverflow
	}
	return c, nil
}

// UnmarshalJSON accepts either the human readable string form of a coin,
// like "1.5 ABC", or the regular structured form.
func (c *Coin) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := ParseHumanFormat(text)
		if err == nil {
			*c = parsed
		}
		return err
	}

	// The plain type carries no UnmarshalJSON method, decoding into it
	// cannot recurse back here.
	type plain Coin
	var dec plain
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	*c = Coin(dec)
	return nil
}

// String renders the coin the way ParseHumanFormat reads it back. An
// invalid coin, for example one without a ticker, still prints readable
// but will not parse back.
func (c Coin) String() string {
	if nrm, err := c.normalize(); err == nil {
		c = nrm
	}

	var buf strings.Builder
	buf.WriteString(strconv.FormatInt(c.Whole, 10))

	frac := c.Fractional
	if frac < 0 {
		frac = -frac
	}
	if frac != 0 {
		// Nine digits express the 10^-9 scale, insignificant trailing
		// zeros are dropped.
		buf.WriteString(strings.TrimRight(fmt.Sprintf(".%09d", frac), "0"))
	}

	if c.Ticker != "" {
		buf.WriteString(" " + c.Ticker)
	}
	return buf.String()
}

var humanFmtRx = regexp.MustCompile(`^(\-?)\s*(\d+)(\.\d+)?\s*([A-Z]{3,4})$`)

// ParseHumanFormat parses the human readable form of a coin, a whole
// number with an optional fractional part, then the ticker, like
// "1.5 ABC".
func ParseHumanFormat(h string) (Coin, error) {
	m := humanFmtRx.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, ErrInvalidCoin.New("malformed value")
	}

	whole, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrap(err, "whole value")
	}

	var fract int64
	if m[3] != "" {
		val, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return Coin{}, errors.Wrap(err, "fractional value")
		}
		fract = int64(val * float64(FracUnit))
	}

	if m[1] == "-" {
		whole = -whole
		fract = -fract
	}

	return Coin{Ticker: m[4], Whole: whole, Fractional: fract}, nil
}
