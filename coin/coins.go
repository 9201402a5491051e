package coin

import (
	"strings"

	"github.com/abacuslab/abacus/errors"
)

// Coins is a set of coins, at most one value per currency, kept sorted by
// ticker. All operations expect and preserve this form.
type Coins []*Coin

// CombineCoins builds a normalized set out of the given coins, merging
// duplicated currencies. The result is validated.
func CombineCoins(cs ...Coin) (Coins, error) {
	var (
		set Coins
		err error
	)
	for _, c := range cs {
		if set, err = set.Add(c); err != nil {
			return nil, err
		}
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Clone returns a deep copy that can be modified freely.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	out := make(Coins, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}

// Add returns the set with the holdings increased by c. An entry that sums
// up to zero is removed, a zero value input changes nothing.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}

	existing, at := cs.lookup(c.ID())
	if existing != nil {
		sum, err := existing.Add(c)
		if err != nil {
			return nil, err
		}
		if sum.IsZero() {
			return append(cs[:at], cs[at+1:]...), nil
		}
		cs[at] = &sum
		return cs, nil
	}

	if at == len(cs) {
		return append(cs, &c), nil
	}
	// Keep the ticker order, shift the tail right by one.
	out := append(cs, nil)
	copy(out[at+1:], out[at:])
	out[at] = &c
	return out, nil
}

// Subtract returns the set with the holdings decreased by c. The result may
// contain negative amounts.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Combine returns a new set holding the sum of both sets.
func (cs Coins) Combine(o Coins) (Coins, error) {
	sum := cs.Clone()
	for _, c := range o {
		var err error
		if sum, err = sum.Add(*c); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// Contains reports whether the set holds at least the given amount, so that
// subtracting c still leaves a non negative balance.
func (cs Coins) Contains(c Coin) bool {
	existing, _ := cs.lookup(c.ID())
	if existing == nil {
		return false
	}
	return existing.IsGTE(c)
}

// lookup scans the sorted set for a currency. On a hit it returns the coin
// and its position. On a miss the coin is nil and the position is where an
// entry of that currency belongs, possibly len(cs).
func (cs Coins) lookup(id string) (*Coin, int) {
	for i, c := range cs {
		cmp := strings.Compare(id, c.ID())
		if cmp == 0 {
			return c, i
		}
		if cmp < 0 {
			return nil, i
		}
	}
	return nil, len(cs)
}

// IsEmpty reports whether the set holds no coins.
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsPositive reports whether the set holds at least one coin and every coin
// is positive.
func (cs Coins) IsPositive() bool {
	return !cs.IsEmpty() && cs.IsNonNegative()
}

// IsNonNegative reports whether every coin in the set is positive. An empty
// set passes, a zero entry does not, though a normalized set never holds one.
func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsPositive() {
			return false
		}
	}
	return true
}

// Equals reports whether both sets hold exactly the same values.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i, c := range cs {
		if !c.Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Validate checks every coin on its own and requires the set to be sorted by
// ticker with no zero entries.
func (cs Coins) Validate() error {
	var err error
	prev := ""
	for _, c := range cs {
		err = errors.Append(err, errors.Wrap(c.Validate(), "coin"))

		if c.IsZero() {
			err = errors.Append(err, ErrInvalidCoin.New("zero coins"))
		}
		if c.Ticker < prev {
			err = errors.Append(err, ErrInvalidCoin.New("not sorted"))
		}
		prev = c.Ticker
	}
	return err
}
