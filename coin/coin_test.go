package coin

import (
	"encoding/json"
	"testing"

	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/errors"
)

func TestCompareCoin(t *testing.T) {
	cases := map[string]struct {
		a    Coin
		b    Coin
		want int
	}{
		"barely greater": {
			a:    NewCoin(33, 17, "LSK"),
			b:    NewCoin(32, 999999999, "LSK"),
			want: 1,
		},
		"smaller, negative against positive": {
			a:    NewCoin(0, -7, "PEN"),
			b:    NewCoin(0, 4, "PEN"),
			want: -1,
		},
		"greater, both negative": {
			a:    NewCoin(-9, -120, "PEN"),
			b:    NewCoin(-9, -450, "PEN"),
			want: 1,
		},
		"zero value coins": {
			a:    Coin{},
			b:    Coin{},
			want: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.a.Compare(tc.b), tc.want)
		})
	}
}

func TestCoinNegative(t *testing.T) {
	a := NewCoin(123, 456, "LSK")

	n := a.Negative()

	assert.Equal(t, a.Ticker, n.Ticker)
	assert.Equal(t, a.Whole, -n.Whole)
	assert.Equal(t, a.Fractional, -n.Fractional)

	if nn := a.Negative().Negative(); !a.Equals(nn) {
		t.Fatal("double negation malformed the coin")
	}
}

func TestCoinPredicates(t *testing.T) {
	cases := map[string]struct {
		c               Coin
		wantZero        bool
		wantPositive    bool
		wantNonNegative bool
	}{
		"zero": {
			c:               NewCoin(0, 0, "PEN"),
			wantZero:        true,
			wantPositive:    false,
			wantNonNegative: true,
		},
		"positive": {
			c:               NewCoin(0, 1, "PEN"),
			wantZero:        false,
			wantPositive:    true,
			wantNonNegative: true,
		},
		"negative": {
			c:               NewCoin(0, -1, "PEN"),
			wantZero:        false,
			wantPositive:    false,
			wantNonNegative: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.c.IsZero(), tc.wantZero)
			assert.Equal(t, tc.c.IsPositive(), tc.wantPositive)
			assert.Equal(t, tc.c.IsNonNegative(), tc.wantNonNegative)
		})
	}
}

func TestCoinValidationAndNormalization(t *testing.T) {
	cases := map[string]struct {
		coin                 Coin
		wantValErr           *errors.Error
		wantNormalized       Coin
		wantNormalizationErr *errors.Error
		wantNormValErr       *errors.Error
	}{
		"negative fractional alone is valid": {
			coin:           NewCoin(0, -250, "NIO"),
			wantNormalized: NewCoin(0, -250, "NIO"),
		},
		"mismatched signs are normalized away": {
			coin:           NewCoin(9, -250000000, "KUD"),
			wantValErr:     ErrInvalidCoin,
			wantNormalized: NewCoin(8, 750000000, "KUD"),
		},
		"bad ticker survives normalization": {
			coin:           NewCoin(3, 4, "pln2"),
			wantValErr:     ErrInvalidCurrency,
			wantNormalized: NewCoin(3, 4, "pln2"),
			wantNormValErr: ErrInvalidCurrency,
		},
		"fractional below range": {
			coin:           NewCoin(7, -7250000000, "LSK"),
			wantValErr:     errors.ErrOverflow,
			wantNormalized: NewCoin(0, -250000000, "LSK"),
		},
		"fractional rolls the whole over zero": {
			coin:           NewCoin(-2, 2400000003, "LSK"),
			wantValErr:     errors.ErrOverflow,
			wantNormalized: NewCoin(0, 400000003, "LSK"),
		},
		"whole out of range after normalization": {
			coin:                 NewCoin(MaxInt, FracUnit+9, "NIO"),
			wantValErr:           errors.ErrOverflow,
			wantNormalized:       Coin{},
			wantNormalizationErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.coin.Validate(); !tc.wantValErr.Is(err) {
				t.Fatalf("unexpected coin validation error: %s", err)
			}

			normalized, err := tc.coin.normalize()
			if !tc.wantNormalizationErr.Is(err) {
				t.Fatalf("unexpected normalization error: %s", err)
			}
			if tc.wantNormalizationErr != nil {
				return
			}

			if err := normalized.Validate(); !tc.wantNormValErr.Is(err) {
				t.Fatalf("unexpected normalized coin validation error: %s", err)
			}

			if !tc.wantNormalized.Equals(normalized) {
				t.Fatalf("unexpected normalized coin value: %#v", normalized)
			}
		})
	}
}

func TestAddCoin(t *testing.T) {
	base := NewCoin(21, 7700331, "LSK")
	cases := map[string]struct {
		a, b    Coin
		wantRes Coin
		wantErr *errors.Error
	}{
		"value plus its negation is zero": {
			a:       base,
			b:       base.Negative(),
			wantRes: NewCoin(0, 0, "LSK"),
		},
		"different currencies": {
			a:       NewCoin(1, 2, "PEN"),
			b:       NewCoin(2, 3, "LSK"),
			wantRes: Coin{},
			wantErr: ErrInvalidCurrency,
		},
		"sum carries across the fraction": {
			a:       NewCoin(9, 4000, "KUD"),
			b:       NewCoin(-5, -9000, "KUD"),
			wantRes: NewCoin(3, 999995000, "KUD"),
		},
		"sum outside the whole range": {
			a:       NewCoin(600600600654321, 0, "BIG"),
			b:       NewCoin(600600600654321, 0, "BIG"),
			wantRes: NewCoin(0, 0, ""),
			wantErr: errors.ErrOverflow,
		},
		"zero coin adopts the other currency": {
			a:       NewCoin(0, 0, ""),
			b:       NewCoin(1, 0, "MILK"),
			wantRes: NewCoin(1, 0, "MILK"),
		},
		"adding a tickerless zero changes nothing": {
			a:       NewCoin(1, 0, "MILK"),
			b:       NewCoin(0, 0, ""),
			wantRes: NewCoin(1, 0, "MILK"),
		},
		"tickerless non zero coin cannot be added": {
			a:       NewCoin(1, 0, "MILK"),
			b:       NewCoin(1, 0, ""),
			wantErr: ErrInvalidCurrency,
		},
		"tickerless non zero coin cannot be added to": {
			a:       NewCoin(1, 0, ""),
			b:       NewCoin(1, 0, "MILK"),
			wantErr: ErrInvalidCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %v", err)
			}
			if tc.wantErr == nil && !tc.wantRes.Equals(res) {
				t.Fatalf("unexpected result: %v", res)
			}
		})
	}
}

func TestCoinGTE(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		other   Coin
		wantGte bool
	}{
		"greater by fraction": {
			coin:    NewCoin(8, 1, "MILK"),
			other:   NewCoin(8, 0, "MILK"),
			wantGte: true,
		},
		"greater by whole": {
			coin:    NewCoin(9, 0, "MILK"),
			other:   NewCoin(8, 0, "MILK"),
			wantGte: true,
		},
		"equal": {
			coin:    NewCoin(8, 5, "MILK"),
			other:   NewCoin(8, 5, "MILK"),
			wantGte: true,
		},
		"different currency never compares": {
			coin:    NewCoin(8, 5, "MILK"),
			other:   NewCoin(8, 5, "PEN"),
			wantGte: false,
		},
		"less than": {
			coin:    NewCoin(0, 5, "MILK"),
			other:   NewCoin(8, 5, "MILK"),
			wantGte: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.coin.IsGTE(tc.other) != tc.wantGte {
				t.Errorf("want greaterequal = %v", tc.wantGte)
			}
		})
	}
}

func TestCoinSubtract(t *testing.T) {
	cases := map[string]struct {
		a, b Coin
		want Coin
	}{
		"positive result": {a: NewCoin(8, 0, "OBO"), b: NewCoin(3, 0, "OBO"), want: NewCoin(5, 0, "OBO")},
		"zero result":     {a: NewCoin(3, 0, "OBO"), b: NewCoin(3, 0, "OBO"), want: NewCoin(0, 0, "OBO")},
		"negative result": {a: NewCoin(3, 0, "OBO"), b: NewCoin(8, 0, "OBO"), want: NewCoin(-5, 0, "OBO")},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res, err := tc.a.Subtract(tc.b)
			if err != nil {
				t.Fatal(err)
			}
			if !res.Equals(tc.want) {
				t.Fatalf("%+v - %+v = %+v", tc.a, tc.b, res)
			}
		})
	}
}

func TestCoinDeserialization(t *testing.T) {
	cases := map[string]struct {
		serialized string
		wantErr    bool
		wantCoin   Coin
	}{
		"struct form, all fields": {
			serialized: `{"whole": 1, "fractional": 2, "ticker": "GRD"}`,
			wantCoin:   NewCoin(1, 2, "GRD"),
		},
		"struct form, whole only": {
			serialized: `{"whole": 1}`,
			wantCoin:   NewCoin(1, 0, ""),
		},
		"struct form, fractional only": {
			serialized: `{"fractional": 1}`,
			wantCoin:   NewCoin(0, 1, ""),
		},
		"struct form, ticker only": {
			serialized: `{"ticker": "GRD"}`,
			wantCoin:   NewCoin(0, 0, "GRD"),
		},
		"struct form, empty object": {
			serialized: `{}`,
			wantCoin:   NewCoin(0, 0, ""),
		},
		"string form, whole without fractional": {
			serialized: `"1GRD"`,
			wantCoin:   NewCoin(1, 0, "GRD"),
		},
		"string form, spaces before the ticker": {
			serialized: `"1        GRD"`,
			wantCoin:   NewCoin(1, 0, "GRD"),
		},
		"string form, whole and fractional": {
			serialized: `"1.000000002GRD"`,
			wantCoin:   NewCoin(1, 2, "GRD"),
		},
		"string form, whole, fractional and a space": {
			serialized: `"1.000000002 GRD"`,
			wantCoin:   NewCoin(1, 2, "GRD"),
		},
		"string form, fractional only": {
			serialized: `"0.000000002GRD"`,
			wantCoin:   NewCoin(0, 2, "GRD"),
		},
		"string form, missing whole digit": {
			serialized: `".0000000002GRD"`,
			wantErr:    true,
		},
		"string form, number without a ticker": {
			serialized: `"1"`,
			wantErr:    true,
		},
		"string form, fraction without a ticker": {
			serialized: `"1.0000000002"`,
			wantErr:    true,
		},
		"string form, ticker without a number": {
			serialized: `"GRD"`,
			wantErr:    true,
		},
		"string form, ticker too short": {
			serialized: `"1 AB"`,
			wantErr:    true,
		},
		"string form, ticker too long": {
			serialized: `"1 ABCDE"`,
			wantErr:    true,
		},
		"string form, negative value": {
			serialized: `"-4.000000002 GRD"`,
			wantCoin:   NewCoin(4, 2, "GRD").Negative(),
		},
		"string form, negative fraction without whole": {
			serialized: `"-0.000000002 GRD"`,
			wantCoin:   NewCoin(0, 2, "GRD").Negative(),
		},
		"string form, zero": {
			serialized: `"0 GRD"`,
			wantCoin:   NewCoin(0, 0, "GRD"),
		},
		"string form, double negation": {
			serialized: `"--1 GRD"`,
			wantErr:    true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got Coin
			if err := json.Unmarshal([]byte(tc.serialized), &got); err != nil {
				if !tc.wantErr {
					t.Fatalf("cannot unmarshal: %s", err)
				}
				return
			}

			if !tc.wantCoin.Equals(got) {
				t.Fatalf("unexpected coin result: %#v", got)
			}
		})
	}
}

func TestCoinString(t *testing.T) {
	cases := map[string]struct {
		c    Coin
		want string
	}{
		"zero coin": {
			c:    Coin{},
			want: "0",
		},
		"zero coin with a ticker": {
			c:    Coin{Ticker: "LEM"},
			want: "0 LEM",
		},
		"one": {
			c:    NewCoin(1, 0, "LEM"),
			want: "1 LEM",
		},
		"fifty": {
			c:    NewCoin(50, 0, "LEM"),
			want: "50 LEM",
		},
		"minus one": {
			c:    NewCoin(1, 0, "LEM").Negative(),
			want: "-1 LEM",
		},
		"a penny": {
			c:    NewCoin(0, FracUnit/100, "LEM"),
			want: "0.01 LEM",
		},
		"smallest fraction": {
			c:    NewCoin(0, 1, "LEM"),
			want: "0.000000001 LEM",
		},
		"biggest coin": {
			c:    NewCoin(MaxInt, MaxFrac, "LEM"),
			want: "999999999999999.999999999 LEM",
		},
		"smallest coin": {
			c:    NewCoin(MinInt, MinFrac, "LEM"),
			want: "-999999999999999.999999999 LEM",
		},
		"one without a ticker": {
			c:    NewCoin(1, 0, ""),
			want: "1",
		},
		"not normalized": {
			c:    NewCoin(2, int64(102.3*float64(FracUnit)), "KUD"),
			want: "104.3 KUD",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.c.String(); got != tc.want {
				t.Fatalf("unexpected string representation: %q", got)
			}
		})
	}
}
