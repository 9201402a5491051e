package token

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/orm"
)

const packageName = "token"

// Controller is the single entry point to the token state. It owns the
// token registry together with the balance and allowance tables and
// enforces the supply and allowance rules before touching any of them.
type Controller struct {
	tokens     TokenBucket
	balances   BalanceBucket
	allowances AllowanceBucket
}

// NewController returns a controller over freshly initialized buckets.
func NewController() *Controller {
	return &Controller{
		tokens:     NewTokenBucket(),
		balances:   NewBalanceBucket(),
		allowances: NewAllowanceBucket(),
	}
}

// CreateToken registers a new token under the given ticker and mints the
// whole supply to the issuer. The ticker can never be reused.
func (c *Controller) CreateToken(db abacus.KVStore, issuer abacus.Address, ticker, name string, supply coin.Coin) (*Token, error) {
	switch _, err := c.tokens.GetToken(db, ticker); {
	case err == nil:
		return nil, errors.Wrapf(ErrDuplicateTicker, "%s", ticker)
	case ErrUnknownToken.Is(err):
		// Free ticker, proceed.
	default:
		return nil, err
	}
	t := &Token{
		Metadata:    &abacus.Metadata{Schema: 1},
		Ticker:      ticker,
		Name:        name,
		Owner:       issuer,
		TotalSupply: &supply,
	}
	if err := c.tokens.Save(db, orm.NewSimpleObj([]byte(ticker), t)); err != nil {
		return nil, err
	}
	if supply.IsPositive() {
		if err := c.credit(db, issuer, supply); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Transfer moves amount from source to destination. The destination record
// is created on first credit while a drained source record stays around
// with a zero amount.
func (c *Controller) Transfer(db abacus.KVStore, source, destination abacus.Address, amount coin.Coin) error {
	if _, err := c.tokens.GetToken(db, amount.Ticker); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive transfer: %#v", &amount)
	}
	if err := c.debit(db, source, amount); err != nil {
		return err
	}
	return c.credit(db, destination, amount)
}

// Approve grants spender an allowance over the owner balance. A repeated
// approval overwrites the previous amount, it never accumulates. Approving
// zero withdraws the grant.
func (c *Controller) Approve(db abacus.KVStore, owner, spender abacus.Address, amount coin.Coin) error {
	if _, err := c.tokens.GetToken(db, amount.Ticker); err != nil {
		return err
	}
	if !amount.IsNonNegative() {
		return errors.Wrapf(errors.ErrInvalidAmount, "negative allowance: %#v", &amount)
	}
	a := &Allowance{
		Metadata: &abacus.Metadata{Schema: 1},
		Owner:    owner,
		Spender:  spender,
		Amount:   &amount,
	}
	return c.allowances.SaveAllowance(db, a)
}

// TransferFrom moves amount out of the source balance on the authority of
// the allowance source granted to the spender. The allowance shrinks by
// the moved amount.
func (c *Controller) TransferFrom(db abacus.KVStore, spender, source, destination abacus.Address, amount coin.Coin) error {
	if _, err := c.tokens.GetToken(db, amount.Ticker); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive transfer: %#v", &amount)
	}
	a, err := c.allowances.GetAllowance(db, amount.Ticker, source, spender)
	if err != nil {
		return err
	}
	if a == nil {
		return errors.Wrapf(ErrInsufficientAllowance, "no allowance for %s", spender)
	}
	rest, err := a.Amount.Subtract(amount)
	if err != nil {
		return errors.Wrap(err, "subtract")
	}
	if !rest.IsNonNegative() {
		return errors.Wrapf(ErrInsufficientAllowance, "have %s, want %s", a.Amount, &amount)
	}
	if err := c.debit(db, source, amount); err != nil {
		return err
	}
	if err := c.credit(db, destination, amount); err != nil {
		return err
	}
	a.Amount = &rest
	return c.allowances.SaveAllowance(db, a)
}

// GetToken returns the token registered under ticker.
func (c *Controller) GetToken(db abacus.ReadOnlyKVStore, ticker string) (*Token, error) {
	return c.tokens.GetToken(db, ticker)
}

// Balance returns how much of the token the owner holds. Accounts that
// never received the token report zero.
func (c *Controller) Balance(db abacus.ReadOnlyKVStore, ticker string, owner abacus.Address) (coin.Coin, error) {
	if _, err := c.tokens.GetToken(db, ticker); err != nil {
		return coin.Coin{}, err
	}
	bal, err := c.balances.GetBalance(db, ticker, owner)
	if err != nil {
		return coin.Coin{}, err
	}
	if bal == nil {
		return coin.Coin{Ticker: ticker}, nil
	}
	return *bal.Amount, nil
}

// Allowance returns the remaining amount spender may move out of the owner
// balance. Pairs without an approval report zero.
func (c *Controller) Allowance(db abacus.ReadOnlyKVStore, ticker string, owner, spender abacus.Address) (coin.Coin, error) {
	if _, err := c.tokens.GetToken(db, ticker); err != nil {
		return coin.Coin{}, err
	}
	a, err := c.allowances.GetAllowance(db, ticker, owner, spender)
	if err != nil {
		return coin.Coin{}, err
	}
	if a == nil {
		return coin.Coin{Ticker: ticker}, nil
	}
	return *a.Amount, nil
}

func (c *Controller) debit(db abacus.KVStore, source abacus.Address, amount coin.Coin) error {
	bal, err := c.balances.GetBalance(db, amount.Ticker, source)
	if err != nil {
		return err
	}
	if bal == nil {
		return errors.Wrapf(ErrInsufficientBalance, "empty account %s", source)
	}
	rest, err := bal.Amount.Subtract(amount)
	if err != nil {
		return errors.Wrap(err, "subtract")
	}
	if !rest.IsNonNegative() {
		return errors.Wrapf(ErrInsufficientBalance, "have %s, want %s", bal.Amount, &amount)
	}
	bal.Amount = &rest
	return c.balances.SaveBalance(db, bal)
}

func (c *Controller) credit(db abacus.KVStore, destination abacus.Address, amount coin.Coin) error {
	bal, err := c.balances.GetBalance(db, amount.Ticker, destination)
	if err != nil {
		return err
	}
	if bal == nil {
		zero := coin.Coin{Ticker: amount.Ticker}
		bal = &Balance{
			Metadata: &abacus.Metadata{Schema: 1},
			Owner:    destination,
			Amount:   &zero,
		}
	}
	total, err := bal.Amount.Add(amount)
	if err != nil {
		return errors.Wrap(err, "add")
	}
	bal.Amount = &total
	return c.balances.SaveBalance(db, bal)
}
