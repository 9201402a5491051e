package cash

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
)

// Controller exposes wallet operations to other extensions without going
// through messages. BaseController is the standard implementation.
type Controller interface {
	MoveCoins(store abacus.KVStore, src abacus.Address, dest abacus.Address, amount coin.Coin) error
	IssueCoins(store abacus.KVStore, dest abacus.Address, amount coin.Coin) error
	Balance(store abacus.KVStore, src abacus.Address) (coin.Coins, error)
}

// BaseController implements Controller on top of a WalletBucket.
type BaseController struct {
	bucket WalletBucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation.
func NewController(bucket WalletBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount of funds stored under given account address.
func (c BaseController) Balance(store abacus.KVStore, src abacus.Address) (coin.Coins, error) {
	state, err := c.bucket.Get(store, src)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get account state")
	}
	if state == nil {
		return nil, errors.Wrapf(errors.ErrEmpty, "account %s", src)
	}
	return AsCoins(state), nil
}

// MoveCoins transfers amount from src to dest. The source wallet must
// exist and hold at least that much.
func (c BaseController) MoveCoins(store abacus.KVStore,
	src abacus.Address, dest abacus.Address, amount coin.Coin) error {

	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive transfer: %#v", &amount)
	}

	// load sender, subtract funds, and save
	sender, err := c.bucket.Get(store, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	if !AsCoins(sender).Contains(amount) {
		return errors.Wrap(errors.ErrInsufficientAmount, "funds")
	}
	err = Subtract(AsCoinage(sender), amount)
	if err != nil {
		return err
	}
	err = c.bucket.Save(store, sender)
	if err != nil {
		return err
	}

	// load/create recipient, add funds, save
	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	err = Add(AsCoinage(recipient), amount)
	if err != nil {
		return err
	}
	return c.bucket.Save(store, recipient)
}

// IssueCoins mints amount into the destination wallet, creating the
// wallet when missing. A negative amount burns funds instead. Fails
// when the wallet total would overflow.
func (c BaseController) IssueCoins(store abacus.KVStore,
	dest abacus.Address, amount coin.Coin) error {

	recipient, err := c.bucket.GetOrCreate(store, dest)
	if err != nil {
		return err
	}
	err = Add(AsCoinage(recipient), amount)
	if err != nil {
		return err
	}
	return c.bucket.Save(store, recipient)
}
