package vault

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/x/cash"
)

const packageName = "vault"

// Controller is the single entry point to the vault state. It owns the
// vault records and settles all funding and withdrawals through the cash
// controller, against the per-vault condition address.
type Controller struct {
	vaults VaultBucket
	mover  cash.Controller
}

// NewController returns a controller settling funds through the given
// cash controller.
func NewController(mover cash.Controller) *Controller {
	return &Controller{
		vaults: NewVaultBucket(),
		mover:  mover,
	}
}

// Create stores a new vault and moves the initial funding from the source
// to the vault account. The release time must still be in the future.
func (c *Controller) Create(
	ctx abacus.Context,
	db abacus.KVStore,
	source abacus.Address,
	beneficiary abacus.Address,
	amount coin.Coin,
	releaseAt abacus.UnixTime,
	memo string,
) ([]byte, *Vault, error) {
	if abacus.IsExpired(ctx, releaseAt) {
		return nil, nil, errors.Wrapf(errors.ErrInvalidInput, "release time %s in the past", releaseAt)
	}
	v := &Vault{
		Metadata:    &abacus.Metadata{Schema: 1},
		Source:      source,
		Beneficiary: beneficiary,
		ReleaseAt:   releaseAt,
		Memo:        memo,
	}
	id, err := c.vaults.Create(db, v)
	if err != nil {
		return nil, nil, err
	}
	if err := c.mover.MoveCoins(db, source, v.Address, amount); err != nil {
		return nil, nil, errors.Wrap(err, "funding")
	}
	return id, v, nil
}

// Deposit tops up the vault with funds of the caller. Anyone may deposit,
// the time lock restricts withdrawals only.
func (c *Controller) Deposit(db abacus.KVStore, caller abacus.Address, id []byte, amount coin.Coin) (*Vault, error) {
	v, err := c.vaults.GetVault(db, id)
	if err != nil {
		return nil, err
	}
	if err := c.mover.MoveCoins(db, caller, v.Address, amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	return v, nil
}

// Withdraw moves funds out of a released vault to the beneficiary. A nil
// amount withdraws the whole balance. A vault drained to zero is deleted.
// The withdrawn coins are returned.
func (c *Controller) Withdraw(ctx abacus.Context, db abacus.KVStore, caller abacus.Address, id []byte, amount *coin.Coin) (coin.Coins, error) {
	v, err := c.vaults.GetVault(db, id)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(v.Beneficiary) {
		return nil, errors.Wrapf(ErrNotBeneficiary, "%s", caller)
	}
	if !abacus.IsExpired(ctx, v.ReleaseAt) {
		return nil, errors.Wrapf(ErrNotReleased, "until %s", v.ReleaseAt)
	}
	available, err := c.balance(db, v.Address)
	if err != nil {
		return nil, err
	}
	var request coin.Coins
	if amount == nil {
		request = available
	} else {
		if !available.Contains(*amount) {
			return nil, errors.Wrapf(ErrInsufficientVault, "have %s, want %s",
				coinsValue(available), amount)
		}
		request = coin.Coins{amount}
	}
	for _, withdrawal := range request {
		if err := c.mover.MoveCoins(db, v.Address, v.Beneficiary, *withdrawal); err != nil {
			return nil, errors.Wrap(err, "transfer")
		}
	}
	remaining, err := c.balance(db, v.Address)
	if err != nil {
		return nil, err
	}
	if !remaining.IsPositive() {
		if err := c.vaults.Delete(db, id); err != nil {
			return nil, errors.Wrap(err, "delete drained vault")
		}
	}
	return request, nil
}

// GetVault returns the vault stored under the given id.
func (c *Controller) GetVault(db abacus.ReadOnlyKVStore, id []byte) (*Vault, error) {
	return c.vaults.GetVault(db, id)
}

// VaultBalance returns the funds currently locked in the vault.
func (c *Controller) VaultBalance(db abacus.KVStore, id []byte) (coin.Coins, error) {
	v, err := c.vaults.GetVault(db, id)
	if err != nil {
		return nil, err
	}
	return c.balance(db, v.Address)
}

// balance reads the cash account of a vault address. An account that was
// never credited reports a nil balance.
func (c *Controller) balance(db abacus.KVStore, addr abacus.Address) (coin.Coins, error) {
	balance, err := c.mover.Balance(db, addr)
	switch {
	case err == nil:
		return balance, nil
	case errors.ErrEmpty.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "vault account")
	}
}
