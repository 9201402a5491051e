package multisig

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/gconf"
	"github.com/abacuslab/abacus/orm"
)

const packageName = "multisig"

// WalletCondition is the condition guarding the funds held by the wallet.
func WalletCondition() abacus.Condition {
	return abacus.NewCondition(packageName, "wallet", []byte("holdings"))
}

// WalletAddress is the holding account all deposits are credited to and all
// executed transactions are paid from.
func WalletAddress() abacus.Address {
	return WalletCondition().Address()
}

// ValueMover is the subset of the cash controller the wallet needs to settle
// deposits and executed transactions.
type ValueMover interface {
	MoveCoins(store abacus.KVStore, src abacus.Address, dest abacus.Address, amount coin.Coin) error
	Balance(store abacus.KVStore, src abacus.Address) (coin.Coins, error)
}

// Controller is the single entry point to the wallet state. It owns the
// owner registry, the transaction table and the deposit records, and it
// enforces every authorization and lifecycle rule before touching any of
// them. The caller address must be authenticated by the surrounding handler
// before it is passed in.
type Controller struct {
	txs      TransactionBucket
	deposits DepositBucket
	mover    ValueMover
}

// NewController returns a controller settling funds through the given mover.
func NewController(mover ValueMover) *Controller {
	return &Controller{
		txs:      NewTransactionBucket(),
		deposits: NewDepositBucket(),
		mover:    mover,
	}
}

// Initialize establishes the wallet with the given owner list and approval
// threshold. The first owner becomes the controlling owner. This can happen
// only once for the lifetime of the ledger.
func (c *Controller) Initialize(db abacus.KVStore, owners []abacus.Address, threshold uint32) error {
	return initializeWallet(db, owners, threshold)
}

func initializeWallet(db abacus.KVStore, owners []abacus.Address, threshold uint32) error {
	switch err := gconf.Load(db, packageName, &Wallet{}); {
	case err == nil:
		return errors.Wrap(ErrAlreadyInitialized, "wallet")
	case errors.ErrNotFound.Is(err):
		// No wallet yet, proceed.
	default:
		return errors.Wrap(err, "load wallet")
	}
	w := Wallet{
		Metadata:  &abacus.Metadata{Schema: 1},
		Owners:    owners,
		Threshold: threshold,
	}
	return gconf.Save(db, packageName, &w)
}

func loadWallet(db gconf.ReadStore) (*Wallet, error) {
	var w Wallet
	if err := gconf.Load(db, packageName, &w); err != nil {
		return nil, errors.Wrap(err, "load wallet")
	}
	return &w, nil
}

// AddOwner appends a new owner to the registry. Only the controlling owner
// may grow the owner set.
func (c *Controller) AddOwner(db abacus.KVStore, caller, newOwner abacus.Address) error {
	w, err := loadWallet(db)
	if err != nil {
		return err
	}
	if !caller.Equals(w.ControllingOwner()) {
		return errors.Wrap(ErrNotContractOwner, "owner management")
	}
	if err := newOwner.Validate(); err != nil {
		return errors.Wrap(ErrInvalidOwner, err.Error())
	}
	if w.IsOwner(newOwner) {
		return errors.Wrapf(ErrAlreadyOwner, "%s", newOwner)
	}
	if len(w.Owners) == MaxOwners {
		return errors.Wrapf(ErrMaxOwnersReached, "limit is %d", MaxOwners)
	}
	w.Owners = append(w.Owners, newOwner)
	return gconf.Save(db, packageName, w)
}

// RemoveOwner drops an owner from the registry. The removed slot is filled
// by the last owner, so the order of non-controlling owners is not stable.
// The controlling owner can never be removed by this path and the set must
// stay large enough to both satisfy the minimum and keep the approval
// threshold reachable.
func (c *Controller) RemoveOwner(db abacus.KVStore, caller, owner abacus.Address) error {
	w, err := loadWallet(db)
	if err != nil {
		return err
	}
	if !caller.Equals(w.ControllingOwner()) {
		return errors.Wrap(ErrNotContractOwner, "owner management")
	}
	if !w.IsOwner(owner) {
		return errors.Wrapf(ErrNotOwner, "%s", owner)
	}
	if owner.Equals(w.ControllingOwner()) {
		return errors.Wrap(ErrOperationUnauthorized, "controlling owner cannot be removed")
	}
	if len(w.Owners)-1 < MinOwners {
		return errors.Wrapf(ErrAtLeastOneOwner, "minimum is %d", MinOwners)
	}
	if len(w.Owners)-1 < int(w.Threshold) {
		return errors.Wrapf(ErrBadThreshold,
			"%d owners cannot reach threshold %d", len(w.Owners)-1, w.Threshold)
	}
	for i, o := range w.Owners {
		if o.Equals(owner) {
			last := len(w.Owners) - 1
			w.Owners[i] = w.Owners[last]
			w.Owners = w.Owners[:last]
			break
		}
	}
	return gconf.Save(db, packageName, w)
}

// ReplaceOwner substitutes one owner for another in place, keeping the index
// of the replaced owner. This is the only way to hand over the controlling
// owner position.
func (c *Controller) ReplaceOwner(db abacus.KVStore, caller, oldOwner, newOwner abacus.Address) error {
	w, err := loadWallet(db)
	if err != nil {
		return err
	}
	if !caller.Equals(w.ControllingOwner()) {
		return errors.Wrap(ErrNotContractOwner, "owner management")
	}
	if err := oldOwner.Validate(); err != nil {
		return errors.Wrap(ErrInvalidOwner, err.Error())
	}
	if err := newOwner.Validate(); err != nil {
		return errors.Wrap(ErrInvalidOwner, err.Error())
	}
	if oldOwner.Equals(newOwner) {
		return errors.Wrap(ErrInvalidOwner, "old and new owner are the same")
	}
	if !w.IsOwner(oldOwner) {
		return errors.Wrapf(ErrNotOwner, "%s", oldOwner)
	}
	if w.IsOwner(newOwner) {
		return errors.Wrapf(ErrAlreadyOwner, "%s", newOwner)
	}
	for i, o := range w.Owners {
		if o.Equals(oldOwner) {
			w.Owners[i] = newOwner
			break
		}
	}
	return gconf.Save(db, packageName, w)
}

// IsOwner returns true if candidate holds voting rights. Like every read of
// this package it is available to owners only.
func (c *Controller) IsOwner(db abacus.ReadOnlyKVStore, caller, candidate abacus.Address) (bool, error) {
	w, err := c.authorizedWallet(db, caller)
	if err != nil {
		return false, err
	}
	return w.IsOwner(candidate), nil
}

// OwnersCount returns the current size of the owner set.
func (c *Controller) OwnersCount(db abacus.ReadOnlyKVStore, caller abacus.Address) (int, error) {
	w, err := c.authorizedWallet(db, caller)
	if err != nil {
		return 0, err
	}
	return len(w.Owners), nil
}

// Owners returns a copy of the owner list in registry order, the controlling
// owner first.
func (c *Controller) Owners(db abacus.ReadOnlyKVStore, caller abacus.Address) ([]abacus.Address, error) {
	w, err := c.authorizedWallet(db, caller)
	if err != nil {
		return nil, err
	}
	return copyAddrs(w.Owners), nil
}

// SubmitTransaction proposes a transfer of amount to destination and
// returns the id assigned to it. Ids are sequential, starting with zero,
// and are never reused. The caller becomes the transaction creator and is
// barred from voting on it.
func (c *Controller) SubmitTransaction(
	ctx abacus.Context,
	db abacus.KVStore,
	caller abacus.Address,
	destination abacus.Address,
	amount coin.Coin,
	payload []byte,
) ([]byte, *Transaction, error) {
	w, err := loadWallet(db)
	if err != nil {
		return nil, nil, err
	}
	if !w.IsOwner(caller) {
		return nil, nil, errors.Wrapf(ErrNotOwner, "%s", caller)
	}
	if err := destination.Validate(); err != nil {
		return nil, nil, errors.Wrap(ErrInvalidAddress, err.Error())
	}
	now, err := abacus.BlockTime(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "block time")
	}
	tx := &Transaction{
		Metadata:    &abacus.Metadata{Schema: 1},
		Destination: destination,
		Amount:      &amount,
		Payload:     payload,
		Creator:     caller,
		Status:      TransactionPending,
		CreatedAt:   abacus.AsUnixTime(now),
	}
	id, err := c.txs.Create(db, tx)
	if err != nil {
		return nil, nil, err
	}
	return id, tx, nil
}

// SignTransaction records an approval vote by the caller. The vote that
// makes the approval count reach the threshold settles the transaction as
// approved in the same call. The returned transaction reflects the state
// after the vote.
func (c *Controller) SignTransaction(db abacus.KVStore, caller abacus.Address, id []byte) (*Transaction, error) {
	w, tx, err := c.pendingTransaction(db, caller, id)
	if err != nil {
		return nil, err
	}
	if caller.Equals(tx.Creator) {
		return nil, errors.Wrap(ErrOperationUnauthorized, "creator cannot vote")
	}
	if tx.HasApproval(caller) {
		return nil, errors.Wrapf(ErrAlreadyApproved, "%s", caller)
	}
	if tx.HasRejection(caller) {
		return nil, errors.Wrapf(ErrAlreadyRejected, "%s", caller)
	}
	if len(tx.Approvals) >= int(w.Threshold) {
		return nil, errors.Wrap(ErrOperationUnauthorized, "threshold already reached")
	}
	tx.Approvals = append(tx.Approvals, caller)
	if len(tx.Approvals) >= int(w.Threshold) {
		tx.Status = TransactionApproved
	}
	if err := c.txs.Save(db, orm.NewSimpleObj(id, tx)); err != nil {
		return nil, err
	}
	return tx, nil
}

// UnsignTransaction withdraws an approval vote previously cast by the
// caller. Votes can only be withdrawn while the transaction is pending and
// the threshold was not reached yet. The remaining approvals keep their
// arrival order.
func (c *Controller) UnsignTransaction(db abacus.KVStore, caller abacus.Address, id []byte) (*Transaction, error) {
	w, tx, err := c.pendingTransaction(db, caller, id)
	if err != nil {
		return nil, err
	}
	if !tx.HasApproval(caller) {
		return nil, errors.Wrapf(ErrNotApprover, "%s", caller)
	}
	if len(tx.Approvals) >= int(w.Threshold) {
		return nil, errors.Wrap(ErrOperationUnauthorized, "votes are frozen")
	}
	tx.Approvals = removeAddr(tx.Approvals, caller)
	if err := c.txs.Save(db, orm.NewSimpleObj(id, tx)); err != nil {
		return nil, err
	}
	return tx, nil
}

// RejectTransaction records a rejection vote by the caller. The vote that
// makes the rejection count reach the threshold settles the transaction as
// rejected in the same call.
func (c *Controller) RejectTransaction(db abacus.KVStore, caller abacus.Address, id []byte) (*Transaction, error) {
	w, tx, err := c.pendingTransaction(db, caller, id)
	if err != nil {
		return nil, err
	}
	if caller.Equals(tx.Creator) {
		return nil, errors.Wrap(ErrOperationUnauthorized, "creator cannot vote")
	}
	if tx.HasRejection(caller) {
		return nil, errors.Wrapf(ErrAlreadyRejected, "%s", caller)
	}
	if tx.HasApproval(caller) {
		return nil, errors.Wrapf(ErrAlreadyApproved, "%s", caller)
	}
	if len(tx.Rejections) >= int(w.Threshold) {
		return nil, errors.Wrap(ErrOperationUnauthorized, "threshold already reached")
	}
	tx.Rejections = append(tx.Rejections, caller)
	if len(tx.Rejections) >= int(w.Threshold) {
		tx.Status = TransactionRejected
	}
	if err := c.txs.Save(db, orm.NewSimpleObj(id, tx)); err != nil {
		return nil, err
	}
	return tx, nil
}

// UnrejectTransaction withdraws a rejection vote previously cast by the
// caller, under the same conditions as UnsignTransaction.
func (c *Controller) UnrejectTransaction(db abacus.KVStore, caller abacus.Address, id []byte) (*Transaction, error) {
	w, tx, err := c.pendingTransaction(db, caller, id)
	if err != nil {
		return nil, err
	}
	if !tx.HasRejection(caller) {
		return nil, errors.Wrapf(ErrNotRejector, "%s", caller)
	}
	if len(tx.Rejections) >= int(w.Threshold) {
		return nil, errors.Wrap(ErrOperationUnauthorized, "votes are frozen")
	}
	tx.Rejections = removeAddr(tx.Rejections, caller)
	if err := c.txs.Save(db, orm.NewSimpleObj(id, tx)); err != nil {
		return nil, err
	}
	return tx, nil
}

// ExecuteTransaction pays an approved transaction out of the holding
// account. Only the creator may execute and only once. The executed flag is
// persisted before the funds move, so a reentrant call during the transfer
// already sees the transaction as executed. If the transfer fails the whole
// call fails and the surrounding savepoint discards the flag as well.
func (c *Controller) ExecuteTransaction(ctx abacus.Context, db abacus.KVStore, caller abacus.Address, id []byte) (*Transaction, error) {
	tx, err := c.txs.GetTransaction(db, id)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(tx.Creator) {
		return nil, errors.Wrap(ErrOperationUnauthorized, "not the transaction owner")
	}
	if tx.Status != TransactionApproved {
		return nil, errors.Wrapf(ErrTxNotApproved, "status %s", tx.Status)
	}
	if tx.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "id %d", orm.DecodeSequence(id))
	}
	now, err := abacus.BlockTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	tx.Executed = true
	tx.ExecutedAt = abacus.AsUnixTime(now)
	if err := c.txs.Save(db, orm.NewSimpleObj(id, tx)); err != nil {
		return nil, err
	}
	if tx.Amount.IsPositive() {
		if err := c.mover.MoveCoins(db, WalletAddress(), tx.Destination, *tx.Amount); err != nil {
			return nil, errors.Wrap(err, "transfer")
		}
	}
	return tx, nil
}

// Deposit moves amount from the caller account into the holding account and
// records it as the caller's last deposit. The holding balance accumulates
// while the deposit record is overwritten each time.
func (c *Controller) Deposit(ctx abacus.Context, db abacus.KVStore, caller abacus.Address, amount coin.Coin) (*Deposit, error) {
	w, err := loadWallet(db)
	if err != nil {
		return nil, err
	}
	if !w.IsOwner(caller) {
		return nil, errors.Wrapf(ErrNotOwner, "%s", caller)
	}
	if !amount.IsPositive() {
		return nil, errors.Wrapf(errors.ErrInvalidAmount, "non-positive deposit: %#v", amount)
	}
	if err := amount.Validate(); err != nil {
		return nil, errors.Wrap(err, "amount")
	}
	now, err := abacus.BlockTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	if err := c.mover.MoveCoins(db, caller, WalletAddress(), amount); err != nil {
		return nil, errors.Wrap(err, "transfer")
	}
	dep := &Deposit{
		Metadata:  &abacus.Metadata{Schema: 1},
		Depositor: caller,
		Amount:    &amount,
		CreatedAt: abacus.AsUnixTime(now),
	}
	if err := c.deposits.Save(db, orm.NewSimpleObj(caller, dep)); err != nil {
		return nil, err
	}
	return dep, nil
}

// GetTransaction returns the transaction stored under the given id.
func (c *Controller) GetTransaction(db abacus.ReadOnlyKVStore, caller abacus.Address, id []byte) (*Transaction, error) {
	if _, err := c.authorizedWallet(db, caller); err != nil {
		return nil, err
	}
	return c.txs.GetTransaction(db, id)
}

// TxCount returns how many transactions were submitted so far.
func (c *Controller) TxCount(db abacus.ReadOnlyKVStore, caller abacus.Address) (int64, error) {
	if _, err := c.authorizedWallet(db, caller); err != nil {
		return 0, err
	}
	return c.txs.Issued(db)
}

// WalletBalance returns the funds currently held by the wallet. A holding
// account that was never credited reports a nil balance.
func (c *Controller) WalletBalance(db abacus.KVStore, caller abacus.Address) (coin.Coins, error) {
	if _, err := c.authorizedWallet(db, caller); err != nil {
		return nil, err
	}
	balance, err := c.mover.Balance(db, WalletAddress())
	switch {
	case err == nil:
		return balance, nil
	case errors.ErrEmpty.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "holding account")
	}
}

// GetDeposit returns the last deposit made by the given owner.
func (c *Controller) GetDeposit(db abacus.ReadOnlyKVStore, caller, owner abacus.Address) (*Deposit, error) {
	if _, err := c.authorizedWallet(db, caller); err != nil {
		return nil, err
	}
	return c.deposits.GetDeposit(db, owner)
}

// authorizedWallet loads the wallet and ensures caller is an owner.
func (c *Controller) authorizedWallet(db gconf.ReadStore, caller abacus.Address) (*Wallet, error) {
	w, err := loadWallet(db)
	if err != nil {
		return nil, err
	}
	if !w.IsOwner(caller) {
		return nil, errors.Wrapf(ErrNotOwner, "%s", caller)
	}
	return w, nil
}

// pendingTransaction loads the wallet and the transaction and runs the
// guards shared by all vote operations.
func (c *Controller) pendingTransaction(db abacus.KVStore, caller abacus.Address, id []byte) (*Wallet, *Transaction, error) {
	w, err := loadWallet(db)
	if err != nil {
		return nil, nil, err
	}
	if !w.IsOwner(caller) {
		return nil, nil, errors.Wrapf(ErrNotOwner, "%s", caller)
	}
	tx, err := c.txs.GetTransaction(db, id)
	if err != nil {
		return nil, nil, err
	}
	if tx.Status != TransactionPending {
		return nil, nil, errors.Wrapf(ErrNotPending, "status %s", tx.Status)
	}
	return w, tx, nil
}

func removeAddr(as []abacus.Address, a abacus.Address) []abacus.Address {
	for i, o := range as {
		if o.Equals(a) {
			return append(as[:i], as[i+1:]...)
		}
	}
	return as
}
