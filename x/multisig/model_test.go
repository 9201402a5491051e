package multisig

import (
	"testing"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/abacustest"
	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/store"
)

func TestWalletValidate(t *testing.T) {
	alice := abacustest.NewCondition().Address()
	bob := abacustest.NewCondition().Address()

	cases := map[string]struct {
		wallet  Wallet
		wantErr *errors.Error
	}{
		"valid wallet": {
			wallet: Wallet{
				Metadata:  &abacus.Metadata{Schema: 1},
				Owners:    []abacus.Address{alice, bob},
				Threshold: 2,
			},
		},
		"missing metadata": {
			wallet: Wallet{
				Owners:    []abacus.Address{alice, bob},
				Threshold: 2,
			},
			wantErr: errors.ErrEmpty,
		},
		"no owners": {
			wallet: Wallet{
				Metadata:  &abacus.Metadata{Schema: 1},
				Threshold: 1,
			},
			wantErr: ErrInvalidConfiguration,
		},
		"duplicated owner": {
			wallet: Wallet{
				Metadata:  &abacus.Metadata{Schema: 1},
				Owners:    []abacus.Address{alice, alice},
				Threshold: 1,
			},
			wantErr: ErrInvalidConfiguration,
		},
		"threshold cannot be zero": {
			wallet: Wallet{
				Metadata: &abacus.Metadata{Schema: 1},
				Owners:   []abacus.Address{alice, bob},
			},
			wantErr: ErrInvalidConfiguration,
		},
		"threshold cannot exceed owner count": {
			wallet: Wallet{
				Metadata:  &abacus.Metadata{Schema: 1},
				Owners:    []abacus.Address{alice, bob},
				Threshold: 3,
			},
			wantErr: ErrInvalidConfiguration,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.wallet.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	now := abacus.AsUnixTime(blockNow)
	amount := coin.NewCoin(10, 0, "MONY")

	valid := Transaction{
		Metadata:    &abacus.Metadata{Schema: 1},
		Destination: abacustest.NewCondition().Address(),
		Amount:      &amount,
		Creator:     abacustest.NewCondition().Address(),
		Status:      TransactionPending,
		CreatedAt:   now,
	}
	assert.Nil(t, valid.Validate())

	noMeta := valid
	noMeta.Metadata = nil
	assert.FieldError(t, noMeta.Validate(), "Metadata", errors.ErrEmpty)

	noDest := valid
	noDest.Destination = nil
	assert.FieldError(t, noDest.Validate(), "Destination", errors.ErrInvalidInput)

	noAmount := valid
	noAmount.Amount = nil
	assert.FieldError(t, noAmount.Validate(), "Amount", errors.ErrEmpty)

	badStatus := valid
	badStatus.Status = TransactionStatus(42)
	assert.FieldError(t, badStatus.Validate(), "Status", errors.ErrInvalidState)

	backwards := valid
	backwards.CreatedAt = abacus.UnixTime(-1)
	assert.FieldError(t, backwards.Validate(), "CreatedAt", errors.ErrInvalidState)
}

func TestTransactionCopy(t *testing.T) {
	amount := coin.NewCoin(10, 0, "MONY")
	original := Transaction{
		Metadata:    &abacus.Metadata{Schema: 1},
		Destination: abacustest.NewCondition().Address(),
		Amount:      &amount,
		Payload:     []byte("payload"),
		Creator:     abacustest.NewCondition().Address(),
		Status:      TransactionPending,
		Approvals:   []abacus.Address{abacustest.NewCondition().Address()},
		CreatedAt:   abacus.AsUnixTime(blockNow),
	}

	cpy := original.Copy().(*Transaction)
	assert.Equal(t, &original, cpy)

	cpy.Metadata.Schema = 9
	cpy.Destination[0]++
	cpy.Payload[0] = 'x'
	cpy.Approvals[0][0]++
	cpy.Status = TransactionRejected

	assert.Equal(t, uint32(1), original.Metadata.Schema)
	assert.Equal(t, byte('p'), original.Payload[0])
	assert.Equal(t, TransactionPending, original.Status)
	if original.Destination.Equals(cpy.Destination) {
		t.Fatal("copy shares the destination address")
	}
	if original.Approvals[0].Equals(cpy.Approvals[0]) {
		t.Fatal("copy shares the approvals")
	}
}

func TestDepositValidate(t *testing.T) {
	amount := coin.NewCoin(5, 0, "MONY")
	zero := coin.NewCoin(0, 0, "MONY")

	valid := Deposit{
		Metadata:  &abacus.Metadata{Schema: 1},
		Depositor: abacustest.NewCondition().Address(),
		Amount:    &amount,
		CreatedAt: abacus.AsUnixTime(blockNow),
	}
	assert.Nil(t, valid.Validate())

	noAmount := valid
	noAmount.Amount = nil
	assert.FieldError(t, noAmount.Validate(), "Amount", errors.ErrInvalidAmount)

	zeroAmount := valid
	zeroAmount.Amount = &zero
	assert.FieldError(t, zeroAmount.Validate(), "Amount", errors.ErrInvalidAmount)

	noDepositor := valid
	noDepositor.Depositor = nil
	assert.FieldError(t, noDepositor.Validate(), "Depositor", errors.ErrInvalidInput)
}

func TestTransactionBucket(t *testing.T) {
	kv := store.MemStore()
	migration.MustInitPkg(kv, packageName)
	bucket := NewTransactionBucket()

	amount := coin.NewCoin(10, 0, "MONY")
	tx := &Transaction{
		Metadata:    &abacus.Metadata{Schema: 1},
		Destination: abacustest.NewCondition().Address(),
		Amount:      &amount,
		Creator:     abacustest.NewCondition().Address(),
		Status:      TransactionPending,
		CreatedAt:   abacus.AsUnixTime(blockNow),
	}

	id, err := bucket.Create(kv, tx)
	assert.Nil(t, err)
	assert.Equal(t, abacustest.SequenceID(0), id)

	id2, err := bucket.Create(kv, tx)
	assert.Nil(t, err)
	assert.Equal(t, abacustest.SequenceID(1), id2)

	count, err := bucket.Issued(kv)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), count)

	loaded, err := bucket.GetTransaction(kv, id)
	assert.Nil(t, err)
	assert.Equal(t, tx.Destination, loaded.Destination)

	if _, err := bucket.GetTransaction(kv, abacustest.SequenceID(33)); !ErrInvalidTransaction.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestDepositBucket(t *testing.T) {
	kv := store.MemStore()
	migration.MustInitPkg(kv, packageName)
	bucket := NewDepositBucket()

	owner := abacustest.NewCondition().Address()
	if _, err := bucket.GetDeposit(kv, owner); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestTransactionStatusString(t *testing.T) {
	assert.Equal(t, "pending", TransactionPending.String())
	assert.Equal(t, "approved", TransactionApproved.String())
	assert.Equal(t, "rejected", TransactionRejected.String())
	assert.Equal(t, "invalid", TransactionStatus(9).String())
}
