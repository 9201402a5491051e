package multisig

import (
	"bytes"
	"testing"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/abacustest"
	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
)

func TestValidateInitializeMsg(t *testing.T) {
	alice := abacustest.NewCondition().Address()
	bob := abacustest.NewCondition().Address()

	cases := map[string]struct {
		msg     InitializeMsg
		wantErr *errors.Error
	}{
		"valid message": {
			msg: InitializeMsg{
				Metadata:  &abacus.Metadata{Schema: 1},
				Owners:    []abacus.Address{alice, bob},
				Threshold: 2,
			},
		},
		"missing metadata": {
			msg: InitializeMsg{
				Owners:    []abacus.Address{alice, bob},
				Threshold: 2,
			},
			wantErr: errors.ErrEmpty,
		},
		"no owners": {
			msg: InitializeMsg{
				Metadata:  &abacus.Metadata{Schema: 1},
				Threshold: 1,
			},
			wantErr: ErrInvalidConfiguration,
		},
		"malformed owner": {
			msg: InitializeMsg{
				Metadata:  &abacus.Metadata{Schema: 1},
				Owners:    []abacus.Address{alice, {1, 2, 3}},
				Threshold: 1,
			},
			wantErr: ErrInvalidConfiguration,
		},
		"duplicated owner": {
			msg: InitializeMsg{
				Metadata:  &abacus.Metadata{Schema: 1},
				Owners:    []abacus.Address{alice, alice},
				Threshold: 1,
			},
			wantErr: ErrInvalidConfiguration,
		},
		"zero threshold": {
			msg: InitializeMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				Owners:   []abacus.Address{alice, bob},
			},
			wantErr: ErrInvalidConfiguration,
		},
		"unreachable threshold": {
			msg: InitializeMsg{
				Metadata:  &abacus.Metadata{Schema: 1},
				Owners:    []abacus.Address{alice, bob},
				Threshold: 3,
			},
			wantErr: ErrInvalidConfiguration,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestValidateOwnerMsgs(t *testing.T) {
	alice := abacustest.NewCondition().Address()
	bob := abacustest.NewCondition().Address()

	cases := map[string]struct {
		msg     abacus.Msg
		wantErr *errors.Error
	}{
		"valid add": {
			msg: &AddOwnerMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				Owner:    alice,
			},
		},
		"add without metadata": {
			msg:     &AddOwnerMsg{Owner: alice},
			wantErr: errors.ErrEmpty,
		},
		"add malformed owner": {
			msg: &AddOwnerMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				Owner:    abacus.Address{1, 2, 3},
			},
			wantErr: ErrInvalidOwner,
		},
		"valid remove": {
			msg: &RemoveOwnerMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				Owner:    alice,
			},
		},
		// A malformed address in a removal is accepted here. It is simply
		// not an owner, which the processing reports consistently.
		"remove malformed owner": {
			msg: &RemoveOwnerMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				Owner:    abacus.Address{1, 2, 3},
			},
		},
		"remove without metadata": {
			msg:     &RemoveOwnerMsg{Owner: alice},
			wantErr: errors.ErrEmpty,
		},
		"valid replace": {
			msg: &ReplaceOwnerMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				OldOwner: alice,
				NewOwner: bob,
			},
		},
		"replace malformed old owner": {
			msg: &ReplaceOwnerMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				OldOwner: nil,
				NewOwner: bob,
			},
			wantErr: ErrInvalidOwner,
		},
		"replace malformed new owner": {
			msg: &ReplaceOwnerMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				OldOwner: alice,
				NewOwner: abacus.Address{1},
			},
			wantErr: ErrInvalidOwner,
		},
		"replace with the same owner": {
			msg: &ReplaceOwnerMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				OldOwner: alice,
				NewOwner: alice,
			},
			wantErr: ErrInvalidOwner,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestValidateSubmitTransactionMsg(t *testing.T) {
	dest := abacustest.NewCondition().Address()
	amount := coin.NewCoin(10, 0, "MONY")
	zero := coin.NewCoin(0, 0, "MONY")
	negative := coin.NewCoin(-1, 0, "MONY")

	valid := SubmitTransactionMsg{
		Metadata:    &abacus.Metadata{Schema: 1},
		Destination: dest,
		Amount:      &amount,
		Payload:     []byte("note"),
	}
	assert.Nil(t, valid.Validate())

	// A transaction can carry a payload only, with a zero amount.
	payloadOnly := valid
	payloadOnly.Amount = &zero
	assert.Nil(t, payloadOnly.Validate())

	noMeta := valid
	noMeta.Metadata = nil
	assert.FieldError(t, noMeta.Validate(), "Metadata", errors.ErrEmpty)

	noDest := valid
	noDest.Destination = nil
	assert.FieldError(t, noDest.Validate(), "Destination", ErrInvalidAddress)

	noAmount := valid
	noAmount.Amount = nil
	assert.FieldError(t, noAmount.Validate(), "Amount", errors.ErrInvalidAmount)

	negAmount := valid
	negAmount.Amount = &negative
	assert.FieldError(t, negAmount.Validate(), "Amount", errors.ErrInvalidAmount)

	bigPayload := valid
	bigPayload.Payload = bytes.Repeat([]byte("x"), maxPayloadSize+1)
	assert.FieldError(t, bigPayload.Validate(), "Payload", errors.ErrInvalidState)
}

func TestValidateVoteMsgs(t *testing.T) {
	meta := &abacus.Metadata{Schema: 1}
	goodID := abacustest.SequenceID(4)
	shortID := []byte{1, 2}

	cases := map[string]struct {
		msg     abacus.Msg
		wantErr *errors.Error
	}{
		"valid sign": {
			msg: &SignTransactionMsg{Metadata: meta, TransactionID: goodID},
		},
		"sign with a short id": {
			msg:     &SignTransactionMsg{Metadata: meta, TransactionID: shortID},
			wantErr: ErrInvalidTransaction,
		},
		"sign without an id": {
			msg:     &SignTransactionMsg{Metadata: meta},
			wantErr: ErrInvalidTransaction,
		},
		"sign without metadata": {
			msg:     &SignTransactionMsg{TransactionID: goodID},
			wantErr: errors.ErrEmpty,
		},
		"valid unsign": {
			msg: &UnsignTransactionMsg{Metadata: meta, TransactionID: goodID},
		},
		"unsign with a short id": {
			msg:     &UnsignTransactionMsg{Metadata: meta, TransactionID: shortID},
			wantErr: ErrInvalidTransaction,
		},
		"valid reject": {
			msg: &RejectTransactionMsg{Metadata: meta, TransactionID: goodID},
		},
		"reject with a short id": {
			msg:     &RejectTransactionMsg{Metadata: meta, TransactionID: shortID},
			wantErr: ErrInvalidTransaction,
		},
		"valid unreject": {
			msg: &UnrejectTransactionMsg{Metadata: meta, TransactionID: goodID},
		},
		"unreject without an id": {
			msg:     &UnrejectTransactionMsg{Metadata: meta},
			wantErr: ErrInvalidTransaction,
		},
		"valid execute": {
			msg: &ExecuteTransactionMsg{Metadata: meta, TransactionID: goodID},
		},
		"execute with a short id": {
			msg:     &ExecuteTransactionMsg{Metadata: meta, TransactionID: shortID},
			wantErr: ErrInvalidTransaction,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestValidateDepositMsg(t *testing.T) {
	amount := coin.NewCoin(5, 0, "MONY")
	zero := coin.NewCoin(0, 0, "MONY")
	negative := coin.NewCoin(-5, 0, "MONY")

	cases := map[string]struct {
		msg     DepositMsg
		wantErr *errors.Error
	}{
		"valid message": {
			msg: DepositMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				Amount:   &amount,
			},
		},
		"missing metadata": {
			msg:     DepositMsg{Amount: &amount},
			wantErr: errors.ErrEmpty,
		},
		"missing amount": {
			msg:     DepositMsg{Metadata: &abacus.Metadata{Schema: 1}},
			wantErr: errors.ErrInvalidAmount,
		},
		"zero amount": {
			msg: DepositMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				Amount:   &zero,
			},
			wantErr: errors.ErrInvalidAmount,
		},
		"negative amount": {
			msg: DepositMsg{
				Metadata: &abacus.Metadata{Schema: 1},
				Amount:   &negative,
			},
			wantErr: errors.ErrInvalidAmount,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
