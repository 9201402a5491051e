package property

import (
	"context"
	"testing"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/abacustest"
	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/store"
	"github.com/abacuslab/abacus/x/cash"
)

func TestHandlerGasCosts(t *testing.T) {
	cond := abacustest.NewCondition()
	other := abacustest.NewCondition()
	meta := &abacus.Metadata{Schema: 1}

	ctrl := NewController(nil)
	auth := &abacustest.Auth{Signer: cond}

	cases := map[string]struct {
		handler abacus.Handler
		msg     abacus.Msg
		wantGas int64
	}{
		"register": {
			handler: RegisterDeedHandler{auth, ctrl},
			msg: &RegisterDeedMsg{
				Metadata: meta,
				Parcel:   "NW4/031-A",
			},
			wantGas: registerDeedCost,
		},
		"offer": {
			handler: OfferDeedHandler{auth, ctrl},
			msg: &OfferDeedMsg{
				Metadata: meta,
				DeedID:   abacustest.SequenceID(0),
				Price:    coin.NewCoinp(500, 0, "DGC"),
			},
			wantGas: offerDeedCost,
		},
		"transfer": {
			handler: TransferDeedHandler{auth, ctrl},
			msg: &TransferDeedMsg{
				Metadata:  meta,
				DeedID:    abacustest.SequenceID(0),
				Recipient: other.Address(),
			},
			wantGas: transferDeedCost,
		},
		"buy": {
			handler: BuyDeedHandler{auth, ctrl},
			msg: &BuyDeedMsg{
				Metadata: meta,
				DeedID:   abacustest.SequenceID(0),
			},
			wantGas: buyDeedCost,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			res, err := tc.handler.Check(context.Background(), kv, &abacustest.Tx{Msg: tc.msg})
			assert.Nil(t, err)
			assert.Equal(t, tc.wantGas, res.GasAllocated)
		})
	}
}

func TestHandlersRequireSigner(t *testing.T) {
	other := abacustest.NewCondition()
	meta := &abacus.Metadata{Schema: 1}

	ctrl := NewController(nil)
	// No signer authenticates on this context.
	auth := &abacustest.Auth{}

	cases := map[string]struct {
		handler abacus.Handler
		msg     abacus.Msg
	}{
		"register": {
			handler: RegisterDeedHandler{auth, ctrl},
			msg: &RegisterDeedMsg{
				Metadata: meta,
				Parcel:   "NW4/031-A",
			},
		},
		"offer": {
			handler: OfferDeedHandler{auth, ctrl},
			msg: &OfferDeedMsg{
				Metadata: meta,
				DeedID:   abacustest.SequenceID(0),
				Price:    coin.NewCoinp(500, 0, "DGC"),
			},
		},
		"transfer": {
			handler: TransferDeedHandler{auth, ctrl},
			msg: &TransferDeedMsg{
				Metadata:  meta,
				DeedID:    abacustest.SequenceID(0),
				Recipient: other.Address(),
			},
		},
		"buy": {
			handler: BuyDeedHandler{auth, ctrl},
			msg: &BuyDeedMsg{
				Metadata: meta,
				DeedID:   abacustest.SequenceID(0),
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			if _, err := tc.handler.Check(context.Background(), kv, &abacustest.Tx{Msg: tc.msg}); !errors.ErrUnauthorized.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestRegisterDeedHandler(t *testing.T) {
	aliceCond := abacustest.NewCondition()
	alice := aliceCond.Address()

	kv := store.MemStore()
	migration.MustInitPkg(kv, packageName, "cash")
	ctrl := NewController(cash.NewController(cash.NewBucket()))

	h := RegisterDeedHandler{&abacustest.Auth{Signer: aliceCond}, ctrl}
	tx := &abacustest.Tx{Msg: &RegisterDeedMsg{
		Metadata: &abacus.Metadata{Schema: 1},
		Parcel:   "NW4/031-A",
	}}
	res, err := h.Deliver(context.Background(), kv, tx)
	assert.Nil(t, err)
	assert.Equal(t, abacustest.SequenceID(0), res.Data)

	wantEvent := abacus.NewEvent(EventDeedRegistered,
		"id", "0",
		"parcel", "NW4/031-A",
		"owner", alice.String(),
	)
	assert.Equal(t, []abacus.Event{wantEvent}, res.Events)

	// The parcel is taken now.
	if _, err := h.Deliver(context.Background(), kv, tx); !ErrDuplicateParcel.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestOfferDeedHandler(t *testing.T) {
	aliceCond := abacustest.NewCondition()
	alice := aliceCond.Address()
	bob := abacustest.NewCondition().Address()

	kv, ctrl, _, id := newTestDeed(t, alice, bob)

	h := OfferDeedHandler{&abacustest.Auth{Signer: aliceCond}, ctrl}
	offer := &abacustest.Tx{Msg: &OfferDeedMsg{
		Metadata: &abacus.Metadata{Schema: 1},
		DeedID:   id,
		Price:    coin.NewCoinp(500, 0, "DGC"),
	}}
	res, err := h.Deliver(context.Background(), kv, offer)
	assert.Nil(t, err)
	assert.Equal(t, id, res.Data)

	wantEvent := abacus.NewEvent(EventDeedOffered,
		"id", "0",
		"parcel", "NW4/031-A",
		"price", "500 DGC",
	)
	assert.Equal(t, []abacus.Event{wantEvent}, res.Events)

	// Without a price the offer is revoked.
	revoke := &abacustest.Tx{Msg: &OfferDeedMsg{
		Metadata: &abacus.Metadata{Schema: 1},
		DeedID:   id,
	}}
	res, err = h.Deliver(context.Background(), kv, revoke)
	assert.Nil(t, err)

	wantEvent = abacus.NewEvent(EventDeedOfferRevoked,
		"id", "0",
		"parcel", "NW4/031-A",
	)
	assert.Equal(t, []abacus.Event{wantEvent}, res.Events)

	d, err := ctrl.GetDeed(kv, id)
	assert.Nil(t, err)
	if d.Price != nil {
		t.Fatalf("the offer must be revoked: %v", d.Price)
	}
}

func TestTransferDeedHandler(t *testing.T) {
	aliceCond := abacustest.NewCondition()
	alice := aliceCond.Address()
	bob := abacustest.NewCondition().Address()

	kv, ctrl, _, id := newTestDeed(t, alice, bob)

	h := TransferDeedHandler{&abacustest.Auth{Signer: aliceCond}, ctrl}
	tx := &abacustest.Tx{Msg: &TransferDeedMsg{
		Metadata:  &abacus.Metadata{Schema: 1},
		DeedID:    id,
		Recipient: bob,
	}}
	res, err := h.Deliver(context.Background(), kv, tx)
	assert.Nil(t, err)
	assert.Equal(t, id, res.Data)

	wantEvent := abacus.NewEvent(EventDeedTransferred,
		"id", "0",
		"parcel", "NW4/031-A",
		"owner", alice.String(),
		"recipient", bob.String(),
	)
	assert.Equal(t, []abacus.Event{wantEvent}, res.Events)

	d, err := ctrl.GetDeed(kv, id)
	assert.Nil(t, err)
	assert.Equal(t, bob, d.Owner)

	// The old owner lost the right to transfer.
	if _, err := h.Deliver(context.Background(), kv, tx); !ErrNotDeedOwner.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestBuyDeedHandler(t *testing.T) {
	alice := abacustest.NewCondition().Address()
	bobCond := abacustest.NewCondition()
	bob := bobCond.Address()

	kv, ctrl, bank, id := newTestDeed(t, alice, bob)

	_, err := ctrl.Offer(kv, alice, id, coin.NewCoinp(400, 0, "DGC"))
	assert.Nil(t, err)

	h := BuyDeedHandler{&abacustest.Auth{Signer: bobCond}, ctrl}
	tx := &abacustest.Tx{Msg: &BuyDeedMsg{
		Metadata: &abacus.Metadata{Schema: 1},
		DeedID:   id,
	}}
	res, err := h.Deliver(context.Background(), kv, tx)
	assert.Nil(t, err)
	assert.Equal(t, id, res.Data)

	wantEvent := abacus.NewEvent(EventDeedSold,
		"id", "0",
		"parcel", "NW4/031-A",
		"seller", alice.String(),
		"buyer", bob.String(),
		"price", "400 DGC",
	)
	assert.Equal(t, []abacus.Event{wantEvent}, res.Events)

	d, err := ctrl.GetDeed(kv, id)
	assert.Nil(t, err)
	assert.Equal(t, bob, d.Owner)

	balance, err := bank.Balance(kv, alice)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(400, 0, "DGC")}, balance)

	// A second purchase finds nothing for sale.
	if _, err := h.Deliver(context.Background(), kv, tx); !ErrNotForSale.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestRegisterQuery(t *testing.T) {
	qr := abacus.NewQueryRouter()
	RegisterQuery(qr)

	if qr.Handler("/deeds") == nil {
		t.Fatal("path not registered")
	}
	if qr.Handler("/deeds/parcel") == nil {
		t.Fatal("index path not registered")
	}
}

func TestQueryDeedByParcel(t *testing.T) {
	alice := abacustest.NewCondition().Address()
	bob := abacustest.NewCondition().Address()

	kv, _, _, _ := newTestDeed(t, alice, bob)

	qr := abacus.NewQueryRouter()
	RegisterQuery(qr)

	models, err := qr.Handler("/deeds/parcel").Query(kv, "", []byte("NW4/031-A"))
	assert.Nil(t, err)
	if len(models) != 1 {
		t.Fatalf("want one result, got %d", len(models))
	}
	var d Deed
	assert.Nil(t, d.Unmarshal(models[0].Value))
	assert.Equal(t, alice, d.Owner)
}
