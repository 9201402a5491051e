package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/abacustest"
	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/store/iavl"
)

var blockNow = time.Date(2019, time.August, 5, 12, 0, 0, 0, time.UTC)

func newTestLedger(db abacus.CommitKVStore) *Ledger {
	qr := abacus.NewQueryRouter()
	qr.Register("/echo", rawQuery{})
	return NewLedger("echoapp", db, echoDecoder, echoHandler{}, qr, context.Background())
}

func TestLedgerGenesis(t *testing.T) {
	counter := &countInit{}
	ledger := newTestLedger(iavl.MockCommitStore()).
		WithInit(ChainInitializers(dummyInit{}, counter))

	assert.Equal(t, "", ledger.GetChainID())

	appState := []byte(`{"dummy": "secret"}`)
	if err := ledger.InitGenesis("test-ledger-51", appState); err != nil {
		t.Fatalf("cannot initialize genesis: %+v", err)
	}
	assert.Equal(t, "test-ledger-51", ledger.GetChainID())
	assert.Equal(t, 1, counter.called)

	value, err := ledger.DeliverStore().Get([]byte("dummy"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("secret"), value)

	// a chain can be initialized only once
	err = ledger.InitGenesis("another-chain", appState)
	assert.IsErr(t, errors.ErrCannotBeModified, err)
	assert.Equal(t, 1, counter.called)
}

func TestLedgerGenesisInvalidInput(t *testing.T) {
	cases := map[string]struct {
		chainID  string
		appState []byte
		wantErr  *errors.Error
	}{
		"empty app state": {
			chainID: "test-ledger-51",
			wantErr: errors.ErrEmpty,
		},
		"broken app state": {
			chainID:  "test-ledger-51",
			appState: []byte("not a JSON document"),
			wantErr:  errors.ErrInvalidInput,
		},
		"invalid chain id": {
			chainID:  "ab",
			appState: []byte(`{}`),
			wantErr:  errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ledger := newTestLedger(iavl.MockCommitStore())
			err := ledger.InitGenesis(tc.chainID, tc.appState)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
			assert.Equal(t, "", ledger.GetChainID())
		})
	}
}

func TestLedgerChainIDSurvivesRestart(t *testing.T) {
	db := iavl.MockCommitStore()

	ledger := newTestLedger(db)
	if err := ledger.InitGenesis("test-ledger-51", []byte(`{}`)); err != nil {
		t.Fatalf("cannot initialize genesis: %+v", err)
	}
	if _, err := ledger.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}

	restarted := newTestLedger(db)
	assert.Equal(t, "test-ledger-51", restarted.GetChainID())

	err := restarted.InitGenesis("another-chain", []byte(`{}`))
	assert.IsErr(t, errors.ErrCannotBeModified, err)
}

func TestLedgerDeliverThenCommit(t *testing.T) {
	ledger := newTestLedger(iavl.MockCommitStore())
	ledger.BeginBlock(1, blockNow)

	res, err := ledger.DeliverTx([]byte("ping"))
	if err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	assert.Equal(t, []byte("ping"), res.Data)

	// before the commit the delivery is not part of the queryable state
	models, err := ledger.Query("/echo", []byte("tx:ping"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(models))

	if _, err := ledger.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}

	models, err = ledger.Query("/echo", []byte("tx:ping"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	assert.Equal(t, []byte("ping"), models[0].Value)
}

func TestLedgerCheckStateIsDropped(t *testing.T) {
	ledger := newTestLedger(iavl.MockCommitStore())
	ledger.BeginBlock(1, blockNow)

	if _, err := ledger.CheckTx([]byte("ping")); err != nil {
		t.Fatalf("cannot check: %+v", err)
	}

	// a check write never reaches the delivery state
	value, err := ledger.DeliverStore().Get([]byte("check:ping"))
	assert.Nil(t, err)
	assert.Nil(t, value)

	if _, err := ledger.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}

	// and it does not survive a commit either
	value, err = ledger.CheckStore().Get([]byte("check:ping"))
	assert.Nil(t, err)
	assert.Nil(t, value)
}

func TestLedgerPublishesCommittedEvents(t *testing.T) {
	sink := &recordingSink{}
	ledger := newTestLedger(iavl.MockCommitStore()).WithEventSink(sink)
	ledger.BeginBlock(1, blockNow)

	if _, err := ledger.DeliverTx([]byte("first")); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	if _, err := ledger.DeliverTx([]byte("reject")); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want rejection, got %+v", err)
	}
	if _, err := ledger.DeliverTx([]byte("second")); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}

	// nothing is published before the commit
	assert.Equal(t, 0, len(sink.events))

	if _, err := ledger.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}

	// only successful deliveries are published, in emission order
	assert.Equal(t, []abacus.Event{
		abacus.NewEvent("echo", "payload", "first"),
		abacus.NewEvent("echo", "payload", "second"),
	}, sink.events)

	// an empty commit publishes nothing more
	if _, err := ledger.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}
	assert.Equal(t, 2, len(sink.events))
}

func TestLedgerSinkFailureDoesNotAffectCommit(t *testing.T) {
	broken := &brokenSink{}
	sink := &recordingSink{}
	ledger := newTestLedger(iavl.MockCommitStore()).
		WithEventSink(broken).
		WithEventSink(sink)
	ledger.BeginBlock(1, blockNow)

	if _, err := ledger.DeliverTx([]byte("ping")); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	if _, err := ledger.Commit(); err != nil {
		t.Fatalf("cannot commit: %+v", err)
	}
	// the healthy sink still received the full stream
	assert.Equal(t, 1, len(sink.events))
}

func TestLedgerBlockContext(t *testing.T) {
	handler := &contextHandler{}
	ledger := NewLedger("ctxapp", iavl.MockCommitStore(), echoDecoder, handler, abacus.NewQueryRouter(), context.Background())
	if err := ledger.InitGenesis("test-ledger-51", []byte(`{}`)); err != nil {
		t.Fatalf("cannot initialize genesis: %+v", err)
	}
	ledger.BeginBlock(5, blockNow)

	if _, err := ledger.DeliverTx([]byte("ping")); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}
	assert.Equal(t, int64(5), handler.height)
	assert.Equal(t, blockNow, handler.blockTime)
	assert.Equal(t, "test-ledger-51", handler.chainID)
}

func TestLedgerRecoversDecoderPanic(t *testing.T) {
	ledger := newTestLedger(iavl.MockCommitStore())
	ledger.BeginBlock(1, blockNow)

	_, err := ledger.CheckTx([]byte("panic"))
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = ledger.DeliverTx([]byte("panic"))
	assert.IsErr(t, errors.ErrPanic, err)
}

// echoDecoder wraps raw bytes into a transaction routed to the echo handler.
func echoDecoder(txBytes []byte) (abacus.Tx, error) {
	if bytes.Equal(txBytes, []byte("panic")) {
		panic("cannot decode")
	}
	return &abacustest.Tx{Msg: &abacustest.Msg{RoutePath: "test/echo", Serialized: txBytes}}, nil
}

// echoHandler persists every processed payload and emits a single event
// describing it. The "reject" payload always fails.
type echoHandler struct{}

var _ abacus.Handler = echoHandler{}

func (echoHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	payload, err := txPayload(tx)
	if err != nil {
		return nil, err
	}
	if err := db.Set([]byte("check:"+string(payload)), payload); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: 1}, nil
}

func (echoHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	payload, err := txPayload(tx)
	if err != nil {
		return nil, err
	}
	if err := db.Set([]byte("tx:"+string(payload)), payload); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data:   payload,
		Events: []abacus.Event{abacus.NewEvent("echo", "payload", string(payload))},
	}, nil
}

func txPayload(tx abacus.Tx) ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	payload, err := msg.Marshal()
	if err != nil {
		return nil, err
	}
	if bytes.Equal(payload, []byte("reject")) {
		return nil, errors.ErrInvalidInput.New("rejected payload")
	}
	return payload, nil
}

// contextHandler records the block context it was called with.
type contextHandler struct {
	height    int64
	blockTime time.Time
	chainID   string
}

var _ abacus.Handler = (*contextHandler)(nil)

func (h *contextHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	return &abacus.CheckResult{}, nil
}

func (h *contextHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	h.height, _ = abacus.GetHeight(ctx)
	h.blockTime, _ = abacus.BlockTime(ctx)
	h.chainID = abacus.GetChainID(ctx)
	return &abacus.DeliverResult{}, nil
}

// rawQuery returns the value stored under the key given as the query data.
type rawQuery struct{}

var _ abacus.QueryHandler = rawQuery{}

func (rawQuery) Query(db abacus.ReadOnlyKVStore, mod string, data []byte) ([]abacus.Model, error) {
	value, err := db.Get(data)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return []abacus.Model{{Key: data, Value: value}}, nil
}

type recordingSink struct {
	events []abacus.Event
}

var _ EventSink = (*recordingSink)(nil)

func (s *recordingSink) Publish(ev abacus.Event) error {
	s.events = append(s.events, ev)
	return nil
}

type brokenSink struct{}

var _ EventSink = brokenSink{}

func (brokenSink) Publish(abacus.Event) error {
	return errors.ErrInvalidState.New("sink is broken")
}

type dummyInit struct{}

func (dummyInit) FromGenesis(opts abacus.Options, kv abacus.KVStore) error {
	var value string
	if err := opts.ReadOptions("dummy", &value); err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	return kv.Set([]byte("dummy"), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(opts abacus.Options, kv abacus.KVStore) error {
	c.called++
	return nil
}
