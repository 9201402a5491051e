package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// EventSink is an append-only observer of the event stream. After every
// successful commit the ledger feeds each sink all events collected from the
// delivered transactions, in emission order. External indexers and auditors
// rely on the order and completeness of this stream.
type EventSink interface {
	Publish(ev abacus.Event) error
}

// Ledger is the execution engine. It maintains a CommitStore with separate
// caches for optimistic checks and for deliveries, dispatches transactions
// to the handler stack and publishes the events of committed deliveries.
//
// All state-changing calls are admitted one at a time. The processing of a
// transaction always runs to completion before the next call is let in.
type Ledger struct {
	mu sync.Mutex

	// name identifies this application instance
	name string

	// store keeps the committed state together with the check and
	// deliver caches.
	store *CommitStore

	decoder abacus.TxDecoder
	handler abacus.Handler

	// initializer seeds the state from a genesis document.
	initializer abacus.Initializer

	// queryRouter resolves read paths.
	queryRouter abacus.QueryRouter

	// chainID is restored from the store on startup and written
	// exactly once, by InitGenesis.
	chainID string

	// baseContext carries values that hold for the whole ledger
	// lifetime, such as the chain id.
	baseContext abacus.Context

	// blockContext additionally carries the current block height and
	// time. BeginBlock replaces it every round.
	blockContext abacus.Context

	// events collected from delivered transactions, published on Commit
	pending []abacus.Event

	sinks []EventSink

	logger log.Logger
}

// NewLedger wires the engine parts together and restores the last
// committed state, panicking when that state cannot be loaded.
func NewLedger(
	name string,
	store abacus.CommitKVStore,
	decoder abacus.TxDecoder,
	handler abacus.Handler,
	queryRouter abacus.QueryRouter,
	baseContext abacus.Context,
) *Ledger {
	l := &Ledger{
		name:        name,
		store:       NewCommitStore(store),
		decoder:     decoder,
		handler:     handler,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	l = l.WithLogger(log.NewNopLogger())

	// The chain id is empty until a genesis was ever loaded.
	l.chainID = mustLoadChainID(l.DeliverStore())
	if l.chainID != "" {
		l.baseContext = abacus.WithChainID(l.baseContext, l.chainID)
	}

	// Until the first BeginBlock the block context reports the height
	// of the restored version.
	info, _ := l.store.CommitInfo()
	l.blockContext = abacus.WithHeight(l.baseContext, info.Version)
	return l
}

// Name returns the name this application instance was created with.
func (l *Ledger) Name() string {
	return l.name
}

// GetChainID returns the chain id of this ledger. Empty until a genesis
// document was loaded.
func (l *Ledger) GetChainID() string {
	return l.chainID
}

// WithInit sets the initializer that InitGenesis feeds the genesis
// document to.
func (l *Ledger) WithInit(init abacus.Initializer) *Ledger {
	l.initializer = init
	return l
}

// WithLogger replaces the logger of the ledger and of its base context.
// Returns the ledger for chaining during setup.
func (l *Ledger) WithLogger(logger log.Logger) *Ledger {
	l.baseContext = abacus.WithLogger(l.baseContext, logger)
	l.logger = logger
	return l
}

// WithEventSink subscribes another sink to the committed event stream.
// Returns the ledger for chaining during setup.
func (l *Ledger) WithEventSink(sink EventSink) *Ledger {
	l.sinks = append(l.sinks, sink)
	return l
}

// Logger returns the active logger.
func (l *Ledger) Logger() log.Logger {
	return l.logger
}

// BlockContext returns the context of the current block round.
func (l *Ledger) BlockContext() abacus.Context {
	return l.blockContext
}

// DeliverStore returns the cache that deliveries run against.
func (l *Ledger) DeliverStore() abacus.CacheableKVStore {
	return l.store.DeliverStore()
}

// CheckStore returns the cache that checks run against.
func (l *Ledger) CheckStore() abacus.CacheableKVStore {
	return l.store.CheckStore()
}

// InitGenesis parses the given app state document and feeds it to the
// initializer. It is called once in the lifetime of the application, before
// the first block. The chain ID is persisted and cannot be redefined later.
func (l *Ledger) InitGenesis(chainID string, appState []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return errors.Wrapf(errors.ErrCannotBeModified, "app state previously loaded for chain: %s", l.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app state")
	}

	var opts abacus.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot parse app state: %s", err)
	}

	if err := saveChainID(l.DeliverStore(), chainID); err != nil {
		return err
	}
	l.chainID = chainID
	l.baseContext = abacus.WithChainID(l.baseContext, l.chainID)

	if l.initializer != nil {
		if err := l.initializer.FromGenesis(opts, l.DeliverStore()); err != nil {
			return errors.Wrap(err, "cannot initialize from genesis")
		}
	}
	return nil
}

// BeginBlock opens the next round of processing. Until the round is written
// out by a Commit, all transactions are processed with the given block
// height and time in their context.
func (l *Ledger) BeginBlock(height int64, blockTime time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := abacus.WithHeight(l.baseContext, height)
	l.blockContext = abacus.WithBlockTime(ctx, blockTime)
}

// CheckTx runs an optimistic verification of the transaction against the
// check cache. No result of this call survives a Commit.
func (l *Ledger) CheckTx(txBytes []byte) (*abacus.CheckResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.loadTx(txBytes)
	if err != nil {
		return nil, err
	}

	ctx := abacus.WithLogger(l.blockContext, l.logger.With("call", "check_tx"))
	return l.handler.Check(ctx, l.store.CheckStore(), tx)
}

// DeliverTx executes the transaction against the delivery cache. Events of a
// successful delivery are collected and published to the sinks once the
// whole block is committed. A failed delivery contributes no events.
func (l *Ledger) DeliverTx(txBytes []byte) (*abacus.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.loadTx(txBytes)
	if err != nil {
		return nil, err
	}

	ctx := abacus.WithLogger(l.blockContext, l.logger.With("call", "deliver_tx"))
	res, err := l.handler.Deliver(ctx, l.store.DeliverStore(), tx)
	if err != nil {
		return nil, err
	}
	l.pending = append(l.pending, res.Events...)
	return res, nil
}

// Commit writes the delivered state through to the backing store and resets
// both caches. After a successful write, all events collected since the last
// commit are handed to every registered sink in emission order. A sink
// failure is logged and does not affect the commit.
func (l *Ledger) Commit() (abacus.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	commitID, err := l.store.Commit()
	if err != nil {
		return commitID, err
	}

	l.logger.Debug("commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)

	events := l.pending
	l.pending = nil
	for _, ev := range events {
		for _, sink := range l.sinks {
			if err := sink.Publish(ev); err != nil {
				l.logger.Error("cannot publish event", "type", ev.Type, "err", err)
			}
		}
	}
	return commitID, nil
}

// Query runs the given query against the last committed state. The path may
// carry a modifier separated by "?", for example "/wallets?prefix".
func (l *Ledger) Query(rawPath string, data []byte) ([]abacus.Model, error) {
	path, mod := splitPath(rawPath)
	qh := l.queryRouter.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for path %q", rawPath)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	db := l.store.committed.CacheWrap()
	defer db.Discard()
	return qh.Query(db, mod, data)
}

// loadTx decodes the raw bytes, turning a panicking decoder into an
// error return.
func (l *Ledger) loadTx(txBytes []byte) (tx abacus.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = l.decoder(txBytes)
	return tx, err
}

// splitPath cuts a raw query path into the route and the modifier that
// may follow a question mark.
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}
