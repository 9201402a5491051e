package utils

import (
	"time"

	"github.com/abacuslab/abacus"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging is a decorator that writes one log entry per processed transaction,
// carrying the duration and the outcome.
type Logging struct{}

var _ abacus.Decorator = Logging{}

// NewLogging returns the decorator. It carries no state.
func NewLogging() Logging {
	return Logging{}
}

// Check runs the checker and logs the outcome. A successful check is routine
// and logged with debug priority only.
func (Logging) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx, next abacus.Checker) (*abacus.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	if err != nil {
		logFailure(ctx, start, err)
	} else {
		txLogger(ctx, start).Debug(res.Log)
	}
	return res, err
}

// Deliver runs the deliverer and logs the outcome. A successful delivery
// changed the state and is logged with info priority.
func (Logging) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx, next abacus.Deliverer) (*abacus.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	if err != nil {
		logFailure(ctx, start, err)
	} else {
		txLogger(ctx, start).Info(res.Log)
	}
	return res, err
}

// txLogger annotates the context logger with the time spent processing,
// measured in microseconds.
func txLogger(ctx abacus.Context, start time.Time) log.Logger {
	return abacus.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)
}

func logFailure(ctx abacus.Context, start time.Time, err error) {
	// The message is empty on failure, the entry still carries the
	// duration and the error itself.
	txLogger(ctx, start).With("err", err).Error("")
}
