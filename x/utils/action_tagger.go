package utils

import (
	"github.com/abacuslab/abacus"
)

// ActionTagger emits an `action` event naming the message path of every
// delivered transaction, so clients have one standard key to search and
// subscribe on. Put it last in the ChainDecorators call, closest to the
// handler.
type ActionTagger struct{}

var _ abacus.Decorator = ActionTagger{}

// ActionKey is the event type ActionTagger emits under.
const ActionKey = "action"

// NewActionTagger creates an ActionTagger decorator.
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check passes the request along untouched.
func (ActionTagger) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx, next abacus.Checker) (*abacus.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends the action event to every successful result.
func (ActionTagger) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx, next abacus.Deliverer) (*abacus.DeliverResult, error) {
	// A transaction whose action cannot be named is rejected before it
	// is dispatched.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Events = append(res.Events, abacus.NewEvent(ActionKey, "name", msg.Path()))
	return res, nil
}
