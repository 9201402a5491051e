package app

import (
	"reflect"

	"github.com/abacuslab/abacus"
)

// Decorators is a stack of decorators that still needs a final Handler to
// become executable.
type Decorators struct {
	chain []abacus.Decorator
}

/*
ChainDecorators collects a stack of decorators. Adding a final Handler,
usually a Router, resolves it into a Handler that runs the whole stack:

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(
    app.NewRouter(),
  )
*/
func ChainDecorators(chain ...abacus.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain appends more decorators to the stack.
func (d Decorators) Chain(chain ...abacus.Decorator) Decorators {
	return Decorators{chain: append(d.chain, withoutNil(chain)...)}
}

// withoutNil filters nil decorators out of the slice, reusing the backing
// array. Typed nil pointers count as nil.
func withoutNil(ds []abacus.Decorator) []abacus.Decorator {
	kept := ds[:0]
	for _, dec := range ds {
		if dec == nil {
			continue
		}
		if v := reflect.ValueOf(dec); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		kept = append(kept, dec)
	}
	return kept
}

// WithHandler collapses the decorators around h into a single Handler.
// Every call passes through the chain in declaration order before
// reaching h.
func (d Decorators) WithHandler(h abacus.Handler) abacus.Handler {
	// Wrap from the last decorator to the first, the top of the chain
	// runs first.
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = layer{dec: d.chain[i], next: h}
	}
	return h
}

// layer binds one decorator to the handler below it, so a resolved stack
// is a chain of layers.
type layer struct {
	dec  abacus.Decorator
	next abacus.Handler
}

var _ abacus.Handler = layer{}

func (l layer) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	return l.dec.Check(ctx, store, tx, l.next)
}

func (l layer) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	return l.dec.Deliver(ctx, store, tx, l.next)
}
