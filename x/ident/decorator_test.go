package ident

import (
	"context"
	"testing"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/abacustest"
	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/store"
)

func TestDecorator(t *testing.T) {
	alice := abacustest.NewCondition()
	bob := abacustest.NewCondition()
	stranger := abacustest.NewCondition()

	cases := map[string]struct {
		decorator  Decorator
		tx         abacus.Tx
		wantErr    *errors.Error
		wantignore bool
		principals []abacus.Condition
	}{
		"declared principals are copied into the context": {
			decorator:  NewDecorator(),
			tx:         &declaringTx{principals: []abacus.Condition{alice, bob}},
			principals: []abacus.Condition{alice, bob},
		},
		"a declaration without principals is rejected": {
			decorator: NewDecorator(),
			tx:        &declaringTx{},
			wantErr:   errors.ErrUnauthorized,
		},
		"a declaration without principals can be allowed": {
			decorator:  NewDecorator().AllowMissingPrincipals(),
			tx:         &declaringTx{},
			principals: nil,
		},
		"a malformed principal fails the whole transaction": {
			decorator: NewDecorator(),
			tx:        &declaringTx{principals: []abacus.Condition{abacus.Condition("garbage")}},
			wantErr:   errors.ErrInvalidInput,
		},
		"an envelope that declares nothing passes through": {
			decorator:  NewDecorator(),
			tx:         &abacustest.Tx{},
			wantignore: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctx := abacus.WithChainID(context.Background(), "mycoin-123")

			var h principalCheckHandler

			_, err := tc.decorator.Check(ctx, db, tc.tx, &h)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("unexpected check error: %+v", err)
				}
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.principals, h.principals)

			_, err = tc.decorator.Deliver(ctx, db, tc.tx, &h)
			assert.Nil(t, err)
			assert.Equal(t, tc.principals, h.principals)

			if tc.wantignore {
				return
			}
			auth := Authenticate{}
			for _, p := range tc.principals {
				if !auth.HasAddress(h.ctx, p.Address()) {
					t.Errorf("principal %s not authenticated", p)
				}
			}
			if auth.HasAddress(h.ctx, stranger.Address()) {
				t.Error("stranger authenticated")
			}
		})
	}
}

type declaringTx struct {
	abacustest.Tx
	principals []abacus.Condition
}

var _ abacus.PrincipalDeclarer = (*declaringTx)(nil)

func (tx *declaringTx) GetPrincipals() []abacus.Condition {
	return tx.principals
}

// principalCheckHandler stores the seen principals on each call
type principalCheckHandler struct {
	ctx        abacus.Context
	principals []abacus.Condition
}

var _ abacus.Handler = (*principalCheckHandler)(nil)

func (h *principalCheckHandler) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	h.ctx = ctx
	h.principals = Authenticate{}.GetConditions(ctx)
	return &abacus.CheckResult{}, nil
}

func (h *principalCheckHandler) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	h.ctx = ctx
	h.principals = Authenticate{}.GetConditions(ctx)
	return &abacus.DeliverResult{}, nil
}
