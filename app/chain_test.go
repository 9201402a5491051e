package app

import (
	"context"
	"testing"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/abacustest"
	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/x/utils"
)

func TestChain(t *testing.T) {
	c1 := &abacustest.Decorator{}
	c2 := &abacustest.Decorator{}
	c3 := &abacustest.Decorator{}
	h := &abacustest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		c3,
	).WithHandler(h)

	bg := context.Background()

	if _, err := stack.Check(bg, nil, &abacustest.Tx{}); err != nil {
		t.Fatalf("cannot check: %+v", err)
	}
	if _, err := stack.Deliver(bg, nil, &abacustest.Tx{}); err != nil {
		t.Fatalf("cannot deliver: %+v", err)
	}

	// every decorator and the handler saw both calls
	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainAbortsOnError(t *testing.T) {
	c1 := &abacustest.Decorator{}
	c2 := &abacustest.Decorator{
		CheckErr:   errors.ErrUnauthorized.New("check rejected"),
		DeliverErr: errors.ErrUnauthorized.New("deliver rejected"),
	}
	c3 := &abacustest.Decorator{}
	h := &abacustest.Handler{}

	stack := ChainDecorators(c1, c2, c3).WithHandler(h)

	bg := context.Background()

	_, err := stack.Check(bg, nil, &abacustest.Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = stack.Deliver(bg, nil, &abacustest.Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// the chain was cut short at the failing decorator
	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 0, c3.CallCount())
	assert.Equal(t, 0, h.CallCount())
}

func TestChainSkipsNil(t *testing.T) {
	c1 := &abacustest.Decorator{}
	var nilDecorator *abacustest.Decorator
	h := &abacustest.Handler{}

	stack := ChainDecorators(
		nil,
		c1,
		nilDecorator,
	).Chain(nil).WithHandler(h)

	if _, err := stack.Check(context.Background(), nil, &abacustest.Tx{}); err != nil {
		t.Fatalf("cannot check: %+v", err)
	}
	assert.Equal(t, 1, c1.CallCount())
	assert.Equal(t, 1, h.CallCount())
}

func TestChainRecoversPanic(t *testing.T) {
	h := &panicHandler{}

	stack := ChainDecorators(
		utils.NewRecovery(),
	).WithHandler(h)

	_, err := stack.Check(context.Background(), nil, &abacustest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = stack.Deliver(context.Background(), nil, &abacustest.Tx{})
	assert.IsErr(t, errors.ErrPanic, err)
}

// panicHandler panics on any call.
type panicHandler struct{}

var _ abacus.Handler = (*panicHandler)(nil)

func (panicHandler) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	panic("deliver panic")
}
