package abacustest

import "github.com/abacuslab/abacus"

// Handler is a configurable abacus.Handler mock. Each method returns the
// declared result and error pair and counts the call.
type Handler struct {
	CheckResult abacus.CheckResult
	CheckErr    error

	DeliverResult abacus.DeliverResult
	DeliverErr    error

	checks   int
	delivers int
}

var _ abacus.Handler = (*Handler)(nil)

func (h *Handler) Check(abacus.Context, abacus.KVStore, abacus.Tx) (*abacus.CheckResult, error) {
	h.checks++
	return &h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(abacus.Context, abacus.KVStore, abacus.Tx) (*abacus.DeliverResult, error) {
	h.delivers++
	return &h.DeliverResult, h.DeliverErr
}

// CheckCallCount returns the number of times Check was called.
func (h *Handler) CheckCallCount() int {
	return h.checks
}

// DeliverCallCount returns the number of times Deliver was called.
func (h *Handler) DeliverCallCount() int {
	return h.delivers
}

// CallCount returns the number of times Check or Deliver was called.
func (h *Handler) CallCount() int {
	return h.checks + h.delivers
}
