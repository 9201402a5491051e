package app

import (
	"fmt"
	"regexp"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// Router maps message paths to handlers, in the spirit of
// net/http.ServeMux but without pattern matching.
type Router struct {
	handlers map[string]abacus.Handler
}

var _ abacus.Registry = (*Router)(nil)
var _ abacus.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]abacus.Handler),
	}
}

// pathPattern describes the format of a valid routing path. A path is
// expected to be a combination of the extension name and the action name.
var pathPattern = regexp.MustCompile(`^[a-z]+[a-z0-9_]*/[a-z]+[a-zA-Z0-9_]*$`)

// Handle implements abacus.Registry interface.
func (r *Router) Handle(path string, h abacus.Handler) {
	if !pathPattern.MatchString(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.handlers[path]; ok {
		panic(fmt.Sprintf("double registration: %q", path))
	}
	r.handlers[path] = h
}

// Handler looks up the route of the given message. A message nobody
// registered for resolves to a handler that always fails with
// errors.ErrNotFound.
func (r *Router) Handler(m abacus.Msg) abacus.Handler {
	path := m.Path()
	h, ok := r.handlers[path]
	if !ok {
		return notFoundHandler(path)
	}
	return h
}

// Check dispatches to the proper handler based on message path
func (r *Router) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on message path
func (r *Router) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg).Deliver(ctx, store, tx)
}

// notFoundHandler always returns an ErrNotFound error. It is the fallback
// for all messages with an unknown path.
type notFoundHandler string

var _ abacus.Handler = notFoundHandler("")

func (path notFoundHandler) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
