package abacus

import "fmt"

// Query modifiers supported by the framework. The key modifier is the empty
// string so that a plain query defaults to an exact key lookup.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a key-value pair as returned by queries.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair builds a Model from its parts.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler resolves raw state queries addressed to one path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister hooks a set of query handlers into a router.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths to their handlers, much like
// net/http.ServeMux maps URLs.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns an empty router.
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler),
	}
}

// RegisterAll runs every QueryRegister against this router.
func (r QueryRouter) RegisterAll(regs ...QueryRegister) {
	for _, reg := range regs {
		reg(r)
	}
}

// Register binds a handler to a path. Binding a path twice is a programming
// error and panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to the path, nil when the path is
// unknown.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
