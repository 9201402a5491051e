package migration

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/x"
)

// SchemaMigratingHandler upgrades every incoming message to the currently
// active schema version before passing it on. The wrapped handler only ever
// sees messages in the current format. A message that cannot be brought up to
// date fails the call with a migration error.
func SchemaMigratingHandler(packageName string, h abacus.Handler) abacus.Handler {
	return &schemaMigratingHandler{
		next:       h,
		pkg:        packageName,
		schemas:    NewSchemaBucket(),
		migrations: reg,
	}
}

type schemaMigratingHandler struct {
	next       abacus.Handler
	pkg        string
	schemas    *SchemaBucket
	migrations *register
}

func (h *schemaMigratingHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if err := h.migrate(db, tx); err != nil {
		return nil, errors.Wrap(err, "migration")
	}
	return h.next.Check(ctx, db, tx)
}

func (h *schemaMigratingHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	if err := h.migrate(db, tx); err != nil {
		return nil, errors.Wrap(err, "migration")
	}
	return h.next.Deliver(ctx, db, tx)
}

func (h *schemaMigratingHandler) migrate(db abacus.ReadOnlyKVStore, tx abacus.Tx) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "get msg")
	}
	m, ok := msg.(Migratable)
	if !ok {
		return errors.Wrap(errors.ErrInvalidMsg, "message cannot be migrated")
	}

	current, err := h.schemas.CurrentSchema(db, h.pkg)
	if err != nil {
		return errors.Wrap(err, "current message schema")
	}
	// Apply modifies the message in place.
	if err := h.migrations.Apply(db, m, current); err != nil {
		return errors.Wrap(err, "schema migration")
	}
	return nil
}

// SchemaMigratingRegistry decorates a registry so that every registered
// handler is wrapped with schema migration for the given package.
func SchemaMigratingRegistry(packageName string, r abacus.Registry) abacus.Registry {
	return &schemaMigratingRegistry{
		reg: r,
		pkg: packageName,
	}
}

type schemaMigratingRegistry struct {
	reg abacus.Registry
	pkg string
}

func (r *schemaMigratingRegistry) Handle(path string, h abacus.Handler) {
	r.reg.Handle(path, SchemaMigratingHandler(r.pkg, h))
}

// RegisterRoutes attaches the schema upgrade handler to the given registry.
func RegisterRoutes(r abacus.Registry, auth x.Authenticator) {
	r.Handle(pathUpgradeSchemaMsg, &upgradeSchemaHandler{
		bucket: NewSchemaBucket(),
		auth:   auth,
	})
}

type upgradeSchemaHandler struct {
	bucket *SchemaBucket
	auth   x.Authenticator
}

func (h *upgradeSchemaHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{}, nil
}

func (h *upgradeSchemaHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	current, err := h.bucket.CurrentSchema(db, msg.Pkg)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return nil, errors.Wrap(err, "current schema version")
	}
	if msg.ToVersion != current+1 {
		return nil, errors.Wrapf(errors.ErrSchema, "expected next schema version to be %d", current+1)
	}

	schema := Schema{
		Metadata: &abacus.Metadata{Schema: 1},
		Pkg:      msg.Pkg,
		Version:  current + 1,
	}
	obj, err := h.bucket.Create(db, &schema)
	if err != nil {
		return nil, errors.Wrap(err, "create schema version")
	}
	return &abacus.DeliverResult{Data: obj.Key()}, nil
}

func (h *upgradeSchemaHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*UpgradeSchemaMsg, error) {
	var msg UpgradeSchemaMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	conf := mustLoadConf(db)
	if !h.auth.HasAddress(ctx, conf.Admin) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin approval required")
	}
	return &msg, nil
}

// SchemaRoutingHandler dispatches a message to one of several handlers,
// selected by the message schema version. The slice index is the lowest
// schema version a handler accepts, so
//
//   h := SchemaRoutingHandler{
//     1: &alphaHandler{},
//     7: &betaHandler{},
//   }
//
// routes versions 1 to 6 to alpha and version 7 and above to beta.
//
// The handler set must not be empty and index zero must stay nil, as schema
// versions start with one. Every routed message must implement Migratable.
type SchemaRoutingHandler []abacus.Handler

var _ abacus.Handler = (SchemaRoutingHandler)(nil)

func (h SchemaRoutingHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	handler, err := h.selectHandler(tx)
	if err != nil {
		return nil, err
	}
	return handler.Check(ctx, db, tx)
}

func (h SchemaRoutingHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	handler, err := h.selectHandler(tx)
	if err != nil {
		return nil, err
	}
	return handler.Deliver(ctx, db, tx)
}

// selectHandler picks the handler registered for the highest version that
// does not exceed the message schema version. Gaps in the mapping fall back
// to the closest lower version.
func (h SchemaRoutingHandler) selectHandler(tx abacus.Tx) (abacus.Handler, error) {
	if len(h) == 0 {
		return nil, errors.Wrap(errors.ErrHuman, "empty handler set")
	}
	if h[0] != nil {
		return nil, errors.Wrap(errors.ErrHuman, "handler for schema version zero")
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "get transaction message")
	}
	m, ok := msg.(Migratable)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "message %T does not support schema versioning", msg)
	}

	top := m.GetMetadata().Schema
	if top < 1 {
		top = 1
	}
	if max := uint32(len(h)) - 1; top > max {
		top = max
	}
	for ver := top; ver >= 1; ver-- {
		if h[ver] != nil {
			return h[ver], nil
		}
	}
	return nil, errors.Wrapf(errors.ErrSchema, "no matching handler for schema version %d", m.GetMetadata().Schema)
}
