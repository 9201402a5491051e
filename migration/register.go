package migration

import (
	"reflect"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// Migratable is implemented by both messages and models that can be schema
// versioned. Every migratable entity must carry its metadata.
type Migratable interface {
	GetMetadata() *abacus.Metadata
	Validate() error
}

// Migrator upgrades an entity in place by one schema version, from the
// version before the one it was registered for.
type Migrator func(db abacus.ReadOnlyKVStore, m Migratable) error

// NoModification is the migrator to register when a version bump carries
// no data changes. Applying it still moves the metadata forward.
func NoModification(db abacus.ReadOnlyKVStore, m Migratable) error {
	return nil
}

func newRegister() *register {
	return &register{
		migrations: make(map[payloadVersion]Migrator),
	}
}

type register struct {
	migrations map[payloadVersion]Migrator
}

// payloadVersion is the register key, one payload type at one schema
// version.
type payloadVersion struct {
	payload reflect.Type
	version uint32
}

func (r *register) MustRegister(migrationTo uint32, m Migratable, fn Migrator) {
	if err := r.Register(migrationTo, m, fn); err != nil {
		panic(err)
	}
}

func (r *register) Register(migrationTo uint32, m Migratable, fn Migrator) error {
	if migrationTo < 1 {
		return errors.Wrap(errors.ErrInvalidInput, "minimal allowed version is 1")
	}

	tp := reflect.TypeOf(m)
	for tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}
	if tp.Kind() != reflect.Struct {
		return errors.Wrapf(errors.ErrInvalidInput, "only struct can be migrated, got %T", m)
	}

	// Migrations are applied in order so their registration must be
	// sequential as well.
	if migrationTo > 1 {
		prev := payloadVersion{payload: tp, version: migrationTo - 1}
		if _, ok := r.migrations[prev]; !ok {
			return errors.Wrapf(errors.ErrInvalidInput, "missing %d version migration", migrationTo-1)
		}
	}

	pv := payloadVersion{
		version: migrationTo,
		payload: tp,
	}
	if _, ok := r.migrations[pv]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "already registered: %s.%s:%d", tp.PkgPath(), tp.Name(), migrationTo)
	}
	r.migrations[pv] = fn
	return nil
}

func (r *register) Apply(db abacus.ReadOnlyKVStore, m Migratable, migrateTo uint32) error {
	if migrateTo < 1 {
		return errors.Wrap(errors.ErrInvalidInput, "minimal allowed version is 1")
	}

	meta := m.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrEmpty, "%T metadata", m)
	}

	tp := reflect.TypeOf(m)
	for tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}

	for v := meta.Schema + 1; v <= migrateTo; v++ {
		migrate, ok := r.migrations[payloadVersion{payload: tp, version: v}]
		if !ok {
			return errors.Wrapf(errors.ErrSchema, "migration to version %d missing", v)
		}
		if err := migrate(db, m); err != nil {
			return errors.Wrapf(err, "migration to version %d", v)
		}
		meta.Schema = v
	}

	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "validation")
	}
	return nil
}

// reg is the process wide register that package init functions write
// their migrations into. The register type is separate so that tests can
// run against a private instance.
var reg *register = newRegister()

func MustRegister(migrationTo uint32, m Migratable, fn Migrator) {
	reg.MustRegister(migrationTo, m, fn)
}

// Apply runs every migration the payload is missing, in version order.
// Each step moves the metadata forward, a no modification step included.
// Steps change the payload in place, so after a failure it may be left
// partially upgraded.
//
// The payload Validate method runs once, after the last step.
func Apply(db abacus.ReadOnlyKVStore, m Migratable, migrateTo uint32) error {
	return reg.Apply(db, m, migrateTo)
}
