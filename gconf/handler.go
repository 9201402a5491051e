package gconf

import (
	"reflect"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/x"
)

// OwnedConfig is a configuration that declares its owner. Only the owner is
// authorized to replace the configuration with an updated version.
type OwnedConfig interface {
	Unmarshaler
	ValidMarshaler
	GetOwner() abacus.Address
}

// UpdateConfigurationHandler processes configuration patch messages for a
// single package.
type UpdateConfigurationHandler struct {
	pkg string
	// Load destination for the current configuration state.
	config    OwnedConfig
	auth      x.Authenticator
	initAdmin func(abacus.ReadOnlyKVStore) (abacus.Address, error)
}

var _ abacus.Handler = (*UpdateConfigurationHandler)(nil)

// NewUpdateConfigurationHandler builds the handler behind a package level
// configuration update route.
//
// Every update must be authorized by the current configuration owner. When no
// configuration exists yet there is no owner either, so no update could ever
// pass authentication and the configuration could never be created. The
// optional initConfAdmin function breaks that cycle by naming an address that
// may create the very first configuration. migration.CurrentAdmin is a good
// choice. Once a configuration exists initConfAdmin is ignored and only the
// owner declared by the configuration can authorize further changes.
func NewUpdateConfigurationHandler(
	pkg string,
	config OwnedConfig,
	auth x.Authenticator,
	initConfAdmin func(abacus.ReadOnlyKVStore) (abacus.Address, error),
) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:       pkg,
		config:    config,
		auth:      auth,
		initAdmin: initConfAdmin,
	}
}

func (h UpdateConfigurationHandler) Check(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if err := h.update(ctx, store, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	if err := h.update(ctx, store, tx); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) update(ctx abacus.Context, store abacus.KVStore, tx abacus.Tx) error {
	if err := h.authenticate(ctx, store); err != nil {
		return err
	}
	patch, err := messagePatch(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := overwrite(h.config, patch); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, h.config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

// authenticate loads the current configuration into h.config and ensures the
// transaction is authorized by whoever may change it.
func (h UpdateConfigurationHandler) authenticate(ctx abacus.Context, store abacus.KVStore) error {
	err := Load(store, h.pkg, h.config)
	if err == nil {
		owner := h.config.GetOwner()
		if owner == nil {
			return errors.Wrap(errors.ErrUnauthorized, "configuration declares no owner")
		}
		if !h.auth.HasAddress(ctx, owner) {
			return errors.Wrap(errors.ErrUnauthorized, "owner did not authorize the transaction")
		}
		return nil
	}
	if !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "load current configuration")
	}

	// No configuration was created via the genesis. The first version
	// can only be created by the init admin.
	if h.initAdmin == nil {
		return errors.Wrap(errors.ErrUnauthorized, "configuration does not exist and cannot be initialized")
	}
	admin, err := h.initAdmin(store)
	if err != nil {
		return errors.Wrap(err, "get init admin")
	}
	if !h.auth.HasAddress(ctx, admin) {
		return errors.Wrap(errors.ErrUnauthorized, "initialization admin did not authorize the transaction")
	}
	return nil
}

// overwrite copies every non zero field of patch over the corresponding field
// of config. Zero value patch fields keep the current configuration value.
func overwrite(config OwnedConfig, patch OwnedConfig) error {
	if !reflect.TypeOf(patch).ConvertibleTo(reflect.TypeOf(config)) {
		return errors.Wrap(errors.ErrInvalidMsg, "config in message doesn't match store")
	}

	dst := reflect.ValueOf(config).Elem()
	src := reflect.ValueOf(patch).Elem()
	for i := 0; i < dst.NumField(); i++ {
		f := src.Field(i)
		if isZero(f) {
			continue
		}
		dst.Field(i).Set(f)
	}
	return nil
}

// isZero returns true if the value is the zero value of its type.
func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// messagePatch extracts the "Patch" field of the transaction message. The
// field must hold a configuration of the updated package.
func messagePatch(tx abacus.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	container := reflect.ValueOf(msg)
	if container.Kind() != reflect.Ptr || container.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid message container value: %T", msg)
	}

	field := container.Elem().FieldByName("Patch")
	if field.IsNil() {
		return nil, errors.Wrap(errors.ErrInvalidState, `"Patch" field is required`)
	}
	patch, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInvalidInput, `"Patch" field is of a wrong type`)
	}
	return patch, nil
}
