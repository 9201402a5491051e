package orm

import (
	"reflect"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/x"
)

var (
	_ Object      = (*SimpleObj)(nil)
	_ x.Validater = (*SimpleObj)(nil)
)

// SimpleObj is the plain Object implementation: a key bound to a model.
type SimpleObj struct {
	key   []byte
	value Model
}

// NewSimpleObj binds a key to a model.
func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

// Key returns the key the object is stored under.
func (o SimpleObj) Key() []byte { return o.key }

// Value returns the stored model.
func (o SimpleObj) Value() abacus.Persistent { return o.value }

// SetKey replaces the key.
func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

// Validate requires both a key and a valid value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// Clone returns a new object of the same model type that data can be loaded
// into. The key is copied, the value starts zeroed.
func (o *SimpleObj) Clone() Object {
	fresh := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	return &SimpleObj{
		key:   append([]byte(nil), o.key...),
		value: fresh,
	}
}
