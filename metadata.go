package abacus

import (
	"github.com/abacuslab/abacus/errors"
)

// Metadata is carried by every persistent model and message. It names the
// schema version the rest of the payload is serialized with, so that old
// records can be migrated on load.
type Metadata struct {
	Schema uint32
}

// Validate returns an error if the metadata cannot be used.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrSchema, "schema version must be greater than zero")
	}
	return nil
}

// Copy returns a clone of the metadata, nil for a nil receiver. Model Copy
// implementations use it to duplicate the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
