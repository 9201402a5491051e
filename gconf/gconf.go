package gconf

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// ReadStore is the part of a key value store needed to read a configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store can additionally persist a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is a configuration value that can emit its binary form
// and vouch for its own consistency.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is a value that can restore itself from its binary form.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration combines both serialization directions. Every package level
// configuration object must implement it.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// confKey returns the database key of the configuration singleton that
// belongs to the given package.
func confKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates src and writes it to the configuration singleton of the
// given package, replacing whatever was stored there before.
func Save(db Store, pkg string, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %q configuration", pkg)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %q configuration", pkg)
	}
	return db.Set(confKey(pkg), raw)
}

// Load copies the configuration stored under the package name into dst.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	key := confKey(pkg)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "configuration %q", key)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal %q configuration", pkg)
	}
	return nil
}

// InitConfig parses opts["conf"][pkg] into conf and persists it under the
// package configuration key. The genesis must declare a configuration for
// every package that calls this, a missing entry is an error.
func InitConfig(db Store, opts abacus.Options, pkg string, conf Configuration) error {
	var sub abacus.Options
	if err := opts.ReadOptions("conf", &sub); err != nil {
		return errors.Wrap(err, "read genesis conf")
	}
	if sub[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis conf carries no %q entry", pkg)
	}
	if err := sub.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "parse %q configuration", pkg)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "store %q configuration", pkg)
	}
	return nil
}
