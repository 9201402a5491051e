package migration

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

const pathUpgradeSchemaMsg = "migration/upgrade_schema"

func init() {
	MustRegister(1, &UpgradeSchemaMsg{}, NoModification)
}

// UpgradeSchemaMsg requests activation of the next schema version for a
// package.
type UpgradeSchemaMsg struct {
	Metadata  *abacus.Metadata
	Pkg       string
	ToVersion uint32
}

var _ abacus.Msg = (*UpgradeSchemaMsg)(nil)
var _ Migratable = (*UpgradeSchemaMsg)(nil)

func (msg *UpgradeSchemaMsg) GetMetadata() *abacus.Metadata {
	return msg.Metadata
}

func (msg *UpgradeSchemaMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Pkg == "" {
		return errors.Wrap(errors.ErrEmpty, "pkg is required")
	}
	if msg.ToVersion == 0 {
		return errors.Wrap(errors.ErrEmpty, "to version is required")
	}
	return nil
}

func (UpgradeSchemaMsg) Path() string {
	return pathUpgradeSchemaMsg
}

// Marshal encodes the message for transport.
func (msg *UpgradeSchemaMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(msg)
}

// Unmarshal restores the message from transport bytes.
func (msg *UpgradeSchemaMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, msg)
}
