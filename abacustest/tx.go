package abacustest

import (
	"encoding/binary"

	"github.com/abacuslab/abacus"
)

// Tx is an abacus.Tx mock carrying a bare message.
type Tx struct {
	// Msg is returned by GetMsg.
	Msg abacus.Msg
	// Err if set is returned by every method.
	Err error
}

var _ abacus.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (abacus.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not supported")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not supported")
}

// Msg is a configurable abacus.Msg mock.
type Msg struct {
	// RoutePath is returned by Path and decides which handler processes
	// the message.
	RoutePath string
	// Serialized is what Marshal returns and Unmarshal overwrites.
	Serialized []byte
	// Err if set is returned by every method.
	Err error
}

var _ abacus.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

// SequenceID returns an ID encoded the same way the bucket sequence does
// it. Use it in tests to compute the ID of the n-th created entity.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
