package orm

import (
	"bytes"
	"sort"

	"github.com/abacuslab/abacus/errors"
)

var _ CloneableData = (*MultiRef)(nil)

// MultiRef is a sorted set of primary keys, stored as the value of a
// non-unique index entry.
type MultiRef struct {
	Refs [][]byte
}

// NewMultiRef builds a reference set from the given keys. Duplicates are
// rejected.
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := new(MultiRef)
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Marshal encodes the reference set for storage.
func (m *MultiRef) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

// Unmarshal restores the reference set from storage bytes.
func (m *MultiRef) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// GetRefs returns all stored references.
func (m *MultiRef) GetRefs() [][]byte {
	if m == nil {
		return nil
	}
	return m.Refs
}

// Add inserts the reference at its sorted position. A reference that is
// already in the set is an error.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.findRef(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	// Grow by one and shift the tail right. For an append at the end the
	// shifted range is empty.
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove deletes the reference from the set. A reference that is not in the
// set is an error.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.findRef(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "ref not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// findRef returns the position of the reference, or the position where it
// belongs if it is not in the set.
func (m *MultiRef) findRef(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	found := i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
	return i, found
}

// Copy clones the set. The reference byte slices are shared with the
// original.
func (m *MultiRef) Copy() CloneableData {
	return &MultiRef{Refs: append([][]byte(nil), m.Refs...)}
}

// Validate requires at least one reference.
func (m *MultiRef) Validate() error {
	if len(m.GetRefs()) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}
