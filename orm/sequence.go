package orm

import (
	"encoding/binary"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// Sequence maintains a counter and hands out a series of ids. Ids
// start at zero and each is greater than the last, both as integers
// and under bytes.Compare on the 8 byte encoding.
type Sequence struct {
	id []byte
}

// NewSequence returns the counter identified by bucket and name. Its
// state lives under the key
//   _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal returns the current counter value as 8 bytes and advances
// the counter. The first returned value is zero.
func (s *Sequence) NextVal(db abacus.KVStore) ([]byte, error) {
	val, err := s.next(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(val), nil
}

// NextInt returns the current counter value as int64 and advances
// the counter. The first returned value is zero.
func (s *Sequence) NextInt(db abacus.KVStore) (int64, error) {
	return s.next(db)
}

// Issued returns how many values this sequence handed out so far.
// It does not modify the sequence state.
func (s *Sequence) Issued(db abacus.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw), nil
}

func (s *Sequence) next(db abacus.KVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	val := DecodeSequence(raw)
	if err := db.Set(s.id, EncodeSequence(val+1)); err != nil {
		return 0, err
	}
	return val, nil
}

// DecodeSequence interprets 8 bytes as the big endian counter state.
// nil decodes to zero.
func DecodeSequence(bz []byte) int64 {
	if bz == nil {
		return 0
	}
	val := binary.BigEndian.Uint64(bz)
	return int64(val)
}

// EncodeSequence stores the counter state as 8 bytes, big endian
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}

// ValidateSequence rejects any id that a Sequence could not have handed
// out, only 8 byte values qualify.
func ValidateSequence(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "sequence missing")
	}
	if len(id) != 8 {
		return errors.Wrap(errors.ErrInvalidInput, "sequence must be 8 bytes")
	}
	return nil
}
