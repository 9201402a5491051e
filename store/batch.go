package store

import "github.com/abacuslab/abacus/errors"

type opKind int32

const (
	setKind opKind = iota + 1
	delKind
)

// Op records a single write or removal so that it can be replayed later.
type Op struct {
	kind  opKind
	key   []byte
	value []byte // set only
}

// Apply replays the recorded operation on a writable store.
func (o Op) Apply(out SetDeleter) error {
	switch o.kind {
	case setKind:
		return out.Set(o.key, o.value)
	case delKind:
		return out.Delete(o.key)
	default:
		return errors.Wrapf(errors.ErrDatabase, "unknown op kind: %d", o.kind)
	}
}

// IsSetOp reports whether the operation is a write. Anything else is a
// removal.
func (o Op) IsSetOp() bool {
	return o.kind == setKind
}

// Key returns a copy of the operation key.
func (o Op) Key() []byte {
	return append([]byte(nil), o.key...)
}

// SetOp records the write of a value under a key.
func SetOp(key, value []byte) Op {
	return Op{kind: setKind, key: key, value: value}
}

// DelOp records the removal of a key.
func DelOp(key []byte) Op {
	return Op{kind: delKind, key: key}
}

// NonAtomicBatch collects operations and replays them on Write. A replay
// that fails half way is not rolled back, so this batch only suits in
// memory stores.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns a batch whose queued operations go to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

// Set queues the write of a value.
func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

// Delete queues the removal of a key.
func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write replays all queued operations on the underlying store and resets
// the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns the queued operations in order. Tests use it to audit
// what a stack wrote.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
