package orm

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
)

// queryPrefix returns all models under this prefix
func queryPrefix(db abacus.ReadOnlyKVStore, prefix []byte) ([]abacus.Model, error) {
	start, end := prefixRange(prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// ConsumeIterator reads all remaining data into a slice
// and releases the iterator
func ConsumeIterator(itr abacus.Iterator) ([]abacus.Model, error) {
	defer itr.Release()

	var res []abacus.Model
	for {
		key, value, err := itr.Next()
		switch {
		case err == nil:
			res = append(res, abacus.Model{Key: key, Value: value})
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, err
		}
	}
}

// prefixRange turns a prefix into the (start, end) arguments
// of an iterator over everything under that prefix
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed the last byte? then we need to carry it
	for l > 0 && end[l] == 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
