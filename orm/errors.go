package orm

import "github.com/abacuslab/abacus/errors"

// Error codes 100 to 109 are reserved for this package.

// ErrInvalidIndex is returned when operating on an index that does not match
// the indexed data.
var ErrInvalidIndex = errors.Register(100, "invalid index")
