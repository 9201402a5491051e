package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If given errors contain a multi error instance, it is flattened so that the
// result is never a nesting of multi errors. If after normalization only a
// single error remains, it is returned directly instead of being packed.
func Append(errs ...error) error {
	var res multiError
	for _, err := range errs {
		switch e := err.(type) {
		case nil:
			continue
		case multiError:
			res = append(res, e...)
		default:
			if isNilErr(err) {
				continue
			}
			res = append(res, err)
		}
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiError []error

var _ error = (multiError)(nil)
var _ unpacker = (multiError)(nil)

func (errs multiError) Error() string {
	if len(errs) == 1 {
		return fmt.Sprintf("1 error occurred:\n\t* %s\n", errs[0])
	}

	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n",
		len(errs), strings.Join(points, "\n\t"))
}

// Unpack implements the unpacker interface and returns all bundled errors.
func (errs multiError) Unpack() []error {
	return errs
}

// Code returns the code of the first bundled error, consistent with the
// fail-fast processing of messages. An empty bundle is a success.
func (errs multiError) Code() uint32 {
	if len(errs) == 0 {
		return SuccessCode
	}
	return CodeOf(errs[0])
}

// Cause returns the first bundled error, consistent with Code.
func (errs multiError) Cause() error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
