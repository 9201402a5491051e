package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field binds an error to the name of the attribute it was caused by. A nil
// error stays nil, so validation code can call this unconditionally. The
// description can be a format string, additional arguments are interpolated
// into it.
//
// Name fields the Go way, for example UserName or MaxAge. Nested fields are
// separated with a dot (User.Age), elements of an iterable are addressed by
// their zero based index (Tags.0, Profiles.2.ID).
func Field(fieldName string, err error, desc string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}

	// A stack trace is recorded by the innermost wrap only.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	if len(args) > 0 {
		desc = fmt.Sprintf(desc, args...)
	}

	return &fieldError{err: err, name: fieldName, info: desc}
}

// AppendField merges a named field error into an existing error bundle.
// Either argument may be nil. See Field for the naming conventions.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	err  error
	name string
	info string
}

func (fe *fieldError) Error() string {
	if fe.info == "" {
		return fmt.Sprintf("field %q: %s", fe.name, fe.err)
	}
	return fmt.Sprintf("field %q: %s: %s", fe.name, fe.info, fe.err)
}

// Cause returns the wrapped error.
func (fe *fieldError) Cause() error {
	return fe.err
}

// Field returns the attribute name this error was recorded for.
func (fe *fieldError) Field() string {
	return fe.name
}

// FieldErrors collects all errors recorded for the given field name. It
// descends into bundled errors and follows cause chains, picking up every
// error that implements the fielder interface with a matching name.
func FieldErrors(err error, fieldName string) []error {
	if isNilErr(err) {
		return nil
	}

	if f, ok := err.(fielder); ok && f.Field() == fieldName {
		return []error{err}
	}

	if u, ok := err.(unpacker); ok {
		var found []error
		for _, e := range u.Unpack() {
			found = append(found, FieldErrors(e, fieldName)...)
		}
		// Unpack covers every child of a bundle, following the cause
		// chain on top of it would only duplicate matches.
		return found
	}

	if c, ok := err.(causer); ok {
		return FieldErrors(c.Cause(), fieldName)
	}
	return nil
}

type fielder interface {
	// Field returns the name of the field this error was recorded for.
	Field() string
}
