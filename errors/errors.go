package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

const (
	// SuccessCode is a free code that signals a processed call without a
	// failure.
	SuccessCode uint32 = 0

	// internalCode collects all unclassified errors, ie. those that do
	// not originate from a registered root.
	internalCode uint32 = 1
)

// usedCodes tracks registered codes to guarantee their uniqueness. No two
// root errors may share a code.
var usedCodes = map[uint32]*Error{
	internalCode: nil, // Code 1 is reserved for unclassified errors.
}

// Register returns a root error instance that runtime errors are built from.
//
// The common roots are declared in this package, extensions may register
// their own. Reusing an already registered code is a panic.
//
// Call only during program startup.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

var (
	// ErrUnauthorized is the rejection of a request that lacks the
	// required approvals.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound marks an operation that refers to data that does not
	// exist.
	ErrNotFound = Register(3, "not found")

	// ErrInvalidMsg marks a message that cannot be processed.
	ErrInvalidMsg = Register(4, "invalid message")

	// ErrInvalidModel marks a model that cannot be persisted.
	ErrInvalidModel = Register(5, "invalid model")

	// ErrDuplicate marks a write that collides with an existing unique
	// key or index entry.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman marks a code path that can only be reached when the
	// application is wired incorrectly.
	ErrHuman = Register(7, "coding error")

	// ErrCannotBeModified marks a write to immutable data.
	ErrCannotBeModified = Register(8, "cannot be modified")

	// ErrEmpty marks a required value that was not set.
	ErrEmpty = Register(9, "value is empty")

	// ErrInvalidState marks an entity in a state that does not permit
	// the requested operation.
	ErrInvalidState = Register(10, "invalid state")

	// ErrInvalidType marks a value of an unexpected type.
	ErrInvalidType = Register(11, "invalid type")

	// ErrInsufficientAmount marks funds that do not cover the requested
	// transfer or fee.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	// ErrInvalidAmount marks an amount that is malformed or out of
	// range.
	ErrInvalidAmount = Register(13, "invalid amount")

	// ErrInvalidInput marks input that does not parse or validate.
	ErrInvalidInput = Register(14, "invalid input")

	// ErrOverflow marks a computation whose result does not fit the
	// type.
	ErrOverflow = Register(15, "an operation cannot be completed due to value overflow")

	// ErrIteratorDone is returned by iterators that reached the end of
	// their range.
	ErrIteratorDone = Register(16, "iterator done")

	// ErrSchema marks a stored model schema version that cannot be
	// handled.
	ErrSchema = Register(17, "invalid schema")

	// ErrDatabase marks a failure of the underlying storage.
	ErrDatabase = Register(18, "database")

	// ErrPanic is the root of every error recovered from a panic. The
	// uncommon code keeps it clear of the range extensions pick from.
	ErrPanic = Register(111222, "panic")
)

// Error is a root error.
//
// Errors are classified by their root. Every error created during runtime
// wraps one of the registered roots, which is what error tests and client
// facing result codes are based on.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the classification code of this error kind.
func (e Error) Code() uint32 {
	return e.code
}

// New returns an error with this root as its cause. It is a shorthand
// for wrapping the root directly, e.New(desc) and Wrap(e, desc) build
// the same error.
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is reports whether the given error is of this kind. The cause chain is
// followed as deep as the Cause method allows.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return isNilErr(err)
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap adds a description layer on top of the given error.
//
// A wrapped error that does not carry a classification code, for example one
// coming from the stdlib, is reported under the internal code.
//
// Wrapping nil returns nil, so the result of a fallible call can be wrapped
// and returned without an if statement.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// A stack trace is recorded by the innermost wrap only, where the
	// error first left its origin.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// msg describes this layer, parent is what it was wrapped around.
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// CodeOf returns the classification code carried by given error. It digs
// through the cause chain until a registered root is found. Errors that do
// not originate from a registered root are reported under the internal code
// 1, a nil error is a success.
func CodeOf(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

// Recover, called with defer, swallows a panic in the surrounding function
// and records it as an ErrPanic in err.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	// A typed nil inside an error interface is still a nil error.
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}

// causer is implemented by errors that support unwrapping. Use it to test if
// an error wraps another error instance.
type causer interface {
	Cause() error
}

// coder is implemented by errors that carry a classification code.
type coder interface {
	Code() uint32
}

// unpacker is implemented by errors that bundle several others (see Append).
type unpacker interface {
	Unpack() []error
}
