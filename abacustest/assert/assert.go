package assert

import (
	"reflect"
	"testing"

	"github.com/abacuslab/abacus/errors"
)

// Tester is the part of testing.TB the assertions call.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test unless the value is nil. A typed nil pointer, slice or
// map counts as nil as well.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace when the value is an error that
		// carries one.
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails the test unless both values are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal:\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics runs the function and fails the test if the call returns without
// panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("want a panic")
		}
	}()
	fn()
}

// FieldError requires that the error holds exactly one error for the named
// field and that it matches the wanted class. Passing a nil class asserts
// that the field carries no error at all.
func FieldError(t testing.TB, err error, fieldName string, want *errors.Error) {
	t.Helper()

	errs := errors.FieldErrors(err, fieldName)

	if want == nil {
		if len(errs) == 0 {
			return
		}
		for i, e := range errs {
			t.Logf("error %d: %q", i+1, e)
		}
		t.Fatalf("want no error for field %q, got %d", fieldName, len(errs))
		return
	}

	switch len(errs) {
	case 0:
		t.Fatal("want an error, got none")
	case 1:
		if !want.Is(errs[0]) {
			t.Fatalf("unexpected error: %q", errs[0])
		}
	default:
		t.Errorf("want a single error, got %d", len(errs))
		found := false
		for i, e := range errs {
			t.Logf("error %d: %q", i+1, e)
			if want.Is(e) {
				found = true
			}
		}
		if !found {
			t.Fatalf("no error matches the wanted class")
		}
	}
}

// IsErr fails the test unless got is of the same class as want. Two nil
// errors match as well.
func IsErr(t testing.TB, want, got error) {
	t.Helper()

	if want == got {
		return
	}
	if c, ok := want.(interface{ Is(error) bool }); ok && c.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
