package errors

import (
	"testing"
)

func TestFieldNilError(t *testing.T) {
	if err := Field("Name", nil, "must be set"); err != nil {
		t.Fatalf("a nil error must not produce a field error: %+v", err)
	}
}

func TestFieldErrors(t *testing.T) {
	cases := map[string]struct {
		err       error
		fieldName string
		wantLen   int
	}{
		"direct field error": {
			err:       Field("Name", ErrEmpty, ""),
			fieldName: "Name",
			wantLen:   1,
		},
		"no match on another field": {
			err:       Field("Name", ErrEmpty, ""),
			fieldName: "Age",
			wantLen:   0,
		},
		"field error in a bundle": {
			err: Append(
				Field("Name", ErrEmpty, ""),
				Field("Age", ErrInvalidAmount, "negative"),
			),
			fieldName: "Age",
			wantLen:   1,
		},
		"multiple errors for one field": {
			err: Append(
				Field("Tags.0", ErrEmpty, ""),
				Field("Tags.0", ErrInvalidInput, "too long"),
			),
			fieldName: "Tags.0",
			wantLen:   2,
		},
		"nil error": {
			err:       nil,
			fieldName: "Name",
			wantLen:   0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			errs := FieldErrors(tc.err, tc.fieldName)
			if len(errs) != tc.wantLen {
				t.Fatalf("want %d errors, got %d: %+v", tc.wantLen, len(errs), errs)
			}
		})
	}
}

func TestAppendFieldKeepsTheRoot(t *testing.T) {
	err := AppendField(nil, "Threshold", ErrInvalidInput)
	errs := FieldErrors(err, "Threshold")
	if len(errs) != 1 {
		t.Fatalf("want a single field error, got %+v", errs)
	}
	if !ErrInvalidInput.Is(errs[0]) {
		t.Fatalf("field error must keep the root: %+v", errs[0])
	}
}
