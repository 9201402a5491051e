package assert

import (
	"testing"

	"github.com/abacuslab/abacus/errors"
)

// failLog implements testing.TB but only counts failures instead of aborting,
// so the assertions themselves can be put under test.
type failLog struct {
	testing.TB
	fails int
}

func (f *failLog) Error(args ...interface{}) {
	f.TB.Log(args...)
	f.fails++
}

func (f *failLog) Errorf(s string, args ...interface{}) {
	f.TB.Logf(s, args...)
	f.fails++
}

func (f *failLog) Fatal(args ...interface{}) {
	f.TB.Log(args...)
	f.fails++
}

func (f *failLog) Fatalf(s string, args ...interface{}) {
	f.TB.Logf(s, args...)
	f.fails++
}

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		want     error
		got      error
		wantFail bool
	}{
		"same class": {
			want: errors.ErrNotFound,
			got:  errors.ErrNotFound,
		},
		"wrapped class": {
			want: errors.ErrNotFound,
			got:  errors.Wrap(errors.ErrNotFound, "bucket"),
		},
		"different classes": {
			want:     errors.ErrNotFound,
			got:      errors.ErrEmpty,
			wantFail: true,
		},
		"error where none was wanted": {
			want:     nil,
			got:      errors.ErrEmpty,
			wantFail: true,
		},
		"no errors at all": {
			want: nil,
			got:  nil,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := &failLog{TB: t}
			IsErr(rec, tc.want, tc.got)
			if failed := rec.fails > 0; failed != tc.wantFail {
				t.Fatalf("recorded %d failures", rec.fails)
			}
		})
	}
}

func TestFieldError(t *testing.T) {
	cases := map[string]struct {
		err      error
		field    string
		want     *errors.Error
		wantFail bool
	}{
		"single matching error": {
			err:   errors.Field("Quorum", errors.ErrInvalidInput, "too large"),
			field: "Quorum",
			want:  errors.ErrInvalidInput,
		},
		"nil class means the field must be clean": {
			err:   errors.Field("Quorum", errors.ErrInvalidInput, "too large"),
			field: "Ticker",
			want:  nil,
		},
		"nil class fails on a dirty field": {
			err:      errors.Field("Quorum", errors.ErrInvalidInput, "too large"),
			field:    "Quorum",
			want:     nil,
			wantFail: true,
		},
		"wrong class": {
			err:      errors.Field("Quorum", errors.ErrInvalidInput, "too large"),
			field:    "Quorum",
			want:     errors.ErrEmpty,
			wantFail: true,
		},
		"a field may carry only one error, even of the same class": {
			err: errors.Append(
				errors.Field("Quorum", errors.ErrInvalidInput, "first"),
				errors.Field("Quorum", errors.ErrInvalidInput, "second"),
			),
			field:    "Quorum",
			want:     errors.ErrInvalidInput,
			wantFail: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := &failLog{TB: t}
			FieldError(rec, tc.err, tc.field, tc.want)
			if failed := rec.fails > 0; failed != tc.wantFail {
				t.Fatalf("recorded %d failures", rec.fails)
			}
		})
	}
}
