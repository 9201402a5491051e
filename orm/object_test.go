package orm

import (
	"testing"

	"github.com/abacuslab/abacus/abacustest/assert"
	"github.com/abacuslab/abacus/errors"
)

func TestSimpleObjValidity(t *testing.T) {
	cases := map[string]struct {
		obj     *SimpleObj
		wantErr *errors.Error
	}{
		"all good": {
			obj: NewSimpleObj([]byte("some-key"), &counter{Count: 5}),
		},
		"missing key": {
			obj:     NewSimpleObj(nil, &counter{Count: 5}),
			wantErr: errors.ErrEmpty,
		},
		"invalid value": {
			obj:     NewSimpleObj([]byte("some-key"), &counter{Count: -20}),
			wantErr: errors.ErrInvalidState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.obj.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("expected %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestSimpleObjClone(t *testing.T) {
	orig := NewSimpleObj([]byte("thing"), &counter{Count: 7})
	clone := orig.Clone()

	// mutating the clone must not touch the original
	clone.SetKey([]byte("other"))
	if cnt, ok := clone.Value().(*counter); ok {
		cnt.Count = 99
	} else {
		t.Fatal("clone value is not a counter")
	}

	assert.Equal(t, []byte("thing"), orig.Key())
	assert.Equal(t, int64(7), orig.Value().(*counter).Count)
	assert.Equal(t, []byte("other"), clone.Key())
}
