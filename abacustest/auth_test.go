package abacustest

import (
	"context"
	"reflect"
	"testing"

	"github.com/abacuslab/abacus"
)

func TestAuthConditions(t *testing.T) {
	alice := NewCondition()
	bob := NewCondition()
	carol := NewCondition()

	cases := map[string]struct {
		auth Auth
		want []abacus.Condition
	}{
		"zero value": {
			auth: Auth{},
			want: nil,
		},
		"only the single signer": {
			auth: Auth{Signer: alice},
			want: []abacus.Condition{alice},
		},
		"only the signer list": {
			auth: Auth{Signers: []abacus.Condition{alice, bob}},
			want: []abacus.Condition{alice, bob},
		},
		"signer list comes before the single signer": {
			auth: Auth{Signer: carol, Signers: []abacus.Condition{alice, bob}},
			want: []abacus.Condition{alice, bob, carol},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tc.auth.GetConditions(nil); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected conditions: %+v", got)
			}
			for i, c := range tc.want {
				if !tc.auth.HasAddress(nil, c.Address()) {
					t.Errorf("address of condition %d (%s) not authenticated", i, c)
				}
			}
			if tc.auth.HasAddress(nil, NewCondition().Address()) {
				t.Error("an unrelated address must not be authenticated")
			}
		})
	}
}

func TestCtxAuth(t *testing.T) {
	alice := NewCondition()
	bob := NewCondition()

	auth := CtxAuth{Key: "auth"}
	ctx := auth.SetConditions(context.Background(), alice, bob)

	want := []abacus.Condition{alice, bob}
	if got := auth.GetConditions(ctx); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected conditions: %+v", got)
	}
	if !auth.HasAddress(ctx, alice.Address()) || !auth.HasAddress(ctx, bob.Address()) {
		t.Error("stored addresses must be authenticated")
	}
	if auth.HasAddress(ctx, NewCondition().Address()) {
		t.Error("an unrelated address must not be authenticated")
	}
}

func TestCtxAuthEmptyContext(t *testing.T) {
	auth := CtxAuth{Key: "auth"}
	if got := auth.GetConditions(context.Background()); got != nil {
		t.Fatalf("no conditions were stored, got %+v", got)
	}
	if auth.HasAddress(context.Background(), NewCondition().Address()) {
		t.Fatal("no conditions were stored, nothing can be authenticated")
	}
}
