package abacus

import (
	"encoding/json"
	"testing"

	"github.com/abacuslab/abacus/errors"
)

// pingMsg is a minimal message implementation for tests in this package.
type pingMsg struct {
	Payload string
	Broken  bool
}

var _ Msg = (*pingMsg)(nil)

func (m *pingMsg) Marshal() ([]byte, error)  { return json.Marshal(m) }
func (m *pingMsg) Unmarshal(b []byte) error  { return json.Unmarshal(b, m) }
func (m *pingMsg) Path() string              { return "test/ping" }
func (m *pingMsg) Validate() error {
	if m.Broken {
		return errors.ErrInvalidMsg.New("broken ping")
	}
	return nil
}

// pongMsg shares nothing with pingMsg but the interface.
type pongMsg struct{}

var _ Msg = (*pongMsg)(nil)

func (m *pongMsg) Marshal() ([]byte, error) { return json.Marshal(m) }
func (m *pongMsg) Unmarshal(b []byte) error { return json.Unmarshal(b, m) }
func (m *pongMsg) Path() string             { return "test/pong" }
func (m *pongMsg) Validate() error          { return nil }

type msgTx struct {
	msg Msg
}

var _ Tx = (*msgTx)(nil)

func (tx *msgTx) GetMsg() (Msg, error)    { return tx.msg, nil }
func (tx *msgTx) Marshal() ([]byte, error) { return nil, errors.ErrHuman.New("not implemented") }
func (tx *msgTx) Unmarshal([]byte) error   { return errors.ErrHuman.New("not implemented") }

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      Tx
		dest    Msg
		wantErr *errors.Error
	}{
		"happy path": {
			tx:   &msgTx{msg: &pingMsg{Payload: "x"}},
			dest: &pingMsg{},
		},
		"invalid message is rejected": {
			tx:      &msgTx{msg: &pingMsg{Broken: true}},
			dest:    &pingMsg{},
			wantErr: errors.ErrInvalidMsg,
		},
		"destination of a different type": {
			tx:      &msgTx{msg: &pingMsg{}},
			dest:    &pongMsg{},
			wantErr: errors.ErrInvalidType,
		},
		"nil message": {
			tx:      &msgTx{msg: (*pingMsg)(nil)},
			dest:    &pingMsg{},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := LoadMsg(tc.tx, tc.dest)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("unexpected error: %+v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("cannot load message: %+v", err)
			}
		})
	}
}

func TestLoadMsgCopies(t *testing.T) {
	src := &pingMsg{Payload: "original"}
	var dest pingMsg
	if err := LoadMsg(&msgTx{msg: src}, &dest); err != nil {
		t.Fatalf("cannot load message: %+v", err)
	}
	if dest.Payload != "original" {
		t.Fatalf("unexpected payload: %q", dest.Payload)
	}
}
