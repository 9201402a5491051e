package abacus

import (
	"reflect"

	"github.com/abacuslab/abacus/errors"
)

// Persistent is a value that round trips through its binary form.
//
// Unmarshal lives in its own interface on top of Marshaller because it
// needs a pointer receiver, while code that only serializes values can
// accept the smaller interface.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Marshaller is any value with a binary form.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Msg is a message that the engine knows how to route and process.
// The path works like an URL, "<extension>/<action>", and determines which
// handler processes it.
type Msg interface {
	Persistent

	// Validate performs a sanity check on the message content. It must
	// not access any state, only the message itself.
	Validate() error

	// Path returns the route of this message.
	Path() string
}

// Tx represents the piece of data that the engine processes as one atomic
// call. An implementation wraps exactly one Msg and may carry envelope level
// information, such as the declared caller, exposed through feature
// interfaces.
type Tx interface {
	Persistent

	// GetMsg unpacks the wrapped message.
	GetMsg() (Msg, error)
}

// TxDecoder turns raw transaction bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// PrincipalDeclarer is implemented by a Tx that declares the principals on
// whose behalf the wrapped message is processed. The declaration is trusted,
// authentication happened before the bytes got here.
type PrincipalDeclarer interface {
	GetPrincipals() []Condition
}

// LoadMsg extracts the message from the transaction, validates it and loads
// it into the destination. Destination must be a pointer to the same message
// type as carried by the transaction.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}

	mv := reflect.ValueOf(msg)
	if msg == nil || (mv.Kind() == reflect.Ptr && mv.IsNil()) {
		return errors.Wrap(errors.ErrEmpty, "message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	dv := reflect.ValueOf(destination)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return errors.Wrapf(errors.ErrInvalidType, "unsupported destination message type %T", destination)
	}
	dv = dv.Elem()

	if mv.Kind() == reflect.Ptr {
		mv = mv.Elem()
	}

	if dv.Type() != mv.Type() {
		return errors.Wrapf(errors.ErrInvalidType, "want %T, got %T", destination, msg)
	}
	dv.Set(mv)
	return nil
}
