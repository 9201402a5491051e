package school

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/gconf"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/x"
)

// RegisterRoutes attaches all message handlers of this package to the
// given registry.
func RegisterRoutes(r abacus.Registry, auth x.Authenticator, control *Controller) {
	r = migration.SchemaMigratingRegistry(packageName, r)

	r.Handle(pathEnrollMsg, EnrollHandler{auth, control})
	r.Handle(pathPayTuitionMsg, PayTuitionHandler{auth, control})
	r.Handle(pathRecordGradeMsg, RecordGradeHandler{auth, control})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(
		packageName, &Configuration{}, auth, migration.CurrentAdmin))
}

// RegisterQuery makes the students available under "/students" and their
// owner index under "/students/owner".
func RegisterQuery(qr abacus.QueryRouter) {
	NewStudentBucket().Register("students", qr)
}

// mainSigner resolves the address this call is attributed to.
func mainSigner(ctx abacus.Context, auth x.Authenticator) (abacus.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

// EnrollHandler creates a student record owned by the main signer.
type EnrollHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = EnrollHandler{}

func (h EnrollHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: enrollCost}, nil
}

func (h EnrollHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	id, s, err := h.control.Enroll(db, signer, msg.Name)
	if err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data:   id,
		Events: []abacus.Event{studentEnrolledEvent(id, s)},
	}, nil
}

func (h EnrollHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*EnrollMsg, abacus.Address, error) {
	var msg EnrollMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// PayTuitionHandler settles the tuition for a student with funds of the
// main signer.
type PayTuitionHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = PayTuitionHandler{}

func (h PayTuitionHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: payTuitionCost}, nil
}

func (h PayTuitionHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	_, paid, err := h.control.PayTuition(db, signer, msg.StudentID)
	if err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data:   msg.StudentID,
		Events: []abacus.Event{tuitionPaidEvent(msg.StudentID, signer, paid)},
	}, nil
}

func (h PayTuitionHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*PayTuitionMsg, abacus.Address, error) {
	var msg PayTuitionMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// RecordGradeHandler appends a grade to a student record on behalf of
// the school authority.
type RecordGradeHandler struct {
	auth    x.Authenticator
	control *Controller
}

var _ abacus.Handler = RecordGradeHandler{}

func (h RecordGradeHandler) Check(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &abacus.CheckResult{GasAllocated: recordGradeCost}, nil
}

func (h RecordGradeHandler) Deliver(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*abacus.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.control.RecordGrade(db, signer, msg.StudentID, msg.Grade); err != nil {
		return nil, err
	}
	return &abacus.DeliverResult{
		Data:   msg.StudentID,
		Events: []abacus.Event{gradeRecordedEvent(msg.StudentID, msg.Grade)},
	}, nil
}

func (h RecordGradeHandler) validate(ctx abacus.Context, db abacus.KVStore, tx abacus.Tx) (*RecordGradeMsg, abacus.Address, error) {
	var msg RecordGradeMsg
	if err := abacus.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}
