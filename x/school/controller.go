package school

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/orm"
	"github.com/abacuslab/abacus/x/cash"
)

const packageName = "school"

// Controller is the single entry point to the student ledger. It owns
// the student records and settles tuition through the cash controller,
// against the treasury named by the package configuration.
type Controller struct {
	students StudentBucket
	mover    cash.Controller
}

// NewController returns a controller settling tuition through the given
// cash controller.
func NewController(mover cash.Controller) *Controller {
	return &Controller{
		students: NewStudentBucket(),
		mover:    mover,
	}
}

// Enroll creates a student record owned by the caller. A principal that
// owns a record cannot enroll again, not even under another name.
func (c *Controller) Enroll(db abacus.KVStore, owner abacus.Address, name string) ([]byte, *Student, error) {
	switch _, _, err := c.students.GetByOwner(db, owner); {
	case err == nil:
		return nil, nil, errors.Wrapf(ErrAlreadyEnrolled, "%s", owner)
	case ErrUnknownStudent.Is(err):
		// Not enrolled yet, proceed.
	default:
		return nil, nil, err
	}
	s := &Student{
		Metadata: &abacus.Metadata{Schema: 1},
		Name:     name,
		Owner:    owner,
	}
	id, err := c.students.Create(db, s)
	if err != nil {
		return nil, nil, err
	}
	return id, s, nil
}

// PayTuition moves the configured tuition from the payer to the treasury
// and marks the student record as settled. A record is settled at most
// once. The paid amount is returned next to the updated record.
func (c *Controller) PayTuition(db abacus.KVStore, payer abacus.Address, id []byte) (*Student, coin.Coin, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, coin.Coin{}, err
	}
	s, err := c.students.GetStudent(db, id)
	if err != nil {
		return nil, coin.Coin{}, err
	}
	if s.TuitionPaid {
		return nil, coin.Coin{}, errors.Wrapf(ErrTuitionPaid, "student %d", orm.DecodeSequence(id))
	}
	if err := c.mover.MoveCoins(db, payer, conf.Treasury, *conf.Tuition); err != nil {
		return nil, coin.Coin{}, errors.Wrap(err, "tuition")
	}
	s.TuitionPaid = true
	if err := c.students.Save(db, orm.NewSimpleObj(id, s)); err != nil {
		return nil, coin.Coin{}, err
	}
	return s, *conf.Tuition, nil
}

// RecordGrade appends a grade to the student record. Only the configured
// school owner can grade, and only students with settled tuition.
func (c *Controller) RecordGrade(db abacus.KVStore, caller abacus.Address, id []byte, grade int32) (*Student, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(conf.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "not the school owner")
	}
	if grade < 0 || grade > maxGrade {
		return nil, errors.Wrapf(ErrInvalidGrade, "%d", grade)
	}
	s, err := c.students.GetStudent(db, id)
	if err != nil {
		return nil, err
	}
	if !s.TuitionPaid {
		return nil, errors.Wrapf(ErrTuitionNotPaid, "student %d", orm.DecodeSequence(id))
	}
	s.Grades = append(s.Grades, grade)
	if err := c.students.Save(db, orm.NewSimpleObj(id, s)); err != nil {
		return nil, err
	}
	return s, nil
}

// GetStudent returns the student stored under the given id.
func (c *Controller) GetStudent(db abacus.ReadOnlyKVStore, id []byte) (*Student, error) {
	return c.students.GetStudent(db, id)
}

// GetByOwner returns the id and student record enrolled by the owner.
func (c *Controller) GetByOwner(db abacus.ReadOnlyKVStore, owner abacus.Address) ([]byte, *Student, error) {
	return c.students.GetByOwner(db, owner)
}

// Configuration returns the current school configuration.
func (c *Controller) Configuration(db abacus.ReadOnlyKVStore) (*Configuration, error) {
	return loadConf(db)
}
