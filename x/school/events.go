package school

import (
	"strconv"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/coin"
	"github.com/abacuslab/abacus/orm"
)

// Event types emitted by the school handlers.
const (
	EventStudentEnrolled = "StudentEnrolled"
	EventTuitionPaid     = "TuitionPaid"
	EventGradeRecorded   = "GradeRecorded"

	attrID     = "id"
	attrName   = "name"
	attrOwner  = "owner"
	attrPayer  = "payer"
	attrAmount = "amount"
	attrGrade  = "grade"
)

func studentEnrolledEvent(id []byte, s *Student) abacus.Event {
	return abacus.NewEvent(EventStudentEnrolled,
		attrID, studentIDValue(id),
		attrName, s.Name,
		attrOwner, s.Owner.String(),
	)
}

func tuitionPaidEvent(id []byte, payer abacus.Address, amount coin.Coin) abacus.Event {
	return abacus.NewEvent(EventTuitionPaid,
		attrID, studentIDValue(id),
		attrPayer, payer.String(),
		attrAmount, amount.String(),
	)
}

func gradeRecordedEvent(id []byte, grade int32) abacus.Event {
	return abacus.NewEvent(EventGradeRecorded,
		attrID, studentIDValue(id),
		attrGrade, strconv.FormatInt(int64(grade), 10),
	)
}

// studentIDValue renders a student id the way it was issued, as a
// decimal counter starting with zero.
func studentIDValue(id []byte) string {
	return strconv.FormatInt(orm.DecodeSequence(id), 10)
}
