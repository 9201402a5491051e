package school

import (
	"github.com/abacuslab/abacus/errors"
)

// Error codes 1600 to 1619 are reserved for this package.

var (
	// ErrUnknownStudent is returned for an unknown student id.
	ErrUnknownStudent = errors.Register(1600, "unknown student")

	// ErrAlreadyEnrolled is returned when a principal that owns a student
	// record enrolls again.
	ErrAlreadyEnrolled = errors.Register(1601, "already enrolled")

	// ErrTuitionPaid is returned when tuition for a student is paid a
	// second time.
	ErrTuitionPaid = errors.Register(1602, "tuition already paid")

	// ErrTuitionNotPaid is returned when a grade is recorded before the
	// tuition was settled.
	ErrTuitionNotPaid = errors.Register(1603, "tuition not paid")

	// ErrInvalidGrade is returned for a grade outside the 0 to 100 scale.
	ErrInvalidGrade = errors.Register(1604, "invalid grade")

	// ErrInvalidStudentName is returned for a malformed student name.
	ErrInvalidStudentName = errors.Register(1605, "invalid student name")
)
