package school

import (
	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
)

func init() {
	migration.MustRegister(1, &EnrollMsg{}, migration.NoModification)
	migration.MustRegister(1, &PayTuitionMsg{}, migration.NoModification)
	migration.MustRegister(1, &RecordGradeMsg{}, migration.NoModification)
	migration.MustRegister(1, &UpdateConfigurationMsg{}, migration.NoModification)
}

const (
	pathEnrollMsg              = "school/enroll"
	pathPayTuitionMsg          = "school/pay_tuition"
	pathRecordGradeMsg         = "school/record_grade"
	pathUpdateConfigurationMsg = "school/update_configuration"

	enrollCost      int64 = 100
	payTuitionCost  int64 = 100
	recordGradeCost int64 = 50
)

var (
	_ abacus.Msg = (*EnrollMsg)(nil)
	_ abacus.Msg = (*PayTuitionMsg)(nil)
	_ abacus.Msg = (*RecordGradeMsg)(nil)
	_ abacus.Msg = (*UpdateConfigurationMsg)(nil)
)

// EnrollMsg creates a student record owned by the main signer. A
// principal enrolls at most once.
type EnrollMsg struct {
	Metadata *abacus.Metadata `json:"metadata"`
	Name     string           `json:"name"`
}

func (m *EnrollMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (EnrollMsg) Path() string {
	return pathEnrollMsg
}

func (m *EnrollMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !isStudentName(m.Name) {
		errs = errors.Append(errs,
			errors.Field("Name", ErrInvalidStudentName, "%q", m.Name))
	}
	return errs
}

func (m *EnrollMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *EnrollMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// PayTuitionMsg settles the configured tuition for a student with funds
// of the main signer. Anyone may sponsor any student, but only once.
type PayTuitionMsg struct {
	Metadata  *abacus.Metadata `json:"metadata"`
	StudentID []byte           `json:"student_id"`
}

func (m *PayTuitionMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (PayTuitionMsg) Path() string {
	return pathPayTuitionMsg
}

func (m *PayTuitionMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, validateStudentID(m.StudentID))
	return errs
}

func (m *PayTuitionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *PayTuitionMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// RecordGradeMsg appends a grade to the student record. Only the school
// authority does that, and only after the tuition was settled.
type RecordGradeMsg struct {
	Metadata  *abacus.Metadata `json:"metadata"`
	StudentID []byte           `json:"student_id"`
	Grade     int32            `json:"grade"`
}

func (m *RecordGradeMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (RecordGradeMsg) Path() string {
	return pathRecordGradeMsg
}

func (m *RecordGradeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, validateStudentID(m.StudentID))
	if m.Grade < 0 || m.Grade > maxGrade {
		errs = errors.Append(errs,
			errors.Field("Grade", ErrInvalidGrade, "%d", m.Grade))
	}
	return errs
}

func (m *RecordGradeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RecordGradeMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

// UpdateConfigurationMsg patches the school configuration. Zero valued
// patch fields keep their current configuration value.
type UpdateConfigurationMsg struct {
	Metadata *abacus.Metadata `json:"metadata"`
	Patch    *Configuration   `json:"patch"`
}

func (m *UpdateConfigurationMsg) GetMetadata() *abacus.Metadata {
	return m.Metadata
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Patch == nil {
		errs = errors.Append(errs,
			errors.Field("Patch", errors.ErrEmpty, "patch is required"))
	}
	return errs
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

func validateStudentID(id []byte) error {
	if len(id) != 8 {
		return errors.Field("StudentID", errors.ErrInvalidInput, "id %X", id)
	}
	return nil
}
