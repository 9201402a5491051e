package school

import (
	"regexp"

	"github.com/abacuslab/abacus"
	"github.com/abacuslab/abacus/errors"
	"github.com/abacuslab/abacus/migration"
	"github.com/abacuslab/abacus/orm"
)

func init() {
	migration.MustRegister(1, &Student{}, migration.NoModification)
}

const (
	// StudentBucketName is where student records live, keyed by sequence id.
	StudentBucketName = "students"
	// SequenceName is the counter behind new student ids.
	SequenceName = "id"
	// OwnerIndexName guarantees one student record per principal.
	OwnerIndexName = "owner"

	// Grades are percentages, maxGrade is the best result.
	maxGrade = 100
)

var isStudentName = regexp.MustCompile(`^[A-Za-z][A-Za-z .'\-]{1,63}$`).MatchString

var _ orm.CloneableData = (*Student)(nil)
var _ migration.Migratable = (*Student)(nil)

// Student is one enrollment record. The owner is the principal that
// enrolled and the only one charged for tuition. Grades arrive in the
// order they were recorded.
type Student struct {
	Metadata    *abacus.Metadata `json:"metadata"`
	Name        string           `json:"name"`
	Owner       abacus.Address   `json:"owner"`
	TuitionPaid bool             `json:"tuition_paid"`
	Grades      []int32          `json:"grades"`
}

func (s *Student) GetMetadata() *abacus.Metadata {
	return s.Metadata
}

func (s *Student) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	if !isStudentName(s.Name) {
		errs = errors.Append(errs,
			errors.Field("Name", ErrInvalidStudentName, "%q", s.Name))
	}
	errs = errors.AppendField(errs, "Owner", s.Owner.Validate())
	for _, grade := range s.Grades {
		if grade < 0 || grade > maxGrade {
			errs = errors.Append(errs,
				errors.Field("Grades", ErrInvalidGrade, "%d", grade))
		}
	}
	return errs
}

func (s *Student) Copy() orm.CloneableData {
	var grades []int32
	if s.Grades != nil {
		grades = make([]int32, len(s.Grades))
		copy(grades, s.Grades)
	}
	return &Student{
		Metadata:    s.Metadata.Copy(),
		Name:        s.Name,
		Owner:       s.Owner.Clone(),
		TuitionPaid: s.TuitionPaid,
		Grades:      grades,
	}
}

func (s *Student) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *Student) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, s)
}

// StudentBucket stores student records under ids handed out by an
// auto-increment sequence. A unique secondary index keeps every
// principal enrolled at most once.
type StudentBucket struct {
	migration.Bucket
	idSeq orm.Sequence
}

// NewStudentBucket initializes a StudentBucket with default name.
func NewStudentBucket() StudentBucket {
	b := migration.WithMigration(
		orm.NewBucket(StudentBucketName, orm.NewSimpleObj(nil, &Student{})).
			WithIndex(OwnerIndexName, ownerIndexer, true),
		packageName)
	return StudentBucket{
		Bucket: b,
		idSeq:  b.Sequence(SequenceName),
	}
}

func ownerIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	s, ok := obj.Value().(*Student)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return s.Owner, nil
}

// Create allocates the next sequential id and stores the student. The
// first issued id is zero.
func (b StudentBucket) Create(db abacus.KVStore, s *Student) ([]byte, error) {
	id, err := b.idSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "id sequence")
	}
	if err := b.Save(db, orm.NewSimpleObj(id, s)); err != nil {
		return nil, err
	}
	return id, nil
}

// GetStudent returns the student with the given id.
func (b StudentBucket) GetStudent(db abacus.ReadOnlyKVStore, id []byte) (*Student, error) {
	obj, err := b.Get(db, id)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(ErrUnknownStudent, "id %d", orm.DecodeSequence(id))
	}
	s, ok := obj.Value().(*Student)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return s, nil
}

// GetByOwner returns the id and student record enrolled by the owner, or
// ErrUnknownStudent if the owner never enrolled.
func (b StudentBucket) GetByOwner(db abacus.ReadOnlyKVStore, owner abacus.Address) ([]byte, *Student, error) {
	objs, err := b.GetIndexed(db, OwnerIndexName, owner)
	if err != nil {
		return nil, nil, errors.Wrap(err, "index lookup")
	}
	if len(objs) == 0 || objs[0] == nil || objs[0].Value() == nil {
		return nil, nil, errors.Wrapf(ErrUnknownStudent, "owner %s", owner)
	}
	s, ok := objs[0].Value().(*Student)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", objs[0].Value())
	}
	return objs[0].Key(), s, nil
}
