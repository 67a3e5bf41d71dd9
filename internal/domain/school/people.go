package school

import (
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Student is enrolled in one classroom
type Student struct {
	shared.ChurchAggregateRoot
	Name        string
	MemberID    *uuid.UUID
	ClassroomID uuid.UUID
	Phone       string
	Email       string
	BirthDate   *time.Time
	IsActive    bool
}

// NewStudent enrolls a student in a classroom
func NewStudent(churchID, classroomID uuid.UUID, name string) (*Student, error) {
	name = shared.NormalizePersonName(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_STUDENT_NAME", "Student name cannot be empty")
	}
	if classroomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLASSROOM", "Student must belong to a classroom")
	}
	return &Student{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		Name:                name,
		ClassroomID:         classroomID,
		IsActive:            true,
	}, nil
}

// SetContact sets phone and email
func (s *Student) SetContact(phone, email string) {
	s.Phone = strings.TrimSpace(phone)
	s.Email = strings.ToLower(strings.TrimSpace(email))
	s.Touch()
}

// TransferTo moves the student to another classroom
func (s *Student) TransferTo(classroomID uuid.UUID) error {
	if classroomID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLASSROOM", "Target classroom is required")
	}
	s.ClassroomID = classroomID
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Teacher teaches one or more lessons of a classroom
type Teacher struct {
	shared.ChurchAggregateRoot
	Name        string
	MemberID    *uuid.UUID
	UserID      *uuid.UUID
	ClassroomID *uuid.UUID
	Phone       string
	Email       string
	IsActive    bool
}

// NewTeacher creates a teacher
func NewTeacher(churchID uuid.UUID, name string) (*Teacher, error) {
	name = shared.NormalizePersonName(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TEACHER_NAME", "Teacher name cannot be empty")
	}
	return &Teacher{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		Name:                name,
		IsActive:            true,
	}, nil
}

// SetContact sets phone and email
func (t *Teacher) SetContact(phone, email string) {
	t.Phone = strings.TrimSpace(phone)
	t.Email = strings.ToLower(strings.TrimSpace(email))
	t.Touch()
}

// LinkUser ties the teacher to a login so the redirect resolver can find them
func (t *Teacher) LinkUser(userID uuid.UUID) {
	t.UserID = &userID
	t.Touch()
}

// AssignClassroom sets the teacher's main classroom
func (t *Teacher) AssignClassroom(classroomID uuid.UUID) {
	t.ClassroomID = &classroomID
	t.Touch()
}
