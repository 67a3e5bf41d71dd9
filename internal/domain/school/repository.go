package school

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClassroomRepository persists classrooms
type ClassroomRepository interface {
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*Classroom, error)
	FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]Classroom, int64, error)
	Save(ctx context.Context, classroom *Classroom) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
}

// MagazineRepository persists magazines
type MagazineRepository interface {
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*Magazine, error)
	FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]Magazine, int64, error)
	Save(ctx context.Context, magazine *Magazine) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
}

// StudentRepository persists students
type StudentRepository interface {
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*Student, error)
	FindByClassroom(ctx context.Context, churchID, classroomID uuid.UUID) ([]Student, error)
	FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]Student, int64, error)
	// ExistsForUserEmail reports whether an active student is registered with the email
	ExistsForUserEmail(ctx context.Context, churchID uuid.UUID, email string) (bool, error)
	Save(ctx context.Context, student *Student) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
}

// TeacherRepository persists teachers
type TeacherRepository interface {
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*Teacher, error)
	FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]Teacher, int64, error)
	// ExistsForUser reports whether an active teacher is linked to the user or email
	ExistsForUser(ctx context.Context, churchID, userID uuid.UUID, email string) (bool, error)
	Save(ctx context.Context, teacher *Teacher) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
}

// LessonPlanRepository persists plans together with their roster entries
type LessonPlanRepository interface {
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*LessonPlan, error)
	FindByClassroom(ctx context.Context, churchID, classroomID uuid.UUID) ([]LessonPlan, error)
	// FindOverlapping returns plans of the classroom whose dates intersect [from, to]
	FindOverlapping(ctx context.Context, churchID, classroomID uuid.UUID, from, to time.Time) ([]LessonPlan, error)
	Save(ctx context.Context, plan *LessonPlan) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
}

// AttendanceRepository persists roll calls
type AttendanceRepository interface {
	// ReplaceForLesson overwrites every record of the plan's lesson date
	ReplaceForLesson(ctx context.Context, planID uuid.UUID, lessonDate time.Time, records []AttendanceRecord) error
	FindByLesson(ctx context.Context, churchID, planID uuid.UUID, lessonDate time.Time) ([]AttendanceRecord, error)
	FindByPlan(ctx context.Context, churchID, planID uuid.UUID) ([]AttendanceRecord, error)
}
