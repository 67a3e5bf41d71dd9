package school

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/school"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockClassroomRepository struct {
	mock.Mock
}

func (m *MockClassroomRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*school.Classroom, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.Classroom), args.Error(1)
}

func (m *MockClassroomRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]school.Classroom, int64, error) {
	args := m.Called(ctx, churchID, filter)
	return args.Get(0).([]school.Classroom), args.Get(1).(int64), args.Error(2)
}

func (m *MockClassroomRepository) Save(ctx context.Context, classroom *school.Classroom) error {
	return m.Called(ctx, classroom).Error(0)
}

func (m *MockClassroomRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return m.Called(ctx, churchID, id).Error(0)
}

type MockMagazineRepository struct {
	mock.Mock
}

func (m *MockMagazineRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*school.Magazine, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.Magazine), args.Error(1)
}

func (m *MockMagazineRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]school.Magazine, int64, error) {
	args := m.Called(ctx, churchID, filter)
	return args.Get(0).([]school.Magazine), args.Get(1).(int64), args.Error(2)
}

func (m *MockMagazineRepository) Save(ctx context.Context, magazine *school.Magazine) error {
	return m.Called(ctx, magazine).Error(0)
}

func (m *MockMagazineRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return m.Called(ctx, churchID, id).Error(0)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*school.Student, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByClassroom(ctx context.Context, churchID, classroomID uuid.UUID) ([]school.Student, error) {
	args := m.Called(ctx, churchID, classroomID)
	return args.Get(0).([]school.Student), args.Error(1)
}

func (m *MockStudentRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]school.Student, int64, error) {
	args := m.Called(ctx, churchID, filter)
	return args.Get(0).([]school.Student), args.Get(1).(int64), args.Error(2)
}

func (m *MockStudentRepository) ExistsForUserEmail(ctx context.Context, churchID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, churchID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudentRepository) Save(ctx context.Context, student *school.Student) error {
	return m.Called(ctx, student).Error(0)
}

func (m *MockStudentRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return m.Called(ctx, churchID, id).Error(0)
}

type MockTeacherRepository struct {
	mock.Mock
}

func (m *MockTeacherRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*school.Teacher, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.Teacher), args.Error(1)
}

func (m *MockTeacherRepository) FindAll(ctx context.Context, churchID uuid.UUID, filter shared.Filter) ([]school.Teacher, int64, error) {
	args := m.Called(ctx, churchID, filter)
	return args.Get(0).([]school.Teacher), args.Get(1).(int64), args.Error(2)
}

func (m *MockTeacherRepository) ExistsForUser(ctx context.Context, churchID, userID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, churchID, userID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeacherRepository) Save(ctx context.Context, teacher *school.Teacher) error {
	return m.Called(ctx, teacher).Error(0)
}

func (m *MockTeacherRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return m.Called(ctx, churchID, id).Error(0)
}

type MockLessonPlanRepository struct {
	mock.Mock
}

func (m *MockLessonPlanRepository) FindByID(ctx context.Context, churchID, id uuid.UUID) (*school.LessonPlan, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*school.LessonPlan), args.Error(1)
}

func (m *MockLessonPlanRepository) FindByClassroom(ctx context.Context, churchID, classroomID uuid.UUID) ([]school.LessonPlan, error) {
	args := m.Called(ctx, churchID, classroomID)
	return args.Get(0).([]school.LessonPlan), args.Error(1)
}

func (m *MockLessonPlanRepository) FindOverlapping(ctx context.Context, churchID, classroomID uuid.UUID, from, to time.Time) ([]school.LessonPlan, error) {
	args := m.Called(ctx, churchID, classroomID, from, to)
	return args.Get(0).([]school.LessonPlan), args.Error(1)
}

func (m *MockLessonPlanRepository) Save(ctx context.Context, plan *school.LessonPlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockLessonPlanRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	return m.Called(ctx, churchID, id).Error(0)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) ReplaceForLesson(ctx context.Context, planID uuid.UUID, lessonDate time.Time, records []school.AttendanceRecord) error {
	return m.Called(ctx, planID, lessonDate, records).Error(0)
}

func (m *MockAttendanceRepository) FindByLesson(ctx context.Context, churchID, planID uuid.UUID, lessonDate time.Time) ([]school.AttendanceRecord, error) {
	args := m.Called(ctx, churchID, planID, lessonDate)
	return args.Get(0).([]school.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) FindByPlan(ctx context.Context, churchID, planID uuid.UUID) ([]school.AttendanceRecord, error) {
	args := m.Called(ctx, churchID, planID)
	return args.Get(0).([]school.AttendanceRecord), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) PresignDownload(ctx context.Context, key string) (string, time.Time, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// inlineScope runs the callback against the mocks without a database
type inlineScope struct {
	magazines  *MockMagazineRepository
	classrooms *MockClassroomRepository
	plans      *MockLessonPlanRepository
}

func (s *inlineScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *inlineScope) Magazines() school.MagazineRepository     { return s.magazines }
func (s *inlineScope) Classrooms() school.ClassroomRepository   { return s.classrooms }
func (s *inlineScope) LessonPlans() school.LessonPlanRepository { return s.plans }
