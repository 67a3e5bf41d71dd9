package school

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/school"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
)

// ObjectStorage issues presigned URLs for magazine covers
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error)
	PresignDownload(ctx context.Context, key string) (string, time.Time, error)
}

// ClassroomService manages classrooms, magazines, students and teachers
type ClassroomService struct {
	classroomRepo school.ClassroomRepository
	magazineRepo  school.MagazineRepository
	studentRepo   school.StudentRepository
	teacherRepo   school.TeacherRepository
	planRepo      school.LessonPlanRepository
	storage       ObjectStorage
}

// NewClassroomService creates a new ClassroomService. storage may be nil.
func NewClassroomService(
	classroomRepo school.ClassroomRepository,
	magazineRepo school.MagazineRepository,
	studentRepo school.StudentRepository,
	teacherRepo school.TeacherRepository,
	planRepo school.LessonPlanRepository,
	storage ObjectStorage,
) *ClassroomService {
	return &ClassroomService{
		classroomRepo: classroomRepo,
		magazineRepo:  magazineRepo,
		studentRepo:   studentRepo,
		teacherRepo:   teacherRepo,
		planRepo:      planRepo,
		storage:       storage,
	}
}

// buildClassroom validates a request into a new classroom
func buildClassroom(churchID uuid.UUID, req ClassroomRequest) (*school.Classroom, error) {
	weekday, err := school.ParseWeekday(req.Weekday)
	if err != nil {
		return nil, err
	}
	classroom, err := school.NewClassroom(churchID, req.Name, weekday)
	if err != nil {
		return nil, err
	}
	classroom.Room = req.Room
	if err := classroom.SetAgeRange(req.MinAge, req.MaxAge); err != nil {
		return nil, err
	}
	return classroom, nil
}

// CreateClassroom creates a classroom
func (s *ClassroomService) CreateClassroom(ctx context.Context, churchID uuid.UUID, req ClassroomRequest) (*ClassroomResponse, error) {
	classroom, err := buildClassroom(churchID, req)
	if err != nil {
		return nil, err
	}
	if err := s.classroomRepo.Save(ctx, classroom); err != nil {
		return nil, err
	}
	resp := ToClassroomResponse(classroom)
	return &resp, nil
}

// GetClassroom returns a classroom
func (s *ClassroomService) GetClassroom(ctx context.Context, churchID, id uuid.UUID) (*ClassroomResponse, error) {
	classroom, err := s.classroomRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	resp := ToClassroomResponse(classroom)
	return &resp, nil
}

// ListClassrooms lists classrooms by name
func (s *ClassroomService) ListClassrooms(ctx context.Context, churchID uuid.UUID, q ListQuery) ([]ClassroomResponse, int64, error) {
	classrooms, total, err := s.classroomRepo.FindAll(ctx, churchID, q.toFilter("name"))
	if err != nil {
		return nil, 0, err
	}
	out := make([]ClassroomResponse, len(classrooms))
	for i := range classrooms {
		out[i] = ToClassroomResponse(&classrooms[i])
	}
	return out, total, nil
}

// UpdateClassroom edits a classroom
func (s *ClassroomService) UpdateClassroom(ctx context.Context, churchID, id uuid.UUID, req ClassroomRequest) (*ClassroomResponse, error) {
	classroom, err := s.classroomRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	weekday, err := school.ParseWeekday(req.Weekday)
	if err != nil {
		return nil, err
	}
	if err := classroom.Update(req.Name, req.Room, weekday); err != nil {
		return nil, err
	}
	if err := classroom.SetAgeRange(req.MinAge, req.MaxAge); err != nil {
		return nil, err
	}
	if err := s.classroomRepo.Save(ctx, classroom); err != nil {
		return nil, err
	}
	resp := ToClassroomResponse(classroom)
	return &resp, nil
}

// DeleteClassroom removes a classroom without lesson plans. Classrooms with
// history are archived instead.
func (s *ClassroomService) DeleteClassroom(ctx context.Context, churchID, id uuid.UUID) error {
	classroom, err := s.classroomRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return err
	}
	plans, err := s.planRepo.FindByClassroom(ctx, churchID, id)
	if err != nil {
		return err
	}
	if len(plans) > 0 {
		classroom.Deactivate()
		return s.classroomRepo.Save(ctx, classroom)
	}
	return s.classroomRepo.Delete(ctx, churchID, id)
}

// buildMagazine validates a request into a new magazine
func buildMagazine(churchID uuid.UUID, req MagazineRequest) (*school.Magazine, error) {
	magazine, err := school.NewMagazine(churchID, req.Title, req.Quarter, school.Audience(req.Audience), req.LessonCount)
	if err != nil {
		return nil, err
	}
	if err := magazine.SetPrice(req.Price); err != nil {
		return nil, err
	}
	if len(req.LessonTitles) > 0 {
		if err := magazine.SetLessonTitles(req.LessonTitles); err != nil {
			return nil, err
		}
	}
	return magazine, nil
}

// CreateMagazine registers a magazine
func (s *ClassroomService) CreateMagazine(ctx context.Context, churchID uuid.UUID, req MagazineRequest) (*MagazineResponse, error) {
	magazine, err := buildMagazine(churchID, req)
	if err != nil {
		return nil, err
	}
	if err := s.magazineRepo.Save(ctx, magazine); err != nil {
		return nil, err
	}
	resp := ToMagazineResponse(magazine)
	return &resp, nil
}

// GetMagazine returns a magazine
func (s *ClassroomService) GetMagazine(ctx context.Context, churchID, id uuid.UUID) (*MagazineResponse, error) {
	magazine, err := s.magazineRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	resp := ToMagazineResponse(magazine)
	return &resp, nil
}

// ListMagazines lists magazines by quarter
func (s *ClassroomService) ListMagazines(ctx context.Context, churchID uuid.UUID, q ListQuery) ([]MagazineResponse, int64, error) {
	filter := q.toFilter("quarter")
	filter.OrderDir = "desc"
	magazines, total, err := s.magazineRepo.FindAll(ctx, churchID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]MagazineResponse, len(magazines))
	for i := range magazines {
		out[i] = ToMagazineResponse(&magazines[i])
	}
	return out, total, nil
}

// UpdateMagazine replaces the editable fields of a magazine. The lesson count
// is fixed once plans exist, so it is not changed here.
func (s *ClassroomService) UpdateMagazine(ctx context.Context, churchID, id uuid.UUID, req MagazineRequest) (*MagazineResponse, error) {
	magazine, err := s.magazineRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	updated, err := buildMagazine(churchID, MagazineRequest{
		Title:        req.Title,
		Quarter:      req.Quarter,
		Audience:     req.Audience,
		LessonCount:  magazine.LessonCount,
		Price:        req.Price,
		LessonTitles: req.LessonTitles,
	})
	if err != nil {
		return nil, err
	}
	magazine.Title = updated.Title
	magazine.Quarter = updated.Quarter
	magazine.Audience = updated.Audience
	magazine.Price = updated.Price
	magazine.LessonTitles = updated.LessonTitles
	magazine.Touch()

	if err := s.magazineRepo.Save(ctx, magazine); err != nil {
		return nil, err
	}
	resp := ToMagazineResponse(magazine)
	return &resp, nil
}

// DeleteMagazine removes a magazine
func (s *ClassroomService) DeleteMagazine(ctx context.Context, churchID, id uuid.UUID) error {
	if _, err := s.magazineRepo.FindByID(ctx, churchID, id); err != nil {
		return err
	}
	return s.magazineRepo.Delete(ctx, churchID, id)
}

// CoverUploadURL returns a presigned upload URL for the magazine cover and
// stores the key on the magazine
func (s *ClassroomService) CoverUploadURL(ctx context.Context, churchID, id uuid.UUID, req CoverUploadRequest) (*UploadURLResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "File uploads are not configured")
	}
	magazine, err := s.magazineRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	key := storage.ObjectKey(churchID, storage.KindMagazineCover, req.Filename)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Covers must be JPG, PNG or WEBP images")
	}
	url, expires, err := s.storage.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		return nil, err
	}
	magazine.SetCover(key)
	if err := s.magazineRepo.Save(ctx, magazine); err != nil {
		return nil, err
	}
	return &UploadURLResponse{Key: key, URL: url, ExpiresAt: expires}, nil
}

// ===================== Students =====================

// CreateStudent enrolls a student
func (s *ClassroomService) CreateStudent(ctx context.Context, churchID uuid.UUID, req StudentRequest) (*StudentResponse, error) {
	if _, err := s.classroomRepo.FindByID(ctx, churchID, req.ClassroomID); err != nil {
		return nil, err
	}
	student, err := school.NewStudent(churchID, req.ClassroomID, req.Name)
	if err != nil {
		return nil, err
	}
	student.MemberID = req.MemberID
	student.SetContact(req.Phone, req.Email)
	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}
	resp := ToStudentResponse(student)
	return &resp, nil
}

// GetStudent returns a student
func (s *ClassroomService) GetStudent(ctx context.Context, churchID, id uuid.UUID) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	resp := ToStudentResponse(student)
	return &resp, nil
}

// ListStudents lists students, optionally of one classroom
func (s *ClassroomService) ListStudents(ctx context.Context, churchID uuid.UUID, classroomID *uuid.UUID, q ListQuery) ([]StudentResponse, int64, error) {
	var (
		students []school.Student
		total    int64
		err      error
	)
	if classroomID != nil {
		students, err = s.studentRepo.FindByClassroom(ctx, churchID, *classroomID)
		total = int64(len(students))
	} else {
		students, total, err = s.studentRepo.FindAll(ctx, churchID, q.toFilter("name"))
	}
	if err != nil {
		return nil, 0, err
	}
	out := make([]StudentResponse, len(students))
	for i := range students {
		out[i] = ToStudentResponse(&students[i])
	}
	return out, total, nil
}

// UpdateStudent edits a student and moves them between classrooms
func (s *ClassroomService) UpdateStudent(ctx context.Context, churchID, id uuid.UUID, req StudentRequest) (*StudentResponse, error) {
	student, err := s.studentRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	if req.ClassroomID != student.ClassroomID {
		if _, err := s.classroomRepo.FindByID(ctx, churchID, req.ClassroomID); err != nil {
			return nil, err
		}
		if err := student.TransferTo(req.ClassroomID); err != nil {
			return nil, err
		}
	}
	name := shared.NormalizePersonName(req.Name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_STUDENT_NAME", "Student name cannot be empty")
	}
	student.Name = name
	student.MemberID = req.MemberID
	student.SetContact(req.Phone, req.Email)
	if err := s.studentRepo.Save(ctx, student); err != nil {
		return nil, err
	}
	resp := ToStudentResponse(student)
	return &resp, nil
}

// DeleteStudent removes a student
func (s *ClassroomService) DeleteStudent(ctx context.Context, churchID, id uuid.UUID) error {
	if _, err := s.studentRepo.FindByID(ctx, churchID, id); err != nil {
		return err
	}
	return s.studentRepo.Delete(ctx, churchID, id)
}

// ===================== Teachers =====================

func applyTeacher(t *school.Teacher, req TeacherRequest) {
	t.MemberID = req.MemberID
	t.SetContact(req.Phone, req.Email)
	if req.ClassroomID != nil {
		t.AssignClassroom(*req.ClassroomID)
	} else {
		t.ClassroomID = nil
	}
	if req.UserID != nil {
		t.LinkUser(*req.UserID)
	} else {
		t.UserID = nil
	}
}

// CreateTeacher registers a teacher
func (s *ClassroomService) CreateTeacher(ctx context.Context, churchID uuid.UUID, req TeacherRequest) (*TeacherResponse, error) {
	teacher, err := school.NewTeacher(churchID, req.Name)
	if err != nil {
		return nil, err
	}
	applyTeacher(teacher, req)
	if err := s.teacherRepo.Save(ctx, teacher); err != nil {
		return nil, err
	}
	resp := ToTeacherResponse(teacher)
	return &resp, nil
}

// GetTeacher returns a teacher
func (s *ClassroomService) GetTeacher(ctx context.Context, churchID, id uuid.UUID) (*TeacherResponse, error) {
	teacher, err := s.teacherRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTeacherResponse(teacher)
	return &resp, nil
}

// ListTeachers lists teachers by name
func (s *ClassroomService) ListTeachers(ctx context.Context, churchID uuid.UUID, q ListQuery) ([]TeacherResponse, int64, error) {
	teachers, total, err := s.teacherRepo.FindAll(ctx, churchID, q.toFilter("name"))
	if err != nil {
		return nil, 0, err
	}
	out := make([]TeacherResponse, len(teachers))
	for i := range teachers {
		out[i] = ToTeacherResponse(&teachers[i])
	}
	return out, total, nil
}

// UpdateTeacher edits a teacher
func (s *ClassroomService) UpdateTeacher(ctx context.Context, churchID, id uuid.UUID, req TeacherRequest) (*TeacherResponse, error) {
	teacher, err := s.teacherRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	name := shared.NormalizePersonName(req.Name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TEACHER_NAME", "Teacher name cannot be empty")
	}
	teacher.Name = name
	applyTeacher(teacher, req)
	if err := s.teacherRepo.Save(ctx, teacher); err != nil {
		return nil, err
	}
	resp := ToTeacherResponse(teacher)
	return &resp, nil
}

// DeleteTeacher removes a teacher
func (s *ClassroomService) DeleteTeacher(ctx context.Context, churchID, id uuid.UUID) error {
	if _, err := s.teacherRepo.FindByID(ctx, churchID, id); err != nil {
		return err
	}
	return s.teacherRepo.Delete(ctx, churchID, id)
}
