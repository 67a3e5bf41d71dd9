package school

import (
	"context"
	"sort"
	"time"

	"github.com/ecclesia/backend/internal/domain/school"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LessonPlanService generates lesson calendars, keeps the teacher roster and
// records attendance
type LessonPlanService struct {
	classroomRepo  school.ClassroomRepository
	magazineRepo   school.MagazineRepository
	planRepo       school.LessonPlanRepository
	teacherRepo    school.TeacherRepository
	studentRepo    school.StudentRepository
	attendanceRepo school.AttendanceRepository
	txScope        TransactionScope
	events         shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewLessonPlanService creates a new LessonPlanService
func NewLessonPlanService(
	classroomRepo school.ClassroomRepository,
	magazineRepo school.MagazineRepository,
	planRepo school.LessonPlanRepository,
	teacherRepo school.TeacherRepository,
	studentRepo school.StudentRepository,
	attendanceRepo school.AttendanceRepository,
	txScope TransactionScope,
	events shared.EventPublisher,
	logger *zap.Logger,
) *LessonPlanService {
	return &LessonPlanService{
		classroomRepo:  classroomRepo,
		magazineRepo:   magazineRepo,
		planRepo:       planRepo,
		teacherRepo:    teacherRepo,
		studentRepo:    studentRepo,
		attendanceRepo: attendanceRepo,
		txScope:        txScope,
		events:         events,
		logger:         logger,
		now:            time.Now,
	}
}

// UseLocation makes the dates the service treats as today follow loc
func (s *LessonPlanService) UseLocation(loc *time.Location) {
	s.now = shared.InLocation(s.now, loc)
}

// GeneratePlan builds the lesson calendar of a magazine for a classroom and
// pre-populates one roster entry per lesson date
func (s *LessonPlanService) GeneratePlan(ctx context.Context, churchID uuid.UUID, req GeneratePlanRequest) (*LessonPlanResponse, error) {
	start, err := parseDay(req.StartDate)
	if err != nil {
		return nil, err
	}
	classroom, err := s.classroomRepo.FindByID(ctx, churchID, req.ClassroomID)
	if err != nil {
		return nil, err
	}
	magazine, err := s.magazineRepo.FindByID(ctx, churchID, req.MagazineID)
	if err != nil {
		return nil, err
	}
	weekday := classroom.Weekday
	if req.Weekday != "" {
		if weekday, err = school.ParseWeekday(req.Weekday); err != nil {
			return nil, err
		}
	}

	plan, err := school.NewLessonPlan(churchID, classroom, magazine, start, weekday)
	if err != nil {
		return nil, err
	}
	overlapping, err := s.planRepo.FindOverlapping(ctx, churchID, classroom.ID, plan.StartDate, plan.EndDate)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, shared.NewDomainError("PLAN_OVERLAP", "The classroom already has a lesson plan in this period")
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	s.publish(ctx, plan)

	resp := ToLessonPlanResponse(plan, s.now())
	return &resp, nil
}

// Onboard creates a magazine, a classroom and the classroom's first lesson
// plan in one transaction
func (s *LessonPlanService) Onboard(ctx context.Context, churchID uuid.UUID, req OnboardingRequest) (*OnboardingResponse, error) {
	start, err := parseDay(req.StartDate)
	if err != nil {
		return nil, err
	}
	magazine, err := buildMagazine(churchID, req.Magazine)
	if err != nil {
		return nil, err
	}
	classroom, err := buildClassroom(churchID, req.Classroom)
	if err != nil {
		return nil, err
	}
	plan, err := school.NewLessonPlan(churchID, classroom, magazine, start, classroom.Weekday)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Magazines().Save(ctx, magazine); err != nil {
			return err
		}
		if err := repos.Classrooms().Save(ctx, classroom); err != nil {
			return err
		}
		return repos.LessonPlans().Save(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, plan)

	return &OnboardingResponse{
		Magazine:  ToMagazineResponse(magazine),
		Classroom: ToClassroomResponse(classroom),
		Plan:      ToLessonPlanResponse(plan, s.now()),
	}, nil
}

// GetPlan returns a plan with its roster, progress and teacher completion
func (s *LessonPlanService) GetPlan(ctx context.Context, churchID, id uuid.UUID) (*LessonPlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLessonPlanResponse(plan, s.now())
	return &resp, nil
}

// ListPlans lists the plans of a classroom, newest first
func (s *LessonPlanService) ListPlans(ctx context.Context, churchID, classroomID uuid.UUID) ([]LessonPlanResponse, error) {
	plans, err := s.planRepo.FindByClassroom(ctx, churchID, classroomID)
	if err != nil {
		return nil, err
	}
	today := s.now()
	out := make([]LessonPlanResponse, len(plans))
	for i := range plans {
		out[i] = ToLessonPlanResponse(&plans[i], today)
	}
	return out, nil
}

// DeletePlan removes a plan with its roster and attendance
func (s *LessonPlanService) DeletePlan(ctx context.Context, churchID, id uuid.UUID) error {
	if _, err := s.planRepo.FindByID(ctx, churchID, id); err != nil {
		return err
	}
	return s.planRepo.Delete(ctx, churchID, id)
}

// AssignTeacher puts a teacher on a lesson of the plan; a nil teacher clears it
func (s *LessonPlanService) AssignTeacher(ctx context.Context, churchID, planID, entryID uuid.UUID, req AssignTeacherRequest) (*LessonPlanResponse, error) {
	if req.TeacherID != nil {
		teacher, err := s.teacherRepo.FindByID(ctx, churchID, *req.TeacherID)
		if err != nil {
			return nil, err
		}
		if !teacher.IsActive {
			return nil, shared.NewDomainError("INACTIVE_TEACHER", "Teacher is inactive")
		}
	}
	return s.mutate(ctx, churchID, planID, func(p *school.LessonPlan) error {
		return p.AssignTeacher(entryID, req.TeacherID)
	})
}

// MarkNoClass cancels a lesson date
func (s *LessonPlanService) MarkNoClass(ctx context.Context, churchID, planID, entryID uuid.UUID, req NoClassRequest) (*LessonPlanResponse, error) {
	return s.mutate(ctx, churchID, planID, func(p *school.LessonPlan) error {
		return p.MarkNoClass(entryID, req.Reason)
	})
}

// UnmarkNoClass restores a cancelled lesson date
func (s *LessonPlanService) UnmarkNoClass(ctx context.Context, churchID, planID, entryID uuid.UUID) (*LessonPlanResponse, error) {
	return s.mutate(ctx, churchID, planID, func(p *school.LessonPlan) error {
		return p.UnmarkNoClass(entryID)
	})
}

func (s *LessonPlanService) mutate(ctx context.Context, churchID, planID uuid.UUID, change func(*school.LessonPlan) error) (*LessonPlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, churchID, planID)
	if err != nil {
		return nil, err
	}
	if err := change(plan); err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	resp := ToLessonPlanResponse(plan, s.now())
	return &resp, nil
}

// PlanProgress is the percentage of lesson dates already reached
func (s *LessonPlanService) PlanProgress(ctx context.Context, churchID, planID uuid.UUID) (int, error) {
	plan, err := s.planRepo.FindByID(ctx, churchID, planID)
	if err != nil {
		return 0, err
	}
	return plan.Progress(s.now()), nil
}

// ===================== Attendance =====================

// RecordAttendance replaces the roll of one lesson date. Every student must
// be enrolled in the plan's classroom.
func (s *LessonPlanService) RecordAttendance(ctx context.Context, churchID, planID uuid.UUID, req RecordAttendanceRequest) (*LessonAttendanceResponse, error) {
	lessonDate, err := parseDay(req.LessonDate)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.FindByID(ctx, churchID, planID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.studentRepo.FindByClassroom(ctx, churchID, plan.ClassroomID)
	if err != nil {
		return nil, err
	}
	inClass := make(map[uuid.UUID]bool, len(enrolled))
	for i := range enrolled {
		inClass[enrolled[i].ID] = true
	}

	marks := make([]school.AttendanceInput, len(req.Marks))
	for i, m := range req.Marks {
		if !inClass[m.StudentID] {
			return nil, shared.NewDomainError("STUDENT_NOT_IN_CLASSROOM", "Student "+m.StudentID.String()+" is not enrolled in this classroom")
		}
		marks[i] = school.AttendanceInput{
			StudentID:       m.StudentID,
			Present:         m.Present,
			BroughtBible:    m.BroughtBible,
			BroughtMagazine: m.BroughtMagazine,
			Offering:        m.Offering,
		}
	}

	records, err := school.TakeRoll(plan, lessonDate, marks)
	if err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.ReplaceForLesson(ctx, plan.ID, lessonDate, records); err != nil {
		return nil, err
	}
	return &LessonAttendanceResponse{
		Summary: school.Summarize(lessonDate, records),
		Records: toAttendanceRecords(records),
	}, nil
}

// LessonAttendance returns the roll and summary of one lesson date
func (s *LessonPlanService) LessonAttendance(ctx context.Context, churchID, planID uuid.UUID, date string) (*LessonAttendanceResponse, error) {
	lessonDate, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	records, err := s.attendanceRepo.FindByLesson(ctx, churchID, planID, lessonDate)
	if err != nil {
		return nil, err
	}
	return &LessonAttendanceResponse{
		Summary: school.Summarize(lessonDate, records),
		Records: toAttendanceRecords(records),
	}, nil
}

// AttendanceOverview summarizes every lesson of the plan that has a roll
func (s *LessonPlanService) AttendanceOverview(ctx context.Context, churchID, planID uuid.UUID) ([]school.AttendanceSummary, error) {
	if _, err := s.planRepo.FindByID(ctx, churchID, planID); err != nil {
		return nil, err
	}
	records, err := s.attendanceRepo.FindByPlan(ctx, churchID, planID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]school.AttendanceRecord)
	for _, r := range records {
		key := r.LessonDate.Format(time.DateOnly)
		byDate[key] = append(byDate[key], r)
	}
	out := make([]school.AttendanceSummary, 0, len(byDate))
	for _, rs := range byDate {
		out = append(out, school.Summarize(rs[0].LessonDate, rs))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonDate.Before(out[j].LessonDate) })
	return out, nil
}

func (s *LessonPlanService) publish(ctx context.Context, plan *school.LessonPlan) {
	events := plan.GetDomainEvents()
	plan.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to publish lesson plan events",
			zap.String("plan_id", plan.ID.String()), zap.Error(err))
	}
}
