package school

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/school"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Classrooms =====================

// ClassroomRequest creates or updates a classroom
type ClassroomRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Weekday string `json:"weekday" binding:"required"`
	Room    string `json:"room" binding:"max=50"`
	MinAge  int    `json:"min_age" binding:"min=0,max=120"`
	MaxAge  int    `json:"max_age" binding:"min=0,max=120"`
}

// ClassroomResponse represents a classroom in API responses
type ClassroomResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Weekday  int       `json:"weekday"`
	Room     string    `json:"room,omitempty"`
	MinAge   int       `json:"min_age"`
	MaxAge   int       `json:"max_age"`
	IsActive bool      `json:"is_active"`
}

// ToClassroomResponse converts a classroom
func ToClassroomResponse(c *school.Classroom) ClassroomResponse {
	return ClassroomResponse{
		ID:       c.ID,
		Name:     c.Name,
		Weekday:  int(c.Weekday),
		Room:     c.Room,
		MinAge:   c.MinAge,
		MaxAge:   c.MaxAge,
		IsActive: c.IsActive,
	}
}

// ===================== Magazines =====================

// MagazineRequest creates or updates a magazine
type MagazineRequest struct {
	Title        string          `json:"title" binding:"required,max=200"`
	Quarter      string          `json:"quarter" binding:"required,len=7"`
	Audience     string          `json:"audience" binding:"required,oneof=children teens youth adults new_believers"`
	LessonCount  int             `json:"lesson_count" binding:"min=0,max=53"`
	Price        decimal.Decimal `json:"price"`
	LessonTitles []string        `json:"lesson_titles" binding:"max=53,dive,max=200"`
}

// MagazineResponse represents a magazine in API responses
type MagazineResponse struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Quarter      string          `json:"quarter"`
	Audience     string          `json:"audience"`
	LessonCount  int             `json:"lesson_count"`
	Price        decimal.Decimal `json:"price"`
	CoverKey     string          `json:"cover_key,omitempty"`
	LessonTitles []string        `json:"lesson_titles,omitempty"`
}

// ToMagazineResponse converts a magazine
func ToMagazineResponse(m *school.Magazine) MagazineResponse {
	return MagazineResponse{
		ID:           m.ID,
		Title:        m.Title,
		Quarter:      m.Quarter,
		Audience:     string(m.Audience),
		LessonCount:  m.LessonCount,
		Price:        m.Price,
		CoverKey:     m.CoverKey,
		LessonTitles: m.LessonTitles,
	}
}

// CoverUploadRequest asks for a presigned cover upload URL
type CoverUploadRequest struct {
	Filename    string `json:"filename" binding:"required,max=200"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURLResponse is a presigned URL and the object key it writes to
type UploadURLResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ===================== Students & Teachers =====================

// StudentRequest creates or updates a student
type StudentRequest struct {
	Name        string     `json:"name" binding:"required,max=150"`
	ClassroomID uuid.UUID  `json:"classroom_id" binding:"required"`
	MemberID    *uuid.UUID `json:"member_id"`
	Phone       string     `json:"phone" binding:"max=30"`
	Email       string     `json:"email" binding:"omitempty,email"`
}

// StudentResponse represents a student in API responses
type StudentResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ClassroomID uuid.UUID  `json:"classroom_id"`
	MemberID    *uuid.UUID `json:"member_id,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// ToStudentResponse converts a student
func ToStudentResponse(s *school.Student) StudentResponse {
	return StudentResponse{
		ID:          s.ID,
		Name:        s.Name,
		ClassroomID: s.ClassroomID,
		MemberID:    s.MemberID,
		Phone:       s.Phone,
		Email:       s.Email,
		IsActive:    s.IsActive,
	}
}

// TeacherRequest creates or updates a teacher
type TeacherRequest struct {
	Name        string     `json:"name" binding:"required,max=150"`
	ClassroomID *uuid.UUID `json:"classroom_id"`
	MemberID    *uuid.UUID `json:"member_id"`
	UserID      *uuid.UUID `json:"user_id"`
	Phone       string     `json:"phone" binding:"max=30"`
	Email       string     `json:"email" binding:"omitempty,email"`
}

// TeacherResponse represents a teacher in API responses
type TeacherResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ClassroomID *uuid.UUID `json:"classroom_id,omitempty"`
	MemberID    *uuid.UUID `json:"member_id,omitempty"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// ToTeacherResponse converts a teacher
func ToTeacherResponse(t *school.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:          t.ID,
		Name:        t.Name,
		ClassroomID: t.ClassroomID,
		MemberID:    t.MemberID,
		UserID:      t.UserID,
		Phone:       t.Phone,
		Email:       t.Email,
		IsActive:    t.IsActive,
	}
}

// ===================== Lesson Plans =====================

// GeneratePlanRequest generates a lesson plan; the weekday defaults to the classroom's
type GeneratePlanRequest struct {
	ClassroomID uuid.UUID `json:"classroom_id" binding:"required"`
	MagazineID  uuid.UUID `json:"magazine_id" binding:"required"`
	StartDate   string    `json:"start_date" binding:"required,datetime=2006-01-02"`
	Weekday     string    `json:"weekday"`
}

// AssignTeacherRequest puts a teacher on a lesson; a null teacher clears it
type AssignTeacherRequest struct {
	TeacherID *uuid.UUID `json:"teacher_id"`
}

// NoClassRequest marks a lesson as cancelled
type NoClassRequest struct {
	Reason string `json:"reason" binding:"max=200"`
}

// RosterEntryResponse is one lesson of a plan
type RosterEntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	LessonNumber  int        `json:"lesson_number"`
	LessonDate    string     `json:"lesson_date"`
	LessonTitle   string     `json:"lesson_title,omitempty"`
	TeacherID     *uuid.UUID `json:"teacher_id,omitempty"`
	NoClass       bool       `json:"no_class"`
	NoClassReason string     `json:"no_class_reason,omitempty"`
	Past          bool       `json:"past"`
}

// LessonPlanResponse represents a plan with its roster and progress
type LessonPlanResponse struct {
	ID                uuid.UUID                  `json:"id"`
	ClassroomID       uuid.UUID                  `json:"classroom_id"`
	MagazineID        uuid.UUID                  `json:"magazine_id"`
	StartDate         string                     `json:"start_date"`
	EndDate           string                     `json:"end_date"`
	Weekday           int                        `json:"weekday"`
	Progress          int                        `json:"progress"`
	UnassignedLessons int                        `json:"unassigned_lessons"`
	Teachers          []school.TeacherCompletion `json:"teachers"`
	Roster            []RosterEntryResponse      `json:"roster"`
}

// ToLessonPlanResponse converts a plan as seen on the given day
func ToLessonPlanResponse(p *school.LessonPlan, today time.Time) LessonPlanResponse {
	roster := make([]RosterEntryResponse, len(p.Entries))
	for i := range p.Entries {
		e := &p.Entries[i]
		roster[i] = RosterEntryResponse{
			ID:            e.ID,
			LessonNumber:  e.LessonNumber,
			LessonDate:    e.LessonDate.Format(time.DateOnly),
			LessonTitle:   e.LessonTitle,
			TeacherID:     e.TeacherID,
			NoClass:       e.NoClass,
			NoClassReason: e.NoClassReason,
			Past:          e.IsPast(today),
		}
	}
	return LessonPlanResponse{
		ID:                p.ID,
		ClassroomID:       p.ClassroomID,
		MagazineID:        p.MagazineID,
		StartDate:         p.StartDate.Format(time.DateOnly),
		EndDate:           p.EndDate.Format(time.DateOnly),
		Weekday:           int(p.Weekday),
		Progress:          p.Progress(today),
		UnassignedLessons: p.UnassignedLessons(today),
		Teachers:          p.TeacherCompletions(today),
		Roster:            roster,
	}
}

// OnboardingRequest creates magazine, classroom and plan in one step
type OnboardingRequest struct {
	Magazine  MagazineRequest  `json:"magazine" binding:"required"`
	Classroom ClassroomRequest `json:"classroom" binding:"required"`
	StartDate string           `json:"start_date" binding:"required,datetime=2006-01-02"`
}

// OnboardingResponse is everything the wizard created
type OnboardingResponse struct {
	Magazine  MagazineResponse   `json:"magazine"`
	Classroom ClassroomResponse  `json:"classroom"`
	Plan      LessonPlanResponse `json:"plan"`
}

// ===================== Attendance =====================

// AttendanceMark is one student's line of the roll
type AttendanceMark struct {
	StudentID       uuid.UUID       `json:"student_id" binding:"required"`
	Present         bool            `json:"present"`
	BroughtBible    bool            `json:"brought_bible"`
	BroughtMagazine bool            `json:"brought_magazine"`
	Offering        decimal.Decimal `json:"offering"`
}

// RecordAttendanceRequest is the roll of one lesson date
type RecordAttendanceRequest struct {
	LessonDate string           `json:"lesson_date" binding:"required,datetime=2006-01-02"`
	Marks      []AttendanceMark `json:"marks" binding:"required,min=1,dive"`
}

// AttendanceRecordResponse represents one attendance line
type AttendanceRecordResponse struct {
	StudentID       uuid.UUID       `json:"student_id"`
	Present         bool            `json:"present"`
	BroughtBible    bool            `json:"brought_bible"`
	BroughtMagazine bool            `json:"brought_magazine"`
	Offering        decimal.Decimal `json:"offering"`
}

// LessonAttendanceResponse is the roll and summary of one lesson
type LessonAttendanceResponse struct {
	Summary school.AttendanceSummary   `json:"summary"`
	Records []AttendanceRecordResponse `json:"records"`
}

func toAttendanceRecords(records []school.AttendanceRecord) []AttendanceRecordResponse {
	out := make([]AttendanceRecordResponse, len(records))
	for i, r := range records {
		out[i] = AttendanceRecordResponse{
			StudentID:       r.StudentID,
			Present:         r.Present,
			BroughtBible:    r.BroughtBible,
			BroughtMagazine: r.BroughtMagazine,
			Offering:        r.Offering,
		}
	}
	return out
}

// ListQuery is the common paging query string
type ListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

func (q ListQuery) toFilter(orderBy string) shared.Filter {
	f := shared.DefaultFilter()
	f.Search = q.Search
	f.OrderBy = orderBy
	f.OrderDir = "asc"
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	return f
}

func parseDay(value string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Dates must use the YYYY-MM-DD format")
	}
	return d, nil
}
