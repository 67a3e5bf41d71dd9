package school

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttendanceRecord is one student's presence at one lesson
type AttendanceRecord struct {
	shared.BaseEntity
	ChurchID        uuid.UUID
	LessonPlanID    uuid.UUID
	LessonDate      time.Time
	StudentID       uuid.UUID
	Present         bool
	BroughtBible    bool
	BroughtMagazine bool
	Offering        decimal.Decimal
}

// AttendanceInput is the per-student mark sent when taking the roll
type AttendanceInput struct {
	StudentID       uuid.UUID
	Present         bool
	BroughtBible    bool
	BroughtMagazine bool
	Offering        decimal.Decimal
}

// TakeRoll builds the attendance records of one lesson date. The date must be a
// scheduled, non-cancelled lesson of the plan, and each student may appear once.
func TakeRoll(plan *LessonPlan, lessonDate time.Time, marks []AttendanceInput) ([]AttendanceRecord, error) {
	lessonDate = dateOnly(lessonDate)
	var scheduled *RosterEntry
	for i := range plan.Entries {
		if plan.Entries[i].LessonDate.Equal(lessonDate) {
			scheduled = &plan.Entries[i]
			break
		}
	}
	if scheduled == nil {
		return nil, shared.NewDomainError("NOT_A_LESSON_DATE", "Date is not a lesson of this plan")
	}
	if scheduled.NoClass {
		return nil, shared.NewDomainError("NO_CLASS_LESSON", "Lesson is marked as no class")
	}

	seen := make(map[uuid.UUID]bool, len(marks))
	records := make([]AttendanceRecord, 0, len(marks))
	for _, m := range marks {
		if m.StudentID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_STUDENT", "Student is required")
		}
		if seen[m.StudentID] {
			return nil, shared.NewDomainError("DUPLICATE_STUDENT", "Student appears more than once in the roll")
		}
		if m.Offering.IsNegative() {
			return nil, shared.NewDomainError("INVALID_OFFERING", "Offering cannot be negative")
		}
		seen[m.StudentID] = true
		records = append(records, AttendanceRecord{
			BaseEntity:      shared.NewBaseEntity(),
			ChurchID:        plan.ChurchID,
			LessonPlanID:    plan.ID,
			LessonDate:      lessonDate,
			StudentID:       m.StudentID,
			Present:         m.Present,
			BroughtBible:    m.BroughtBible && m.Present,
			BroughtMagazine: m.BroughtMagazine && m.Present,
			Offering:        m.Offering.Round(2),
		})
	}
	return records, nil
}

// AttendanceSummary aggregates the roll of one lesson
type AttendanceSummary struct {
	LessonDate     time.Time       `json:"lesson_date"`
	Enrolled       int             `json:"enrolled"`
	Present        int             `json:"present"`
	Absent         int             `json:"absent"`
	Bibles         int             `json:"bibles"`
	Magazines      int             `json:"magazines"`
	Offering       decimal.Decimal `json:"offering"`
	AttendanceRate int             `json:"attendance_rate"`
}

// Summarize totals the records of one lesson date
func Summarize(lessonDate time.Time, records []AttendanceRecord) AttendanceSummary {
	s := AttendanceSummary{LessonDate: dateOnly(lessonDate), Offering: decimal.Zero}
	for _, r := range records {
		s.Enrolled++
		if r.Present {
			s.Present++
		} else {
			s.Absent++
		}
		if r.BroughtBible {
			s.Bibles++
		}
		if r.BroughtMagazine {
			s.Magazines++
		}
		s.Offering = s.Offering.Add(r.Offering)
	}
	s.AttendanceRate = Percent(s.Present, s.Enrolled)
	return s
}
