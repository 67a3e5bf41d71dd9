package school

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeLessonPlan    = "LessonPlan"
	EventTypeLessonPlanCreated = "LessonPlanCreated"
)

// RosterEntry is one lesson of the plan with the teacher in charge
type RosterEntry struct {
	ID            uuid.UUID
	LessonPlanID  uuid.UUID
	LessonNumber  int
	LessonDate    time.Time
	LessonTitle   string
	TeacherID     *uuid.UUID
	NoClass       bool
	NoClassReason string
}

// IsPast reports whether the lesson date is on or before today
func (r *RosterEntry) IsPast(today time.Time) bool {
	return !r.LessonDate.After(dateOnly(today))
}

// LessonPlan schedules one magazine for one classroom over a quarter
type LessonPlan struct {
	shared.ChurchAggregateRoot
	ClassroomID uuid.UUID
	MagazineID  uuid.UUID
	StartDate   time.Time
	Weekday     time.Weekday
	EndDate     time.Time
	Entries     []RosterEntry
}

// NewLessonPlan builds the calendar for the magazine and pre-populates the roster,
// one entry per lesson date with no teacher assigned.
func NewLessonPlan(churchID uuid.UUID, classroom *Classroom, magazine *Magazine, start time.Time, weekday time.Weekday) (*LessonPlan, error) {
	if classroom == nil || magazine == nil {
		return nil, shared.NewDomainError("INVALID_LESSON_PLAN", "Classroom and magazine are required")
	}
	if !classroom.BelongsTo(churchID) || !magazine.BelongsTo(churchID) {
		return nil, shared.ErrForbidden
	}
	if start.IsZero() {
		return nil, shared.NewDomainError("INVALID_START_DATE", "Start date is required")
	}

	dates := GenerateLessonDates(start, weekday, magazine.LessonCount)
	plan := &LessonPlan{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		ClassroomID:         classroom.ID,
		MagazineID:          magazine.ID,
		StartDate:           dateOnly(start),
		Weekday:             weekday,
		EndDate:             EndDate(dates),
		Entries:             make([]RosterEntry, len(dates)),
	}
	for i, d := range dates {
		plan.Entries[i] = RosterEntry{
			ID:           uuid.New(),
			LessonPlanID: plan.ID,
			LessonNumber: i + 1,
			LessonDate:   d,
			LessonTitle:  magazine.LessonTitle(i + 1),
		}
	}
	plan.AddDomainEvent(&LessonPlanCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLessonPlanCreated, AggregateTypeLessonPlan, plan.ID, churchID),
		ClassroomID:     classroom.ID,
		MagazineID:      magazine.ID,
		EndDate:         plan.EndDate,
	})
	return plan, nil
}

// LessonDates returns every scheduled date, including no-class ones
func (p *LessonPlan) LessonDates() []time.Time {
	dates := make([]time.Time, len(p.Entries))
	for i := range p.Entries {
		dates[i] = p.Entries[i].LessonDate
	}
	return dates
}

// Progress is the share of lesson dates already reached
func (p *LessonPlan) Progress(today time.Time) int {
	return Progress(p.LessonDates(), today)
}

func (p *LessonPlan) entry(entryID uuid.UUID) (*RosterEntry, error) {
	for i := range p.Entries {
		if p.Entries[i].ID == entryID {
			return &p.Entries[i], nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Roster entry not found")
}

// AssignTeacher puts a teacher in charge of a lesson; nil clears the assignment
func (p *LessonPlan) AssignTeacher(entryID uuid.UUID, teacherID *uuid.UUID) error {
	e, err := p.entry(entryID)
	if err != nil {
		return err
	}
	if e.NoClass && teacherID != nil {
		return shared.NewDomainError("NO_CLASS_LESSON", "Cannot assign a teacher to a lesson marked as no class")
	}
	e.TeacherID = teacherID
	p.Touch()
	p.IncrementVersion()
	return nil
}

// MarkNoClass flags a lesson date as cancelled (holiday, special service)
func (p *LessonPlan) MarkNoClass(entryID uuid.UUID, reason string) error {
	e, err := p.entry(entryID)
	if err != nil {
		return err
	}
	e.NoClass = true
	e.NoClassReason = reason
	e.TeacherID = nil
	p.Touch()
	p.IncrementVersion()
	return nil
}

// UnmarkNoClass restores a cancelled lesson date
func (p *LessonPlan) UnmarkNoClass(entryID uuid.UUID) error {
	e, err := p.entry(entryID)
	if err != nil {
		return err
	}
	e.NoClass = false
	e.NoClassReason = ""
	p.Touch()
	p.IncrementVersion()
	return nil
}

// TeacherCompletion summarizes one teacher's rota
type TeacherCompletion struct {
	TeacherID uuid.UUID `json:"teacher_id"`
	Assigned  int       `json:"assigned"`
	Taught    int       `json:"taught"`
	Percent   int       `json:"percent"`
}

// TeacherCompletions reconciles the rota: for each teacher, lessons taught so far
// over lessons assigned, skipping no-class dates.
func (p *LessonPlan) TeacherCompletions(today time.Time) []TeacherCompletion {
	byTeacher := make(map[uuid.UUID]*TeacherCompletion)
	order := make([]uuid.UUID, 0)
	for i := range p.Entries {
		e := &p.Entries[i]
		if e.NoClass || e.TeacherID == nil {
			continue
		}
		c, ok := byTeacher[*e.TeacherID]
		if !ok {
			c = &TeacherCompletion{TeacherID: *e.TeacherID}
			byTeacher[*e.TeacherID] = c
			order = append(order, *e.TeacherID)
		}
		c.Assigned++
		if e.IsPast(today) {
			c.Taught++
		}
	}
	out := make([]TeacherCompletion, 0, len(order))
	for _, id := range order {
		c := byTeacher[id]
		c.Percent = Percent(c.Taught, c.Assigned)
		out = append(out, *c)
	}
	return out
}

// UnassignedLessons counts upcoming lessons with neither teacher nor no-class flag
func (p *LessonPlan) UnassignedLessons(today time.Time) int {
	n := 0
	for i := range p.Entries {
		e := &p.Entries[i]
		if !e.NoClass && e.TeacherID == nil && !e.IsPast(today) {
			n++
		}
	}
	return n
}

// LessonPlanCreatedEvent is raised when a plan and its roster are generated
type LessonPlanCreatedEvent struct {
	shared.BaseDomainEvent
	ClassroomID uuid.UUID `json:"classroom_id"`
	MagazineID  uuid.UUID `json:"magazine_id"`
	EndDate     time.Time `json:"end_date"`
}
