package models

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/school"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClassroomModel is the persistence model for Sunday school classrooms
type ClassroomModel struct {
	ChurchAggregateModel
	Name     string `gorm:"type:varchar(100);not null"`
	MinAge   int    `gorm:"not null;default:0"`
	MaxAge   int    `gorm:"not null;default:0"`
	Weekday  int    `gorm:"not null;default:0"`
	Room     string `gorm:"type:varchar(100)"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ClassroomModel) TableName() string {
	return "classrooms"
}

// ToDomain converts the persistence model to a domain Classroom
func (m *ClassroomModel) ToDomain() *school.Classroom {
	c := &school.Classroom{
		Name:     m.Name,
		MinAge:   m.MinAge,
		MaxAge:   m.MaxAge,
		Weekday:  time.Weekday(m.Weekday),
		Room:     m.Room,
		IsActive: m.IsActive,
	}
	m.PopulateChurchAggregateRoot(&c.ChurchAggregateRoot)
	return c
}

// ClassroomModelFromDomain creates a persistence model from a domain Classroom
func ClassroomModelFromDomain(c *school.Classroom) *ClassroomModel {
	m := &ClassroomModel{
		Name:     c.Name,
		MinAge:   c.MinAge,
		MaxAge:   c.MaxAge,
		Weekday:  int(c.Weekday),
		Room:     c.Room,
		IsActive: c.IsActive,
	}
	m.FromDomainChurchAggregateRoot(c.ChurchAggregateRoot)
	return m
}

// MagazineModel is the persistence model for lesson magazines
type MagazineModel struct {
	ChurchAggregateModel
	Title        string          `gorm:"type:varchar(200);not null"`
	Quarter      string          `gorm:"type:varchar(7);not null"`
	Audience     string          `gorm:"type:varchar(20);not null"`
	LessonCount  int             `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CoverKey     string          `gorm:"type:varchar(500)"`
	LessonTitles []string        `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (MagazineModel) TableName() string {
	return "magazines"
}

// ToDomain converts the persistence model to a domain Magazine
func (m *MagazineModel) ToDomain() *school.Magazine {
	mag := &school.Magazine{
		Title:        m.Title,
		Quarter:      m.Quarter,
		Audience:     school.Audience(m.Audience),
		LessonCount:  m.LessonCount,
		Price:        m.Price,
		CoverKey:     m.CoverKey,
		LessonTitles: m.LessonTitles,
	}
	m.PopulateChurchAggregateRoot(&mag.ChurchAggregateRoot)
	return mag
}

// MagazineModelFromDomain creates a persistence model from a domain Magazine
func MagazineModelFromDomain(mag *school.Magazine) *MagazineModel {
	m := &MagazineModel{
		Title:        mag.Title,
		Quarter:      mag.Quarter,
		Audience:     string(mag.Audience),
		LessonCount:  mag.LessonCount,
		Price:        mag.Price,
		CoverKey:     mag.CoverKey,
		LessonTitles: mag.LessonTitles,
	}
	m.FromDomainChurchAggregateRoot(mag.ChurchAggregateRoot)
	return m
}

// StudentModel is the persistence model for enrolled students
type StudentModel struct {
	ChurchAggregateModel
	Name        string     `gorm:"type:varchar(200);not null"`
	MemberID    *uuid.UUID `gorm:"type:uuid"`
	ClassroomID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Phone       string     `gorm:"type:varchar(30)"`
	Email       string     `gorm:"type:varchar(200);index"`
	BirthDate   *time.Time `gorm:"type:date"`
	IsActive    bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// ToDomain converts the persistence model to a domain Student
func (m *StudentModel) ToDomain() *school.Student {
	s := &school.Student{
		Name:        m.Name,
		MemberID:    m.MemberID,
		ClassroomID: m.ClassroomID,
		Phone:       m.Phone,
		Email:       m.Email,
		BirthDate:   m.BirthDate,
		IsActive:    m.IsActive,
	}
	m.PopulateChurchAggregateRoot(&s.ChurchAggregateRoot)
	return s
}

// StudentModelFromDomain creates a persistence model from a domain Student
func StudentModelFromDomain(s *school.Student) *StudentModel {
	m := &StudentModel{
		Name:        s.Name,
		MemberID:    uuidPtr(s.MemberID),
		ClassroomID: s.ClassroomID,
		Phone:       s.Phone,
		Email:       s.Email,
		BirthDate:   s.BirthDate,
		IsActive:    s.IsActive,
	}
	m.FromDomainChurchAggregateRoot(s.ChurchAggregateRoot)
	return m
}

// TeacherModel is the persistence model for Sunday school teachers
type TeacherModel struct {
	ChurchAggregateModel
	Name        string     `gorm:"type:varchar(200);not null"`
	MemberID    *uuid.UUID `gorm:"type:uuid"`
	UserID      *uuid.UUID `gorm:"type:uuid;index"`
	ClassroomID *uuid.UUID `gorm:"type:uuid"`
	Phone       string     `gorm:"type:varchar(30)"`
	Email       string     `gorm:"type:varchar(200);index"`
	IsActive    bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TeacherModel) TableName() string {
	return "teachers"
}

// ToDomain converts the persistence model to a domain Teacher
func (m *TeacherModel) ToDomain() *school.Teacher {
	t := &school.Teacher{
		Name:        m.Name,
		MemberID:    m.MemberID,
		UserID:      m.UserID,
		ClassroomID: m.ClassroomID,
		Phone:       m.Phone,
		Email:       m.Email,
		IsActive:    m.IsActive,
	}
	m.PopulateChurchAggregateRoot(&t.ChurchAggregateRoot)
	return t
}

// TeacherModelFromDomain creates a persistence model from a domain Teacher
func TeacherModelFromDomain(t *school.Teacher) *TeacherModel {
	m := &TeacherModel{
		Name:        t.Name,
		MemberID:    uuidPtr(t.MemberID),
		UserID:      uuidPtr(t.UserID),
		ClassroomID: uuidPtr(t.ClassroomID),
		Phone:       t.Phone,
		Email:       t.Email,
		IsActive:    t.IsActive,
	}
	m.FromDomainChurchAggregateRoot(t.ChurchAggregateRoot)
	return m
}

// LessonPlanModel is the persistence model for quarterly lesson plans
type LessonPlanModel struct {
	ChurchAggregateModel
	ClassroomID uuid.UUID          `gorm:"type:uuid;not null;index"`
	MagazineID  uuid.UUID          `gorm:"type:uuid;not null"`
	StartDate   time.Time          `gorm:"type:date;not null"`
	Weekday     int                `gorm:"not null"`
	EndDate     time.Time          `gorm:"type:date;not null"`
	Entries     []RosterEntryModel `gorm:"foreignKey:LessonPlanID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (LessonPlanModel) TableName() string {
	return "lesson_plans"
}

// ToDomain converts the persistence model to a domain LessonPlan
func (m *LessonPlanModel) ToDomain() *school.LessonPlan {
	p := &school.LessonPlan{
		ClassroomID: m.ClassroomID,
		MagazineID:  m.MagazineID,
		StartDate:   m.StartDate,
		Weekday:     time.Weekday(m.Weekday),
		EndDate:     m.EndDate,
		Entries:     make([]school.RosterEntry, len(m.Entries)),
	}
	for i := range m.Entries {
		p.Entries[i] = m.Entries[i].ToDomain()
	}
	m.PopulateChurchAggregateRoot(&p.ChurchAggregateRoot)
	return p
}

// LessonPlanModelFromDomain creates a persistence model from a domain LessonPlan
func LessonPlanModelFromDomain(p *school.LessonPlan) *LessonPlanModel {
	m := &LessonPlanModel{
		ClassroomID: p.ClassroomID,
		MagazineID:  p.MagazineID,
		StartDate:   p.StartDate,
		Weekday:     int(p.Weekday),
		EndDate:     p.EndDate,
		Entries:     make([]RosterEntryModel, len(p.Entries)),
	}
	for i := range p.Entries {
		m.Entries[i] = RosterEntryModelFromDomain(&p.Entries[i])
	}
	m.FromDomainChurchAggregateRoot(p.ChurchAggregateRoot)
	return m
}

// RosterEntryModel is one lesson of a plan with its teacher assignment
type RosterEntryModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	LessonPlanID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	LessonNumber  int        `gorm:"not null"`
	LessonDate    time.Time  `gorm:"type:date;not null"`
	LessonTitle   string     `gorm:"type:varchar(200)"`
	TeacherID     *uuid.UUID `gorm:"type:uuid;index"`
	NoClass       bool       `gorm:"not null;default:false"`
	NoClassReason string     `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (RosterEntryModel) TableName() string {
	return "lesson_roster_entries"
}

// ToDomain converts the persistence model to a domain RosterEntry
func (m *RosterEntryModel) ToDomain() school.RosterEntry {
	return school.RosterEntry{
		ID:            m.ID,
		LessonPlanID:  m.LessonPlanID,
		LessonNumber:  m.LessonNumber,
		LessonDate:    m.LessonDate,
		LessonTitle:   m.LessonTitle,
		TeacherID:     m.TeacherID,
		NoClass:       m.NoClass,
		NoClassReason: m.NoClassReason,
	}
}

// RosterEntryModelFromDomain creates a persistence model from a domain RosterEntry
func RosterEntryModelFromDomain(e *school.RosterEntry) RosterEntryModel {
	return RosterEntryModel{
		ID:            e.ID,
		LessonPlanID:  e.LessonPlanID,
		LessonNumber:  e.LessonNumber,
		LessonDate:    e.LessonDate,
		LessonTitle:   e.LessonTitle,
		TeacherID:     uuidPtr(e.TeacherID),
		NoClass:       e.NoClass,
		NoClassReason: e.NoClassReason,
	}
}

// AttendanceModel is the persistence model for one student's roll call mark
type AttendanceModel struct {
	BaseModel
	ChurchID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LessonPlanID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	LessonDate      time.Time       `gorm:"type:date;not null"`
	StudentID       uuid.UUID       `gorm:"type:uuid;not null"`
	Present         bool            `gorm:"not null;default:false"`
	BroughtBible    bool            `gorm:"not null;default:false"`
	BroughtMagazine bool            `gorm:"not null;default:false"`
	Offering        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (AttendanceModel) TableName() string {
	return "attendance_records"
}

// ToDomain converts the persistence model to a domain AttendanceRecord
func (m *AttendanceModel) ToDomain() school.AttendanceRecord {
	return school.AttendanceRecord{
		BaseEntity:      m.BaseModel.ToDomain(),
		ChurchID:        m.ChurchID,
		LessonPlanID:    m.LessonPlanID,
		LessonDate:      m.LessonDate,
		StudentID:       m.StudentID,
		Present:         m.Present,
		BroughtBible:    m.BroughtBible,
		BroughtMagazine: m.BroughtMagazine,
		Offering:        m.Offering,
	}
}

// AttendanceModelFromDomain creates a persistence model from a domain AttendanceRecord
func AttendanceModelFromDomain(r *school.AttendanceRecord) *AttendanceModel {
	m := &AttendanceModel{
		ChurchID:        r.ChurchID,
		LessonPlanID:    r.LessonPlanID,
		LessonDate:      r.LessonDate,
		StudentID:       r.StudentID,
		Present:         r.Present,
		BroughtBible:    r.BroughtBible,
		BroughtMagazine: r.BroughtMagazine,
		Offering:        r.Offering,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
