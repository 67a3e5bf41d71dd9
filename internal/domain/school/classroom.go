package school

import (
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Classroom is a Sunday-school class (turma)
type Classroom struct {
	shared.ChurchAggregateRoot
	Name     string
	MinAge   int
	MaxAge   int
	Weekday  time.Weekday
	Room     string
	IsActive bool
}

// NewClassroom creates a class meeting on the given weekday
func NewClassroom(churchID uuid.UUID, name string, weekday time.Weekday) (*Classroom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CLASSROOM_NAME", "Classroom name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_CLASSROOM_NAME", "Classroom name cannot exceed 100 characters")
	}
	if weekday < time.Sunday || weekday > time.Saturday {
		return nil, shared.NewDomainError("INVALID_WEEKDAY", "Weekday must be between 0 (Sunday) and 6 (Saturday)")
	}
	return &Classroom{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		Name:                name,
		Weekday:             weekday,
		IsActive:            true,
	}, nil
}

// SetAgeRange sets the target age range, zero max means no upper limit
func (c *Classroom) SetAgeRange(minAge, maxAge int) error {
	if minAge < 0 || maxAge < 0 {
		return shared.NewDomainError("INVALID_AGE_RANGE", "Ages cannot be negative")
	}
	if maxAge != 0 && maxAge < minAge {
		return shared.NewDomainError("INVALID_AGE_RANGE", "Maximum age cannot be lower than minimum age")
	}
	c.MinAge = minAge
	c.MaxAge = maxAge
	c.Touch()
	return nil
}

// Update changes the descriptive fields
func (c *Classroom) Update(name, room string, weekday time.Weekday) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CLASSROOM_NAME", "Classroom name cannot be empty")
	}
	c.Name = name
	c.Room = strings.TrimSpace(room)
	c.Weekday = weekday
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate archives the classroom
func (c *Classroom) Deactivate() {
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
}

// Audience is the public a magazine is written for
type Audience string

const (
	AudienceChildren   Audience = "children"
	AudienceTeens      Audience = "teens"
	AudienceYouth      Audience = "youth"
	AudienceAdults     Audience = "adults"
	AudienceNewBelieve Audience = "new_believers"
)

// IsValid checks if the audience is known
func (a Audience) IsValid() bool {
	switch a {
	case AudienceChildren, AudienceTeens, AudienceYouth, AudienceAdults, AudienceNewBelieve:
		return true
	}
	return false
}

// Magazine is a quarterly curriculum magazine (revista)
type Magazine struct {
	shared.ChurchAggregateRoot
	Title        string
	Quarter      string // e.g. 2025-Q1
	Audience     Audience
	LessonCount  int
	Price        decimal.Decimal
	CoverKey     string // object storage key
	LessonTitles []string
}

// NewMagazine creates a magazine, defaulting to 13 lessons
func NewMagazine(churchID uuid.UUID, title, quarter string, audience Audience, lessonCount int) (*Magazine, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_MAGAZINE_TITLE", "Magazine title cannot be empty")
	}
	if !audience.IsValid() {
		return nil, shared.NewDomainError("INVALID_AUDIENCE", "Unknown magazine audience")
	}
	if !validQuarter(quarter) {
		return nil, shared.NewDomainError("INVALID_QUARTER", "Quarter must look like 2025-Q1")
	}
	if lessonCount <= 0 {
		lessonCount = DefaultLessonCount
	}
	if lessonCount > 53 {
		return nil, shared.NewDomainError("INVALID_LESSON_COUNT", "A magazine cannot have more than 53 lessons")
	}
	return &Magazine{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		Title:               title,
		Quarter:             quarter,
		Audience:            audience,
		LessonCount:         lessonCount,
		Price:               decimal.Zero,
	}, nil
}

// SetPrice sets the unit price
func (m *Magazine) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	m.Price = price.Round(2)
	m.Touch()
	return nil
}

// SetCover records the object storage key of the cover image
func (m *Magazine) SetCover(key string) {
	m.CoverKey = key
	m.Touch()
}

// SetLessonTitles sets the lesson titles; extra titles beyond LessonCount are rejected
func (m *Magazine) SetLessonTitles(titles []string) error {
	if len(titles) > m.LessonCount {
		return shared.NewDomainError("TOO_MANY_LESSONS", "More lesson titles than lessons in the magazine")
	}
	m.LessonTitles = titles
	m.Touch()
	return nil
}

// LessonTitle returns the title of lesson n (1-based) if known
func (m *Magazine) LessonTitle(n int) string {
	if n < 1 || n > len(m.LessonTitles) {
		return ""
	}
	return m.LessonTitles[n-1]
}

func validQuarter(q string) bool {
	if len(q) != 7 || q[4:6] != "-Q" {
		return false
	}
	for _, r := range q[:4] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return q[6] >= '1' && q[6] <= '4'
}
