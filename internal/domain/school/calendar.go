package school

import (
	"math"
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
)

// DefaultLessonCount is the number of lessons in a quarterly magazine
const DefaultLessonCount = 13

// ParseWeekday accepts English or Portuguese weekday names and 0-6 (Sunday = 0)
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "sunday", "domingo":
		return time.Sunday, nil
	case "1", "monday", "segunda", "segunda-feira":
		return time.Monday, nil
	case "2", "tuesday", "terca", "terça", "terça-feira":
		return time.Tuesday, nil
	case "3", "wednesday", "quarta", "quarta-feira":
		return time.Wednesday, nil
	case "4", "thursday", "quinta", "quinta-feira":
		return time.Thursday, nil
	case "5", "friday", "sexta", "sexta-feira":
		return time.Friday, nil
	case "6", "saturday", "sabado", "sábado":
		return time.Saturday, nil
	}
	return time.Sunday, shared.NewDomainError("INVALID_WEEKDAY", "Unknown weekday: "+s)
}

// FirstOccurrence returns start itself when it falls on weekday, otherwise the next such day
func FirstOccurrence(start time.Time, weekday time.Weekday) time.Time {
	start = dateOnly(start)
	offset := (int(weekday) - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}

// GenerateLessonDates produces count weekly lesson dates beginning on the first
// weekday on or after start. A non-positive count falls back to DefaultLessonCount.
func GenerateLessonDates(start time.Time, weekday time.Weekday, count int) []time.Time {
	if count <= 0 {
		count = DefaultLessonCount
	}
	first := FirstOccurrence(start, weekday)
	dates := make([]time.Time, count)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, 7*i)
	}
	return dates
}

// EndDate returns the last lesson date, zero for an empty calendar
func EndDate(dates []time.Time) time.Time {
	if len(dates) == 0 {
		return time.Time{}
	}
	return dates[len(dates)-1]
}

// Progress returns the share of lesson dates on or before today as a whole percentage,
// rounded half away from zero and capped at 100.
func Progress(dates []time.Time, today time.Time) int {
	total := len(dates)
	if total == 0 {
		return 0
	}
	today = dateOnly(today)
	done := 0
	for _, d := range dates {
		if !dateOnly(d).After(today) {
			done++
		}
	}
	return Percent(done, total)
}

// Percent computes round(part/total*100) capped to [0, 100]
func Percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	pct := int(math.Round(float64(part) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
