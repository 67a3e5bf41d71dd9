package church

import (
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MembershipStatus tracks a member's standing
type MembershipStatus string

const (
	MembershipActive      MembershipStatus = "active"
	MembershipInactive    MembershipStatus = "inactive"
	MembershipTransferred MembershipStatus = "transferred"
	MembershipDeceased    MembershipStatus = "deceased"
)

// IsValid checks if the status is known
func (s MembershipStatus) IsValid() bool {
	switch s {
	case MembershipActive, MembershipInactive, MembershipTransferred, MembershipDeceased:
		return true
	}
	return false
}

// Member is a person in the church's membership roll
type Member struct {
	shared.ChurchAggregateRoot
	FullName    string
	Email       string
	Phone       string
	BirthDate   *time.Time
	BaptismDate *time.Time
	Status      MembershipStatus
	ChurchRole  string // e.g. deacon, elder, choir
	Notes       string
}

// NewMember creates an active member
func NewMember(churchID uuid.UUID, fullName string) (*Member, error) {
	fullName = shared.NormalizePersonName(fullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_MEMBER_NAME", "Member name cannot be empty")
	}
	if len(fullName) > 200 {
		return nil, shared.NewDomainError("INVALID_MEMBER_NAME", "Member name cannot exceed 200 characters")
	}
	return &Member{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		FullName:            fullName,
		Status:              MembershipActive,
	}, nil
}

// Update replaces the editable fields
func (m *Member) Update(fullName, email, phone, churchRole, notes string) error {
	fullName = shared.NormalizePersonName(fullName)
	if fullName == "" {
		return shared.NewDomainError("INVALID_MEMBER_NAME", "Member name cannot be empty")
	}
	m.FullName = fullName
	m.Email = strings.ToLower(strings.TrimSpace(email))
	m.Phone = strings.TrimSpace(phone)
	m.ChurchRole = strings.TrimSpace(churchRole)
	m.Notes = notes
	m.Touch()
	m.IncrementVersion()
	return nil
}

// SetDates sets birth and baptism dates; baptism cannot precede birth or be in the future
func (m *Member) SetDates(birth, baptism *time.Time, now time.Time) error {
	if birth != nil && birth.After(now) {
		return shared.NewDomainError("INVALID_BIRTH_DATE", "Birth date cannot be in the future")
	}
	if baptism != nil {
		if baptism.After(now) {
			return shared.NewDomainError("INVALID_BAPTISM_DATE", "Baptism date cannot be in the future")
		}
		if birth != nil && baptism.Before(*birth) {
			return shared.NewDomainError("INVALID_BAPTISM_DATE", "Baptism date cannot be before birth date")
		}
	}
	m.BirthDate = birth
	m.BaptismDate = baptism
	m.Touch()
	return nil
}

// ChangeStatus moves the member to another membership status
func (m *Member) ChangeStatus(status MembershipStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_MEMBERSHIP_STATUS", "Unknown membership status")
	}
	if m.Status == MembershipDeceased {
		return shared.NewDomainError("INVALID_STATE", "Status of a deceased member cannot change")
	}
	m.Status = status
	m.Touch()
	m.IncrementVersion()
	return nil
}

// HasBirthdayIn reports whether the member's birthday falls in the month
func (m *Member) HasBirthdayIn(month time.Month) bool {
	return m.BirthDate != nil && m.BirthDate.Month() == month
}

// AgeOn returns the member's age in whole years, -1 when unknown
func (m *Member) AgeOn(day time.Time) int {
	if m.BirthDate == nil {
		return -1
	}
	b := *m.BirthDate
	age := day.Year() - b.Year()
	if day.Month() < b.Month() || (day.Month() == b.Month() && day.Day() < b.Day()) {
		age--
	}
	return age
}
