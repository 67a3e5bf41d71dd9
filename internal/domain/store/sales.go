package store

import (
	"net/mail"
	"strings"

	"github.com/ecclesia/backend/internal/domain/shared"
)

// Salesperson is a store sales representative, matched to users by email
type Salesperson struct {
	shared.BaseEntity
	Name   string
	Email  string
	Region string
	Active bool
}

// NewSalesperson creates an active salesperson
func NewSalesperson(name, email, region string) (*Salesperson, error) {
	addr, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	return &Salesperson{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      addr,
		Region:     strings.TrimSpace(region),
		Active:     true,
	}, nil
}

// LeadStatus tracks the reactivation funnel
type LeadStatus string

const (
	LeadStatusOpen      LeadStatus = "open"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

// ReactivationLead is a former customer the sales team is trying to win back
type ReactivationLead struct {
	shared.BaseEntity
	Email      string
	ChurchName string
	Phone      string
	Status     LeadStatus
	Notes      string
}

// NewReactivationLead creates an open lead
func NewReactivationLead(email, churchName, phone string) (*ReactivationLead, error) {
	addr, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return &ReactivationLead{
		BaseEntity: shared.NewBaseEntity(),
		Email:      addr,
		ChurchName: strings.TrimSpace(churchName),
		Phone:      strings.TrimSpace(phone),
		Status:     LeadStatusOpen,
	}, nil
}

// Advance moves the lead to a new status; won and lost are final
func (l *ReactivationLead) Advance(status LeadStatus, notes string) error {
	if l.Status == LeadStatusWon || l.Status == LeadStatusLost {
		return shared.NewDomainError("INVALID_STATE", "Lead is already closed")
	}
	switch status {
	case LeadStatusContacted, LeadStatusWon, LeadStatusLost:
	default:
		return shared.NewDomainError("INVALID_LEAD_STATUS", "Unknown lead status")
	}
	l.Status = status
	if notes = strings.TrimSpace(notes); notes != "" {
		l.Notes = notes
	}
	l.Touch()
	return nil
}

// IsOpen reports whether the lead still routes its user to the reactivation page
func (l *ReactivationLead) IsOpen() bool {
	return l.Status == LeadStatusOpen || l.Status == LeadStatusContacted
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email address is invalid")
	}
	return strings.ToLower(addr.Address), nil
}
