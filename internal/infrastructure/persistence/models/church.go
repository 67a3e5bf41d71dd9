package models

import (
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// ChurchModel is the persistence model for the Church aggregate
type ChurchModel struct {
	AggregateModel
	Name       string `gorm:"type:varchar(200);not null"`
	CNPJ       string `gorm:"column:cnpj;type:varchar(14);index"`
	Email      string `gorm:"type:varchar(200)"`
	Phone      string `gorm:"type:varchar(30)"`
	Street     string `gorm:"type:varchar(200)"`
	Number     string `gorm:"type:varchar(20)"`
	District   string `gorm:"type:varchar(100)"`
	City       string `gorm:"type:varchar(100)"`
	State      string `gorm:"type:varchar(2)"`
	PostalCode string `gorm:"type:varchar(8)"`
	// Modules is the comma separated list of enabled modules
	Modules    string `gorm:"type:varchar(200);not null;default:''"`
	ClientType string `gorm:"type:varchar(20);not null;default:'church'"`
	Status     string `gorm:"type:varchar(20);not null;default:'active'"`
	// SuperintendentID references the user heading the Sunday school
	SuperintendentID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ChurchModel) TableName() string {
	return "churches"
}

// ToDomain converts the persistence model to a domain Church
func (m *ChurchModel) ToDomain() *church.Church {
	c := &church.Church{
		Name:  m.Name,
		CNPJ:  m.CNPJ,
		Email: m.Email,
		Phone: m.Phone,
		Address: church.Address{
			Street:     m.Street,
			Number:     m.Number,
			District:   m.District,
			City:       m.City,
			State:      m.State,
			PostalCode: m.PostalCode,
		},
		Modules:    splitModules(m.Modules),
		ClientType: church.ClientType(m.ClientType),
		Status:     church.ChurchStatus(m.Status),

		SuperintendentID: m.SuperintendentID,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// ChurchModelFromDomain creates a persistence model from a domain Church
func ChurchModelFromDomain(c *church.Church) *ChurchModel {
	m := &ChurchModel{
		Name:       c.Name,
		CNPJ:       c.CNPJ,
		Email:      c.Email,
		Phone:      c.Phone,
		Street:     c.Address.Street,
		Number:     c.Address.Number,
		District:   c.Address.District,
		City:       c.Address.City,
		State:      c.Address.State,
		PostalCode: c.Address.PostalCode,
		Modules:    joinModules(c.Modules),
		ClientType: string(c.ClientType),
		Status:     string(c.Status),

		SuperintendentID: uuidPtr(c.SuperintendentID),
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

func splitModules(s string) []identity.Module {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	modules := make([]identity.Module, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			modules = append(modules, identity.Module(p))
		}
	}
	return modules
}

func joinModules(modules []identity.Module) string {
	parts := make([]string, len(modules))
	for i, m := range modules {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}

// MemberModel is the persistence model for church members
type MemberModel struct {
	ChurchAggregateModel
	FullName    string     `gorm:"type:varchar(200);not null"`
	Email       string     `gorm:"type:varchar(200)"`
	Phone       string     `gorm:"type:varchar(30)"`
	BirthDate   *time.Time `gorm:"type:date"`
	BaptismDate *time.Time `gorm:"type:date"`
	Status      string     `gorm:"type:varchar(20);not null;default:'active'"`
	ChurchRole  string     `gorm:"type:varchar(100)"`
	Notes       string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts the persistence model to a domain Member
func (m *MemberModel) ToDomain() *church.Member {
	member := &church.Member{
		FullName:    m.FullName,
		Email:       m.Email,
		Phone:       m.Phone,
		BirthDate:   m.BirthDate,
		BaptismDate: m.BaptismDate,
		Status:      church.MembershipStatus(m.Status),
		ChurchRole:  m.ChurchRole,
		Notes:       m.Notes,
	}
	m.PopulateChurchAggregateRoot(&member.ChurchAggregateRoot)
	return member
}

// MemberModelFromDomain creates a persistence model from a domain Member
func MemberModelFromDomain(member *church.Member) *MemberModel {
	m := &MemberModel{
		FullName:    member.FullName,
		Email:       member.Email,
		Phone:       member.Phone,
		BirthDate:   member.BirthDate,
		BaptismDate: member.BaptismDate,
		Status:      string(member.Status),
		ChurchRole:  member.ChurchRole,
		Notes:       member.Notes,
	}
	m.FromDomainChurchAggregateRoot(member.ChurchAggregateRoot)
	return m
}

// uuidPtr copies an optional id so models never alias domain pointers
func uuidPtr(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
