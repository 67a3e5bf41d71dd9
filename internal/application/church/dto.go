package church

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// AddressDTO is a postal address in requests and responses
type AddressDTO struct {
	Street     string `json:"street" binding:"max=200"`
	Number     string `json:"number" binding:"max=20"`
	District   string `json:"district" binding:"max=100"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"omitempty,len=2"`
	PostalCode string `json:"postal_code" binding:"max=9"`
}

func (a AddressDTO) toDomain() church.Address {
	return church.Address(a)
}

// ChurchRequest creates or updates a church
type ChurchRequest struct {
	Name       string     `json:"name" binding:"required,max=200"`
	CNPJ       string     `json:"cnpj" binding:"max=18"`
	Email      string     `json:"email" binding:"omitempty,email"`
	Phone      string     `json:"phone" binding:"max=20"`
	Address    AddressDTO `json:"address"`
	Modules    []string   `json:"modules" binding:"omitempty,dive,oneof=financial school store"`
	ClientType string     `json:"client_type" binding:"omitempty,oneof=church reseller"`
}

// SuperintendentRequest appoints or clears the Sunday school superintendent
type SuperintendentRequest struct {
	UserID *uuid.UUID `json:"user_id"`
}

// ChurchResponse represents a church in API responses
type ChurchResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	CNPJ             string     `json:"cnpj,omitempty"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Address          AddressDTO `json:"address"`
	Modules          []string   `json:"modules"`
	ClientType       string     `json:"client_type"`
	Status           string     `json:"status"`
	SuperintendentID *uuid.UUID `json:"superintendent_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToChurchResponse converts a church
func ToChurchResponse(c *church.Church) ChurchResponse {
	modules := make([]string, len(c.Modules))
	for i, m := range c.Modules {
		modules[i] = string(m)
	}
	return ChurchResponse{
		ID:               c.ID,
		Name:             c.Name,
		CNPJ:             c.CNPJ,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          AddressDTO(c.Address),
		Modules:          modules,
		ClientType:       string(c.ClientType),
		Status:           string(c.Status),
		SuperintendentID: c.SuperintendentID,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func toModules(values []string) []identity.Module {
	out := make([]identity.Module, len(values))
	for i, v := range values {
		out[i] = identity.Module(v)
	}
	return out
}

// ChurchListQuery is the query string of the church listing
type ChurchListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// MemberRequest creates or updates a member. Dates are YYYY-MM-DD.
type MemberRequest struct {
	FullName    string `json:"full_name" binding:"required,max=200"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone" binding:"max=20"`
	BirthDate   string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	BaptismDate string `json:"baptism_date" binding:"omitempty,datetime=2006-01-02"`
	Status      string `json:"status" binding:"omitempty,oneof=active inactive transferred deceased"`
	ChurchRole  string `json:"church_role" binding:"max=100"`
	Notes       string `json:"notes" binding:"max=2000"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	BirthDate   string    `json:"birth_date,omitempty"`
	BaptismDate string    `json:"baptism_date,omitempty"`
	Age         *int      `json:"age,omitempty"`
	Status      string    `json:"status"`
	ChurchRole  string    `json:"church_role,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToMemberResponse converts a member as seen on the given day
func ToMemberResponse(m *church.Member, today time.Time) MemberResponse {
	resp := MemberResponse{
		ID:          m.ID,
		FullName:    m.FullName,
		Email:       m.Email,
		Phone:       m.Phone,
		BirthDate:   formatDay(m.BirthDate),
		BaptismDate: formatDay(m.BaptismDate),
		Status:      string(m.Status),
		ChurchRole:  m.ChurchRole,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
	if age := m.AgeOn(today); age >= 0 {
		resp.Age = &age
	}
	return resp
}

// MemberListQuery is the query string of the member listing
type MemberListQuery struct {
	Search        string `form:"search"`
	Status        string `form:"status" binding:"omitempty,oneof=active inactive transferred deceased"`
	BirthdayMonth int    `form:"birthday_month" binding:"omitempty,min=1,max=12"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// BirthdayResponse is one line of the monthly birthday list
type BirthdayResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Day      int       `json:"day"`
	Turning  int       `json:"turning"`
	Phone    string    `json:"phone,omitempty"`
}

// MemberStatsResponse counts members per membership status
type MemberStatsResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
