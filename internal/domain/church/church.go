package church

import (
	"regexp"
	"slices"
	"strings"

	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ChurchStatus represents whether the church account is in use
type ChurchStatus string

const (
	ChurchStatusActive   ChurchStatus = "active"
	ChurchStatusInactive ChurchStatus = "inactive"
)

// ClientType tells regular churches apart from resellers that buy magazines in bulk
type ClientType string

const (
	ClientTypeChurch   ClientType = "church"
	ClientTypeReseller ClientType = "reseller"
)

// IsValid checks if the client type is known
func (c ClientType) IsValid() bool {
	return c == ClientTypeChurch || c == ClientTypeReseller
}

var cnpjDigits = regexp.MustCompile(`\D`)

// Address is a Brazilian postal address
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Church is the tenant: every other aggregate is owned by one church
type Church struct {
	shared.BaseAggregateRoot
	Name       string
	CNPJ       string
	Email      string
	Phone      string
	Address    Address
	Modules    []identity.Module
	ClientType ClientType
	Status     ChurchStatus
	// SuperintendentID is the user heading the Sunday school
	SuperintendentID *uuid.UUID
}

// NewChurch creates an active church with the financial and school modules enabled
func NewChurch(name string) (*Church, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CHURCH_NAME", "Church name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_CHURCH_NAME", "Church name cannot exceed 200 characters")
	}
	c := &Church{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Modules:           []identity.Module{identity.ModuleFinancial, identity.ModuleSchool},
		ClientType:        ClientTypeChurch,
		Status:            ChurchStatusActive,
	}
	c.AddDomainEvent(&ChurchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChurchCreated, AggregateTypeChurch, c.ID, c.ID),
		Name:            name,
	})
	return c, nil
}

// SetCNPJ stores the 14-digit registry number, accepting formatted input
func (c *Church) SetCNPJ(cnpj string) error {
	digits := cnpjDigits.ReplaceAllString(cnpj, "")
	if digits != "" && !validCNPJ(digits) {
		return shared.NewDomainError("INVALID_CNPJ", "CNPJ is invalid")
	}
	c.CNPJ = digits
	c.Touch()
	return nil
}

// SetContact sets email, phone and address
func (c *Church) SetContact(email, phone string, addr Address) {
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Phone = strings.TrimSpace(phone)
	addr.State = strings.ToUpper(strings.TrimSpace(addr.State))
	addr.PostalCode = cnpjDigits.ReplaceAllString(addr.PostalCode, "")
	c.Address = addr
	c.Touch()
}

// SetModules replaces the enabled modules
func (c *Church) SetModules(modules []identity.Module) error {
	out := make([]identity.Module, 0, len(modules))
	for _, m := range modules {
		switch m {
		case identity.ModuleFinancial, identity.ModuleSchool, identity.ModuleStore:
		default:
			return shared.NewDomainError("INVALID_MODULE", "Unknown module: "+string(m))
		}
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	c.Modules = out
	c.Touch()
	c.IncrementVersion()
	return nil
}

// HasModule reports whether the module is enabled
func (c *Church) HasModule(m identity.Module) bool {
	return slices.Contains(c.Modules, m)
}

// SetClientType marks the church as regular client or reseller
func (c *Church) SetClientType(t ClientType) error {
	if !t.IsValid() {
		return shared.NewDomainError("INVALID_CLIENT_TYPE", "Client type must be church or reseller")
	}
	c.ClientType = t
	c.Touch()
	return nil
}

// Rename changes the display name
func (c *Church) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CHURCH_NAME", "Church name cannot be empty")
	}
	c.Name = name
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate disables the church account
func (c *Church) Deactivate() error {
	if c.Status == ChurchStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Church is already inactive")
	}
	c.Status = ChurchStatusInactive
	c.Touch()
	c.IncrementVersion()
	return nil
}

// AppointSuperintendent sets the Sunday school superintendent; nil clears it
func (c *Church) AppointSuperintendent(userID *uuid.UUID) {
	c.SuperintendentID = userID
	c.Touch()
}

// IsActive reports whether the church is active
func (c *Church) IsActive() bool {
	return c.Status == ChurchStatusActive
}

func validCNPJ(d string) bool {
	if len(d) != 14 {
		return false
	}
	allSame := true
	for i := 1; i < 14; i++ {
		if d[i] != d[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}
	check := func(n int) byte {
		weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}[13-n:]
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * weights[i]
		}
		r := sum % 11
		if r < 2 {
			return '0'
		}
		return byte('0' + 11 - r)
	}
	return check(12) == d[12] && check(13) == d[13]
}

const (
	AggregateTypeChurch    = "Church"
	EventTypeChurchCreated = "ChurchCreated"
)

// ChurchCreatedEvent is raised when a church signs up
type ChurchCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}
