package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is an entity that records domain events until the
// application service publishes them.
type AggregateRoot interface {
	Entity
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version       int
	storedVersion int
	domainEvents  []DomainEvent
}

func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// StoredVersion is the version last read from or written to storage, zero
// for an aggregate that was never stored
func (a *BaseAggregateRoot) StoredVersion() int {
	return a.storedVersion
}

// MarkStored records Version as the version storage now holds
func (a *BaseAggregateRoot) MarkStored() {
	a.storedVersion = a.Version
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// ChurchAggregateRoot is an aggregate root owned by a single church (the tenant)
type ChurchAggregateRoot struct {
	BaseAggregateRoot
	ChurchID  uuid.UUID
	CreatedBy *uuid.UUID
}

// NewChurchAggregateRoot creates a new church-scoped aggregate root
func NewChurchAggregateRoot(churchID uuid.UUID) ChurchAggregateRoot {
	return ChurchAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		ChurchID:          churchID,
	}
}

// SetCreatedBy sets the creator user ID
func (c *ChurchAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	c.CreatedBy = &userID
}

// BelongsTo reports whether the aggregate is owned by the given church
func (c *ChurchAggregateRoot) BelongsTo(churchID uuid.UUID) bool {
	return c.ChurchID == churchID
}
